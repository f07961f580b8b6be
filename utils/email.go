package utils

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/gomail.v2"
)

func SendEmail(to, subject, body string) error {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))

	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("EMAIL_USER"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(
		os.Getenv("SMTP_HOST"),
		port,
		os.Getenv("EMAIL_USER"),
		os.Getenv("EMAIL_PASS"),
	)

	return d.DialAndSend(m)
}

// SendCredentialsEmail mails a newly created account its temporary password.
func SendCredentialsEmail(to, name, password string) error {
	subject := "Your admin console account"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>An account has been created for you on the admin console.</p>
		<p><strong>Email:</strong> %s<br/>
		<strong>Temporary password:</strong> %s</p>
		<p>Please sign in and change your password.</p>
	`, name, to, password)

	return SendEmail(to, subject, body)
}
