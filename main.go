package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/adminhub/rbac-console/cron"
	"github.com/adminhub/rbac-console/db"
	"github.com/adminhub/rbac-console/redis"
	"github.com/adminhub/rbac-console/routes"
)

func main() {
	app := fiber.New()

	db.Migrate()
	db.Seed()
	redis.InitRedis()
	cron.StartJanitor()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	api := app.Group("/api/v1")
	routes.SetupAuthRoutes(api)
	routes.SetupUserRoutes(api)
	routes.SetupRBACRoutes(api)
	routes.SetupAdminRoutes(api)
	routes.SetupDispatchRoutes(api)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	log.Printf("Server listening on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
