package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Built-in roles seeded at startup. They are protected from deletion.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
	RoleUser  = "user"
)

type Role struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"unique"`
	Description string         `json:"description"`
	Protected   bool           `json:"protected"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
	Permissions []Permission   `json:"permissions,omitempty" gorm:"many2many:role_permissions;"`
}

// HasPermission reports whether the role's permission set contains the named
// permission. Names are stored lowercase; the comparison ignores case so the
// server middleware and the capability client apply one rule.
func (r *Role) HasPermission(name string) bool {
	for _, permission := range r.Permissions {
		if strings.EqualFold(permission.Name, name) {
			return true
		}
	}
	return false
}

// PermissionNames returns the names of the role's permissions, in set order.
func (r *Role) PermissionNames() []string {
	names := make([]string, 0, len(r.Permissions))
	for _, permission := range r.Permissions {
		names = append(names, permission.Name)
	}
	return names
}
