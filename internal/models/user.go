package models

type UserRole string

const (
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

// User is the identity attached to requests. Sourced from Casdoor when
// auth is configured, otherwise from the development header.
type User struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name"`
	Role        UserRole `json:"role"`
}
