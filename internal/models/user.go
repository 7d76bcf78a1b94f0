package models

import "fmt"

// Role determines which profile entity (Student xor Instructor) exists
// for a user. It is fixed at registration and never changes.
type Role int

const (
	RoleStudent    Role = 1
	RoleInstructor Role = 2
)

// ParseRole converts the wire representation ("student"/"instructor")
// into a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "student":
		return RoleStudent, nil
	case "instructor":
		return RoleInstructor, nil
	default:
		return 0, fmt.Errorf("%w: role must be \"student\" or \"instructor\"", ErrValidation)
	}
}

// String returns the wire representation of the role.
func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "student"
	case RoleInstructor:
		return "instructor"
	default:
		return "unknown"
	}
}

// MarshalText makes Role serialize as its wire name in JSON.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// User represents an account in the system
type User struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	FullName     string `json:"fullName"`
	PasswordHash string `json:"-"` // Never serialize password hash
	Role         Role   `json:"role"`
}

// Student is the role profile attached 1:1 to a User with RoleStudent
type Student struct {
	ID     int   `json:"studentId"`
	UserID int   `json:"userId"`
	User   *User `json:"user,omitempty"`
}

// Instructor is the role profile attached 1:1 to a User with RoleInstructor
type Instructor struct {
	ID     int   `json:"instructorId"`
	UserID int   `json:"userId"`
	User   *User `json:"user,omitempty"`
}

// Identity is the per-request caller identity resolved by the auth
// middleware: the user, its role and the ID of its role profile
// (students.id or instructors.id depending on Role).
type Identity struct {
	UserID    int
	Role      Role
	ProfileID int
}

// RegisterRequest represents a request to create an account
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// LoginRequest represents a request to authenticate
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
