package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin        Role = "admin"
	RoleOrganization Role = "organization"
	RoleRespondent   Role = "respondent"
)

type User struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       Role       `json:"role"`
	Age        *int       `json:"age,omitempty"`
	Department string     `json:"department,omitempty"`
	Occupation string     `json:"occupation,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

// Profile returns the demographic slice used by targeting rules.
func (u *User) Profile() Profile {
	return Profile{
		Age:        u.Age,
		Department: u.Department,
		Occupation: u.Occupation,
	}
}
