package models

import "time"

type Role string

const (
	RoleStudent Role = "student"
	RoleOwner   Role = "owner"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"column:name;size:100;not null" json:"name"`
	Email         string    `gorm:"column:email;size:100;uniqueIndex;not null" json:"email"`
	Password      string    `gorm:"column:password;size:255;not null" json:"-"` // bcrypt hash
	Role          Role      `gorm:"column:role;size:20;not null" json:"role"`
	ContactNumber *string   `gorm:"column:contact_number;size:30" json:"contact_number,omitempty"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// Identity is the authenticated caller for the duration of one request.
type Identity struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
