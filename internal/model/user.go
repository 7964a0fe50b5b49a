package model

import (
	"time"
)

type UserRole string

const (
	Player UserRole = "player"
	Admin  UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      UserRole  `gorm:"size:20;default:'player'" json:"role"`
	Avatar    string    `gorm:"size:255" json:"avatar"`
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `json:"lastLogin"`
	LastSeen  time.Time `json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
