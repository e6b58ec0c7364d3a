package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Username string `json:"username" gorm:"unique"`
	Password string `json:"-"`
	Role     string `json:"role"` // "admin", "editor"
}

func (User) TableName() string { return "users" }
