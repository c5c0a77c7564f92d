package models

import "time"

type User struct {
	ID       string  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email    *string `gorm:"column:email;type:varchar(255);uniqueIndex" json:"email,omitempty"`
	Username *string `gorm:"column:username;type:varchar(100);uniqueIndex" json:"username,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (User) TableName() string { return "users" }
