package user

import "time"

const (
	RoleAdmin    = "admin"
	RoleReviewer = "reviewer"
)

type User struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"size:255;not null"`
	Email        string    `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:text;not null"`
	Role         string    `gorm:"type:varchar(16)"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}
