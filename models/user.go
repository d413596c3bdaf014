package models

import "time"

// User is a registered shopper. Passwords are stored bcrypt-hashed only.
type User struct {
	UserID       string    `json:"userid" bson:"userid"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at"`
}
