package model

import (
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "Мужской"
	GenderFemale Gender = "Женский"
)

// User is created once at registration and never changes afterwards.
type User struct {
	ID        uuid.UUID `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Phone     string    `db:"phone" json:"phone"`
	Gender    Gender    `db:"gender" json:"gender"`
	BirthDate time.Time `db:"birth_date" json:"birth_date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type RegisterRequest struct {
	FullName  string `json:"full_name" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Gender    string `json:"gender" binding:"required"`
	BirthDate string `json:"birth_date" binding:"required,datetime=2006-01-02"`
}

type LoginRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}
