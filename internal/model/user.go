package model

import "time"

// Status is the coarse account role stored on logininfo.
type Status string

const (
	StatusUser  Status = "user"
	StatusAdmin Status = "admin"
)

type User struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	PhoneNumber string  `json:"phone_number"`
	Email       string  `json:"email"`
	Password    string  `json:"-"`
	Status      Status  `json:"status"`
	Balance     float32 `json:"balance"`
}

// UserInfo is the public profile projection.
type UserInfo struct {
	UserID      int     `json:"user_id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	PhoneNumber string  `json:"phonenumber"`
	Balance     float32 `json:"balance"`
}

// TempUser is a pending signup awaiting OTP verification.
type TempUser struct {
	TempID   string `json:"temp_id"`
	Name     string `json:"name"`
	Number   string `json:"number"`
	Email    string `json:"email"`
	Password string `json:"-"`
	Code     string `json:"-"`
}

type Session struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	Data      []byte    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
