package model

import "time"

type Message struct {
	ID        int       `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver"`
}

type NewMessage struct {
	UserID    string    `json:"userId" binding:"required"`
	Content   string    `json:"content" binding:"required"`
	Timestamp time.Time `json:"timestamp"`
	Sender    string    `json:"sender" binding:"required"`
}
