package db

import "time"

type Application struct {
	ID         string    `json:"-"`
	Token      string    `json:"token"`
	Name       string    `json:"name"`
	ChatsCount int       `json:"chats_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Chat struct {
	ID            string    `json:"-"`
	ApplicationID string    `json:"-"`
	Number        int64     `json:"number"`
	MessagesCount int       `json:"messages_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Message struct {
	ID        string    `json:"-"`
	ChatID    string    `json:"-"`
	Number    int64     `json:"number"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
