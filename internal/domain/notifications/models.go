package notifications

import "time"

type Notification struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	IsRead    bool       `json:"isRead"`
	ReadAt    *time.Time `json:"readAt"`
	CreatedAt time.Time  `json:"createdAt"`
}

type Page struct {
	Items       []Notification `json:"notifications"`
	Total       int            `json:"total"`
	UnreadCount int            `json:"unreadCount"`
}

type pushedNotification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type unreadCountPayload struct {
	Count int `json:"count"`
}
