package models

import "time"

// User is the persisted profile of a Telegram user
// @Description Telegram user profile with application data
type User struct {
	TelegramID   string                 `json:"telegram_id" example:"279058397" description:"Telegram user id"`
	FirstName    string                 `json:"first_name" example:"John" description:"First name"`
	LastName     string                 `json:"last_name" example:"Doe" description:"Last name"`
	Username     string                 `json:"username" example:"johndoe" description:"Telegram username"`
	LanguageCode string                 `json:"language_code" example:"en" description:"IETF language tag"`
	UserData     map[string]interface{} `json:"user_data" swaggertype:"object" description:"Application payload, at most 10 KiB serialized"`
	CreatedAt    time.Time              `json:"created_at" example:"2024-03-15T14:30:00Z" description:"Creation time"`
	UpdatedAt    time.Time              `json:"updated_at" example:"2024-03-15T14:30:00Z" description:"Last update time"`
}

// ProfileHints are the profile fields decoded from verified init data.
type ProfileHints struct {
	FirstName    string
	LastName     string
	Username     string
	LanguageCode string
}

// UserPatch is a partial update. Nil fields are left untouched.
type UserPatch struct {
	FirstName *string
	LastName  *string
	UserData  map[string]interface{}
}
