package models

// UpdateUserRequest is the body of PATCH /users/me
type UpdateUserRequest struct {
	FirstName *string                `json:"first_name,omitempty" example:"John"`
	LastName  *string                `json:"last_name,omitempty" example:"Doe"`
	UserData  map[string]interface{} `json:"user_data,omitempty" swaggertype:"object"`
}

// ExistsResponse reports whether a user record exists
type ExistsResponse struct {
	TelegramID string `json:"telegram_id" example:"279058397"`
	Exists     bool   `json:"exists" example:"true"`
}
