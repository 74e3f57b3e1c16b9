package response

import (
	"github.com/vietanh2810/volunteer-api/internal/domain"
)

// Message is the `{message}` envelope for writes that return no resource.
type Message struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type EventCreatedResponse struct {
	Message string       `json:"message"`
	EventID uint         `json:"event_id"`
	Event   domain.Event `json:"event"`
}

type SignupResponse struct {
	Message string        `json:"message"`
	Signup  domain.Signup `json:"signup"`
}

type WithdrawResponse struct {
	Message string `json:"message"`
	Removed bool   `json:"removed"`
}
