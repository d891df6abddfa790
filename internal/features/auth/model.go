package auth

import (
	"time"

	"mineaction/internal/common/models"
)

// SessionRecord backs a bearer token. Deleting it signs the token out.
type SessionRecord struct {
	ID        string          `bson:"_id"`
	UID       string          `bson:"uid"`
	Identity  models.Identity `bson:"identity"`
	CreatedAt time.Time       `bson:"created_at"`
	ExpiresAt time.Time       `bson:"expires_at"`
}

type LoginResponse struct {
	URL string `json:"url"`
}

type CallbackRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

type AuthResponse struct {
	Token   string          `json:"token"`
	Session *models.Session `json:"session"`
}

type SetRoleRequest struct {
	Role string `json:"role"`
}

type LogoutResponse struct {
	EndSessionURL string `json:"end_session_url,omitempty"`
}
