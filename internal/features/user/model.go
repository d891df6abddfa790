package user

import (
	"mineaction/internal/common/models"
)

// UserRecord is the stored profile and application role of a signed-in
// identity. The document id is the provider uid.
type UserRecord struct {
	UID         string          `json:"uid" bson:"_id"`
	Email       string          `json:"email" bson:"email"`
	DisplayName string          `json:"display_name" bson:"display_name"`
	PhotoURL    string          `json:"photo_url,omitempty" bson:"photo_url,omitempty"`
	Role        *string         `json:"role" bson:"role"`
	CreatedAt   models.FlexTime `json:"created_at" bson:"created_at"`
}

type SetRoleRequest struct {
	Role string `json:"role"`
}
