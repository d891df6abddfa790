package activity

import (
	"mineaction/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ActivityTypes = []string{"Drilling", "Blasting", "Hauling", "Excavation", "Demolition", "Clearance", "Survey", "Training", "Other"}
	Shifts        = []string{"Morning", "Afternoon", "Night"}
)

// Activity is one logged field operation of a project.
type Activity struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProjectID string             `json:"project_id" bson:"project_id"`
	Date      models.FlexTime    `json:"date" bson:"date"`
	Type      string             `json:"type" bson:"type"`
	Shift     string             `json:"shift" bson:"shift"`
	Crew      string             `json:"crew" bson:"crew"`
	Remarks   string             `json:"remarks,omitempty" bson:"remarks,omitempty"`
	CreatedBy string             `json:"created_by" bson:"created_by"`
	CreatedAt models.FlexTime    `json:"created_at" bson:"created_at"`
	UpdatedAt *models.FlexTime   `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

type CreateActivityRequest struct {
	Date    models.FlexTime `json:"date"`
	Type    string          `json:"type"`
	Shift   string          `json:"shift"`
	Crew    string          `json:"crew"`
	Remarks string          `json:"remarks"`
}

var updateSchema = models.Schema{
	"date":    {Kind: models.KindDate, Required: true},
	"type":    {Kind: models.KindEnum, Enum: ActivityTypes, Required: true},
	"shift":   {Kind: models.KindEnum, Enum: Shifts, Required: true},
	"crew":    {Kind: models.KindString, Required: true},
	"remarks": {Kind: models.KindString},
}
