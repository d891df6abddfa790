package project

import (
	"mineaction/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ProjectTypes    = []string{"Demining", "Risk Education", "Victim Assistance", "Advocacy", "Survey", "Other"}
	ProjectStatuses = []string{"Planning", "Active", "On Hold", "Completed", "Cancelled"}
	ProjectRoles    = []string{"Project Manager", "Field Supervisor", "Technical Advisor", "Team Member", "Observer"}
)

const (
	RoleProjectManager = "Project Manager"

	StatusPlanning = "Planning"
	StatusActive   = "Active"
)

// ProjectUser is a team member embedded in the project document.
type ProjectUser struct {
	ID          string `json:"id" bson:"id"`
	Email       string `json:"email" bson:"email"`
	DisplayName string `json:"display_name,omitempty" bson:"display_name,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty" bson:"photo_url,omitempty"`
	Role        string `json:"role" bson:"role"`
}

type Project struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Type        string             `json:"type" bson:"type"`
	Location    string             `json:"location" bson:"location"`
	StartDate   models.FlexTime    `json:"start_date" bson:"start_date"`
	EndDate     *models.FlexTime   `json:"end_date,omitempty" bson:"end_date,omitempty"`
	Status      string             `json:"status" bson:"status"`
	CreatedBy   string             `json:"created_by" bson:"created_by"`
	CreatedAt   models.FlexTime    `json:"created_at" bson:"created_at"`
	UpdatedAt   *models.FlexTime   `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
	Users       []ProjectUser      `json:"users" bson:"users"`
}

type CreateProjectRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Type        string           `json:"type"`
	Location    string           `json:"location"`
	StartDate   models.FlexTime  `json:"start_date"`
	EndDate     *models.FlexTime `json:"end_date"`
	Status      string           `json:"status"`
	Users       []ProjectUser    `json:"users"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role"`
}

// updateSchema lists the fields UpdateProject accepts. Team changes go
// through the user operations.
var updateSchema = models.Schema{
	"name":        {Kind: models.KindString, Required: true},
	"description": {Kind: models.KindString},
	"type":        {Kind: models.KindEnum, Enum: ProjectTypes, Required: true},
	"location":    {Kind: models.KindString, Required: true},
	"start_date":  {Kind: models.KindDate, Required: true},
	"end_date":    {Kind: models.KindDate},
	"status":      {Kind: models.KindEnum, Enum: ProjectStatuses, Required: true},
}
