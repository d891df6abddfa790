package action

import (
	"time"

	"mineaction/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusOverdue    = "Overdue"

	EvidencePhoto = "photo"
	EvidenceFile  = "file"
)

var (
	Priorities    = []string{"Low", "Medium", "High", "Critical"}
	Statuses      = []string{StatusPending, StatusInProgress, StatusCompleted, StatusOverdue}
	EvidenceTypes = []string{EvidencePhoto, EvidenceFile}
)

type ActionComment struct {
	ID        string          `json:"id" bson:"id"`
	Content   string          `json:"content" bson:"content"`
	CreatedBy string          `json:"created_by" bson:"created_by"`
	CreatedAt models.FlexTime `json:"created_at" bson:"created_at"`
}

type ActionEvidence struct {
	ID        string          `json:"id" bson:"id"`
	Type      string          `json:"type" bson:"type"`
	URL       string          `json:"url" bson:"url"`
	Filename  string          `json:"filename" bson:"filename"`
	Path      string          `json:"path,omitempty" bson:"path,omitempty"` // object key in the evidence bucket
	CreatedBy string          `json:"created_by" bson:"created_by"`
	CreatedAt models.FlexTime `json:"created_at" bson:"created_at"`
}

// Action is a follow-up item raised against an activity.
type Action struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ActivityID        string             `json:"activity_id" bson:"activity_id"`
	Issue             string             `json:"issue" bson:"issue"`
	ResponsiblePerson string             `json:"responsible_person" bson:"responsible_person"`
	DueDate           models.FlexTime    `json:"due_date" bson:"due_date"`
	Priority          string             `json:"priority" bson:"priority"`
	Status            string             `json:"status" bson:"status"`
	Comments          []ActionComment    `json:"comments" bson:"comments"`
	Evidence          []ActionEvidence   `json:"evidence" bson:"evidence"`
	CreatedBy         string             `json:"created_by" bson:"created_by"`
	CreatedAt         models.FlexTime    `json:"created_at" bson:"created_at"`
	UpdatedAt         *models.FlexTime   `json:"updated_at,omitempty" bson:"updated_at,omitempty"`

	// DisplayStatus is computed per response and never stored.
	DisplayStatus string `json:"display_status" bson:"-"`
}

// PastDue reports whether an open action was due before the start of the
// day now falls on.
func PastDue(a *Action, now time.Time) bool {
	if a.Status == StatusCompleted || a.DueDate.IsZero() {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return a.DueDate.Before(today)
}

// displayStatus reports Overdue for a past-due action. The stored status is
// left alone.
func displayStatus(a *Action, now time.Time) string {
	if PastDue(a, now) {
		return StatusOverdue
	}
	return a.Status
}

type CreateActionRequest struct {
	Issue             string          `json:"issue"`
	ResponsiblePerson string          `json:"responsible_person"`
	DueDate           models.FlexTime `json:"due_date"`
	Priority          string          `json:"priority"`
	Status            string          `json:"status"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type AddCommentRequest struct {
	Content string `json:"content"`
}

// EvidenceUpload is one file received for an action.
type EvidenceUpload struct {
	Type        string
	Filename    string
	ContentType string
	Data        []byte
}

var updateSchema = models.Schema{
	"issue":              {Kind: models.KindString, Required: true},
	"responsible_person": {Kind: models.KindString, Required: true},
	"due_date":           {Kind: models.KindDate, Required: true},
	"priority":           {Kind: models.KindEnum, Enum: Priorities, Required: true},
	"status":             {Kind: models.KindEnum, Enum: Statuses, Required: true},
}
