package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditLogType string

const (
	AuditTypeAction   AuditLogType = "action"
	AuditTypeActivity AuditLogType = "activity"
	AuditTypeProject  AuditLogType = "project"
)

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

// AuditLog is an append-only record of a mutation.
type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type      AuditLogType       `bson:"type" json:"type"`
	Action    AuditAction        `bson:"action" json:"action"`
	EntityID  string             `bson:"entity_id" json:"entity_id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	UserName  string             `bson:"user_name" json:"user_name"`
	Timestamp FlexTime           `bson:"timestamp" json:"timestamp"`
	Changes   []Change           `bson:"changes,omitempty" json:"changes,omitempty"`
	Details   string             `bson:"details,omitempty" json:"details,omitempty"`
}
