package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Audit actions
const (
	ActionSubmitted     = "SUBMITTED"
	ActionFpcApproved   = "FPC_APPROVED"
	ActionFpcRejected   = "FPC_REJECTED"
	ActionHodApproved   = "HOD_APPROVED"
	ActionHodRejected   = "HOD_REJECTED"
	ActionNocGenerated  = "NOC_GENERATED"
	ActionStaffCreated  = "STAFF_CREATED"
	ActionPasswordReset = "PASSWORD_RESET"
)

// AuditLog records every state transition and account action with optional
// structured metadata.
type AuditLog struct {
	gorm.Model
	ApplicationID uint           `gorm:"index" json:"applicationId"`
	ActorID       uint           `json:"actorId"`
	Action        string         `gorm:"size:30;not null;index" json:"action"`
	Note          string         `gorm:"type:text;default:''" json:"note"`
	Metadata      datatypes.JSON `json:"metadata,omitempty"`
	IsDeleted     bool           `gorm:"default:false" json:"-"`
}
