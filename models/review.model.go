package models

import "gorm.io/gorm"

// Review stages
const (
	StageFPC = 1
	StageHOD = 2
)

// StageReview is one reviewer decision at one stage. Rows are append-only;
// the application's stage columns always mirror the accepted row for a stage.
type StageReview struct {
	gorm.Model
	ApplicationID uint   `gorm:"not null;index" json:"applicationId"`
	ReviewerID    uint   `gorm:"not null" json:"reviewerId"`
	Stage         int    `gorm:"not null" json:"stage"` // 1 = FPC, 2 = HOD
	Decision      string `gorm:"size:20;not null" json:"decision"`
	Comments      string `gorm:"type:text;default:''" json:"comments"`
}
