package models

import (
	"time"

	"gorm.io/gorm"
)

// Stage status values. The overall application status is never stored; it is
// derived from the two stage columns and the presence of the NOC document.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusNocReady = "NOC_READY"
)

// NOC category values
const (
	NocTypeSpecific = "Specific"
	NocTypeGeneric  = "Generic"
)

// Offer type values
const (
	OfferTypeOnCampus  = "ON_CAMPUS"
	OfferTypeOffCampus = "OFF_CAMPUS"
)

// Internship type values
const (
	InternshipPlain   = "Internship"
	InternshipWithPPO = "Internship with PPO"
)

type Application struct {
	gorm.Model
	RegistrationNumber string `gorm:"size:30;not null;index" json:"registrationNumber"`
	Name               string `gorm:"not null" json:"name"`
	Email              string `gorm:"not null;index" json:"email"`
	Mobile             string `gorm:"size:15" json:"mobile"`
	Department         string `json:"department"`
	Section            string `json:"section"`
	Semester           int    `json:"semester"`
	Gender             string `json:"gender"`

	NocType        string `gorm:"size:20;not null" json:"nocType"` // Specific, Generic
	OfferType      string `gorm:"size:20" json:"offerType"`        // ON_CAMPUS, OFF_CAMPUS
	InternshipType string `gorm:"size:30" json:"internshipType"`

	Cgpa         string `gorm:"size:10" json:"cgpa"`
	Backlogs     string `gorm:"size:10" json:"backlogs"`
	CompanyName  string `json:"companyName"`
	CompanyCity  string `json:"companyCity"`
	CompanyState string `json:"companyState"`
	CompanyPin   string `gorm:"size:10" json:"companyPin"`
	HrdEmail     string `json:"hrdEmail"`
	HrdNumber    string `gorm:"size:15" json:"hrdNumber"`

	Stipend    float64   `json:"stipend"`
	PpoPackage *float64  `json:"ppoPackage"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`

	OfferLetterPath string `json:"offerLetterPath"`
	MailCopyPath    string `gorm:"not null" json:"mailCopyPath"`

	Stage1Status string `gorm:"size:20;default:'PENDING';index" json:"stage1Status"`
	Stage2Status string `gorm:"size:20;default:'PENDING';index" json:"stage2Status"`
	NocPath      string `json:"nocPath"`

	// Derived, never persisted. Populated by AfterFind and by the workflow
	// transitions so every response carries a consistent value.
	Status string `gorm:"-" json:"status"`

	IsDeleted bool `gorm:"default:false" json:"-"`
}

// OverallStatus derives the application status from the two stage columns and
// the NOC document reference.
func (a *Application) OverallStatus() string {
	if a.Stage1Status == StatusRejected || a.Stage2Status == StatusRejected {
		return StatusRejected
	}
	if a.Stage2Status == StatusApproved && a.NocPath != "" {
		return StatusNocReady
	}
	return StatusPending
}

// AfterFind keeps the derived status in sync on every read.
func (a *Application) AfterFind(tx *gorm.DB) error {
	a.Status = a.OverallStatus()
	return nil
}
