package model

import (
	"time"

	"github.com/vesselworks/dashboard/internal/pkg/equipment"
	"gorm.io/datatypes"
)

type ProjectStatus string

const (
	StatusActive    ProjectStatus = "active"
	StatusDelayed   ProjectStatus = "delayed"
	StatusOnTrack   ProjectStatus = "on-track"
	StatusCompleted ProjectStatus = "completed"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusActive, StatusDelayed, StatusOnTrack, StatusCompleted:
		return true
	}
	return false
}

// DateLayout is the layout of every date-only field (deadline, completed date, letter dates).
const DateLayout = "2006-01-02"

type Project struct {
	ID       string `gorm:"type:text;primaryKey" json:"id"`
	FirmID   string `gorm:"type:text;not null;index" json:"firm_id"`
	Name     string `gorm:"type:text;not null" json:"name"`
	Client   string `gorm:"type:text;not null;index" json:"client"`
	Location string `gorm:"type:text" json:"location"`
	Manager  string `gorm:"type:text;index" json:"manager"`
	PONumber string `gorm:"column:po_number;type:text" json:"po_number"`

	// Deadline is a YYYY-MM-DD date; it may be empty or malformed.
	Deadline      string        `gorm:"type:text" json:"deadline"`
	Status        ProjectStatus `gorm:"type:text;not null;default:'active';check:status IN ('active','delayed','on-track','completed')" json:"status"`
	Progress      int           `gorm:"type:integer;not null;default:0;check:progress BETWEEN 0 AND 100" json:"progress"`
	CompletedDate string        `gorm:"type:text" json:"completed_date,omitempty"`

	ClientEmail   string `gorm:"type:text" json:"client_email,omitempty"`
	ClientContact string `gorm:"type:text" json:"client_contact,omitempty"`

	Documents            datatypes.JSONType[Documents]            `gorm:"type:jsonb" swaggertype:"object" json:"documents"`
	RecommendationLetter datatypes.JSONType[RecommendationLetter] `gorm:"type:jsonb" swaggertype:"object" json:"recommendation_letter"`

	// Derived from the project's equipment records on load; never persisted.
	EquipmentBreakdown equipment.Breakdown `gorm:"-" json:"equipment_breakdown"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Project <-> Equipment
	Equipment []Equipment `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Project) TableName() string { return "projects" }

func (p Project) IsCompleted() bool { return p.Status == StatusCompleted }

// Letter returns the recommendation letter sub-record; an absent record reads as not-requested.
func (p Project) Letter() RecommendationLetter {
	l := p.RecommendationLetter.Data()
	if l.Status == "" {
		l.Status = LetterNotRequested
	}
	return l
}

// DeadlineDate parses the deadline. ok is false when it is empty or malformed.
func (p Project) DeadlineDate() (t time.Time, ok bool) {
	if p.Deadline == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, p.Deadline, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Clone returns a copy that shares no mutable state with p.
func (p Project) Clone() Project {
	p.EquipmentBreakdown = p.EquipmentBreakdown.Clone()
	p.Equipment = nil
	return p
}

type DocumentRef struct {
	Name     string `json:"name"`
	Uploaded bool   `json:"uploaded"`
	Type     string `json:"type,omitempty"`
	URL      string `json:"url,omitempty"`
}

// Documents groups project document references by category. The core passes them through untouched.
type Documents struct {
	UnpricedPO      []DocumentRef `json:"unpriced_po,omitempty"`
	DesignInputs    []DocumentRef `json:"design_inputs,omitempty"`
	ClientReference []DocumentRef `json:"client_reference,omitempty"`
	Other           []DocumentRef `json:"other,omitempty"`
}
