package model

import "time"

type Equipment struct {
	ID        string `gorm:"type:text;primaryKey" json:"id"`
	ProjectID string `gorm:"type:text;not null;index" json:"project_id"`
	TagNumber string `gorm:"type:text" json:"tag_number"`
	Name      string `gorm:"type:text" json:"name"`
	// Type is the free-form equipment type, e.g. "Heat Exchanger" or "Column Tower".
	Type string `gorm:"type:text;not null" json:"type"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Equipment <-> Project
	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Equipment) TableName() string { return "equipment" }
