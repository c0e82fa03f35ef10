package model

import (
	"gorm.io/datatypes"
)

// SampleEvent is the audit trail of accepted registrations.
type SampleEvent struct {
	BaseModel
	WellID     int64          `gorm:"not null;index" json:"well_id"`
	Kind       string         `gorm:"type:varchar(20);not null" json:"kind"`
	SampleID   int64          `gorm:"not null" json:"sample_id"`
	SampleName string         `gorm:"type:varchar(255);not null;index" json:"sample_name"`
	UserID     string         `gorm:"type:varchar(120);not null" json:"user_id"`
	Payload    datatypes.JSON `json:"payload"`
}

func (*SampleEvent) TableName() string {
	return "sample_events"
}
