package model

import (
	"github.com/scienceol/rockin/pkg/core/sample/identity"
	"gorm.io/gorm"
)

type Well struct {
	BaseModel
	WellName string `gorm:"type:varchar(255);not null;uniqueIndex" json:"well_name" validate:"required,max=255"`
	// ShortName is the well name with hyphens and whitespace removed, sample names are built from it.
	ShortName    string `gorm:"type:varchar(255);not null;uniqueIndex" json:"short_name"`
	RegisteredBy string `gorm:"type:varchar(120)" json:"registered_by"`
}

func (*Well) TableName() string {
	return "wells"
}

func (w *Well) BeforeCreate(tx *gorm.DB) error {
	if w.ShortName == "" {
		short, err := identity.ShortName(w.WellName)
		if err != nil {
			return err
		}
		w.ShortName = short
	}
	return w.BaseModel.BeforeCreate(tx)
}
