package model

import (
	"time"
)

// MaxCounter bounds every per-scope sample counter.
const MaxCounter int64 = 999999

// RegistrationMeta is embedded in every sample row.
type RegistrationMeta struct {
	RegisteredBy     string    `gorm:"type:varchar(120);not null" json:"registered_by"`
	RegistrationDate time.Time `gorm:"not null" json:"registration_date"`
	CollectionDate   time.Time `gorm:"not null" json:"collection_date"`
	Remarks          string    `gorm:"type:varchar(255)" json:"remarks" validate:"max=255"`
	DrillingMud      *string   `gorm:"type:varchar(17)" json:"drilling_mud" validate:"omitempty,enum=drilling_mud"`
	Lithology        *string   `gorm:"type:varchar(255)" json:"lithology" validate:"omitempty,max=255"`
}

// Sample is a persisted, named child of a well.
type Sample interface {
	BaseDBModel
	TableName() string
	SampleName() string
	Meta() *RegistrationMeta
	SetWell(wellID int64)
	Counter() int64
}

type Core struct {
	BaseModel
	WellID int64 `gorm:"not null;index:idx_core_scope,priority:1" json:"well_id"`
	Well   *Well `gorm:"foreignKey:WellID;constraint:OnDelete:CASCADE" json:"-"`
	RegistrationMeta

	CoreNumber        string   `gorm:"type:varchar(2);not null;index:idx_core_scope,priority:2" json:"core_number" validate:"enum=core_number"`
	PlannedCoreNumber string   `gorm:"type:varchar(2);not null" json:"planned_core_number" validate:"omitempty,enum=core_number"`
	CoreSectionNumber int64    `gorm:"not null" json:"core_section_number" validate:"gte=1,lte=999999"`
	CoreSectionName   string   `gorm:"type:varchar(255);not null;uniqueIndex" json:"core_section_name" validate:"required,max=255"`
	CoreType          string   `gorm:"type:varchar(12);not null" json:"core_type" validate:"enum=core_type"`
	TopDepth          float64  `gorm:"not null" json:"top_depth" validate:"gte=0"`
	BottomDepth       *float64 `json:"bottom_depth" validate:"omitempty,gte=0"`
	CoreSectionLength *float64 `json:"core_section_length" validate:"omitempty,gte=0"`
	CoreRecovery      *float64 `json:"core_recovery" validate:"omitempty,gte=0"`
	CoreDiameter      *float64 `json:"core_diameter" validate:"omitempty,gte=0"`
	CoringMethod      *string  `gorm:"type:varchar(6)" json:"coring_method" validate:"omitempty,enum=coring_method"`
	Coreliner         *string  `gorm:"type:varchar(60)" json:"coreliner" validate:"omitempty,max=60"`
	Formation         *string  `gorm:"type:varchar(255)" json:"formation" validate:"omitempty,max=255"`
	CoreStatus        *string  `gorm:"type:varchar(9)" json:"core_status" validate:"omitempty,enum=core_status"`
	Preservation      *string  `gorm:"type:varchar(35)" json:"preservation" validate:"omitempty,enum=preservation"`
	CoreWeight        *float64 `json:"core_weight" validate:"omitempty,gte=0"`
	CTScanned         *bool    `gorm:"column:ct_scanned" json:"ct_scanned"`
	GammaRay          *bool    `json:"gamma_ray"`
	Radiation         *float64 `json:"radiation" validate:"omitempty,gte=0"`
}

func (*Core) TableName() string         { return "cores" }
func (c *Core) SampleName() string      { return c.CoreSectionName }
func (c *Core) Meta() *RegistrationMeta { return &c.RegistrationMeta }
func (c *Core) SetWell(wellID int64)    { c.WellID = wellID }
func (c *Core) Counter() int64          { return c.CoreSectionNumber }

type CoreChip struct {
	BaseModel
	WellID int64 `gorm:"not null;index:idx_corechip_scope,priority:1" json:"well_id"`
	Well   *Well `gorm:"foreignKey:WellID;constraint:OnDelete:CASCADE" json:"-"`
	CoreID int64 `gorm:"not null;index" json:"core_id"`
	Core   *Core `gorm:"foreignKey:CoreID;constraint:OnDelete:CASCADE" json:"-"`
	RegistrationMeta

	CoreNumber        string  `gorm:"type:varchar(2);not null;index:idx_corechip_scope,priority:2" json:"core_number" validate:"enum=core_number"`
	CoreSectionNumber int64   `gorm:"not null;index:idx_corechip_scope,priority:3" json:"core_section_number" validate:"gte=1,lte=999999"`
	CoreChipNumber    int64   `gorm:"column:corechip_number;not null" json:"corechip_number" validate:"gte=1,lte=999999"`
	FromTopBottom     string  `gorm:"type:varchar(6);not null" json:"from_top_bottom" validate:"enum=from_top_bottom"`
	CoreChipName      string  `gorm:"column:corechip_name;type:varchar(255);not null;uniqueIndex" json:"corechip_name" validate:"required,max=255"`
	CoreChipDepth     float64 `gorm:"not null" json:"core_chip_depth" validate:"gte=0"`
	Debris            *bool   `json:"debris"`
	Formation         *string `gorm:"type:varchar(255)" json:"formation" validate:"omitempty,max=255"`
}

func (*CoreChip) TableName() string         { return "core_chips" }
func (c *CoreChip) SampleName() string      { return c.CoreChipName }
func (c *CoreChip) Meta() *RegistrationMeta { return &c.RegistrationMeta }
func (c *CoreChip) SetWell(wellID int64)    { c.WellID = wellID }
func (c *CoreChip) Counter() int64          { return c.CoreChipNumber }

type MicroCore struct {
	BaseModel
	WellID int64 `gorm:"not null;index" json:"well_id"`
	Well   *Well `gorm:"foreignKey:WellID;constraint:OnDelete:CASCADE" json:"-"`
	RegistrationMeta

	MicroCoreNumber int64   `gorm:"not null" json:"micro_core_number" validate:"gte=1,lte=999999"`
	MicroCoreName   string  `gorm:"type:varchar(255);not null;uniqueIndex" json:"micro_core_name" validate:"required,max=255"`
	DrillingMethod  *string `gorm:"type:varchar(6)" json:"drilling_method" validate:"omitempty,enum=drilling_method"`
	DrillingBit     *string `gorm:"type:varchar(120)" json:"drilling_bit" validate:"omitempty,max=120"`
}

func (*MicroCore) TableName() string         { return "micro_cores" }
func (m *MicroCore) SampleName() string      { return m.MicroCoreName }
func (m *MicroCore) Meta() *RegistrationMeta { return &m.RegistrationMeta }
func (m *MicroCore) SetWell(wellID int64)    { m.WellID = wellID }
func (m *MicroCore) Counter() int64          { return m.MicroCoreNumber }

type Cuttings struct {
	BaseModel
	WellID int64 `gorm:"not null;index" json:"well_id"`
	Well   *Well `gorm:"foreignKey:WellID;constraint:OnDelete:CASCADE" json:"-"`
	RegistrationMeta

	CuttingsNumber   int64      `gorm:"not null" json:"cuttings_number" validate:"gte=1,lte=999999"`
	CuttingsName     string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"cuttings_name" validate:"required,max=255"`
	CuttingsDepth    float64    `gorm:"not null" json:"cuttings_depth" validate:"gte=0"`
	SampleState      string     `gorm:"type:varchar(12);not null" json:"sample_state" validate:"enum=sample_state"`
	CollectionMethod *string    `gorm:"type:varchar(8)" json:"collection_method" validate:"omitempty,enum=collection_method"`
	DrillingMethod   *string    `gorm:"type:varchar(6)" json:"drilling_method" validate:"omitempty,enum=drilling_method"`
	SampleWeight     *float64   `json:"sample_weight" validate:"omitempty,gte=0"`
	DriedSample      *bool      `json:"dried_sample"`
	DriedBy          *string    `gorm:"type:varchar(120)" json:"dried_by" validate:"omitempty,max=120"`
	DriedDate        *time.Time `json:"dried_date"`
}

func (*Cuttings) TableName() string         { return "cuttings" }
func (c *Cuttings) SampleName() string      { return c.CuttingsName }
func (c *Cuttings) Meta() *RegistrationMeta { return &c.RegistrationMeta }
func (c *Cuttings) SetWell(wellID int64)    { c.WellID = wellID }
func (c *Cuttings) Counter() int64          { return c.CuttingsNumber }
