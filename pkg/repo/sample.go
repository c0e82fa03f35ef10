package repo

import (
	"context"

	"github.com/scienceol/rockin/pkg/repo/model"
	"gorm.io/gorm/schema"
)

type WellQuery struct {
	NameLike string
	Offset   int
	Limit    int
}

type SampleQuery struct {
	Table  schema.Tabler
	WellID int64
	Offset int
	Limit  int
}

// WellNamePrefix forces a name lookup, e.g. "name:42" for a well called 42.
const WellNamePrefix = "name:"

type SampleRepo interface {
	Storage

	// GetWell resolves ref as a numeric id, then a uuid, then a well name, the first hit wins.
	// A ref starting with WellNamePrefix is only matched against well names.
	GetWell(ctx context.Context, ref string) (*model.Well, error)
	ListWells(ctx context.Context, q *WellQuery) ([]*model.Well, int64, error)
	// ListSamples fills out (a pointer to a slice of q.Table's model) newest first.
	ListSamples(ctx context.Context, q *SampleQuery, out any) (int64, error)
}
