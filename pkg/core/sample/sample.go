package sample

import (
	"context"

	"github.com/scienceol/rockin/pkg/common"
)

type Service interface {
	// InitialContext proposes the next counter and canonical name for a form about to be filled.
	InitialContext(ctx context.Context, req *InitialContextReq) (*InitialContextResp, error)
	// Register runs the registration workflow for one submission.
	Register(ctx context.Context, req *RegisterReq) (*RegisterResp, error)
	// GetWell resolves a well by id, uuid or name.
	GetWell(ctx context.Context, ref string) (*WellResp, error)
	ListWells(ctx context.Context, req *WellListReq) (*common.PageResp[*WellResp], error)
	ListSamples(ctx context.Context, req *SampleListReq) (*SampleListResp, error)
}
