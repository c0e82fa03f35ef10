package sample

import (
	"strings"
	"time"

	"github.com/scienceol/rockin/pkg/common"
	"github.com/scienceol/rockin/pkg/common/code"
	"github.com/scienceol/rockin/pkg/common/uuid"
)

type Kind string

const (
	KindWell      Kind = "well"
	KindCore      Kind = "core"
	KindCoreChip  Kind = "corechip"
	KindMicroCore Kind = "microcore"
	KindCuttings  Kind = "cuttings"
)

var kindAlias = map[string]Kind{
	"well":        KindWell,
	"wells":       KindWell,
	"core":        KindCore,
	"cores":       KindCore,
	"corechip":    KindCoreChip,
	"corechips":   KindCoreChip,
	"core_chip":   KindCoreChip,
	"core_chips":  KindCoreChip,
	"microcore":   KindMicroCore,
	"microcores":  KindMicroCore,
	"micro_core":  KindMicroCore,
	"micro_cores": KindMicroCore,
	"cuttings":    KindCuttings,
}

// ParseKind accepts the singular, plural and snake case spellings used in URLs.
func ParseKind(s string) (Kind, error) {
	if k, ok := kindAlias[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return "", code.UnknownSampleKindErr.WithMsg(s)
}

type RegisterReq struct {
	Kind    Kind
	Well    string
	Payload map[string]any
}

type RegisterResp struct {
	Kind     Kind      `json:"kind"`
	ID       int64     `json:"id"`
	UUID     uuid.UUID `json:"uuid"`
	Name     string    `json:"name"`
	Sequence int64     `json:"sequence,omitempty"`
	Record   any       `json:"record"`
}

type InitialContextReq struct {
	Kind  Kind
	Well  string
	Known map[string]any
}

type InitialContextResp struct {
	ProposedSequence           int64     `json:"proposed_sequence"`
	ProposedIdentity           string    `json:"proposed_identity"`
	CollectionTimestampDefault time.Time `json:"collection_timestamp_default"`
}

type WellListReq struct {
	common.PageReq
	Name string `json:"name" form:"name"`
}

type WellResp struct {
	ID           int64     `json:"id"`
	UUID         uuid.UUID `json:"uuid"`
	WellName     string    `json:"well_name"`
	ShortName    string    `json:"short_name"`
	RegisteredBy string    `json:"registered_by"`
	CreatedAt    time.Time `json:"created_at"`
}

type SampleListReq struct {
	common.PageReq
	Kind Kind   `json:"-"`
	Well string `json:"-"`
}

type SampleListResp struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Data     any   `json:"data"`
}
