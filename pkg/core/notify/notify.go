package notify

import (
	"context"

	"github.com/scienceol/rockin/pkg/common/uuid"
)

type Action string

const (
	SampleRegistered Action = "sample-registered"
)

type SendMsg struct {
	Channel   Action    `json:"action"`
	WellUUID  uuid.UUID `json:"well_uuid"`
	UserID    string    `json:"user_id"`
	Data      any       `json:"data"`
	UUID      uuid.UUID `json:"uuid"`
	Timestamp int64     `json:"timestamp"`
}

// Registered is the Data of a SampleRegistered message.
type Registered struct {
	Kind     string    `json:"kind"`
	UUID     uuid.UUID `json:"uuid"`
	Name     string    `json:"name"`
	Sequence int64     `json:"sequence,omitempty"`
}

type HandleFunc func(ctx context.Context, msg string) error

type MsgCenter interface {
	Registry(ctx context.Context, msgName Action, handleFunc HandleFunc) error
	Broadcast(ctx context.Context, msg *SendMsg) error
	Close(ctx context.Context) error
}
