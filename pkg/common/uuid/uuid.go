package uuid

import (
	"github.com/gofrs/uuid/v5"
)

type UUID = uuid.UUID

var Nil = uuid.Nil

func NewV4() UUID {
	return uuid.Must(uuid.NewV4())
}

func NewV7() UUID {
	return uuid.Must(uuid.NewV7())
}

func FromString(s string) (UUID, error) {
	return uuid.FromString(s)
}

func IsNil(id UUID) bool {
	return id.IsNil()
}
