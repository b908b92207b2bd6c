package uuidutil

import (
	"github.com/gofrs/uuid"
)

type UUIDGenerator interface {
	Generate() (string, error)
}

// UUIDRandomGenerator produces version 4 UUIDs.
type UUIDRandomGenerator struct{}

func (UUIDRandomGenerator) Generate() (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// FixedGenerator always returns the same id. Tests use it to pin generated payloads.
type FixedGenerator string

func (g FixedGenerator) Generate() (string, error) {
	return string(g), nil
}
