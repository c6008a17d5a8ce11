package idgen

import "github.com/google/uuid"

// crewNamespace scopes name based crew identifiers.
var crewNamespace = uuid.MustParse("6f1c4c2e-3b7a-4f38-9a57-6b2f0f4c9d11")

// NewFunc returns a new random identifier.
var NewFunc = func() uuid.UUID { return uuid.New() }

// New returns a new globally unique identifier.
func New() uuid.UUID { return NewFunc() }

// NewString returns a new identifier as string.
func NewString() string { return NewFunc().String() }

// ForName returns a stable identifier derived from a crew member name.
func ForName(name string) uuid.UUID {
	return uuid.NewSHA1(crewNamespace, []byte(name))
}
