package recommendation

import (
	"context"
	_ "embed"
)

// Request carries the inputs of a design request to a Recommender.
type Request struct {
	FloorPlan     string
	InteriorPhoto string
	DoorHeight    float64
	CeilingHeight float64
}

// Recommender turns room inputs into a recommendation payload. Implementations
// own their failure and timeout semantics.
type Recommender interface {
	Recommend(ctx context.Context, req Request) (Payload, error)
}

//go:embed fixtures/stub_payload.json
var stubPayload []byte

// Stub is a Recommender that always answers with the same canned payload.
type Stub struct {
	fixture []byte
}

// NewStub returns a Stub serving the built-in sample payload.
func NewStub() *Stub {
	return &Stub{fixture: stubPayload}
}

// NewStubFromJSON returns a Stub serving the given payload document.
func NewStubFromJSON(fixture []byte) *Stub {
	return &Stub{fixture: fixture}
}

func (s *Stub) Recommend(ctx context.Context, _ Request) (Payload, error) {
	if err := ctx.Err(); err != nil {
		return Payload{}, err
	}
	// decode on every call so callers never share slices
	return Decode(s.fixture)
}
