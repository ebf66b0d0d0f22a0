package designrequest

import (
	"encoding/json"
	"time"
)

// DesignRequest is a submitted room together with the recommendation it
// received. It is written once, with its product links, and never updated.
type DesignRequest struct {
	ID            int
	Slug          string
	Name          *string
	CreatedAt     time.Time
	FloorPlan     string
	InteriorPhoto string
	DoorHeight    float64
	CeilingHeight float64

	// Derived once from the payload at creation.
	Area      *float64
	Perimeter *float64
	WallArea  *float64

	// Payload is the recommendation document exactly as received.
	Payload     json.RawMessage
	DesignImage *string

	// ProductIDs are the catalog products linked to the request, ascending.
	ProductIDs []int
}
