package model

import "github.com/google/uuid"

// ContextFact is a stored snippet that grounds reply generation. Facts
// are managed by the product-context surface; the pipeline only reads
// them.
type ContextFact struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	Type    string
	Content string
}
