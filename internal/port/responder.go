package port

import (
	"context"

	"partfinder/internal/domain"
)

// ResponderInput carries everything a response is generated from: the
// customer query, the ranked retrieval results, and any co-purchase
// recommendations for the top hit.
type ResponderInput struct {
	Query           string
	Results         []domain.SearchResult
	Recommendations []domain.Recommendation
}

// Responder turns retrieval output into natural-language prose. One
// implementation is deterministic and always available; an enhanced one may
// call an external text-generation service. Callers treat any error as a
// signal to fall back to the deterministic responder, never as fatal.
type Responder interface {
	Respond(ctx context.Context, in ResponderInput) (string, error)

	// ModelName returns the name of the backing model, or a fixed tag for
	// deterministic implementations.
	ModelName() string
}
