package classifier

import (
	"context"

	"github.com/notelab/braindump/pkg/domain/model"
	"github.com/notelab/braindump/pkg/domain/types"
)

// Service classifies raw note text into entry metadata and generates
// training hints. Both operations must never fail from the caller's point
// of view: every provider error degrades to the fixed fallback result.
type Service interface {
	// Classify derives entry metadata from raw text. Never returns nil.
	Classify(ctx context.Context, text string) *model.Classification

	// Hint produces a short recall hint that does not reveal the answer
	Hint(ctx context.Context, question, answer string) string
}

// Vocabulary carries the human descriptions of each category and domain
// used to steer the classifier. Missing keys fall back to the built-in
// descriptions.
type Vocabulary struct {
	Categories map[types.Category]string
	Domains    map[types.Domain]string
}
