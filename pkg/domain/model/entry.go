package model

import (
	"time"

	"github.com/notelab/braindump/pkg/domain/types"
)

// MasteredThreshold is the review count at which an entry counts as mastered
const MasteredThreshold = 12

// DocumentExt is the file extension of persisted entry documents
const DocumentExt = ".md"

// EntryIDFormat is the layout of entry IDs: a UTC timestamp with second
// granularity, chosen so lexicographic order equals creation order.
const EntryIDFormat = "2006-01-02-150405"

// Entry is one persisted note with classification metadata and training
// state. ID and Created are assigned once at capture time and never mutate;
// everything else may be rewritten by a later update.
type Entry struct {
	ID        string         `json:"id"`
	Category  types.Category `json:"category"`
	Domain    types.Domain   `json:"domain"`
	Title     string         `json:"title"`
	Tags      []string       `json:"tags"`
	Summary   string         `json:"summary,omitempty"`
	Trainable bool           `json:"trainable"`
	TrainingQ string         `json:"training_q,omitempty"`
	Text      string         `json:"text"`
	Reviews   int            `json:"reviews"`
	// LastReview is set by the training collaborator, nil until the first review
	LastReview *time.Time `json:"last_review,omitempty"`
	Created    time.Time  `json:"created"`
}

// NewEntryID derives a sortable entry ID from the given timestamp
func NewEntryID(t time.Time) string {
	return t.UTC().Format(EntryIDFormat)
}

// Filename returns the document filename for the entry within its domain folder
func (e *Entry) Filename() string {
	return e.ID + DocumentExt
}

// Mastered reports whether the entry reached the mastered review threshold
func (e *Entry) Mastered() bool {
	return e.Reviews >= MasteredThreshold
}

// IsTrainable reports whether the entry is eligible for recall practice.
// An entry flagged trainable but missing its training question is treated
// as non-trainable by consumers.
func (e *Entry) IsTrainable() bool {
	return e.Trainable && e.TrainingQ != ""
}

// Clone creates a deep copy of the entry
func (e *Entry) Clone() *Entry {
	copied := *e
	if e.Tags != nil {
		copied.Tags = make([]string, len(e.Tags))
		copy(copied.Tags, e.Tags)
	}
	if e.LastReview != nil {
		lr := *e.LastReview
		copied.LastReview = &lr
	}
	return &copied
}
