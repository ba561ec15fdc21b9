package model

import "github.com/notelab/braindump/pkg/domain/types"

// Stats is the aggregate view over a set of entries. It is always derived
// from the current cache contents and never stored independently.
type Stats struct {
	Total        int                    `json:"total"`
	Trainable    int                    `json:"trainable"`
	Mastered     int                    `json:"mastered"`
	TotalReviews int                    `json:"total_reviews"`
	Categories   map[types.Category]int `json:"categories"`
	Domains      map[types.Domain]int   `json:"domains"`
}

// ComputeStats recomputes the aggregates from the given entries
func ComputeStats(entries []*Entry) *Stats {
	s := &Stats{
		Categories: make(map[types.Category]int),
		Domains:    make(map[types.Domain]int),
	}

	for _, e := range entries {
		s.Total++
		if e.Trainable {
			s.Trainable++
		}
		if e.Mastered() {
			s.Mastered++
		}
		s.TotalReviews += e.Reviews
		s.Categories[e.Category]++
		s.Domains[e.Domain]++
	}

	return s
}
