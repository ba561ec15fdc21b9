package model

import "github.com/notelab/braindump/pkg/domain/types"

// Classification is the metadata a classifier derives from raw note text
type Classification struct {
	Category  types.Category `json:"category"`
	Domain    types.Domain   `json:"domain"`
	Title     string         `json:"title"`
	Tags      []string       `json:"tags"`
	Summary   string         `json:"summary"`
	Trainable bool           `json:"trainable"`
	TrainingQ string         `json:"training_q"`
}

// FallbackClassification builds the degraded record used when every
// classification provider fails. It must never be nil.
func FallbackClassification(text string) *Classification {
	return &Classification{
		Category:  types.DefaultCategory,
		Domain:    types.DefaultDomain,
		Title:     truncate(text, 40),
		Tags:      []string{},
		Summary:   truncate(text, 100),
		Trainable: false,
	}
}

// Normalize clamps category and domain to their fixed sets and drops empty tags
func (c *Classification) Normalize() {
	c.Category = types.NormalizeCategory(c.Category.String())
	c.Domain = types.NormalizeDomain(c.Domain.String())
	if c.Tags == nil {
		c.Tags = []string{}
	}
	tags := c.Tags[:0]
	for _, tag := range c.Tags {
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	c.Tags = tags
	if !c.Trainable {
		c.TrainingQ = ""
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
