package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/notelab/braindump/pkg/domain/types"
)

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.Domain
	}{
		{"valid domain", "skills", types.DomainSkills},
		{"mixed case with spaces", " Health ", types.DomainHealth},
		{"empty falls back", "", types.DefaultDomain},
		{"unknown falls back", "cooking", types.DefaultDomain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, types.NormalizeDomain(tt.input)).Equal(tt.want)
		})
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.Category
	}{
		{"valid category", "command", types.CategoryCommand},
		{"mixed case", "Insight", types.CategoryInsight},
		{"empty falls back", "", types.CategoryRaw},
		{"unknown falls back", "misc", types.CategoryRaw},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, types.NormalizeCategory(tt.input)).Equal(tt.want)
		})
	}
}

func TestAllDomainsAreValid(t *testing.T) {
	for _, d := range types.AllDomains() {
		gt.Bool(t, d.IsValid()).True()
	}
	gt.Value(t, len(types.AllDomains())).Equal(5)
}

func TestAllCategoriesAreValid(t *testing.T) {
	for _, c := range types.AllCategories() {
		gt.Bool(t, c.IsValid()).True()
	}
	gt.Value(t, len(types.AllCategories())).Equal(7)
}
