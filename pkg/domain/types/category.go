package types

import "strings"

// Category describes the nature of a captured note.
type Category string

const (
	CategoryCommand   Category = "command"
	CategoryConcept   Category = "concept"
	CategoryInsight   Category = "insight"
	CategoryTask      Category = "task"
	CategoryQuestion  Category = "question"
	CategoryReference Category = "reference"
	CategoryRaw       Category = "raw"
)

// DefaultCategory is the catch-all category assigned on missing or
// unrecognized input.
const DefaultCategory = CategoryRaw

// AllCategories returns all valid categories
func AllCategories() []Category {
	return []Category{
		CategoryCommand,
		CategoryConcept,
		CategoryInsight,
		CategoryTask,
		CategoryQuestion,
		CategoryReference,
		CategoryRaw,
	}
}

// IsValid checks if the category is a member of the fixed category set
func (c Category) IsValid() bool {
	switch c {
	case CategoryCommand, CategoryConcept, CategoryInsight, CategoryTask,
		CategoryQuestion, CategoryReference, CategoryRaw:
		return true
	}
	return false
}

// String returns the string representation of Category
func (c Category) String() string {
	return string(c)
}

// NormalizeCategory maps arbitrary input to a valid category, falling back
// to DefaultCategory on empty or unknown values.
func NormalizeCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return DefaultCategory
	}
	return c
}
