package model_test

import (
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/notelab/braindump/pkg/domain/model"
	"github.com/notelab/braindump/pkg/domain/types"
)

func testEntry() *model.Entry {
	lastReview := time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)
	return &model.Entry{
		ID:         "2026-02-20-090000",
		Category:   types.CategoryCommand,
		Domain:     types.DomainSkills,
		Title:      "Select active users",
		Tags:       []string{"sql", "postgres"},
		Summary:    "Basic active-user query",
		Trainable:  true,
		TrainingQ:  "How do you query active users?",
		Text:       "SELECT * FROM users WHERE active = true",
		Reviews:    3,
		LastReview: &lastReview,
		Created:    time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC),
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	e := testEntry()
	doc := model.EncodeDocument(e)
	got := model.DecodeDocument(e.Filename(), doc)

	gt.Value(t, got.ID).Equal(e.ID)
	gt.Value(t, got.Category).Equal(e.Category)
	gt.Value(t, got.Domain).Equal(e.Domain)
	gt.Value(t, got.Title).Equal(e.Title)
	gt.Value(t, got.Tags).Equal(e.Tags)
	gt.Value(t, got.Summary).Equal(e.Summary)
	gt.Bool(t, got.Trainable).True()
	gt.Value(t, got.TrainingQ).Equal(e.TrainingQ)
	gt.Value(t, got.Text).Equal(e.Text)
	gt.Value(t, got.Reviews).Equal(e.Reviews)
	gt.Value(t, *got.LastReview).Equal(*e.LastReview)
	gt.Value(t, got.Created).Equal(e.Created)
}

func TestEncodeIsDeterministic(t *testing.T) {
	e := testEntry()
	gt.Value(t, model.EncodeDocument(e)).Equal(model.EncodeDocument(e))
}

func TestEncodeFieldOrderAndOmission(t *testing.T) {
	e := testEntry()
	e.TrainingQ = ""
	e.Trainable = false
	e.Summary = ""
	e.LastReview = nil

	doc := model.EncodeDocument(e)
	gt.Bool(t, strings.Contains(doc, "training_q:")).False()
	gt.Bool(t, strings.Contains(doc, "summary:")).False()
	gt.Bool(t, strings.Contains(doc, "lastReview:")).False()

	lines := strings.Split(doc, "\n")
	gt.Value(t, lines[0]).Equal("---")
	gt.Value(t, lines[1]).Equal("id: 2026-02-20-090000")
	gt.Value(t, lines[2]).Equal("category: command")
	gt.Value(t, lines[3]).Equal("domain: skills")
	gt.Value(t, lines[4]).Equal(`title: "Select active users"`)
	gt.Value(t, lines[5]).Equal("tags: [sql, postgres]")
	gt.Value(t, lines[6]).Equal("trainable: false")
	gt.Value(t, lines[7]).Equal("reviews: 3")
	gt.Value(t, lines[8]).Equal("created: 2026-02-20T09:00:00Z")
	gt.Value(t, lines[9]).Equal("---")
	gt.Value(t, lines[10]).Equal("")
	gt.Value(t, lines[11]).Equal("SELECT * FROM users WHERE active = true")
}

func TestQuoteEscaping(t *testing.T) {
	e := testEntry()
	e.Title = `The "why" of indexes`

	doc := model.EncodeDocument(e)
	gt.Bool(t, strings.Contains(doc, `title: "The \"why\" of indexes"`)).True()

	got := model.DecodeDocument(e.Filename(), doc)
	gt.Value(t, got.Title).Equal(e.Title)
}

func TestDecodeGarbageNeverFails(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"plain text", "just some text"},
		{"empty", ""},
		{"unclosed header", "---\nid: foo"},
		{"binary-ish", "\x00\x01\x02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := model.DecodeDocument("2026-01-01-000000.md", tt.content)
			gt.Value(t, got.ID).Equal("2026-01-01-000000")
			gt.Value(t, got.Category).Equal(types.CategoryRaw)
			gt.Value(t, got.Domain).Equal(types.DefaultDomain)
			gt.Value(t, got.Text).Equal(tt.content)
			gt.Bool(t, got.Trainable).False()
			gt.Bool(t, got.Created.IsZero()).False()
		})
	}
}

func TestDecodeDefaults(t *testing.T) {
	doc := "---\nid: some-note\ntitle: \"A note\"\n---\n\nbody text"
	got := model.DecodeDocument("some-note.md", doc)

	gt.Value(t, got.Category).Equal(types.CategoryRaw)
	gt.Value(t, got.Domain).Equal(types.DomainDaily)
	gt.Value(t, got.Reviews).Equal(0)
	gt.Value(t, got.Tags).Equal([]string{})
	gt.Value(t, got.Text).Equal("body text")
}

func TestDecodeMissingIDUsesFilename(t *testing.T) {
	doc := "---\ncategory: concept\n---\n\nbody"
	got := model.DecodeDocument("2026-03-01-140501.md", doc)
	gt.Value(t, got.ID).Equal("2026-03-01-140501")
}

func TestDecodeTrainableStringTrue(t *testing.T) {
	doc := "---\nid: x\ntrainable: \"true\"\n---\n\nbody"
	got := model.DecodeDocument("x.md", doc)
	gt.Bool(t, got.Trainable).True()
}

func TestDecodeMissingTitleFallsBackToBody(t *testing.T) {
	doc := "---\nid: x\n---\n\nshort body"
	got := model.DecodeDocument("x.md", doc)
	gt.Value(t, got.Title).Equal("short body")
}

func TestDecodeSkipsUnknownAndMalformedLines(t *testing.T) {
	doc := "---\nid: x\nnot a header line\n!!bad: key\nmystery: value\ncategory: task\n---\n\nbody"
	got := model.DecodeDocument("x.md", doc)
	gt.Value(t, got.ID).Equal("x")
	gt.Value(t, got.Category).Equal(types.CategoryTask)
}

func TestExampleScenario(t *testing.T) {
	e := &model.Entry{
		ID:       "2026-03-01-140501",
		Category: types.CategoryCommand,
		Domain:   types.DomainSkills,
		Title:    "Select all users",
		Tags:     []string{},
		Text:     "SELECT * FROM users",
		Created:  time.Date(2026, 3, 1, 14, 5, 1, 0, time.UTC),
	}

	gt.Value(t, e.Filename()).Equal("2026-03-01-140501.md")

	doc := model.EncodeDocument(e)
	gt.Bool(t, strings.Contains(doc, "category: command")).True()
	gt.Bool(t, strings.Contains(doc, "domain: skills")).True()
	gt.Bool(t, strings.Contains(doc, "trainable: false")).True()
	gt.Bool(t, strings.HasSuffix(doc, "\n\nSELECT * FROM users")).True()
}
