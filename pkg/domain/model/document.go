package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/notelab/braindump/pkg/domain/types"
)

// Document codec: converts between an Entry and its persisted text form,
// a delimited metadata header followed by a blank line and the free-text
// body. Both directions are pure; decoding is total and degrades to a
// fallback record instead of failing, because stored documents may be
// hand-edited and must never become unreadable.

const headerDelimiter = "---"

// EncodeDocument renders the entry as a document. Header fields are written
// in a fixed order with fixed omission rules (training_q, summary and
// lastReview are dropped when absent) so that re-encoding an unchanged
// entry is byte-identical and diffs stay minimal.
func EncodeDocument(e *Entry) string {
	lines := []string{
		headerDelimiter,
		"id: " + e.ID,
		"category: " + e.Category.String(),
		"domain: " + e.Domain.String(),
		"title: " + quote(e.Title),
		"tags: [" + strings.Join(e.Tags, ", ") + "]",
		"trainable: " + strconv.FormatBool(e.Trainable),
	}

	if e.TrainingQ != "" {
		lines = append(lines, "training_q: "+quote(e.TrainingQ))
	}
	if e.Summary != "" {
		lines = append(lines, "summary: "+quote(e.Summary))
	}

	lines = append(lines, "reviews: "+strconv.Itoa(e.Reviews))

	if e.LastReview != nil {
		lines = append(lines, "lastReview: "+e.LastReview.UTC().Format(time.RFC3339))
	}

	lines = append(lines,
		"created: "+e.Created.UTC().Format(time.RFC3339),
		headerDelimiter,
		"",
		e.Text,
	)

	return strings.Join(lines, "\n")
}

// DecodeDocument parses a document back into an Entry. When no header block
// is present the whole input becomes the body of an untitled, uncategorized
// entry keyed by the filename. Missing or malformed fields fall back to
// their defaults; unknown header keys are dropped.
func DecodeDocument(filename, content string) *Entry {
	header, body, ok := splitDocument(content)
	if !ok {
		return &Entry{
			ID:        strings.TrimSuffix(filename, DocumentExt),
			Category:  types.DefaultCategory,
			Domain:    types.DefaultDomain,
			Title:     filename,
			Tags:      []string{},
			Text:      content,
			Created:   time.Now().UTC(),
		}
	}

	meta := parseHeader(header)

	e := &Entry{
		ID:        stringField(meta, "id", strings.TrimSuffix(filename, DocumentExt)),
		Category:  types.NormalizeCategory(stringField(meta, "category", "")),
		Domain:    types.NormalizeDomain(stringField(meta, "domain", "")),
		Title:     stringField(meta, "title", truncate(body, 40)),
		Tags:      listField(meta, "tags"),
		Summary:   stringField(meta, "summary", ""),
		Trainable: boolField(meta, "trainable"),
		TrainingQ: stringField(meta, "training_q", ""),
		Text:      body,
		Reviews:   intField(meta, "reviews"),
	}

	if t, ok := timeField(meta, "lastReview"); ok {
		e.LastReview = &t
	}
	if t, ok := timeField(meta, "created"); ok {
		e.Created = t
	} else {
		e.Created = time.Now().UTC()
	}

	return e
}

// splitDocument separates the delimited header block from the body.
// The header must start at the first line; the body is everything after
// the closing delimiter line, trimmed.
func splitDocument(content string) (header, body string, ok bool) {
	rest, found := strings.CutPrefix(content, headerDelimiter+"\n")
	if !found {
		return "", "", false
	}

	idx := strings.Index(rest, "\n"+headerDelimiter)
	if idx < 0 {
		return "", "", false
	}

	header = rest[:idx]
	body = rest[idx+len("\n"+headerDelimiter):]
	body = strings.TrimPrefix(body, "\n")
	return header, strings.TrimSpace(body), true
}

// parseHeader parses `key: value` lines. Lines that do not look like a
// header field are skipped silently.
func parseHeader(header string) map[string]any {
	meta := make(map[string]any)
	for _, line := range strings.Split(header, "\n") {
		key, raw, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if !validKey(key) {
			continue
		}
		meta[key] = parseValue(strings.TrimSpace(raw))
	}
	return meta
}

func validKey(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// parseValue applies the header value grammar in precedence order:
// bracketed list, quoted string, boolean, null, number, raw string.
func parseValue(raw string) any {
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		var items []string
		for _, item := range strings.Split(raw[1:len(raw)-1], ",") {
			item = strings.TrimSpace(item)
			item = trimQuotes(item)
			if item != "" {
				items = append(items, item)
			}
		}
		if items == nil {
			items = []string{}
		}
		return items
	}

	if len(raw) >= 2 {
		if (raw[0] == '"' && raw[len(raw)-1] == '"') || (raw[0] == '\'' && raw[len(raw)-1] == '\'') {
			return unquote(raw)
		}
	}

	switch raw {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}

	if n, err := strconv.ParseFloat(raw, 64); err == nil && raw != "" {
		return n
	}

	return raw
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func unquote(s string) string {
	body := s[1 : len(s)-1]
	if s[0] == '"' {
		body = strings.ReplaceAll(body, `\"`, `"`)
	}
	return body
}

func trimQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func stringField(meta map[string]any, key, fallback string) string {
	switch v := meta[key].(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fallback
}

func listField(meta map[string]any, key string) []string {
	if v, ok := meta[key].([]string); ok {
		return v
	}
	return []string{}
}

// boolField accepts both boolean true and the string "true"
func boolField(meta map[string]any, key string) bool {
	switch v := meta[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

func intField(meta map[string]any, key string) int {
	switch v := meta[key].(type) {
	case float64:
		if v > 0 {
			return int(v)
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

func timeField(meta map[string]any, key string) (time.Time, bool) {
	s, ok := meta[key].(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
