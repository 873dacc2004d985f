package timeline

import (
	"encoding/json"
	"fmt"
)

// The codec is the single place that turns a Document into persisted/exported
// text and back. Export and storage share the same canonical shape:
//
//	{ "currentVersion": <int>, "entries": [ ... ] }
//
// Decoding always validates, so a document that round-trips through the codec
// is known to satisfy the version invariants.

// EncodeDocument renders d as canonical pretty-printed JSON.
func EncodeDocument(d Document) (string, error) {
	if d.Entries == nil {
		d.Entries = []Entry{}
	}
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: encode: %v", ErrValidation, err)
	}
	return string(b), nil
}

// DecodeDocument parses text and validates the result. Any shape or
// invariant problem is reported as ErrValidation.
func DecodeDocument(text string) (Document, error) {
	var probe struct {
		CurrentVersion *int               `json:"currentVersion"`
		Entries        *[]json.RawMessage `json:"entries"`
	}
	if err := json.Unmarshal([]byte(text), &probe); err != nil {
		return Document{}, fmt.Errorf("%w: not a JSON object: %v", ErrValidation, err)
	}
	if probe.CurrentVersion == nil {
		return Document{}, fmt.Errorf("%w: missing currentVersion", ErrValidation)
	}
	if probe.Entries == nil {
		return Document{}, fmt.Errorf("%w: missing entries", ErrValidation)
	}

	var doc Document
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if doc.Entries == nil {
		doc.Entries = []Entry{}
	}
	if err := ValidateDocument(doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// ValidateDocument checks the version invariants: entries carry dense
// 1-based versions in order, and currentVersion equals the entry count.
func ValidateDocument(d Document) error {
	if d.CurrentVersion < 0 {
		return fmt.Errorf("%w: negative currentVersion %d", ErrValidation, d.CurrentVersion)
	}
	if d.CurrentVersion != len(d.Entries) {
		return fmt.Errorf("%w: currentVersion %d does not match %d entries",
			ErrValidation, d.CurrentVersion, len(d.Entries))
	}
	for i, e := range d.Entries {
		if e.Version != i+1 {
			return fmt.Errorf("%w: entry at index %d has version %d, want %d",
				ErrValidation, i, e.Version, i+1)
		}
	}
	return nil
}
