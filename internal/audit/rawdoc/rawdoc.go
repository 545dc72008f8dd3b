// Package rawdoc decodes audit documents as they exist in storage and on the
// wire, not as we wish they were. Historical writes left two quirks behind:
// a lowercased "isdraft" flag on older records, and date/id values wrapped in
// the store's extended-JSON forms ({"$date": ...}, {"$oid": ...}). Both are
// genuine data, so decoding tolerates them; encoding always emits the
// canonical shape (read-repair at the storage boundary).
package rawdoc

import (
	"encoding/json"
	"time"
)

// Document is a raw audit document. Lookups never panic; anything that
// cannot be interpreted reports absence instead.
type Document map[string]any

// Decode parses a JSON body into a Document.
func Decode(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Has reports whether the field is present at all, even with a null or
// unparseable value. Partial updates need presence, not validity.
func (d Document) Has(field string) bool {
	_, ok := d[field]
	return ok
}

// Draft reports the draft flag, accepting both the canonical "isDraft" key
// and the historical lowercased "isdraft". The duality reflects real stored
// data and must not be collapsed on read.
func (d Document) Draft() bool {
	if v, ok := d["isDraft"].(bool); ok && v {
		return true
	}
	if v, ok := d["isdraft"].(bool); ok && v {
		return true
	}
	return false
}

// String returns the field as a plain string.
func (d Document) String(field string) (string, bool) {
	s, ok := d[field].(string)
	return s, ok
}

// Bool returns the field as a plain bool.
func (d Document) Bool(field string) (bool, bool) {
	b, ok := d[field].(bool)
	return b, ok
}

// Time interprets the field as an instant. Three shapes are accepted:
// an RFC 3339 string, an epoch-millisecond number, or a wrapped
// {"$date": <string|number>} value. Anything else reports absence.
func (d Document) Time(field string) (time.Time, bool) {
	return asTime(d[field])
}

// ID interprets the field as an identifier string, unwrapping the
// {"$oid": ...} form when present.
func (d Document) ID(field string) (string, bool) {
	switch v := d[field].(type) {
	case string:
		if v == "" {
			return "", false
		}
		return v, true
	case map[string]any:
		if s, ok := v["$oid"].(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// IDs interprets the field as a list of identifier strings.
func (d Document) IDs(field string) []string {
	list, ok := d[field].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, entry := range list {
		switch v := entry.(type) {
		case string:
			if v != "" {
				out = append(out, v)
			}
		case map[string]any:
			if s, ok := v["$oid"].(string); ok && s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// Docs interprets the field as a list of nested documents.
func (d Document) Docs(field string) []Document {
	list, ok := d[field].([]any)
	if !ok {
		return nil
	}
	out := make([]Document, 0, len(list))
	for _, entry := range list {
		if m, ok := entry.(map[string]any); ok {
			out = append(out, Document(m))
		}
	}
	return out
}

// Doc interprets the field as a nested document.
func (d Document) Doc(field string) (Document, bool) {
	m, ok := d[field].(map[string]any)
	return Document(m), ok
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case string:
		return parseRFC3339(t)
	case float64:
		return time.UnixMilli(int64(t)), true
	case json.Number:
		if ms, err := t.Int64(); err == nil {
			return time.UnixMilli(ms), true
		}
	case time.Time:
		return t, true
	case map[string]any:
		if wrapped, ok := t["$date"]; ok {
			return asTime(wrapped)
		}
	}
	return time.Time{}, false
}

func parseRFC3339(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	// Date-only values appear in hand-entered seed data.
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
