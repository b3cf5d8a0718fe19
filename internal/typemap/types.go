// Package typemap infers column types from CSV string values so that
// destination tables can be created from a zero-row projection of the
// dataset.
package typemap

import (
	"strconv"
	"strings"
	"time"
)

// Kind is an engine-neutral column type. Dialects map kinds to their
// concrete SQL type names.
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindFloat
	KindBool
	KindTimestamp
)

// String returns the kind name for logging.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTimestamp:
		return "timestamp"
	default:
		return "text"
	}
}

// timestampLayouts are the formats accepted for timestamp inference,
// most specific first.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// InferColumn determines the narrowest kind that can represent every
// non-empty value in the column. Empty strings are treated as NULL and
// do not constrain the kind. A column of only empty values is text.
func InferColumn(values []string) Kind {
	kind := Kind(-1) // not yet constrained

	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		vk := inferValue(v)
		if kind == Kind(-1) {
			kind = vk
			continue
		}
		kind = merge(kind, vk)
		if kind == KindText {
			return KindText
		}
	}

	if kind == Kind(-1) {
		return KindText
	}
	return kind
}

// inferValue classifies a single non-empty value.
func inferValue(v string) Kind {
	switch strings.ToLower(v) {
	case "true", "false":
		return KindBool
	}

	if _, err := strconv.ParseInt(v, 10, 64); err == nil {
		// Leading zeros carry meaning (zip codes, account numbers);
		// loading them as integers would corrupt the data.
		if len(v) > 1 && (v[0] == '0' || (v[0] == '-' && v[1] == '0')) {
			return KindText
		}
		return KindInteger
	}

	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return KindFloat
	}

	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return KindTimestamp
		}
	}

	return KindText
}

// merge widens a to accommodate b.
func merge(a, b Kind) Kind {
	if a == b {
		return a
	}
	// Integers widen to floats; everything else mixes to text.
	if (a == KindInteger && b == KindFloat) || (a == KindFloat && b == KindInteger) {
		return KindFloat
	}
	return KindText
}

// Convert parses a CSV value into the Go type bound for the column's
// kind. Empty strings become NULL. A value that no longer parses (the
// kind was inferred from other rows) is passed through as text rather
// than dropped.
func Convert(v string, k Kind) any {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}

	switch k {
	case KindInteger:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	case KindFloat:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	case KindBool:
		switch strings.ToLower(v) {
		case "true":
			return true
		case "false":
			return false
		}
	case KindTimestamp:
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
	}
	return v
}
