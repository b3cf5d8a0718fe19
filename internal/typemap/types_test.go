package typemap

import (
	"testing"
	"time"
)

func TestInferColumn(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   Kind
	}{
		{"integers", []string{"1", "42", "-7"}, KindInteger},
		{"floats", []string{"1.5", "2.25"}, KindFloat},
		{"integers widen to float", []string{"1", "2.5"}, KindFloat},
		{"bools", []string{"true", "FALSE", "True"}, KindBool},
		{"dates", []string{"2024-01-15", "2024-02-01"}, KindTimestamp},
		{"datetimes", []string{"2024-01-15 10:30:00"}, KindTimestamp},
		{"rfc3339", []string{"2024-01-15T10:30:00Z"}, KindTimestamp},
		{"plain text", []string{"alpha", "beta"}, KindText},
		{"mixed text and numbers", []string{"1", "two"}, KindText},
		{"mixed bool and int", []string{"true", "1"}, KindText},
		{"leading zero stays text", []string{"00501", "10001"}, KindText},
		{"single zero is integer", []string{"0", "5"}, KindInteger},
		{"empties ignored", []string{"", "3", ""}, KindInteger},
		{"all empty", []string{"", ""}, KindText},
		{"no values", nil, KindText},
		{"whitespace trimmed", []string{" 7 ", "8"}, KindInteger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferColumn(tt.values); got != tt.want {
				t.Errorf("InferColumn(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestConvert(t *testing.T) {
	ts, _ := time.Parse("2006-01-02", "2024-01-15")

	tests := []struct {
		name string
		v    string
		kind Kind
		want any
	}{
		{"integer", "42", KindInteger, int64(42)},
		{"float", "2.5", KindFloat, 2.5},
		{"bool true", "TRUE", KindBool, true},
		{"bool false", "false", KindBool, false},
		{"date", "2024-01-15", KindTimestamp, ts},
		{"text", "hello", KindText, "hello"},
		{"empty is null", "", KindInteger, nil},
		{"blank is null", "   ", KindText, nil},
		{"unparseable falls back to text", "n/a", KindInteger, "n/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Convert(tt.v, tt.kind)
			if gt, ok := got.(time.Time); ok {
				if wt, ok := tt.want.(time.Time); !ok || !gt.Equal(wt) {
					t.Errorf("Convert(%q, %v) = %v, want %v", tt.v, tt.kind, got, tt.want)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Convert(%q, %v) = %v, want %v", tt.v, tt.kind, got, tt.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindText, "text"},
		{KindInteger, "integer"},
		{KindFloat, "float"},
		{KindBool, "bool"},
		{KindTimestamp, "timestamp"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
