package dataset

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/yogeshc/csv2rds/internal/errs"
)

func TestNormalizeColumns(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   []string
	}{
		{
			"spaces and case",
			[]string{"Country", "Order Priority"},
			[]string{"country", "order_priority"},
		},
		{
			"hyphens and dots",
			[]string{"Order-Date", "Unit.Price"},
			[]string{"order_date", "unit_price"},
		},
		{
			"surrounding whitespace",
			[]string{"  Ship Mode  "},
			[]string{"ship_mode"},
		},
		{
			"already normalized",
			[]string{"region", "total_profit"},
			[]string{"region", "total_profit"},
		},
		{
			"empty input",
			[]string{},
			[]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeColumns(tt.labels)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeColumns(%v) = %v, want %v", tt.labels, got, tt.want)
			}
		})
	}
}

func TestNormalizeColumnsIdempotent(t *testing.T) {
	labels := []string{"Country", "Order Priority", "Order-Date", "Unit.Price", "ok_already"}
	once := NormalizeColumns(labels)
	twice := NormalizeColumns(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("normalize is not idempotent: %v != %v", once, twice)
	}
}

func TestNormalizeColumnsPreservesLength(t *testing.T) {
	labels := []string{"A", "B", "C", "D"}
	if got := NormalizeColumns(labels); len(got) != len(labels) {
		t.Errorf("length changed: %d -> %d", len(labels), len(got))
	}
}

func TestCheckColumnCollisions(t *testing.T) {
	t.Run("no collision", func(t *testing.T) {
		if err := CheckColumnCollisions([]string{"country", "order_date"}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("collision detected", func(t *testing.T) {
		// "Order-Date" and "Order.Date" both normalize to order_date.
		normalized := NormalizeColumns([]string{"Order-Date", "Order.Date", "Region"})
		err := CheckColumnCollisions(normalized)
		if !errors.Is(err, errs.ErrValidation) {
			t.Fatalf("error = %v, want validation error", err)
		}
		if !strings.Contains(err.Error(), "order_date") {
			t.Errorf("error %q should name the colliding column", err)
		}
	})

	t.Run("triple collision reported once", func(t *testing.T) {
		err := CheckColumnCollisions([]string{"x", "x", "x"})
		if err == nil {
			t.Fatal("expected error")
		}
		if strings.Count(err.Error(), `"x"`) != 1 {
			t.Errorf("collision reported more than once: %q", err)
		}
	})
}
