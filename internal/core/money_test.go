package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain integer", "100", "100", false},
		{"dot decimal", "12.50", "12.5", false},
		{"comma decimal", "12,50", "12.5", false},
		{"surrounding spaces", " 9.99 ", "9.99", false},
		{"zero", "0", "", true},
		{"negative", "-5", "", true},
		{"garbage", "abc", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("ParseAmount(%q) error = %v, want ErrInvalidAmount", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.input, err)
			}
			if want := decimal.RequireFromString(tt.want); !got.Equal(want) {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got, want)
			}
		})
	}
}

func TestFormatAmountRoundsHalfUp(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"100", "100.00"},
		{"12.5", "12.50"},
		{"0.005", "0.01"},
		{"33.333", "33.33"},
	}
	for _, tt := range tests {
		if got := FormatAmount(decimal.RequireFromString(tt.input)); got != tt.want {
			t.Errorf("FormatAmount(%s) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
