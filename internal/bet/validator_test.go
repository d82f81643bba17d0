package bet

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseStake(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "integer", raw: "10", want: "10"},
		{name: "fractional", raw: "0.5", want: "0.5"},
		{name: "trailing digits", raw: "12.345", want: "12.345"},
		{name: "zero rejected", raw: "0", wantErr: true},
		{name: "zero point zero rejected", raw: "0.00", wantErr: true},
		{name: "negative rejected", raw: "-5", wantErr: true},
		{name: "plus sign rejected", raw: "+5", wantErr: true},
		{name: "exponent rejected", raw: "1e3", wantErr: true},
		{name: "two dots rejected", raw: "1.2.3", wantErr: true},
		{name: "bare dot rejected", raw: ".5", wantErr: true},
		{name: "trailing dot rejected", raw: "5.", wantErr: true},
		{name: "empty rejected", raw: "", wantErr: true},
		{name: "text rejected", raw: "ten", wantErr: true},
		{name: "whitespace rejected", raw: " 10", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStake(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Errorf("ParseStake(%q) error = %v, want ErrInvalidAmount", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStake(%q) unexpected error: %v", tt.raw, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseStake(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	balance := decimal.NewFromInt(100)

	tests := []struct {
		name           string
		stake          string
		needsSelection bool
		hasSelection   bool
		wantErr        error
	}{
		{name: "ok without selection", stake: "10"},
		{name: "ok with selection", stake: "10", needsSelection: true, hasSelection: true},
		{name: "stake equals balance", stake: "100", hasSelection: true},
		{name: "over balance", stake: "100.01", wantErr: ErrInsufficientFunds},
		{name: "missing selection", stake: "10", needsSelection: true, wantErr: ErrNoSelection},
		{name: "funds checked before selection", stake: "500", needsSelection: true, wantErr: ErrInsufficientFunds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stake := decimal.RequireFromString(tt.stake)
			err := Validate(stake, balance, tt.needsSelection, tt.hasSelection)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate(%s) error = %v, want %v", tt.stake, err, tt.wantErr)
			}
		})
	}
}

func TestReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrInvalidAmount, "invalid_amount"},
		{ErrNoSelection, "no_selection"},
		{ErrInsufficientFunds, "insufficient_funds"},
		{errors.New("unrelated"), ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := Reason(tt.err); got != tt.want {
			t.Errorf("Reason(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
