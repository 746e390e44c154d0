package cli

import (
	"strings"
	"testing"
)

func TestParseDelayRange(t *testing.T) {
	cases := []struct {
		raw      string
		min, max float64
		wantErr  bool
	}{
		{raw: "2..5", min: 2, max: 5},
		{raw: " 1.5 .. 3 ", min: 1.5, max: 3},
		{raw: "4", min: 4, max: 4},
		{raw: "0..0", min: 0, max: 0},
		{raw: "5..2", wantErr: true},
		{raw: "-1..3", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tc := range cases {
		r, err := parseDelayRange(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("parseDelayRange(%q): expected error, got %+v", tc.raw, r)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseDelayRange(%q): unexpected error %v", tc.raw, err)
		}
		if r.Min != tc.min || r.Max != tc.max {
			t.Fatalf("parseDelayRange(%q) = %v..%v, want %v..%v", tc.raw, r.Min, r.Max, tc.min, tc.max)
		}
	}
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	err := Run([]string{"frobnicate"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), "frobnicate") {
		t.Fatalf("expected error to name the command, got %q", err.Error())
	}
}

func TestFormatFloatDropsTrailingZeroes(t *testing.T) {
	if got := formatFloat(5); got != "5" {
		t.Fatalf("formatFloat(5) = %q, want %q", got, "5")
	}
	if got := formatFloat(2.5); got != "2.5" {
		t.Fatalf("formatFloat(2.5) = %q, want %q", got, "2.5")
	}
}
