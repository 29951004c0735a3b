package prompt

import (
	"strings"
	"testing"
)

func TestParseNumber_AcceptsValuesInRange(t *testing.T) {
	cases := []struct {
		raw        string
		min, max   float64
		allowFloat bool
		want       float64
	}{
		{"0", 0, 120, false, 0},
		{"120", 0, 120, false, 120},
		{"4", 1, 4, false, 4},
		{"2.5", 0, 60, true, 2.5},
	}
	for _, tc := range cases {
		got, err := parseNumber(tc.raw, tc.min, tc.max, 0, false, tc.allowFloat)
		if err != nil {
			t.Fatalf("parseNumber(%q) failed: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("parseNumber(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestParseNumber_EmptyUsesDefaultWhenPresent(t *testing.T) {
	got, err := parseNumber("", 1, 4, 4, true, false)
	if err != nil {
		t.Fatalf("expected default, got error: %v", err)
	}
	if got != 4 {
		t.Fatalf("expected default 4, got %v", got)
	}

	if _, err := parseNumber("", 1, 4, 0, false, false); err == nil {
		t.Fatalf("expected error when empty without default")
	}
}

func TestParseNumber_Rejections(t *testing.T) {
	cases := []struct {
		name       string
		raw        string
		min, max   float64
		allowFloat bool
		wantSubstr string
	}{
		{"not a number", "abc", 0, 10, false, "valid integer"},
		{"float when integer required", "2.5", 0, 10, false, "whole"},
		{"below minimum", "-1", 0, 10, false, "greater or equal to 0"},
		{"above maximum", "11", 0, 10, false, "maximum value is 10"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseNumber(tc.raw, tc.min, tc.max, 0, false, tc.allowFloat)
			if err == nil {
				t.Fatalf("expected error for %q", tc.raw)
			}
			if !strings.Contains(err.Error(), tc.wantSubstr) {
				t.Fatalf("error %q does not mention %q", err, tc.wantSubstr)
			}
		})
	}
}

func TestFindOption(t *testing.T) {
	opts := []Option{{Key: "u", Label: "upload"}, {Key: "s", Label: "skip"}}
	if i := findOption(opts, "s"); i != 1 {
		t.Fatalf("expected index 1, got %d", i)
	}
	if i := findOption(opts, "x"); i != -1 {
		t.Fatalf("expected -1 for unknown key, got %d", i)
	}
}
