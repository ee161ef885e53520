package validation

import (
	"strings"
	"testing"
)

func TestValidateCaption(t *testing.T) {
	if err := ValidateCaption(strings.Repeat("a", MaxCaptionGraphemes)); err != nil {
		t.Errorf("caption at the limit should pass: %v", err)
	}
	if err := ValidateCaption(strings.Repeat("a", MaxCaptionGraphemes+1)); err == nil {
		t.Error("caption over the limit should fail")
	}
	// Each emoji is one grapheme cluster even when it spans several runes.
	if err := ValidateCaption(strings.Repeat("👍🏽", MaxCaptionGraphemes)); err != nil {
		t.Errorf("grapheme counting should not over-count emoji: %v", err)
	}
}

func TestValidateTimeOfDay(t *testing.T) {
	valid := []string{"00:00", "09:30", "23:59", " 12:00 "}
	for _, v := range valid {
		if err := ValidateTimeOfDay(v); err != nil {
			t.Errorf("ValidateTimeOfDay(%q) = %v, want nil", v, err)
		}
	}
	invalid := []string{"24:00", "9:30", "12:60", "meio-dia", ""}
	for _, v := range invalid {
		if err := ValidateTimeOfDay(v); err == nil {
			t.Errorf("ValidateTimeOfDay(%q) should fail", v)
		}
	}
}

func TestValidateWeekday(t *testing.T) {
	if err := ValidateWeekday("Monday"); err != nil {
		t.Errorf("weekday match should be case-insensitive: %v", err)
	}
	if err := ValidateWeekday("segunda"); err == nil {
		t.Error("unknown weekday id should fail")
	}
}

func TestSanitizeFileLabel(t *testing.T) {
	if got := SanitizeFileLabel("relatório 🔥.pdf"); got != "relatório .pdf" {
		t.Errorf("SanitizeFileLabel = %q", got)
	}
	if got := SanitizeFileLabel("  plain.pdf "); got != "plain.pdf" {
		t.Errorf("SanitizeFileLabel = %q", got)
	}
}
