package validation

import (
	"errors"
	"regexp"
	"strings"

	"github.com/forPelevin/gomoji"
	"github.com/rivo/uniseg"
)

var (
	timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

	weekdayIDs = map[string]bool{
		"monday":    true,
		"tuesday":   true,
		"wednesday": true,
		"thursday":  true,
		"friday":    true,
		"saturday":  true,
		"sunday":    true,
	}
)

// MaxCaptionGraphemes is the WhatsApp caption limit, counted in grapheme
// clusters so emoji and combining sequences are not over-counted.
const MaxCaptionGraphemes = 1024

// ValidateCaption enforces the caption length limit.
func ValidateCaption(caption string) error {
	if uniseg.GraphemeClusterCount(caption) > MaxCaptionGraphemes {
		return errors.New("caption exceeds the 1024 character limit")
	}
	return nil
}

// ValidateTimeOfDay ensures a schedule window bound is HH:MM.
func ValidateTimeOfDay(value string) error {
	if !timePattern.MatchString(strings.TrimSpace(value)) {
		return errors.New("time must be in HH:MM format")
	}
	return nil
}

// ValidateWeekday ensures a period entry is a known weekday id.
func ValidateWeekday(id string) error {
	if !weekdayIDs[strings.ToLower(strings.TrimSpace(id))] {
		return errors.New("unknown weekday id: " + id)
	}
	return nil
}

// SanitizeFileLabel strips emoji from an uploaded file's display label.
// The backend rejects document filenames carrying emoji.
func SanitizeFileLabel(label string) string {
	return strings.TrimSpace(gomoji.RemoveEmojis(label))
}
