package campaign

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	spaceRuns = regexp.MustCompile(`\s{2,}`)
	breakRuns = regexp.MustCompile(`(\s*\{\{quebra\}\}\s*){2,}`)
)

// Variation is one message template being edited together with the
// assets attached to it.
type Variation struct {
	Message string       `json:"message"`
	Media   []MediaAsset `json:"media"`
}

// Editor holds the campaign messages under construction. An editor
// always keeps at least one variation.
type Editor struct {
	Variations []Variation `json:"variations"`
}

// NewEditor starts an editor with a single empty variation.
func NewEditor() *Editor {
	return &Editor{Variations: []Variation{{}}}
}

// AddVariation appends an empty variation and returns its index.
func (e *Editor) AddVariation() int {
	e.Variations = append(e.Variations, Variation{})
	return len(e.Variations) - 1
}

// RemoveVariation drops the variation at idx. The last remaining
// variation cannot be removed.
func (e *Editor) RemoveVariation(idx int) error {
	if idx < 0 || idx >= len(e.Variations) {
		return fmt.Errorf("variation %d does not exist", idx)
	}
	if len(e.Variations) == 1 {
		return errors.New("at least one message variation is required")
	}
	e.Variations = append(e.Variations[:idx], e.Variations[idx+1:]...)
	return nil
}

func (e *Editor) variation(idx int) (*Variation, error) {
	if idx < 0 || idx >= len(e.Variations) {
		return nil, fmt.Errorf("variation %d does not exist", idx)
	}
	return &e.Variations[idx], nil
}

// Attach registers a hosted asset on a variation. Images stack up;
// every other kind occupies a single slot, so a new upload replaces the
// previous asset of that kind. Either way the upload appends a fresh
// tag to the message, one tag per attach.
func (e *Editor) Attach(idx int, asset MediaAsset) error {
	v, err := e.variation(idx)
	if err != nil {
		return err
	}

	if asset.Kind == KindImage {
		v.Media = append(v.Media, asset)
	} else {
		kept := v.Media[:0]
		for _, m := range v.Media {
			if m.Kind != asset.Kind {
				kept = append(kept, m)
			}
		}
		v.Media = append(kept, asset)
	}

	v.Message = strings.TrimSpace(v.Message) + " " + asset.Kind.Placeholder("")
	return nil
}

// Detach removes the occurrence-th asset of the given kind from a
// variation, counting same-kind assets from zero, and strips exactly
// that occurrence of the kind's tag from the message. Whitespace runs
// and repeated breaks left behind are collapsed.
func (e *Editor) Detach(idx int, kind Kind, occurrence int) error {
	v, err := e.variation(idx)
	if err != nil {
		return err
	}

	seen := 0
	removed := false
	kept := v.Media[:0]
	for _, m := range v.Media {
		if m.Kind == kind {
			if seen == occurrence {
				seen++
				removed = true
				continue
			}
			seen++
		}
		kept = append(kept, m)
	}
	if !removed {
		return fmt.Errorf("no %s attachment at position %d", kind, occurrence)
	}
	v.Media = kept

	n := 0
	v.Message = kind.TagPattern().ReplaceAllStringFunc(v.Message, func(tag string) string {
		if n == occurrence {
			n++
			return ""
		}
		n++
		return tag
	})
	v.Message = CollapseMessage(v.Message)
	return nil
}

// CollapseMessage normalizes a message after tag removal: whitespace
// runs shrink to a single space, runs of breaks shrink to one break,
// and the result is trimmed.
func CollapseMessage(msg string) string {
	msg = spaceRuns.ReplaceAllString(msg, " ")
	msg = breakRuns.ReplaceAllString(msg, Break)
	return strings.TrimSpace(msg)
}
