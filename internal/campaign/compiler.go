package campaign

import (
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"
)

// MessageStep is one entry in a compiled message sequence, either a text
// step or a resolved media step. The backend reads Msg as the text body
// on text steps and as the caption on media steps, so it always
// serializes, even empty.
type MessageStep struct {
	Type     string `json:"type"`
	Msg      string `json:"msg"`
	MIMEType string `json:"mimetype,omitempty"`
	FileURL  string `json:"fileUrl,omitempty"`
}

// Picker selects an index into a media pool. Pick is only called with
// n > 0 and must return a value in [0, n).
type Picker interface {
	Pick(n int) int
}

type randPicker struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (p *randPicker) Pick(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r.Intn(n)
}

// NewSeededPicker returns a deterministic Picker for a given seed.
func NewSeededPicker(seed int64) Picker {
	return &randPicker{r: rand.New(rand.NewSource(seed))}
}

// NewPicker returns a time-seeded Picker.
func NewPicker() Picker {
	return NewSeededPicker(time.Now().UnixNano())
}

var (
	altPattern         = regexp.MustCompile(`alt="([^"]*)"`)
	placeholderPattern = regexp.MustCompile(`\{\{(imagem|video|audio|doc)`)
)

// HasPlaceholders reports whether the template references any media tag.
func HasPlaceholders(template string) bool {
	return placeholderPattern.MatchString(template)
}

// MediaPools groups hosted asset URLs by kind.
type MediaPools map[Kind][]string

// BuildPools collects the URLs of hosted assets, ignoring entries still
// waiting on an upload.
func BuildPools(media []MediaAsset) MediaPools {
	pools := make(MediaPools)
	for _, m := range media {
		if m.URL == "" {
			continue
		}
		pools[m.Kind] = append(pools[m.Kind], m.URL)
	}
	return pools
}

func (p MediaPools) pick(kind Kind, pick Picker) string {
	pool := p[kind]
	if len(pool) == 0 {
		return ""
	}
	return pool[pick.Pick(len(pool))]
}

func altText(block string) string {
	if m := altPattern.FindStringSubmatch(block); m != nil {
		return m[1]
	}
	return ""
}

func blockKind(block string) (Kind, bool) {
	for _, kind := range Kinds() {
		if strings.HasPrefix(block, "{{"+kind.Tag()) {
			return kind, true
		}
	}
	return "", false
}

// CompileVariation turns one template into a message sequence. Segments
// between {{quebra}} breaks become text steps, and segments opening with
// a media tag become media steps whose file is drawn from the pool of
// that kind. An empty pool yields a media step with an empty file, never
// an error. When the template carries no media tag at all, every hosted
// asset is appended after the text steps in upload order.
func CompileVariation(template string, media []MediaAsset, pick Picker) []MessageStep {
	pools := BuildPools(media)

	var steps []MessageStep
	for _, block := range strings.Split(template, Break) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if kind, ok := blockKind(block); ok {
			steps = append(steps, MessageStep{
				Type:     string(kind),
				Msg:      altText(block),
				MIMEType: kind.MIMEType(),
				FileURL:  pools.pick(kind, pick),
			})
			continue
		}
		steps = append(steps, MessageStep{Type: "text", Msg: block})
	}

	if !HasPlaceholders(template) {
		for _, m := range media {
			if m.URL == "" {
				continue
			}
			steps = append(steps, MessageStep{
				Type:     string(m.Kind),
				Msg:      m.Name,
				MIMEType: m.Kind.MIMEType(),
				FileURL:  m.URL,
			})
		}
	}

	return steps
}

// CompileCampaign compiles every variation against its own media and
// drops the ones that produce no steps. Pools never cross variations:
// a placeholder only resolves to files attached to the same variation.
func CompileCampaign(variations []Variation, pick Picker) [][]MessageStep {
	var compiled [][]MessageStep
	for _, v := range variations {
		steps := CompileVariation(v.Message, v.Media, pick)
		if len(steps) == 0 {
			continue
		}
		compiled = append(compiled, steps)
	}
	return compiled
}
