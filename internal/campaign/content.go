package campaign

import (
	"fmt"
	"regexp"
)

// Kind identifies the media family of an uploaded asset. The string
// values are what the backend expects in shot message steps.
type Kind string

const (
	KindImage    Kind = "image"
	KindVideo    Kind = "video"
	KindAudio    Kind = "audio"
	KindDocument Kind = "document"
)

// Break separates message steps inside a template.
const Break = "{{quebra}}"

var kindTags = map[Kind]string{
	KindImage:    "imagem",
	KindVideo:    "video",
	KindAudio:    "audio",
	KindDocument: "doc",
}

var kindMIMETypes = map[Kind]string{
	KindImage:    "image/png",
	KindVideo:    "video/mp4",
	KindAudio:    "audio/mpeg",
	KindDocument: "application/pdf",
}

var tagKinds = func() map[string]Kind {
	m := make(map[string]Kind, len(kindTags))
	for k, t := range kindTags {
		m[t] = k
	}
	return m
}()

// Kinds lists every media kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindImage, KindVideo, KindAudio, KindDocument}
}

// ParseKind maps a wire value back to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindImage, KindVideo, KindAudio, KindDocument:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown media kind %q", s)
}

// Tag returns the template tag name for the kind, e.g. "imagem" for images.
func (k Kind) Tag() string {
	return kindTags[k]
}

// MIMEType returns the fixed mimetype sent to the backend for the kind.
func (k Kind) MIMEType() string {
	return kindMIMETypes[k]
}

// Placeholder renders the full template tag with the given alt text.
func (k Kind) Placeholder(alt string) string {
	return "{{" + k.Tag() + ` alt="` + alt + `"}}`
}

// TagPattern matches every occurrence of the kind's tag, with any
// attribute payload up to the closing braces.
func (k Kind) TagPattern() *regexp.Regexp {
	return regexp.MustCompile(`\{\{` + k.Tag() + `[^}]*\}\}`)
}

// MediaAsset is one uploaded file already hosted by the backend.
type MediaAsset struct {
	Kind Kind   `json:"kind"`
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
}
