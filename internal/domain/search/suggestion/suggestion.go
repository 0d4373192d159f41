// Package suggestion defines autocomplete suggestions and their fixed kind ordering.
package suggestion

// Kind is the entity kind a suggestion came from.
type Kind string

const (
	// KindWebinar is a published webinar title.
	KindWebinar Kind = "webinar"
	// KindSpeaker is a speaker name.
	KindSpeaker Kind = "speaker"
	// KindTag is a tag name.
	KindTag Kind = "tag"
)

// Priority returns the fixed ordering rank: webinar < speaker < tag.
// Unknown kinds sort last.
func (k Kind) Priority() int {
	switch k {
	case KindWebinar:
		return 0
	case KindSpeaker:
		return 1
	case KindTag:
		return 2
	}
	return 3
}

// Suggestion is a single autocomplete entry.
type Suggestion struct {
	text string
	kind Kind
}

// New creates a suggestion.
func New(text string, kind Kind) Suggestion {
	return Suggestion{text: text, kind: kind}
}

// Text returns the suggested completion.
func (s *Suggestion) Text() string { return s.text }

// Kind returns the entity kind.
func (s *Suggestion) Kind() Kind { return s.kind }
