// Package suggest serves autocomplete over webinar titles, speaker names,
// and tag names. The endpoint is fail-open: a broken source is skipped and
// the rest still answer, because an empty dropdown beats a failed keystroke.
package suggest

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kadra-cloud/hrsearch/internal/config"
	"github.com/kadra-cloud/hrsearch/internal/domain/search/suggestion"
	"github.com/kadra-cloud/hrsearch/internal/trigram"
)

// Service builds autocomplete suggestions.
type Service struct {
	titles   TitleLister
	taxonomy TaxonomyLister
	cfg      config.SearchConfig
	logger   *zap.Logger
}

// New creates a suggest service.
func New(titles TitleLister, taxonomy TaxonomyLister, cfg config.SearchConfig, logger *zap.Logger) *Service {
	return &Service{titles: titles, taxonomy: taxonomy, cfg: cfg, logger: logger}
}

// Autocomplete returns completions for the prefix, ordered by kind
// (webinars, then speakers, then tags) and alphabetically within a kind.
// Each kind contributes at most its sublimit; the total is capped as well.
// Autocomplete never fails: source errors are logged and that source is
// skipped.
func (s *Service) Autocomplete(ctx context.Context, prefix string) []suggestion.Suggestion {
	folded := trigram.Normalize(strings.TrimSpace(prefix))
	if folded == "" {
		return []suggestion.Suggestion{}
	}

	var out []suggestion.Suggestion
	out = append(out, s.webinarSuggestions(ctx, folded)...)
	out = append(out, s.speakerSuggestions(ctx, folded)...)
	out = append(out, s.tagSuggestions(ctx, folded)...)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Kind() != out[j].Kind() {
			return out[i].Kind().Priority() < out[j].Kind().Priority()
		}
		return out[i].Text() < out[j].Text()
	})

	if len(out) > s.cfg.AutocompleteLimit {
		out = out[:s.cfg.AutocompleteLimit]
	}
	if out == nil {
		out = []suggestion.Suggestion{}
	}
	return out
}

func (s *Service) webinarSuggestions(ctx context.Context, folded string) []suggestion.Suggestion {
	webinars, err := s.titles.ListPublished(ctx)
	if err != nil {
		s.logger.Warn("autocomplete webinar source failed", zap.Error(err))
		return nil
	}

	texts := make([]string, 0, len(webinars))
	for i := range webinars {
		texts = append(texts, webinars[i].Title())
	}
	return s.matchPrefix(texts, folded, suggestion.KindWebinar)
}

func (s *Service) speakerSuggestions(ctx context.Context, folded string) []suggestion.Suggestion {
	speakers, err := s.taxonomy.ListSpeakers(ctx)
	if err != nil {
		s.logger.Warn("autocomplete speaker source failed", zap.Error(err))
		return nil
	}

	texts := make([]string, 0, len(speakers))
	for i := range speakers {
		texts = append(texts, speakers[i].Name())
	}
	return s.matchPrefix(texts, folded, suggestion.KindSpeaker)
}

func (s *Service) tagSuggestions(ctx context.Context, folded string) []suggestion.Suggestion {
	tags, err := s.taxonomy.ListTags(ctx)
	if err != nil {
		s.logger.Warn("autocomplete tag source failed", zap.Error(err))
		return nil
	}

	texts := make([]string, 0, len(tags))
	for i := range tags {
		texts = append(texts, tags[i].Name())
	}
	return s.matchPrefix(texts, folded, suggestion.KindTag)
}

// matchPrefix keeps texts whose folded form starts with the folded prefix,
// or whose folded words do. Matches are alphabetical and capped per kind.
func (s *Service) matchPrefix(texts []string, folded string, kind suggestion.Kind) []suggestion.Suggestion {
	var matched []string
	seen := make(map[string]bool, len(texts))

	for _, text := range texts {
		if seen[text] {
			continue
		}
		if matchesPrefix(trigram.Normalize(text), folded) {
			seen[text] = true
			matched = append(matched, text)
		}
	}

	sort.Strings(matched)
	if len(matched) > s.cfg.AutocompletePerKind {
		matched = matched[:s.cfg.AutocompletePerKind]
	}

	out := make([]suggestion.Suggestion, len(matched))
	for i, text := range matched {
		out[i] = suggestion.New(text, kind)
	}
	return out
}

func matchesPrefix(foldedText, foldedPrefix string) bool {
	if strings.HasPrefix(foldedText, foldedPrefix) {
		return true
	}
	for _, word := range strings.Fields(foldedText) {
		if strings.HasPrefix(word, foldedPrefix) {
			return true
		}
	}
	return false
}
