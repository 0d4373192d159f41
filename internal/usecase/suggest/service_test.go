package suggest

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kadra-cloud/hrsearch/internal/config"
	"github.com/kadra-cloud/hrsearch/internal/domain/catalog"
	"github.com/kadra-cloud/hrsearch/internal/domain/search/suggestion"
	domweb "github.com/kadra-cloud/hrsearch/internal/domain/webinar"
)

type mockTitles struct {
	titles []string
	err    error
}

func (m *mockTitles) ListPublished(_ context.Context) ([]domweb.Webinar, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domweb.Webinar, len(m.titles))
	for i, title := range m.titles {
		out[i] = domweb.Reconstruct(
			"web", title, "", "", 30,
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), domweb.StatusPublished,
		)
	}
	return out, nil
}

type mockTaxonomy struct {
	speakers    []string
	tags        []string
	speakersErr error
	tagsErr     error
}

func (m *mockTaxonomy) ListSpeakers(_ context.Context) ([]catalog.Speaker, error) {
	if m.speakersErr != nil {
		return nil, m.speakersErr
	}
	out := make([]catalog.Speaker, len(m.speakers))
	for i, name := range m.speakers {
		out[i] = catalog.ReconstructSpeaker("sp", name, "")
	}
	return out, nil
}

func (m *mockTaxonomy) ListTags(_ context.Context) ([]catalog.Tag, error) {
	if m.tagsErr != nil {
		return nil, m.tagsErr
	}
	out := make([]catalog.Tag, len(m.tags))
	for i, name := range m.tags {
		out[i] = catalog.ReconstructTag("tag", name, "slug")
	}
	return out, nil
}

func newTestService(titles *mockTitles, taxonomy *mockTaxonomy) *Service {
	cfg := config.SearchConfig{AutocompleteLimit: 10, AutocompletePerKind: 3}
	return New(titles, taxonomy, cfg, zap.NewNop())
}

func TestSuggest_KindOrderingAndPrefix(t *testing.T) {
	titles := &mockTitles{titles: []string{"Rekrutacja w IT", "Motywacja zespołu"}}
	taxonomy := &mockTaxonomy{
		speakers: []string{"Renata Kowalska", "Jan Nowak"},
		tags:     []string{"rekrutacja", "onboarding"},
	}

	svc := newTestService(titles, taxonomy)
	got := svc.Autocomplete(context.Background(), "re")

	if len(got) != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(got))
	}
	if got[0].Kind() != suggestion.KindWebinar || got[0].Text() != "Rekrutacja w IT" {
		t.Errorf("expected webinar first, got %s/%s", got[0].Kind(), got[0].Text())
	}
	if got[1].Kind() != suggestion.KindSpeaker || got[1].Text() != "Renata Kowalska" {
		t.Errorf("expected speaker second, got %s/%s", got[1].Kind(), got[1].Text())
	}
	if got[2].Kind() != suggestion.KindTag || got[2].Text() != "rekrutacja" {
		t.Errorf("expected tag third, got %s/%s", got[2].Kind(), got[2].Text())
	}
}

func TestSuggest_FoldsDiacritics(t *testing.T) {
	titles := &mockTitles{titles: []string{"Świadczenia pracownicze"}}
	svc := newTestService(titles, &mockTaxonomy{})

	got := svc.Autocomplete(context.Background(), "swia")
	if len(got) != 1 || got[0].Text() != "Świadczenia pracownicze" {
		t.Fatalf("expected diacritic-folded match, got %v", got)
	}
}

func TestSuggest_MatchesWordPrefix(t *testing.T) {
	titles := &mockTitles{titles: []string{"Skuteczna rekrutacja w praktyce"}}
	svc := newTestService(titles, &mockTaxonomy{})

	got := svc.Autocomplete(context.Background(), "rekru")
	if len(got) != 1 {
		t.Fatalf("expected a mid-title word match, got %d", len(got))
	}
}

func TestSuggest_PerKindLimit(t *testing.T) {
	titles := &mockTitles{titles: []string{
		"HR basics", "HR advanced", "HR dla managerów", "HR onboarding", "HR prawo",
	}}
	svc := newTestService(titles, &mockTaxonomy{})

	got := svc.Autocomplete(context.Background(), "hr")
	if len(got) != 3 {
		t.Fatalf("expected per-kind cap of 3, got %d", len(got))
	}
	// Alphabetical within the kind.
	if got[0].Text() != "HR advanced" {
		t.Errorf("expected alphabetical order, got %q first", got[0].Text())
	}
}

func TestSuggest_FailOpen(t *testing.T) {
	titles := &mockTitles{err: errors.New("connection refused")}

	svc := newTestService(titles, &mockTaxonomy{speakers: []string{"Renata Kowalska"}})
	got := svc.Autocomplete(context.Background(), "re")

	if len(got) != 1 || got[0].Kind() != suggestion.KindSpeaker {
		t.Fatalf("expected the surviving source to answer, got %v", got)
	}
}

func TestSuggest_AllSourcesDown(t *testing.T) {
	titles := &mockTitles{err: errors.New("down")}
	taxonomy := &mockTaxonomy{speakersErr: errors.New("down"), tagsErr: errors.New("down")}

	svc := newTestService(titles, taxonomy)
	got := svc.Autocomplete(context.Background(), "re")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %v", got)
	}
}

func TestSuggest_EmptyPrefix(t *testing.T) {
	svc := newTestService(&mockTitles{titles: []string{"Rekrutacja"}}, &mockTaxonomy{})

	for _, prefix := range []string{"", " ", "\t"} {
		got := svc.Autocomplete(context.Background(), prefix)
		if len(got) != 0 {
			t.Errorf("prefix %q: expected no suggestions, got %d", prefix, len(got))
		}
	}
}

func TestSuggest_SingleCharPrefixMatchesAllKinds(t *testing.T) {
	svc := newTestService(
		&mockTitles{titles: []string{"Motywacja pracowników"}},
		&mockTaxonomy{speakers: []string{"Magdalena Nowak"}, tags: []string{"motywacja"}},
	)

	got := svc.Autocomplete(context.Background(), "m")
	if len(got) != 3 {
		t.Fatalf("expected 3 suggestions for prefix \"m\", got %d: %v", len(got), got)
	}

	want := []struct {
		text string
		kind suggestion.Kind
	}{
		{"Motywacja pracowników", suggestion.KindWebinar},
		{"Magdalena Nowak", suggestion.KindSpeaker},
		{"motywacja", suggestion.KindTag},
	}
	for i, w := range want {
		if got[i].Text() != w.text || got[i].Kind() != w.kind {
			t.Errorf("suggestion %d: expected %q (%s), got %q (%s)",
				i, w.text, w.kind, got[i].Text(), got[i].Kind())
		}
	}
}
