package taxonomy

import (
	"context"
	"errors"
	"testing"

	"github.com/kadra-cloud/hrsearch/internal/domain"
	"github.com/kadra-cloud/hrsearch/internal/domain/catalog"
)

func TestCreateCategory_ClaimsSlug(t *testing.T) {
	var slugKey string
	var slugValue []byte
	var hashKey string

	store := &mockStore{
		setFn: func(_ context.Context, key string, value []byte) error {
			slugKey = key
			slugValue = value
			return nil
		},
		hsetFn: func(_ context.Context, key string, _ map[string]string) error {
			hashKey = key
			return nil
		},
	}

	repo := New(store, domain.KeyPrefix)
	c, err := catalog.NewCategory("cat-1", "Rekrutacja", "rekrutacja")
	if err != nil {
		t.Fatalf("NewCategory: %v", err)
	}

	if err := repo.CreateCategory(context.Background(), &c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slugKey != domain.KeyPrefix+"category_slug:rekrutacja" {
		t.Errorf("unexpected slug key %q", slugKey)
	}
	if string(slugValue) != "cat-1" {
		t.Errorf("slug key should point at the category id, got %q", slugValue)
	}
	if hashKey != domain.KeyPrefix+"category:cat-1" {
		t.Errorf("unexpected hash key %q", hashKey)
	}
}

func TestCreateCategory_ConfiguredPrefix(t *testing.T) {
	var hashKey string
	store := &mockStore{
		hsetFn: func(_ context.Context, key string, _ map[string]string) error {
			hashKey = key
			return nil
		},
	}

	repo := New(store, "tenant-a:")
	c, err := catalog.NewCategory("cat-1", "Rekrutacja", "rekrutacja")
	if err != nil {
		t.Fatalf("NewCategory: %v", err)
	}

	if err := repo.CreateCategory(context.Background(), &c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hashKey != "tenant-a:category:cat-1" {
		t.Errorf("expected configured prefix in key, got %q", hashKey)
	}
}

func TestCreateCategory_SlugTaken(t *testing.T) {
	store := &mockStore{
		existsFn: func(_ context.Context, _ string) (bool, error) {
			return true, nil
		},
	}

	repo := New(store, domain.KeyPrefix)
	c, _ := catalog.NewCategory("cat-2", "Other", "rekrutacja")

	err := repo.CreateCategory(context.Background(), &c)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGetCategoryBySlug(t *testing.T) {
	store := &mockStore{
		getFn: func(_ context.Context, key string) ([]byte, error) {
			if key != domain.KeyPrefix+"category_slug:rekrutacja" {
				t.Errorf("unexpected lookup key %q", key)
			}
			return []byte("cat-1"), nil
		},
		hgetAllFn: func(_ context.Context, _ string) (map[string]string, error) {
			return map[string]string{"name": "Rekrutacja", "slug": "rekrutacja"}, nil
		},
	}

	repo := New(store, domain.KeyPrefix)
	c, err := repo.GetCategoryBySlug(context.Background(), "rekrutacja")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID() != "cat-1" || c.Name() != "Rekrutacja" {
		t.Errorf("unexpected category %s/%s", c.ID(), c.Name())
	}
}

func TestGetCategoryBySlug_Unknown(t *testing.T) {
	repo := New(&mockStore{}, domain.KeyPrefix)
	_, err := repo.GetCategoryBySlug(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListSpeakers_SkipsRelationKeys(t *testing.T) {
	store := &mockStore{
		scanFn: func(_ context.Context, pattern string) ([]string, error) {
			if pattern != domain.KeyPrefix+"speaker:*" {
				t.Errorf("unexpected pattern %q", pattern)
			}
			return []string{
				domain.KeyPrefix + "speaker:sp-2",
				domain.KeyPrefix + "speaker:sp-1",
				domain.KeyPrefix + "speaker:sp-1:webinars",
			}, nil
		},
		hgetAllMultiFn: func(_ context.Context, keys []string) ([]map[string]string, error) {
			out := make([]map[string]string, len(keys))
			for i, key := range keys {
				switch key {
				case domain.KeyPrefix + "speaker:sp-1":
					out[i] = map[string]string{"name": "Anna Kowalska"}
				case domain.KeyPrefix + "speaker:sp-2":
					out[i] = map[string]string{"name": "Jan Nowak"}
				}
			}
			return out, nil
		},
	}

	repo := New(store, domain.KeyPrefix)
	speakers, err := repo.ListSpeakers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(speakers) != 2 {
		t.Fatalf("expected 2 speakers, got %d", len(speakers))
	}
	if speakers[0].Name() != "Anna Kowalska" {
		t.Errorf("expected name-ascending order, got %q first", speakers[0].Name())
	}
}

func TestCreateSpeaker_Duplicate(t *testing.T) {
	store := &mockStore{
		existsFn: func(_ context.Context, _ string) (bool, error) {
			return true, nil
		},
	}

	repo := New(store, domain.KeyPrefix)
	s, _ := catalog.NewSpeaker("sp-1", "Anna Kowalska", "")

	err := repo.CreateSpeaker(context.Background(), &s)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestDeleteTag_ReleasesSlug(t *testing.T) {
	deleted := map[string]bool{}

	store := &mockStore{
		hgetAllFn: func(_ context.Context, _ string) (map[string]string, error) {
			return map[string]string{"name": "Onboarding", "slug": "onboarding"}, nil
		},
		delFn: func(_ context.Context, key string) error {
			deleted[key] = true
			return nil
		},
	}

	repo := New(store, domain.KeyPrefix)
	if err := repo.DeleteTag(context.Background(), "tag-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted[domain.KeyPrefix+"tag_slug:onboarding"] {
		t.Error("expected slug key deletion")
	}
	if !deleted[domain.KeyPrefix+"tag:tag-1"] {
		t.Error("expected tag hash deletion")
	}
}

func TestGetTagsMulti_SkipsMissing(t *testing.T) {
	store := &mockStore{
		hgetAllMultiFn: func(_ context.Context, keys []string) ([]map[string]string, error) {
			out := make([]map[string]string, len(keys))
			out[0] = map[string]string{"name": "HR", "slug": "hr"}
			return out, nil
		},
	}

	repo := New(store, domain.KeyPrefix)
	tags, err := repo.GetTagsMulti(context.Background(), []string{"tag-1", "tag-2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tags) != 1 {
		t.Fatalf("expected 1 tag, got %d", len(tags))
	}
	if _, ok := tags["tag-1"]; !ok {
		t.Error("expected tag-1 present")
	}
}
