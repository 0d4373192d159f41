package webinar

import (
	"strconv"
	"strings"
	"time"

	domweb "github.com/kadra-cloud/hrsearch/internal/domain/webinar"
)

const publishedQuery = "@status:{published}"

// recordedAtLayout is the stored date format (date precision is enough for tie-breaking).
const recordedAtLayout = "2006-01-02"

func (r *Repo) indexName() string {
	return r.prefix + "webinar:idx"
}

func (r *Repo) webinarKey(id string) string {
	return r.prefix + "webinar:" + id
}

func (r *Repo) webinarSpeakersKey(id string) string {
	return r.webinarKey(id) + ":speakers"
}

func (r *Repo) webinarTagsKey(id string) string {
	return r.webinarKey(id) + ":tags"
}

func (r *Repo) speakerWebinarsKey(id string) string {
	return r.prefix + "speaker:" + id + ":webinars"
}

func (r *Repo) tagWebinarsKey(id string) string {
	return r.prefix + "tag:" + id + ":webinars"
}

func (r *Repo) categoryWebinarsKey(id string) string {
	return r.prefix + "category:" + id + ":webinars"
}

func (r *Repo) idFromKey(key string) string {
	return strings.TrimPrefix(key, r.prefix+"webinar:")
}

// buildHashFields converts a domain Webinar into a flat map[string]string for HSET.
func buildHashFields(w *domweb.Webinar) map[string]string {
	return map[string]string{
		"title":        w.Title(),
		"description":  w.Description(),
		"category_id":  w.CategoryID(),
		"duration_min": strconv.Itoa(w.DurationMin()),
		"recorded_at":  w.RecordedAt().Format(recordedAtLayout),
		"status":       string(w.Status()),
	}
}

// parseHashFields converts a flat hash map back into a domain Webinar.
func parseHashFields(id string, m map[string]string) domweb.Webinar {
	duration, _ := strconv.Atoi(m["duration_min"])
	recorded, _ := time.Parse(recordedAtLayout, m["recorded_at"])

	return domweb.Reconstruct(
		id,
		m["title"],
		m["description"],
		m["category_id"],
		duration,
		recorded,
		domweb.Status(m["status"]),
	)
}
