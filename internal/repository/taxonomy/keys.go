package taxonomy

func (r *Repo) categoryKey(id string) string {
	return r.prefix + "category:" + id
}

func (r *Repo) speakerKey(id string) string {
	return r.prefix + "speaker:" + id
}

func (r *Repo) tagKey(id string) string {
	return r.prefix + "tag:" + id
}

func (r *Repo) categorySlugKey(slug string) string {
	return r.prefix + "category_slug:" + slug
}

func (r *Repo) tagSlugKey(slug string) string {
	return r.prefix + "tag_slug:" + slug
}
