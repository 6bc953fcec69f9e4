package provider

import "cinelist/pkg/models"

// Dedupe drops repeated entries keyed by (type, id), keeping the first
// occurrence in place. Keying on id alone would be wrong for mixed-type
// collections such as the combined popular feed, where a movie and an anime
// can share the same numeric id.
//
// Input order is preserved: provider pages are popularity-ranked and a
// map-based pass must not reshuffle them.
func Dedupe(items []models.Media) []models.Media {
	seen := make(map[models.MediaKey]struct{}, len(items))
	out := make([]models.Media, 0, len(items))
	for _, m := range items {
		key := m.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}
	return out
}
