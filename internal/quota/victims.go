package quota

import (
	"sort"

	"github.com/mpetrenko/fieldstore/models"
)

// selectVictims picks eviction victims from candidates until at least
// need bytes are freed, oldest LastAccessedAt first. Pure: it only
// reads the snapshot and the eligibility predicate, so the policy can
// be tested without a storage backend. Returns the victims and the
// total bytes they free; the caller checks sufficiency.
func selectVictims(candidates []models.LocalDocument, need int64, eligible func(models.LocalDocument) bool) ([]models.LocalDocument, int64) {
	ordered := make([]models.LocalDocument, 0, len(candidates))
	for _, c := range candidates {
		if eligible(c) {
			ordered = append(ordered, c)
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].LastAccessedAt.Before(ordered[j].LastAccessedAt)
	})

	var victims []models.LocalDocument
	var freed int64
	for _, c := range ordered {
		if freed >= need {
			break
		}
		victims = append(victims, c)
		freed += c.SizeBytes
	}

	return victims, freed
}
