package ingest

import "colorledger/models"

// Dedup drops candidates whose business key already exists among existing
// formulas or earlier candidates. Order of the survivors is preserved.
func Dedup(candidates, existing []models.Formula) (kept []models.Formula, dropped int) {
	seen := make(map[BusinessKey]struct{}, len(existing)+len(candidates))
	for _, formula := range existing {
		seen[BusinessKeyOf(formula)] = struct{}{}
	}

	kept = make([]models.Formula, 0, len(candidates))
	for _, formula := range candidates {
		key := BusinessKeyOf(formula)
		if _, ok := seen[key]; ok {
			dropped++
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, formula)
	}
	return kept, dropped
}
