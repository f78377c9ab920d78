package task

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
)

// Hash returns an 8-char content fingerprint of the rubric. The encoding is
// order-independent: criteria are sorted by id and object keys are sorted by
// the JSON encoder, so two rubrics with the same content always hash
// identically. Every TaskScore is stamped with this hash so stale scores can
// be detected after a rubric edit.
func (r *Rubric) Hash() string {
	criteria := make([]Criterion, len(r.Criteria))
	copy(criteria, r.Criteria)
	sort.Slice(criteria, func(i, j int) bool { return criteria[i].ID < criteria[j].ID })

	canonical := struct {
		Name        string      `json:"name,omitempty"`
		TotalPoints int         `json:"total_points"`
		Criteria    []Criterion `json:"criteria"`
	}{r.Name, r.TotalPoints, criteria}

	data, err := json.Marshal(canonical)
	if err != nil {
		// Rubric is plain data; Marshal cannot fail on it.
		panic(err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:8]
}
