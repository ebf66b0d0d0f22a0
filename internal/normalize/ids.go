package normalize

import (
	"sort"

	"github.com/wichananm65/rior-backend/internal/recommendation"
)

// IDSet is a set of product ids.
type IDSet map[int]struct{}

func (s IDSet) Add(id int) { s[id] = struct{}{} }

func (s IDSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the ids in ascending order.
func (s IDSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// ExtractReferencedIDs collects every id a payload mentions, both on
// top-level entries and inside their related products. Entries without an id
// are skipped.
func ExtractReferencedIDs(p recommendation.Payload) IDSet {
	ids := IDSet{}
	for _, e := range p.Products {
		if e.ID != nil {
			ids.Add(*e.ID)
		}
		for _, r := range e.RelatedProducts {
			if r.ID != nil {
				ids.Add(*r.ID)
			}
		}
	}
	return ids
}

// Unresolved returns the ids in want that have no product in found, sorted.
func Unresolved(want IDSet, found Catalog) []int {
	var missing []int
	for _, id := range want.Sorted() {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
