package extract

import (
	"sort"

	"github.com/ppiankov/ideaboard/internal/model"
)

// SortKey positions an idea ID: compound IDs sort right after their base letter
type SortKey struct {
	Letter string
	Sub    int
}

// Orderer sorts idea IDs with compound-ID awareness
type Orderer struct {
	compound map[string]SortKey
}

// NewOrderer creates an orderer from a compound rank table
func NewOrderer(ranks []model.CompoundRank) *Orderer {
	compound := make(map[string]SortKey, len(ranks))
	for _, r := range ranks {
		compound[r.ID] = SortKey{Letter: r.Base, Sub: r.Rank}
	}
	return &Orderer{compound: compound}
}

// Key returns the sort key for an ID
func (o *Orderer) Key(id string) SortKey {
	if key, ok := o.compound[id]; ok {
		return key
	}
	return SortKey{Letter: id}
}

// Less reports whether a sorts before b.
// Equal keys fall back to the raw ID so the order is total.
func (o *Orderer) Less(a, b string) bool {
	ka, kb := o.Key(a), o.Key(b)
	if ka.Letter != kb.Letter {
		return ka.Letter < kb.Letter
	}
	if ka.Sub != kb.Sub {
		return ka.Sub < kb.Sub
	}
	return a < b
}

// SortIDs sorts ids in place
func (o *Orderer) SortIDs(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		return o.Less(ids[i], ids[j])
	})
}

// Sort sorts ideas in place by ID
func (o *Orderer) Sort(ideas []*model.Idea) {
	sort.SliceStable(ideas, func(i, j int) bool {
		return o.Less(ideas[i].ID, ideas[j].ID)
	})
}
