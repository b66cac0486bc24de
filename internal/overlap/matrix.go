// Package overlap builds the symmetric "ideas reference each other" relation.
package overlap

import (
	"sort"
	"strings"

	"github.com/ppiankov/ideaboard/internal/model"
)

// Matrix is a square boolean relation over idea IDs.
// It is symmetric and immutable once built; the diagonal is never set.
type Matrix struct {
	ids   []string
	index map[string]int
	cells [][]bool
}

// Build constructs the overlap matrix from each idea's Related references.
//
// A reference equal to a loaded ID marks that pair. Otherwise every loaded ID
// that is a prefix of the reference, or has the reference as a prefix, is
// marked (so "C (Extended)" matches "C" and "L" matches "L2"). References
// matching nothing are dropped. Both directions are written on every match.
func Build(ideas []*model.Idea) *Matrix {
	m := newMatrix(ideas)

	for _, idea := range ideas {
		for _, ref := range idea.Related {
			for _, target := range m.Resolve(ref) {
				m.mark(idea.ID, target)
			}
		}
	}

	return m
}

func newMatrix(ideas []*model.Idea) *Matrix {
	m := &Matrix{
		ids:   make([]string, 0, len(ideas)),
		index: make(map[string]int, len(ideas)),
	}
	for _, idea := range ideas {
		if _, dup := m.index[idea.ID]; dup {
			continue
		}
		m.index[idea.ID] = len(m.ids)
		m.ids = append(m.ids, idea.ID)
	}

	m.cells = make([][]bool, len(m.ids))
	for i := range m.cells {
		m.cells[i] = make([]bool, len(m.ids))
	}
	return m
}

// Resolve maps a textual reference onto the matrix IDs
func (m *Matrix) Resolve(ref string) []string {
	if _, ok := m.index[ref]; ok {
		return []string{ref}
	}
	return prefixMatches(m.ids, ref)
}

// Resolve maps a textual reference onto ids: the exact ID if present,
// otherwise every ID that is a prefix of ref or has ref as a prefix, in order.
func Resolve(ids []string, ref string) []string {
	for _, id := range ids {
		if id == ref {
			return []string{ref}
		}
	}
	return prefixMatches(ids, ref)
}

func prefixMatches(ids []string, ref string) []string {
	if ref == "" {
		return nil
	}
	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(ref, id) || strings.HasPrefix(id, ref) {
			matches = append(matches, id)
		}
	}
	return matches
}

func (m *Matrix) mark(a, b string) {
	if a == b {
		return
	}
	i, okA := m.index[a]
	j, okB := m.index[b]
	if !okA || !okB {
		return
	}
	m.cells[i][j] = true
	m.cells[j][i] = true
}

// IDs returns the matrix IDs in load order
func (m *Matrix) IDs() []string {
	return append([]string(nil), m.ids...)
}

// Len returns the number of IDs
func (m *Matrix) Len() int {
	return len(m.ids)
}

// Has reports whether a and b overlap. Unknown IDs and the diagonal report false.
func (m *Matrix) Has(a, b string) bool {
	i, okA := m.index[a]
	j, okB := m.index[b]
	if !okA || !okB {
		return false
	}
	return m.cells[i][j]
}

// Degree returns the number of ideas overlapping id
func (m *Matrix) Degree(id string) int {
	i, ok := m.index[id]
	if !ok {
		return 0
	}
	count := 0
	for j, v := range m.cells[i] {
		if v && j != i {
			count++
		}
	}
	return count
}

// Neighbors returns the IDs overlapping id, in load order
func (m *Matrix) Neighbors(id string) []string {
	i, ok := m.index[id]
	if !ok {
		return nil
	}
	var out []string
	for j, v := range m.cells[i] {
		if v && j != i {
			out = append(out, m.ids[j])
		}
	}
	return out
}

// Ranked is an ID with its overlap degree
type Ranked struct {
	ID     string
	Degree int
}

// TopConnected returns up to n IDs by descending degree; ties keep load order
func (m *Matrix) TopConnected(n int) []Ranked {
	ranked := make([]Ranked, len(m.ids))
	for i, id := range m.ids {
		ranked[i] = Ranked{ID: id, Degree: m.Degree(id)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Degree > ranked[j].Degree
	})

	if n >= 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// Symmetric reports whether Has(a, b) == Has(b, a) for every pair
func (m *Matrix) Symmetric() bool {
	for i := range m.cells {
		for j := range m.cells[i] {
			if m.cells[i][j] != m.cells[j][i] {
				return false
			}
		}
	}
	return true
}
