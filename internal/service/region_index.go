package service

import "github.com/yakoovad/meeting-guide/internal/model"

// regionIndex answers ancestor and descendant questions over the whole
// region table loaded in one query.
type regionIndex struct {
	byID     map[int64]*model.Region
	children map[int64][]int64
}

func newRegionIndex(regions []*model.Region) *regionIndex {
	idx := &regionIndex{
		byID:     make(map[int64]*model.Region, len(regions)),
		children: make(map[int64][]int64),
	}
	for _, r := range regions {
		idx.byID[r.ID] = r
		if r.ParentID != nil {
			idx.children[*r.ParentID] = append(idx.children[*r.ParentID], r.ID)
		}
	}
	return idx
}

// ancestors returns region names from the root down to id, inclusive.
func (idx *regionIndex) ancestors(id int64) []string {
	names := make([]string, 0, 4)
	seen := make(map[int64]bool)

	for cur, ok := idx.byID[id]; ok && !seen[cur.ID]; {
		seen[cur.ID] = true
		names = append(names, cur.Name)
		if cur.ParentID == nil {
			break
		}
		cur, ok = idx.byID[*cur.ParentID]
	}

	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return names
}

func (idx *regionIndex) path(id int64) string {
	return model.RegionPath(idx.ancestors(id))
}

// descendants returns id and every region below it.
func (idx *regionIndex) descendants(id int64) []int64 {
	out := []int64{id}
	for i := 0; i < len(out); i++ {
		out = append(out, idx.children[out[i]]...)
	}
	return out
}

func (idx *regionIndex) isDescendant(id, of int64) bool {
	for _, d := range idx.descendants(of) {
		if d == id {
			return true
		}
	}
	return false
}
