package model

import "strings"

// RegionPathSeparator joins ancestor names in a region's display path.
const RegionPathSeparator = " > "

type Region struct {
	ID       int64  `json:"id"`
	Name     string `json:"name" validate:"required,max=255"`
	ParentID *int64 `json:"parent_id"`
	Path     string `json:"path,omitempty"`
}

func (r *Region) IsRoot() bool {
	return r.ParentID == nil
}

// RegionNode is the nested shape consumed by dropdown tree widgets.
type RegionNode struct {
	Label    string        `json:"label"`
	Value    int64         `json:"value"`
	Children []*RegionNode `json:"children"`
}

// RegionPath renders ancestor names (root first) as "Root > Child > Leaf".
func RegionPath(names []string) string {
	return strings.Join(names, RegionPathSeparator)
}

// BuildRegionTree nests a flat region list by parent. Regions whose parent is
// missing from the list are treated as roots. Children keep the order of the
// input slice.
func BuildRegionTree(regions []*Region) []*RegionNode {
	nodes := make(map[int64]*RegionNode, len(regions))
	for _, r := range regions {
		nodes[r.ID] = &RegionNode{Label: r.Name, Value: r.ID, Children: []*RegionNode{}}
	}

	roots := make([]*RegionNode, 0)
	for _, r := range regions {
		node := nodes[r.ID]
		if r.ParentID != nil {
			if parent, ok := nodes[*r.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
