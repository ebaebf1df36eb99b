package services

import "dispend/internal/models"

// BuildCategoryTree nests a flat category list by parent reference. A
// category whose parent is null or missing from the list becomes a root.
// Roots and siblings keep the order of the input slice.
func BuildCategoryTree(categories []models.Category) []*CategoryNode {
	parents := parentIndex(categories)
	nodes := make(map[string]*CategoryNode, len(categories))
	ordered := make([]*CategoryNode, 0, len(categories))
	for _, c := range categories {
		node := &CategoryNode{Category: c, Children: []*CategoryNode{}}
		nodes[c.ID] = node
		ordered = append(ordered, node)
	}

	roots := []*CategoryNode{}
	for _, node := range ordered {
		if node.ParentID != nil {
			// Rows caught in a parent loop are shown as roots so none go missing.
			parent, ok := nodes[*node.ParentID]
			if ok && !reachesAncestor(parents, parent.ID, node.ID) {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}

// wouldCycle reports whether making parentID the parent of id would put id
// among its own ancestors.
func wouldCycle(categories []models.Category, id, parentID string) bool {
	return reachesAncestor(parentIndex(categories), parentID, id)
}

func parentIndex(categories []models.Category) map[string]string {
	parents := make(map[string]string, len(categories))
	for _, c := range categories {
		if c.ParentID != nil {
			parents[c.ID] = *c.ParentID
		}
	}
	return parents
}

// reachesAncestor walks up from start and reports whether target is start
// or one of its ancestors.
func reachesAncestor(parents map[string]string, start, target string) bool {
	seen := map[string]bool{}
	for cur := start; cur != ""; cur = parents[cur] {
		if cur == target {
			return true
		}
		if seen[cur] {
			return false
		}
		seen[cur] = true
	}
	return false
}
