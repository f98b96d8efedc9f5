package folder

// Node is a folder with its resolved children.
type Node struct {
	Folder   Folder
	Children []*Node
}

// BuildTree assembles a forest from a flat folder list.
// A folder whose parent is not in the input is treated as a root, so a
// dangling parent ref degrades gracefully instead of dropping the subtree.
// A folder whose parent chain loops back to itself (legacy data) is cut
// loose as a root, which breaks the cycle for everything hanging off it.
// Sibling and root order follows input order; every input folder appears
// exactly once.
func BuildTree(folders []Folder) []*Node {
	nodes := make(map[string]*Node, len(folders))
	for i := range folders {
		nodes[folders[i].ID] = &Node{Folder: folders[i]}
	}

	var roots []*Node
	for i := range folders {
		n := nodes[folders[i].ID]
		parent, ok := nodes[folders[i].ParentID]
		if folders[i].ParentID == "" || !ok || chainLoopsBack(folders[i], nodes) {
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}
	return roots
}

// chainLoopsBack reports whether following f's parent chain returns to f.
func chainLoopsBack(f Folder, nodes map[string]*Node) bool {
	seen := map[string]bool{f.ID: true}
	cur, ok := nodes[f.ParentID]
	for ok {
		if cur.Folder.ID == f.ID {
			return true
		}
		if seen[cur.Folder.ID] {
			// cycle above f that does not include f; handled when
			// its own members are processed
			return false
		}
		seen[cur.Folder.ID] = true
		if cur.Folder.ParentID == "" {
			return false
		}
		cur, ok = nodes[cur.Folder.ParentID]
	}
	return false
}

// Descendants returns the IDs of all folders under rootID (excluding rootID
// itself), walking the flat list. Used for cycle checks on move.
func Descendants(folders []Folder, rootID string) map[string]bool {
	children := make(map[string][]string, len(folders))
	for i := range folders {
		if folders[i].ParentID != "" {
			children[folders[i].ParentID] = append(children[folders[i].ParentID], folders[i].ID)
		}
	}

	out := make(map[string]bool)
	stack := []string{rootID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range children[id] {
			if out[child] {
				continue
			}
			out[child] = true
			stack = append(stack, child)
		}
	}
	return out
}
