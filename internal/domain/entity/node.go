// Package entity contains domain entities representing core layout concepts.
// These entities are pure Go types with no infrastructure dependencies.
package entity

// PanelID identifies a panel hosted by the embedding application.
// The layout engine treats it as an opaque capability; resolving a
// panel's title, content, or default size is the host's job.
type PanelID string

// SplitDirection indicates how a split node arranges its children.
type SplitDirection int

const (
	SplitNone       SplitDirection = iota // Leaf node
	SplitHorizontal                       // Children side by side (left/right)
	SplitVertical                         // Children stacked (top/bottom)
)

// Node is one node of the layout tree. It is either:
//   - Leaf node: Panel is set, Children and Sizes are empty
//   - Split node: SplitDir is set, Children holds two or more nodes and
//     Sizes holds one percentage per child, summing to 100
//
// Nodes carry no parent pointers. Mutations rebuild the changed path and
// share untouched subtrees, so an old root stays valid as a snapshot.
type Node struct {
	ID       string
	Panel    PanelID
	SplitDir SplitDirection
	Children []*Node
	Sizes    []float64
}

// NewLeaf creates a leaf node hosting the given panel.
func NewLeaf(id string, panel PanelID) *Node {
	return &Node{ID: id, Panel: panel}
}

// IsLeaf returns true if this node hosts a panel (no children).
func (n *Node) IsLeaf() bool {
	return n.Panel != "" && len(n.Children) == 0
}

// IsSplit returns true if this node splits into two or more children.
func (n *Node) IsSplit() bool {
	return n.SplitDir != SplitNone && len(n.Children) >= 2
}

// Walk traverses the tree calling fn for each node. Returns early if fn returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Find searches the tree for a node with the given structural ID.
// Returns nil if the ID is not present.
func (n *Node) Find(id string) *Node {
	var found *Node
	n.Walk(func(node *Node) bool {
		if node.ID == id {
			found = node
			return false
		}
		return true
	})
	return found
}

// FindPanel searches the tree for the leaf hosting the given panel.
func (n *Node) FindPanel(panel PanelID) *Node {
	var found *Node
	n.Walk(func(node *Node) bool {
		if node.IsLeaf() && node.Panel == panel {
			found = node
			return false
		}
		return true
	})
	return found
}

// LeafCount returns the number of leaf nodes (panels) in the tree.
func (n *Node) LeafCount() int {
	count := 0
	n.Walk(func(node *Node) bool {
		if node.IsLeaf() {
			count++
		}
		return true
	})
	return count
}

// PanelIDs returns the panels hosted by the tree in depth-first order.
func (n *Node) PanelIDs() []PanelID {
	var ids []PanelID
	n.Walk(func(node *Node) bool {
		if node.IsLeaf() {
			ids = append(ids, node.Panel)
		}
		return true
	})
	return ids
}

// HasPanel reports whether the tree hosts the given panel.
func (n *Node) HasPanel(panel PanelID) bool {
	return n.FindPanel(panel) != nil
}

// Clone returns a deep copy of the subtree rooted at n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	clone := &Node{
		ID:       n.ID,
		Panel:    n.Panel,
		SplitDir: n.SplitDir,
	}
	if len(n.Children) > 0 {
		clone.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			clone.Children[i] = child.Clone()
		}
	}
	if len(n.Sizes) > 0 {
		clone.Sizes = append([]float64(nil), n.Sizes...)
	}
	return clone
}

// sizeSumTolerance absorbs float drift when checking that sizes sum to 100.
const sizeSumTolerance = 0.01

// Valid reports whether the subtree satisfies the structural invariants:
// every split has at least two children with one size each, sizes sum to
// 100, and every leaf hosts a panel.
func (n *Node) Valid() bool {
	if n == nil {
		return false
	}
	if n.IsLeaf() {
		return true
	}
	if n.SplitDir == SplitNone || len(n.Children) < 2 {
		return false
	}
	if len(n.Sizes) != len(n.Children) {
		return false
	}
	sum := 0.0
	for _, size := range n.Sizes {
		if size <= 0 {
			return false
		}
		sum += size
	}
	if sum < 100-sizeSumTolerance || sum > 100+sizeSumTolerance {
		return false
	}
	for _, child := range n.Children {
		if !child.Valid() {
			return false
		}
	}
	return true
}
