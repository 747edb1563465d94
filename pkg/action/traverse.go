package action

import (
	"fmt"

	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

// Parent is implemented by every combinator so the block loader can walk
// the tree generically without a type switch over all ~15 combinator
// kinds. Children returns pointers so InitTree can overwrite each slot with
// the (possibly transformed) post-Init Stateless.
type Parent interface {
	Children() []*Node
}

// DeriveSignals unions the in/out signal sets of a combinator's children,
// the default behavior for any variant that doesn't declare its own
// InSignals/OutSignals.
func DeriveSignals(children []*Node, out func(Stateless) signal.Set) signal.Set {
	acc := signal.NewSet()
	for _, c := range children {
		if c == nil || c.Value == nil {
			continue
		}
		acc = acc.Union(out(c.Value))
	}
	return acc
}

// InitTree runs Init bottom-up over the whole tree rooted at n, replacing
// each Node's Value with the (possibly transformed) result.
func InitTree(n *Node) error {
	if n == nil || n.Value == nil {
		return nil
	}
	if p, ok := n.Value.(Parent); ok {
		for _, child := range p.Children() {
			if err := InitTree(child); err != nil {
				return err
			}
		}
	}
	next, err := n.Value.Init()
	if err != nil {
		return fmt.Errorf("action %s: init: %w", n.Tag, err)
	}
	n.Value = next
	return nil
}

// CollectResources gathers and deduplicates every Resources() address in
// the tree.
func CollectResources(n *Node, cfg Config) []resource.Addr {
	seen := make(map[resource.Addr]struct{})
	var out []resource.Addr
	var walk func(*Node)
	walk = func(n *Node) {
		if n == nil || n.Value == nil {
			return
		}
		for _, a := range n.Value.Resources(cfg) {
			if _, ok := seen[a]; !ok {
				seen[a] = struct{}{}
				out = append(out, a)
			}
		}
		if p, ok := n.Value.(Parent); ok {
			for _, child := range p.Children() {
				walk(child)
			}
		}
	}
	walk(n)
	return out
}

// CheckClosure verifies that the block-wide produced set equals the
// block-wide consumed set, with 0 implicitly a member of both.
func CheckClosure(n *Node) error {
	produced := signal.NewSet(signal.None)
	consumed := signal.NewSet(signal.None)
	var walk func(*Node)
	walk = func(n *Node) {
		if n == nil || n.Value == nil {
			return
		}
		produced = produced.Union(n.Value.OutSignals())
		consumed = consumed.Union(n.Value.InSignals())
		if p, ok := n.Value.(Parent); ok {
			for _, child := range p.Children() {
				walk(child)
			}
		}
	}
	walk(n)

	if !produced.Equal(consumed) {
		onlyProduced := diff(produced, consumed)
		onlyConsumed := diff(consumed, produced)
		return fmt.Errorf("action: signal closure violated: produced-only=%v consumed-only=%v",
			onlyProduced.Slice(), onlyConsumed.Slice())
	}
	return nil
}

func diff(a, b signal.Set) signal.Set {
	out := signal.NewSet()
	for id := range a {
		if !b.Has(id) {
			out.Add(id)
		}
	}
	return out
}
