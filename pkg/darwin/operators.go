package darwin

import (
	"math/rand/v2"

	"github.com/mesh-intelligence/lander/pkg/ast"
)

// Mutate returns a copy of root in which one node, chosen uniformly among
// the node types present and then uniformly within that type, is replaced
// by a fresh random node of the same type. The new node is small enough
// for a root within gen.MaxDepth to stay within it.
func Mutate[T Genome[T]](root T, gen *ast.Generator) T {
	nodes := ast.Collect(root)
	types := presentTypes(nodes)
	t := types[gen.Rand.IntN(len(types))]

	target := nodes.Node(t, gen.Rand.IntN(nodes.Count(t)))
	level, ok := ast.Level(root, target)
	if !ok {
		return root.Clone()
	}
	r, err := ast.NewReplace(target, gen.Subtree(t, level))
	if err != nil {
		return root.Clone()
	}
	return root.Copy(r)
}

// Crossover picks a node type present in both parents, one node of that
// type in each, and returns the two children obtained by swapping them.
// The parents are not modified.
func Crossover[T Genome[T]](a, b T, rng *rand.Rand) (T, T) {
	an, bn := ast.Collect(a), ast.Collect(b)

	var shared []ast.NodeType
	for _, t := range ast.NodeTypes {
		if an.Count(t) > 0 && bn.Count(t) > 0 {
			shared = append(shared, t)
		}
	}
	if len(shared) == 0 {
		return a.Clone(), b.Clone()
	}
	t := shared[rng.IntN(len(shared))]

	x := an.Node(t, rng.IntN(an.Count(t)))
	y := bn.Node(t, rng.IntN(bn.Count(t)))

	ra, errA := ast.NewReplace(x, y)
	rb, errB := ast.NewReplace(y, x)
	if errA != nil || errB != nil {
		return a.Clone(), b.Clone()
	}
	return a.Copy(ra), b.Copy(rb)
}

func presentTypes(nodes *ast.BucketCollector) []ast.NodeType {
	types := make([]ast.NodeType, 0, len(ast.NodeTypes))
	for _, t := range ast.NodeTypes {
		if nodes.Count(t) > 0 {
			types = append(types, t)
		}
	}
	return types
}
