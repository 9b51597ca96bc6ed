package darwin

import "github.com/mesh-intelligence/lander/pkg/ast"

// Genome is the root type of an evolved tree. *ast.Program and
// *ast.Condition satisfy Genome of themselves.
type Genome[T any] interface {
	ast.Node
	Copy(c ast.Copier) T
	Clone() T
	Simplify() T
}
