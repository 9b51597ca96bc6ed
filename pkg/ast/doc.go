// Package ast defines the abstract syntax tree of moon lander control
// programs, together with evaluation, traversal, rebuilding,
// simplification, random generation and the textual and JSON encodings.
//
// A Program is either a single Command or an if-statement choosing between
// two sub-programs on a Condition. Conditions compare Expressions, and
// Expressions compute over constants and Sensor readings:
//
//	p := ast.If(ast.Less(ast.Vy(), ast.Constant(-2)), ast.Thrust(), ast.Skip())
//	cmd := p.Evaluate(readings)
//
// Trees are built from pointers so that individual nodes can be addressed by
// identity, which is what mutation and crossover rely on (see Replace).
package ast
