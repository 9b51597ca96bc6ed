// Package darwin evolves populations of control programs.
//
// A Population holds individuals of one root type (*ast.Program or
// *ast.Condition), scores them with a Scorer and breeds the next
// generation by tournament selection followed by reproduction, subtree
// mutation or subtree crossover. OptimumKeeper tracks the best individual
// seen across generations.
package darwin
