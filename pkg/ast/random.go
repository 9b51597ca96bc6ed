package ast

import (
	"math/rand/v2"
)

// Pick returns an index into weights chosen with probability proportional
// to its weight. It panics if the weights do not sum to a positive value.
func Pick(rng *rand.Rand, weights ...int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		panic("ast: Pick with no positive weight")
	}
	n := rng.IntN(total)
	for i, w := range weights {
		if n < w {
			return i
		}
		n -= w
	}
	return len(weights) - 1
}

// DefaultMaxDepth bounds generated trees when Generator.MaxDepth is zero.
const DefaultMaxDepth = 8

// Choice weights for generated nodes, in kind declaration order.
var (
	programWeights    = []int{1, 1}                         // Command, If
	conditionWeights  = []int{8, 8, 2, 1, 1, 1, 1, 1, 1, 1} // True ... Greater
	expressionWeights = []int{5, 5, 1, 1, 1, 1}             // Constant ... Divide
)

// Generator builds random trees. Trees it returns never have a Depth larger
// than MaxDepth: near the limit only leaves are chosen.
type Generator struct {
	Rand *rand.Rand

	// MaxDepth of generated trees; zero means DefaultMaxDepth. Values below
	// two are raised to two, the depth of a single command program.
	MaxDepth int

	// Sensors available to generated expressions; nil means AllSensors.
	Sensors []Sensor
}

// NewGenerator returns a Generator drawing from rng.
func NewGenerator(rng *rand.Rand, maxDepth int) *Generator {
	return &Generator{Rand: rng, MaxDepth: maxDepth}
}

func (g *Generator) budget() int {
	switch {
	case g.MaxDepth == 0:
		return DefaultMaxDepth
	case g.MaxDepth < 2:
		return 2
	}
	return g.MaxDepth
}

// Program returns a random program.
func (g *Generator) Program() *Program { return g.program(g.budget()) }

// Condition returns a random condition.
func (g *Generator) Condition() *Condition { return g.condition(g.budget()) }

// Expression returns a random expression.
func (g *Generator) Expression() *Expression { return g.expression(g.budget()) }

// Command returns a uniformly chosen command.
func (g *Generator) Command() Command {
	return AllCommands[g.Rand.IntN(len(AllCommands))]
}

// Sensor returns a uniformly chosen sensor from g.Sensors.
func (g *Generator) Sensor() Sensor {
	sensors := g.Sensors
	if len(sensors) == 0 {
		sensors = AllSensors
	}
	return sensors[g.Rand.IntN(len(sensors))]
}

// Node returns a fresh random node of type t, as the pointer type used by
// BucketCollector and Replace.
func (g *Generator) Node(t NodeType) any {
	switch t {
	case NodeProgram:
		return g.Program()
	case NodeCondition:
		return g.Condition()
	case NodeExpression:
		return g.Expression()
	case NodeCommand:
		c := g.Command()
		return &c
	case NodeSensor:
		s := g.Sensor()
		return &s
	}
	return nil
}

// Subtree returns a fresh random node of type t to be placed at level of a
// tree, sized so that the tree stays within MaxDepth.
func (g *Generator) Subtree(t NodeType, level int) any {
	budget := g.budget() - max(level, 1) + 1
	switch t {
	case NodeProgram:
		return g.program(budget)
	case NodeCondition:
		return g.condition(budget)
	case NodeExpression:
		return g.expression(budget)
	}
	return g.Node(t)
}

func (g *Generator) program(budget int) *Program {
	weights := programWeights
	if budget < 3 {
		weights = []int{1, 0}
	}
	if Pick(g.Rand, weights...) == 0 {
		return Do(g.Command())
	}
	return If(g.condition(budget-1), g.program(budget-1), g.program(budget-1))
}

func (g *Generator) condition(budget int) *Condition {
	weights := conditionWeights
	if budget < 2 {
		weights = []int{1, 1}
	}
	kind := ConditionKind(Pick(g.Rand, weights...))
	switch {
	case kind == CondNot:
		return Not(g.condition(budget - 1))
	case kind.Logical():
		return &Condition{Kind: kind, A: g.condition(budget - 1), B: g.condition(budget - 1)}
	case kind.Comparison():
		return Compare(kind, g.expression(budget-1), g.expression(budget-1))
	}
	return &Condition{Kind: kind}
}

func (g *Generator) expression(budget int) *Expression {
	weights := expressionWeights
	if budget < 2 {
		weights = []int{1}
	}
	kind := ExpressionKind(Pick(g.Rand, weights...))
	switch kind {
	case ExprConstant:
		return Constant(g.Rand.Float64())
	case ExprSensor:
		return Read(g.Sensor())
	}
	return Arith(kind, g.expression(budget-1), g.expression(budget-1))
}
