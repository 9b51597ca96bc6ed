package darwin

// OptimumKeeper remembers the best individual seen so far.
type OptimumKeeper[T Genome[T]] struct {
	program    T
	score      ScoreCard
	generation int
	seen       bool
}

// Improved records program if score beats the best so far (or nothing is
// recorded yet) and reports whether it did. The simplified program is kept.
func (k *OptimumKeeper[T]) Improved(program T, score ScoreCard, generation int) bool {
	if k.seen && !k.score.Less(score) {
		return false
	}
	k.program = program.Simplify()
	k.score = score
	k.generation = generation
	k.seen = true
	return true
}

// Best returns the recorded individual, its score and generation. ok is
// false until Improved has accepted one.
func (k *OptimumKeeper[T]) Best() (program T, score ScoreCard, generation int, ok bool) {
	return k.program, k.score, k.generation, k.seen
}
