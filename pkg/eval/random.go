package eval

import "math/rand"

// Random adds a small amount of noise to leaf evaluations: limit centi-units of noise in
// the range [-limit/2; limit/2]. A zero limit always returns zero, so it is safe to wire
// in unconditionally and let Options.Noise decide whether it ever perturbs a score.
type Random struct {
	rand  *rand.Rand
	limit int
}

func NewRandom(limit int, seed int64) Random {
	return Random{
		limit: limit,
		rand:  rand.New(rand.NewSource(seed)),
	}
}

// Sample returns one noise draw in centi-units.
func (n Random) Sample() Score {
	if n.limit <= 0 {
		return 0
	}
	return Score(n.rand.Intn(n.limit) - n.limit/2)
}
