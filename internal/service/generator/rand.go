package generator

import (
	"math"
	"math/rand"

	"github.com/phantomsec/compliance-dataset-generator/internal/infrastructure/config"
)

// Every stochastic decision draws from a stream owned by exactly one entity:
// customer attributes come from a run-level stream, and each customer's
// downstream facts come from a stream derived from (base seed, customer id).
// Workers never share streams, so output is identical for any worker count.

// deriveSeed mixes the base seed with a customer id using the splitmix64
// finalizer, giving well-separated streams even for adjacent ids.
func deriveSeed(base, customerID int64) int64 {
	z := uint64(base) ^ (uint64(customerID) * 0x9E3779B97F4A7C15)
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z ^= z >> 31
	return int64(z & math.MaxInt64)
}

func newStream(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// pickWeighted samples a key from an ordered weight table.
func pickWeighted(r *rand.Rand, table config.WeightTable) string {
	u := r.Float64() * table.Sum()
	var acc float64
	for _, e := range table {
		acc += e.Weight
		if u < acc {
			return e.Key
		}
	}
	return table[len(table)-1].Key
}

// randIntRange returns an integer uniform in [min, max].
func randIntRange(r *rand.Rand, min, max int) int {
	if min >= max {
		return min
	}
	return min + r.Intn(max-min+1)
}

// randFloatRange returns a float uniform in [min, max).
func randFloatRange(r *rand.Rand, min, max float64) float64 {
	if min >= max {
		return min
	}
	return min + r.Float64()*(max-min)
}

// logUniformInt samples log-uniformly in [min, max], spreading draws across
// orders of magnitude instead of clustering near the top of wide bands.
func logUniformInt(r *rand.Rand, min, max int64) int64 {
	if min >= max {
		return min
	}
	lo, hi := math.Log(float64(min)), math.Log(float64(max))
	v := int64(math.Round(math.Exp(lo + r.Float64()*(hi-lo))))
	if v < min {
		v = min
	}
	if v > max {
		v = max
	}
	return v
}
