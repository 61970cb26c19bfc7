package engine

import "math/rand"

// sample draws one element of pool uniformly, skipping anything in exclude.
// It backs the toss, opening batsmen, bowler and replacement draws.
func sample(rng *rand.Rand, pool, exclude []string) (string, bool) {
	candidates := without(pool, exclude)
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[rng.Intn(len(candidates))], true
}

// sampleN draws n distinct elements without replacement.
func sampleN(rng *rand.Rand, pool, exclude []string, n int) ([]string, bool) {
	picked := make([]string, 0, n)
	skip := append([]string(nil), exclude...)
	for len(picked) < n {
		p, ok := sample(rng, pool, skip)
		if !ok {
			return nil, false
		}
		picked = append(picked, p)
		skip = append(skip, p)
	}
	return picked, true
}

// without returns pool minus exclude, preserving order.
func without(pool, exclude []string) []string {
	out := make([]string, 0, len(pool))
	for _, p := range pool {
		if !contains(exclude, p) {
			out = append(out, p)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
