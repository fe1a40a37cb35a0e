package engine

import "math/rand/v2"

// DieFaces is the number of faces on every die.
const DieFaces = 6

// Source supplies uniformly distributed integers in [0, n).
type Source interface {
	IntN(n int) int
}

// NewSource returns a seeded PCG source.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// roll draws a uniform integer in [lo, hi].
func roll(src Source, lo, hi int) int {
	return lo + src.IntN(hi-lo+1)
}

func rollDie(src Source) int {
	return roll(src, 1, DieFaces)
}

// CountFaces tallies how many dice show each face. Index 0 is unused
// except for unrolled placeholder dice.
func CountFaces(dice []int) [DieFaces + 1]int {
	var counts [DieFaces + 1]int
	for _, d := range dice {
		if d >= 0 && d <= DieFaces {
			counts[d]++
		}
	}
	return counts
}

// Range returns the integers from start to end inclusive.
func Range(start, end int) []int {
	if end < start {
		return nil
	}
	out := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, i)
	}
	return out
}

// Combinations returns every k-element subset of [0, n) as ascending index
// slices, in lexicographic order.
func Combinations(n, k int) [][]int {
	if k < 0 || k > n {
		return nil
	}
	var out [][]int
	combo := make([]int, k)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == k {
			c := make([]int, k)
			copy(c, combo)
			out = append(out, c)
			return
		}
		for i := start; i <= n-(k-depth); i++ {
			combo[depth] = i
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
	return out
}
