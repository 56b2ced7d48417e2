package mapreduce

import "fmt"

// Token is a normalized word: lowercase ASCII letters and digits only.
type Token string

// Pair is the unit emitted by the map phase.
type Pair struct {
	Key   Token
	Value int
}

func (p Pair) String() string {
	return fmt.Sprintf("<%s, %d>", p.Key, p.Value)
}

// Groups maps a token to the values emitted for it, in emission order.
type Groups map[Token][]int

// Results maps a token to the sum of its grouped values.
type Results map[Token]int

// Total returns the number of values across every group.
func (g Groups) Total() int {
	n := 0
	for _, vals := range g {
		n += len(vals)
	}
	return n
}

// Total returns the sum of every result.
func (r Results) Total() int {
	n := 0
	for _, v := range r {
		n += v
	}
	return n
}
