package mapreduce

import "sort"

// Emit maps every token to a (token, 1) pair, keeping order and duplicates.
func Emit(tokens []Token) []Pair {
	pairs := make([]Pair, len(tokens))
	for i, t := range tokens {
		pairs[i] = Pair{Key: t, Value: 1}
	}
	return pairs
}

// Group collects pair values by key. Each key's values keep emission order.
func Group(pairs []Pair) Groups {
	groups := make(Groups)
	for _, p := range pairs {
		groups[p.Key] = append(groups[p.Key], p.Value)
	}
	return groups
}

// Reduce sums every group. It does not modify groups.
func Reduce(groups Groups) Results {
	results := make(Results, len(groups))
	for k, vals := range groups {
		sum := 0
		for _, v := range vals {
			sum += v
		}
		results[k] = sum
	}
	return results
}

// ShuffleOrder returns the group keys in ascending lexicographic order.
func ShuffleOrder(groups Groups) []Token {
	keys := make([]Token, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ReduceOrder returns the result keys by descending count, ties broken by
// ascending key.
func ReduceOrder(results Results) []Token {
	keys := make([]Token, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if results[keys[i]] != results[keys[j]] {
			return results[keys[i]] > results[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Count runs the whole pipeline over text.
func Count(text string) Results {
	return Reduce(Group(Emit(Tokenize(text))))
}
