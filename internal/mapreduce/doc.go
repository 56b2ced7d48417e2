// Package mapreduce provides the word-count primitives animated by mrviz.
//
// The package defines the data flowing through the three MapReduce phases:
//
//   - [Tokenize]: text to ordered, normalized [Token] values
//   - [Emit]: tokens to (token, 1) [Pair] values
//   - [Group]: pairs to a [Groups] map, values kept in emission order
//   - [Reduce]: groups to a [Results] map of summed counts
//
// [ShuffleOrder] and [ReduceOrder] give the order in which buckets and
// result chips are presented.
//
// # Example
//
//	pairs := mapreduce.Emit(mapreduce.Tokenize("to be or not to be"))
//	groups := mapreduce.Group(pairs)
//	results := mapreduce.Reduce(groups)
//	for _, k := range mapreduce.ReduceOrder(results) {
//		fmt.Println(k, results[k])
//	}
//
// All functions are pure and safe for concurrent use.
package mapreduce
