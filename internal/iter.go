package internal

import (
	"iter"
)

// Concat2 chains pair iterators, yielding every pair of each in order.
func Concat2[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for k, v := range seq {
				if !yield(k, v) {
					return
				}
			}
		}
	}
}

// Collect2 gathers a pair iterator into a map. Later keys win.
func Collect2[K comparable, V any](seq iter.Seq2[K, V]) map[K]V {
	out := map[K]V{}
	for k, v := range seq {
		out[k] = v
	}
	return out
}
