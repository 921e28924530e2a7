package events

import (
	"fmt"
	"sort"
)

// sortKeysDeterministic orders keys by their string representation so
// weighted draws over a map are reproducible regardless of Go's
// randomized map iteration order.
func sortKeysDeterministic[K comparable](keys []K) {
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
	})
}
