// Package merch sizes a merch order to a target quantity.
package merch

import (
	"math/big"
	"sort"
	"strings"
)

// SizeOrder is the fixed order sizes are listed and remainders handed out in.
var SizeOrder = []string{"XS", "S", "M", "L", "XL", "2XL", "3XL"}

// DefaultCurve is the size mix used when the caller has no history.
var DefaultCurve = map[string]int{
	"S":   15,
	"M":   30,
	"L":   30,
	"XL":  15,
	"2XL": 10,
}

// Rebalance scales counts so they sum to exactly total.
//
// Each size gets the floor of its proportional share. The units lost to
// flooring go one at a time to sizes with a non-zero share, in Sizes order.
// An empty or all-zero map is scaled using DefaultCurve. Negative counts are
// treated as zero. Shares are computed exactly, so very large histories keep
// their proportions.
func Rebalance(counts map[string]int, total int) map[string]int {
	weights := make(map[string]int, len(counts))
	sum := new(big.Int)
	for size, n := range counts {
		if n < 0 {
			n = 0
		}
		weights[size] = n
		sum.Add(sum, big.NewInt(int64(n)))
	}
	if sum.Sign() == 0 {
		weights = make(map[string]int, len(DefaultCurve))
		for size, n := range DefaultCurve {
			weights[size] = n
			sum.Add(sum, big.NewInt(int64(n)))
		}
	}

	out := make(map[string]int, len(weights))
	if total <= 0 {
		for size := range weights {
			out[size] = 0
		}
		return out
	}

	order := Sizes(weights)
	assigned := 0
	bigTotal := big.NewInt(int64(total))
	share := new(big.Int)
	for _, size := range order {
		share.Mul(big.NewInt(int64(weights[size])), bigTotal)
		share.Quo(share, sum)
		out[size] = int(share.Int64())
		assigned += out[size]
	}

	for remainder := total - assigned; remainder > 0; {
		for _, size := range order {
			if remainder == 0 {
				break
			}
			if weights[size] == 0 {
				continue
			}
			out[size]++
			remainder--
		}
	}

	return out
}

// Sizes returns the keys of counts in SizeOrder, then the rest alphabetically.
// Known sizes match case-insensitively.
func Sizes(counts map[string]int) []string {
	rank := make(map[string]int, len(SizeOrder))
	for i, s := range SizeOrder {
		rank[s] = i
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, iKnown := rank[strings.ToUpper(keys[i])]
		rj, jKnown := rank[strings.ToUpper(keys[j])]
		switch {
		case iKnown && jKnown && ri != rj:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

// Sum adds every count.
func Sum(counts map[string]int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}
