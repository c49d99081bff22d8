// Package recurrence stores weekday sets in a compact decimal form and bridges
// stored recurrence metadata to iCalendar RRULEs.
package recurrence

import "sort"

// Weekday indices follow time.Weekday: 0 = Sunday ... 6 = Saturday.
const (
	MinDay = 0
	MaxDay = 6
)

// Encode packs a weekday set into a decimal number, one digit per day.
// Days are written ascending with Sunday moved to the end, so a 0 digit can
// only be the leading digit when Sunday is the sole day:
//
//	{1,3,5} -> 135
//	{0,1}   -> 10
//	{0}     -> 0
//
// Duplicates and values outside 0..6 are ignored. An empty set encodes to 0,
// callers that need "absent" should use EncodePtr.
func Encode(days []int) int {
	n := 0
	for _, d := range order(days) {
		n = n*10 + d
	}
	return n
}

// EncodePtr is Encode with nil for an empty set
func EncodePtr(days []int) *int {
	if len(Normalize(days)) == 0 {
		return nil
	}
	n := Encode(days)
	return &n
}

// Decode splits the decimal digits of n back into a sorted weekday set.
// Digits 7-9 are ignored. Negative input yields nil.
func Decode(n int) []int {
	if n < 0 {
		return nil
	}
	if n == 0 {
		return []int{0}
	}
	var seen [MaxDay + 1]bool
	for ; n > 0; n /= 10 {
		if d := n % 10; d <= MaxDay {
			seen[d] = true
		}
	}
	out := make([]int, 0, MaxDay+1)
	for d, ok := range seen {
		if ok {
			out = append(out, d)
		}
	}
	return out
}

// DecodePtr decodes a stored value that may be absent
func DecodePtr(n *int) []int {
	if n == nil {
		return nil
	}
	return Decode(*n)
}

// Normalize returns the distinct valid days of s in ascending order
func Normalize(days []int) []int {
	var seen [MaxDay + 1]bool
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d < MinDay || d > MaxDay || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

// order is Normalize with Sunday moved last
func order(days []int) []int {
	out := Normalize(days)
	if len(out) > 1 && out[0] == 0 {
		out = append(out[1:], 0)
	}
	return out
}
