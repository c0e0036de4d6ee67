// Package scoring holds the correctness rule shared by live answers,
// prediction uploads and per-row badges: two work ids compared as an
// unordered pair, with no partial credit.
package scoring

// Pair is two selected work ids. Order is as entered and carries no meaning.
// A slot <= 0 is unset.
type Pair struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Complete reports whether both slots are set
func (p Pair) Complete() bool {
	return p.A > 0 && p.B > 0
}

// Degenerate reports whether the same work was picked twice
func (p Pair) Degenerate() bool {
	return p.A == p.B
}

// IsMatch reports whether submitted equals correct as a set.
// An incomplete pair on either side never matches.
func IsMatch(submitted, correct Pair) bool {
	if !submitted.Complete() || !correct.Complete() {
		return false
	}
	return (submitted.A == correct.A && submitted.B == correct.B) ||
		(submitted.A == correct.B && submitted.B == correct.A)
}
