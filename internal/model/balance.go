package model

// BalanceEntry is the net debt between two participants, keyed by the
// canonical (lexicographically ordered) pair. Debt > 0 means NameB owes NameA;
// Debt < 0 means NameA owes NameB. A zero entry is equivalent to no entry.
type BalanceEntry struct {
	NameA string
	NameB string
	Debt  int64
}

// OwedBy returns the directed amount the given participant owes the other end
// of this entry. Negative means they are owed. Returns 0 for names not on the
// entry.
func (e BalanceEntry) OwedBy(name string) int64 {
	switch name {
	case e.NameA:
		return -e.Debt
	case e.NameB:
		return e.Debt
	default:
		return 0
	}
}

// Involves reports whether the entry touches the given participant
func (e BalanceEntry) Involves(name string) bool {
	return e.NameA == name || e.NameB == name
}

// CanonicalPair orders two names into the canonical (NameA, NameB) form with
// NameA < NameB
func CanonicalPair(a, b string) (nameA, nameB string) {
	if a < b {
		return a, b
	}
	return b, a
}

// PairDelta converts "from lent amount to to" into the canonical pair and the
// signed delta to add to its debt. A positive delta means NameB owes NameA
// more.
func PairDelta(from, to string, amount int64) (nameA, nameB string, delta int64) {
	if from < to {
		return from, to, amount
	}
	return to, from, -amount
}
