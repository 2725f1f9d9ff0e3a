package model

// Transfer is one instructed payment in a settlement plan
type Transfer struct {
	From   string
	To     string
	Amount int64
}

// SettlementPlan is the read-only projection of how a set of pairwise
// balances collapses into transfers through a reference participant. It is at
// most one transfer per other participant.
type SettlementPlan struct {
	Standard  string
	Others    []string
	Transfers []Transfer
}

// Settlement is the result of committing a plan: every pairwise balance among
// the participants cleared, then the planned transfers recorded as payments,
// all tagged with the shared ID.
type Settlement struct {
	ID           string
	Plan         SettlementPlan
	ClearedPairs int
}
