package domain

// PrizeTable maps a prize tier name (ĐB, G1..G8) to the digit strings
// the draw authority published for that tier in one issue. Built fresh
// per check, never persisted. An empty table means the draw has not
// published yet.
type PrizeTable map[string][]string

func (t PrizeTable) Empty() bool {
	return len(t) == 0
}

// Verdict is the outcome of matching one ticket against a PrizeTable.
type Verdict struct {
	Outcome Outcome `json:"outcome"`
	Tier    string  `json:"tier,omitempty"`
}

type Outcome string

const (
	// OutcomeWin means a tier matched; Verdict.Tier names it.
	OutcomeWin Outcome = "win"
	// OutcomeNoWin means results exist and the ticket missed every tier.
	OutcomeNoWin Outcome = "no_win"
	// OutcomeNoResult means the draw has not published, so nothing was
	// decided. Not to be confused with a miss.
	OutcomeNoResult Outcome = "no_result"
)
