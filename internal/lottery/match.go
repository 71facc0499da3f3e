package lottery

import (
	"strings"

	"github.com/shaw8386/server/internal/domain"
)

type tierRule struct {
	name   string
	digits int
}

// Suffix lengths per tier, checked highest prize first. The first tier
// with a matching suffix decides the verdict.
var (
	northTierRules = []tierRule{
		{"ĐB", 5}, {"G1", 5}, {"G2", 5}, {"G3", 5},
		{"G4", 4}, {"G5", 4}, {"G6", 3}, {"G7", 2},
	}
	southTierRules = []tierRule{
		{"ĐB", 6}, {"G1", 5}, {"G2", 5}, {"G3", 5}, {"G4", 5},
		{"G5", 4}, {"G6", 4}, {"G7", 3}, {"G8", 2},
	}
)

func tierRules(region domain.Region) []tierRule {
	if region == domain.RegionNorth {
		return northTierRules
	}
	return southTierRules
}

// Match compares a ticket number against a prize table. An empty table
// yields OutcomeNoResult, which callers must not confuse with a miss.
func Match(ticketNumber string, table domain.PrizeTable, region domain.Region) domain.Verdict {
	if table.Empty() {
		return domain.Verdict{Outcome: domain.OutcomeNoResult}
	}

	number := strings.TrimSpace(ticketNumber)
	for _, rule := range tierRules(region) {
		published, ok := table[rule.name]
		if !ok {
			continue
		}

		suffix := lastDigits(number, rule.digits)
		for _, winning := range published {
			if lastDigits(strings.TrimSpace(winning), rule.digits) == suffix {
				return domain.Verdict{Outcome: domain.OutcomeWin, Tier: rule.name}
			}
		}
	}

	return domain.Verdict{Outcome: domain.OutcomeNoWin}
}

func lastDigits(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
