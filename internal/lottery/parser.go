package lottery

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/shaw8386/server/internal/domain"
)

// Tier names in the order the vendor packs them into an issue's detail
// field. The north draw has 8 tiers, central and south have 9.
var (
	northTierNames = []string{"ĐB", "G1", "G2", "G3", "G4", "G5", "G6", "G7"}
	southTierNames = []string{"ĐB", "G1", "G2", "G3", "G4", "G5", "G6", "G7", "G8"}
)

func tierNames(region domain.Region) []string {
	if region == domain.RegionNorth {
		return northTierNames
	}
	return southTierNames
}

type vendorPayload struct {
	T struct {
		IssueList []vendorIssue `json:"issueList"`
	} `json:"t"`
}

type vendorIssue struct {
	TurnNum  string `json:"turnNum"`
	OpenTime string `json:"openTime"`
	Detail   string `json:"detail"`
}

// Parse normalizes a raw vendor payload into a PrizeTable for one
// issue. The issue whose turnNum matches targetDate wins; if none does
// the newest issue is used as a best-effort degrade. Every malformed
// input yields an empty table, meaning "no result available yet" -
// parsing never fails the check.
func Parse(raw []byte, region domain.Region, targetDate string) domain.PrizeTable {
	table := domain.PrizeTable{}

	var payload vendorPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		zap.L().Warn("unparseable vendor payload", zap.Error(err))
		return table
	}
	if len(payload.T.IssueList) == 0 {
		return table
	}

	issue, found := selectIssue(payload.T.IssueList, targetDate)
	if !found {
		zap.L().Warn("no issue for date, falling back to newest",
			zap.String("target_date", targetDate),
			zap.String("fallback", issue.TurnNum))
	}

	var groups []string
	if err := json.Unmarshal([]byte(issue.Detail), &groups); err != nil {
		zap.L().Warn("unparseable issue detail", zap.String("turn_num", issue.TurnNum), zap.Error(err))
		return table
	}

	names := tierNames(region)
	for i, group := range groups {
		if i >= len(names) {
			break
		}

		numbers := strings.Split(group, ",")
		for j, n := range numbers {
			numbers[j] = strings.TrimSpace(n)
		}
		table[names[i]] = numbers
	}

	return table
}

// selectIssue finds the issue labeled with the target date. The vendor
// labels issues DD/MM/YYYY while callers pass YYYY-MM-DD, so the target
// is converted first. The newest issue (index 0) is the fallback.
func selectIssue(issues []vendorIssue, targetDate string) (vendorIssue, bool) {
	target := targetDate
	if parts := strings.Split(targetDate, "-"); len(parts) == 3 {
		target = parts[2] + "/" + parts[1] + "/" + parts[0]
	}

	for _, issue := range issues {
		if issue.TurnNum == target {
			return issue, true
		}
	}

	return issues[0], false
}
