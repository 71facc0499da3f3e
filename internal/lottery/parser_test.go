package lottery

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaw8386/server/internal/domain"
)

func vendorBody(t *testing.T, issues ...map[string]string) []byte {
	t.Helper()

	list := make([]map[string]string, 0, len(issues))
	list = append(list, issues...)

	body, err := json.Marshal(map[string]any{
		"t": map[string]any{"issueList": list},
	})
	require.NoError(t, err)

	return body
}

func detailOf(t *testing.T, groups ...string) string {
	t.Helper()

	detail, err := json.Marshal(groups)
	require.NoError(t, err)

	return string(detail)
}

func TestParse_NorthIssueRoundTrip(t *testing.T) {
	detail := detailOf(t,
		"12345",
		"67890",
		"11111,22222",
		"33333,44444,55555,66666,77777,88888",
		"1111,2222,3333,4444",
		"5555,6666,7777,8888,9999,0000",
		"111, 222, 333",
		"11,22,33,44",
	)
	raw := vendorBody(t, map[string]string{
		"turnNum":  "10/05/2024",
		"openTime": "2024-05-10 18:35",
		"detail":   detail,
	})

	table := Parse(raw, domain.RegionNorth, "2024-05-10")

	require.Len(t, table, 8)
	assert.Equal(t, []string{"12345"}, table["ĐB"])
	assert.Equal(t, []string{"67890"}, table["G1"])
	assert.Equal(t, []string{"11111", "22222"}, table["G2"])
	assert.Equal(t, []string{"111", "222", "333"}, table["G6"], "whitespace should be trimmed")
	assert.Equal(t, []string{"11", "22", "33", "44"}, table["G7"])
}

func TestParse_SouthIssueHasNineTiers(t *testing.T) {
	detail := detailOf(t, "123456", "12345", "11111", "22222", "33333", "4444", "5555", "666", "77")
	raw := vendorBody(t, map[string]string{"turnNum": "10/05/2024", "detail": detail})

	table := Parse(raw, domain.RegionSouth, "2024-05-10")

	require.Len(t, table, 9)
	assert.Equal(t, []string{"123456"}, table["ĐB"])
	assert.Equal(t, []string{"77"}, table["G8"])
}

func TestParse_ExtraGroupsDiscarded(t *testing.T) {
	detail := detailOf(t, "12345", "67890", "1", "2", "3", "4", "5", "6", "7", "8", "9")
	raw := vendorBody(t, map[string]string{"turnNum": "10/05/2024", "detail": detail})

	table := Parse(raw, domain.RegionNorth, "2024-05-10")

	assert.Len(t, table, 8)
}

func TestParse_SelectsIssueByDate(t *testing.T) {
	raw := vendorBody(t,
		map[string]string{"turnNum": "11/05/2024", "detail": detailOf(t, "99999")},
		map[string]string{"turnNum": "10/05/2024", "detail": detailOf(t, "12345")},
	)

	table := Parse(raw, domain.RegionNorth, "2024-05-10")

	assert.Equal(t, []string{"12345"}, table["ĐB"])
}

func TestParse_FallsBackToNewestIssue(t *testing.T) {
	raw := vendorBody(t,
		map[string]string{"turnNum": "11/05/2024", "detail": detailOf(t, "99999")},
		map[string]string{"turnNum": "10/05/2024", "detail": detailOf(t, "12345")},
	)

	table := Parse(raw, domain.RegionNorth, "2024-05-01")

	assert.Equal(t, []string{"99999"}, table["ĐB"])
}

func TestParse_MalformedInputsYieldEmptyTable(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"not json", []byte("<html>maintenance</html>")},
		{"empty body", []byte("")},
		{"missing t", []byte(`{"code": 500}`)},
		{"empty issue list", []byte(`{"t":{"issueList":[]}}`)},
		{"detail not json", []byte(`{"t":{"issueList":[{"turnNum":"10/05/2024","detail":"oops"}]}}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := Parse(tt.raw, domain.RegionNorth, "2024-05-10")
			assert.True(t, table.Empty())
		})
	}
}
