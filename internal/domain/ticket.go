package domain

import "time"

// Region identifies which of the three draw authorities a ticket
// belongs to. The vendor feed and the mobile client use the Vietnamese
// names (bac/trung/nam); they are normalized on ingestion.
type Region string

const (
	RegionNorth   Region = "north"
	RegionCentral Region = "central"
	RegionSouth   Region = "south"
)

var regionAliases = map[string]Region{
	"north":   RegionNorth,
	"central": RegionCentral,
	"south":   RegionSouth,
	"bac":     RegionNorth,
	"trung":   RegionCentral,
	"nam":     RegionSouth,
}

// ParseRegion normalizes a user-supplied region name.
func ParseRegion(s string) (Region, bool) {
	r, ok := regionAliases[s]
	return r, ok
}

type Ticket struct {
	ID                uint      `json:"id"`
	Number            string    `json:"number"`
	Region            Region    `json:"region"`
	Station           string    `json:"station"`
	Label             string    `json:"label"`
	NotificationToken string    `json:"-"`
	BuyDate           string    `json:"buy_date"` // YYYY-MM-DD
	ScheduledTime     time.Time `json:"scheduled_time"`
	Processed         bool      `json:"processed"`
	CreatedAt         time.Time `json:"created_at"`
}
