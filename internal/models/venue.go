package models

// Tier is a venue size/prestige category
type Tier string

const (
	TierDiveBar  Tier = "dive-bar"
	TierClub     Tier = "club"
	TierMidSize  Tier = "mid-size"
	TierTheater  Tier = "theater"
	TierArena    Tier = "arena"
	TierFestival Tier = "festival"
)

// Tiers lists every tier from smallest to largest room
var Tiers = []Tier{TierDiveBar, TierClub, TierMidSize, TierTheater, TierArena, TierFestival}

// Valid reports whether t is a known tier
func (t Tier) Valid() bool {
	for _, known := range Tiers {
		if t == known {
			return true
		}
	}
	return false
}

// Venue represents a bookable room in the venue directory
type Venue struct {
	ID                  string   `json:"id" yaml:"id"`
	Name                string   `json:"name" yaml:"name"`
	City                string   `json:"city" yaml:"city"`
	State               string   `json:"state" yaml:"state"`
	Tier                Tier     `json:"tier" yaml:"tier"`
	Capacity            int      `json:"capacity" yaml:"capacity"`
	GuaranteeMin        float64  `json:"guarantee_min" yaml:"guarantee_min"`
	GuaranteeMax        float64  `json:"guarantee_max" yaml:"guarantee_max"`
	DoorSplitPercentage float64  `json:"door_split_percentage" yaml:"door_split_percentage"` // 0-100
	AvgTicketPrice      float64  `json:"avg_ticket_price" yaml:"avg_ticket_price"`
	Genres              []string `json:"genres" yaml:"genres"`
	RequiresDraw        int      `json:"requires_draw" yaml:"requires_draw"`
}

// VenueFilter narrows directory listings
type VenueFilter struct {
	City  string
	State string
	Tier  *Tier
}
