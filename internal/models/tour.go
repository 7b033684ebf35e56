package models

// RateType says how a musician rate band is quoted
type RateType string

const (
	RatePerShow RateType = "per_show"
	RateWeekly  RateType = "weekly"
	RateMonthly RateType = "monthly"
)

// MusicianRole is a market rate band for a touring role
type MusicianRole struct {
	Role     string   `json:"role" yaml:"role"`
	RateType RateType `json:"rate_type" yaml:"rate_type"`
	RateMin  float64  `json:"rate_min" yaml:"rate_min"`
	RateMax  float64  `json:"rate_max" yaml:"rate_max"`
}

// TourExpenseStandards holds the flat costs used to estimate show expenses
type TourExpenseStandards struct {
	PerDiem struct {
		Regional      float64 `json:"regional" yaml:"regional"`
		National      float64 `json:"national" yaml:"national"`
		International float64 `json:"international" yaml:"international"`
	} `json:"per_diem" yaml:"per_diem"`
	Hotel struct {
		Budget  float64 `json:"budget" yaml:"budget"`
		Mid     float64 `json:"mid" yaml:"mid"`
		Comfort float64 `json:"comfort" yaml:"comfort"`
	} `json:"hotel" yaml:"hotel"`
	Transport struct {
		GasPerMile     float64 `json:"gas_per_mile" yaml:"gas_per_mile"`
		VanRentalDaily float64 `json:"van_rental_daily" yaml:"van_rental_daily"`
	} `json:"transport" yaml:"transport"`
	Production struct {
		BacklineRental float64 `json:"backline_rental" yaml:"backline_rental"`
		MerchTableFee  float64 `json:"merch_table_fee" yaml:"merch_table_fee"`
	} `json:"production" yaml:"production"`
}

// DealStructure is the revenue-sharing model of a show
type DealStructure string

const (
	DealGuarantee     DealStructure = "guarantee"
	DealDoorSplit     DealStructure = "door-split"
	DealGuaranteePlus DealStructure = "guarantee-plus"
	DealFlatFee       DealStructure = "flat-fee"
)

// ExpenseCategory groups show expenses
type ExpenseCategory string

const (
	ExpenseTransport  ExpenseCategory = "transport"
	ExpenseLodging    ExpenseCategory = "lodging"
	ExpensePerDiem    ExpenseCategory = "per_diem"
	ExpenseProduction ExpenseCategory = "production"
	ExpenseMerch      ExpenseCategory = "merch"
)

// TourExpense is one generated expense line for a show
type TourExpense struct {
	Category    ExpenseCategory `json:"category"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
}

// TourShow is a computed show in the tour projection
type TourShow struct {
	VenueID            string        `json:"venue_id"`
	VenueName          string        `json:"venue_name"`
	VenueTier          Tier          `json:"venue_tier"`
	ExpectedAttendance int           `json:"expected_attendance"`
	TicketPrice        float64       `json:"ticket_price"`
	DealStructure      DealStructure `json:"deal_structure"`
	Guarantee          *float64      `json:"guarantee,omitempty"`
	DoorSplit          *float64      `json:"door_split,omitempty"`
	DistanceMiles      float64       `json:"distance_miles"`
	ProjectedRevenue   float64       `json:"projected_revenue"`
	Expenses           []TourExpense `json:"expenses"`
	TotalExpenses      float64       `json:"total_expenses"`
	NetProfit          float64       `json:"net_profit"`
}

// BandMember is a session-scoped roster entry
type BandMember struct {
	ID           string  `json:"id" yaml:"id,omitempty"`
	Name         string  `json:"name" yaml:"name"`
	Role         string  `json:"role" yaml:"role"`
	RatePerShow  float64 `json:"rate_per_show" yaml:"rate_per_show"`
	IsCoreMember bool    `json:"is_core_member" yaml:"is_core_member"`
	TotalShows   int     `json:"total_shows" yaml:"total_shows,omitempty"`
	TotalPay     float64 `json:"total_pay" yaml:"total_pay,omitempty"`
}

// TourBudget is the aggregated tour P&L
type TourBudget struct {
	Shows              []TourShow                  `json:"shows"`
	Members            []BandMember                `json:"members"`
	TotalRevenue       float64                     `json:"total_revenue"`
	TotalExpenses      float64                     `json:"total_expenses"`
	TotalMusicianPay   float64                     `json:"total_musician_pay"`
	NetProfit          float64                     `json:"net_profit"`
	ProfitMargin       float64                     `json:"profit_margin"`
	ExpensesByCategory map[ExpenseCategory]float64 `json:"expenses_by_category"`
}
