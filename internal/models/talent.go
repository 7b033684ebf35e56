package models

// TalentRole is a hireable creative or technical role
type TalentRole string

const (
	RoleSongwriter        TalentRole = "Songwriter"
	RoleProducer          TalentRole = "Producer"
	RoleMixer             TalentRole = "Mixer"
	RoleMasteringEngineer TalentRole = "Mastering Engineer"
	RoleSessionDrummer    TalentRole = "Session Drummer"
	RoleSessionGuitarist  TalentRole = "Session Guitarist"
	RoleVocalProducer     TalentRole = "Vocal Producer"
	RoleLiveMD            TalentRole = "Live MD"
	RoleVideographer      TalentRole = "Videographer"
	RoleGraphicDesigner   TalentRole = "Graphic Designer"
	RolePhotographer      TalentRole = "Photographer"
	RolePublicist         TalentRole = "Publicist"
)

// PortfolioLink points at published work
type PortfolioLink struct {
	Platform string `json:"platform" yaml:"platform"`
	URL      string `json:"url" yaml:"url"`
}

// TalentProfile is one entry of the talent directory
type TalentProfile struct {
	ID                string          `json:"id" yaml:"id"`
	Name              string          `json:"name" yaml:"name"`
	Roles             []TalentRole    `json:"roles" yaml:"roles"`
	Genres            []string        `json:"genres" yaml:"genres"`
	Location          string          `json:"location,omitempty" yaml:"location,omitempty"`
	Remote            bool            `json:"remote" yaml:"remote"`
	PerSongRate       *float64        `json:"perSongRate,omitempty" yaml:"perSongRate,omitempty"`
	DayRate           *float64        `json:"dayRate,omitempty" yaml:"dayRate,omitempty"`
	HourlyRate        *float64        `json:"hourlyRate,omitempty" yaml:"hourlyRate,omitempty"`
	Rating            *float64        `json:"rating,omitempty" yaml:"rating,omitempty"` // 0-5
	ResponseTimeHours *int            `json:"responseTimeHours,omitempty" yaml:"responseTimeHours,omitempty"`
	Portfolio         []PortfolioLink `json:"portfolio" yaml:"portfolio"`
	Source            string          `json:"source,omitempty" yaml:"source,omitempty"` // empty for directory entries
}

// HasRole reports whether the profile lists role
func (t TalentProfile) HasRole(role TalentRole) bool {
	for _, r := range t.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// BestRate returns perSongRate, then dayRate, then hourlyRate, else 0.
func (t TalentProfile) BestRate() float64 {
	switch {
	case t.PerSongRate != nil:
		return *t.PerSongRate
	case t.DayRate != nil:
		return *t.DayRate
	case t.HourlyRate != nil:
		return *t.HourlyRate
	default:
		return 0
	}
}

// TalentNeed is a role the project needs filled
type TalentNeed struct {
	Role      TalentRole `json:"role"`
	Count     int        `json:"count"`
	When      Phase      `json:"when"`
	Rationale string     `json:"rationale"`
}

// TalentCandidate is a scored directory match for a need
type TalentCandidate struct {
	Profile       TalentProfile `json:"profile"`
	Score         float64       `json:"score"`
	GenreMatch    bool          `json:"genreMatch"`
	Rate          float64       `json:"rate"`
	Affordability float64       `json:"affordability"`
}

// TalentRecommendation groups candidates for one need
type TalentRecommendation struct {
	Need       TalentNeed        `json:"need"`
	Ceiling    *float64          `json:"ceiling,omitempty"`
	Fallback   bool              `json:"fallback"` // ceiling filtered everyone out
	Candidates []TalentCandidate `json:"candidates"`
}
