package models

import "strings"

// Stage is an artist maturity bucket derived from the self-assessment
type Stage string

const (
	StageEmerging    Stage = "Emerging"
	StageDeveloping  Stage = "Developing"
	StageEstablished Stage = "Established"
	StageBreakout    Stage = "Breakout"
)

// Stages lists every stage in ascending order
var Stages = []Stage{StageEmerging, StageDeveloping, StageEstablished, StageBreakout}

// ParseStage matches a stage name case-insensitively.
func ParseStage(raw string) (Stage, bool) {
	for _, s := range Stages {
		if strings.EqualFold(strings.TrimSpace(raw), string(s)) {
			return s, true
		}
	}
	return "", false
}

// StageScores holds the six 1-5 self-assessment answers
type StageScores struct {
	Craft    int `json:"craft" yaml:"craft"`
	Catalog  int `json:"catalog" yaml:"catalog"`
	Brand    int `json:"brand" yaml:"brand"`
	Team     int `json:"team" yaml:"team"`
	Audience int `json:"audience" yaml:"audience"`
	Ops      int `json:"ops" yaml:"ops"`
}

// Values returns the scores in assessment order
func (s StageScores) Values() []int {
	return []int{s.Craft, s.Catalog, s.Brand, s.Team, s.Audience, s.Ops}
}

// ArtistProfile is the artist-supplied context for planning
type ArtistProfile struct {
	ArtistName  string      `json:"artistName" yaml:"artistName"`
	Genres      string      `json:"genres" yaml:"genres"` // comma separated
	City        string      `json:"city" yaml:"city"`
	StageScores StageScores `json:"stageScores" yaml:"stageScores"`
}

// GenreList splits the comma separated genre string, dropping blanks.
func (a ArtistProfile) GenreList() []string {
	var genres []string
	for _, part := range strings.Split(a.Genres, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			genres = append(genres, trimmed)
		}
	}
	return genres
}
