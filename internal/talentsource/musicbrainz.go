package talentsource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stagehand/internal/models"
)

const (
	// DefaultMusicBrainzURL is the public MusicBrainz web service.
	DefaultMusicBrainzURL = "https://musicbrainz.org"
	defaultSearchLimit    = 10
)

// MusicBrainzClient finds artists tagged with a genre on a MusicBrainz-style
// search endpoint and offers them as candidates for the queried role.
type MusicBrainzClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewMusicBrainzClient creates a client. MusicBrainz rejects requests without a
// descriptive User-Agent.
func NewMusicBrainzClient(baseURL, userAgent string) *MusicBrainzClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultMusicBrainzURL
	}
	return &MusicBrainzClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type mbSearchResponse struct {
	Artists []mbArtist `json:"artists"`
}

type mbArtist struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Score    int     `json:"score"`
	Country  string  `json:"country"`
	Area     *mbArea `json:"area,omitempty"`
	Tags     []mbTag `json:"tags"`
	LifeSpan struct {
		Ended bool `json:"ended"`
	} `json:"life-span"`
}

type mbArea struct {
	Name string `json:"name"`
}

type mbTag struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Name implements Source.
func (c *MusicBrainzClient) Name() string { return "musicbrainz" }

// Search implements Source.
func (c *MusicBrainzClient) Search(ctx context.Context, q Query) ([]models.TalentProfile, error) {
	genre := strings.TrimSpace(q.Genre)
	if genre == "" {
		return []models.TalentProfile{}, nil
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	params := url.Values{
		"query": []string{fmt.Sprintf("tag:%q AND type:person", genre)},
		"fmt":   []string{"json"},
		"limit": []string{strconv.Itoa(limit)},
	}

	var resp mbSearchResponse
	if err := c.doRequest(ctx, "/ws/2/artist", params, &resp); err != nil {
		return nil, err
	}

	out := make([]models.TalentProfile, 0, len(resp.Artists))
	for _, a := range resp.Artists {
		if a.ID == "" || a.LifeSpan.Ended {
			continue
		}
		out = append(out, toProfile(a, q.Role))
	}
	return out, nil
}

// toProfile labels the artist with the queried role. MusicBrainz tags describe
// genre, not job, so the role is assumed rather than verified.
func toProfile(a mbArtist, role models.TalentRole) models.TalentProfile {
	genres := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		if name := strings.TrimSpace(t.Name); name != "" {
			genres = append(genres, name)
		}
	}

	location := a.Country
	if a.Area != nil && a.Area.Name != "" {
		location = a.Area.Name
	}

	return models.TalentProfile{
		ID:       "mb:" + a.ID,
		Name:     a.Name,
		Roles:    []models.TalentRole{role},
		Genres:   genres,
		Location: location,
		Remote:   true,
		Portfolio: []models.PortfolioLink{
			{Platform: "musicbrainz", URL: "https://musicbrainz.org/artist/" + a.ID},
		},
		Source: "musicbrainz",
	}
}

func (c *MusicBrainzClient) doRequest(ctx context.Context, path string, params url.Values, result any) error {
	apiURL := c.baseURL + path
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("musicbrainz api error: %s - %s", resp.Status, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
