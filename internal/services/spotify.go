// Spotify Web API implementation of [Adapter]
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iuliopime/bmat/internal/models"
	"github.com/iuliopime/bmat/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const spotifyBaseURL = "https://api.spotify.com/v1"

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []SpotifyArtist `json:"artists"`
	URI     string          `json:"uri"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifySearchResponse struct {
	Tracks struct {
		Items []SpotifyTrack `json:"items"`
	} `json:"tracks"`
}

type spotifyPlaylist struct {
	ID string `json:"id"`
}

// SpotifyAdapter implements [Adapter] against the Spotify Web API.
//
// Requests carry the configured bearer token via an [oauth2] client and are
// paced by a client-side rate limiter.
type SpotifyAdapter struct {
	userID     string
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// NewSpotifyAdapter creates a Spotify adapter from injected credentials.
// An empty token is allowed; requests will then fail with an auth error at
// call time rather than at construction.
func NewSpotifyAdapter(cfg shared.SpotifyConfig) *SpotifyAdapter {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	client := oauth2.NewClient(context.Background(), src)
	client.Timeout = 15 * time.Second

	return &SpotifyAdapter{
		userID:     cfg.UserID,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(10), 5),
		baseURL:    spotifyBaseURL,
	}
}

// Name returns the platform tag.
func (s *SpotifyAdapter) Name() Platform {
	return Spotify
}

// SetBaseURL overrides the API base URL, for tests.
func (s *SpotifyAdapter) SetBaseURL(u string) {
	s.baseURL = u
}

func (s *SpotifyAdapter) doRequest(ctx context.Context, method, endpoint string, body, result any) (int, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return resp.StatusCode, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("spotify API error: status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

// ResolveURL fetches track metadata for an open.spotify.com/track URL.
func (s *SpotifyAdapter) ResolveURL(ctx context.Context, rawURL string) (*models.TrackIdentity, error) {
	trackID := spotifyTrackID(rawURL)
	if trackID == "" {
		return nil, nil
	}

	var track SpotifyTrack
	status, err := s.doRequest(ctx, http.MethodGet, "/tracks/"+trackID, nil, &track)
	if err != nil {
		return nil, platformErr(Spotify, "resolve url", err)
	}
	if status == http.StatusNotFound {
		return nil, nil
	}

	return spotifyIdentity(track), nil
}

// Search looks up the first track matching the query.
func (s *SpotifyAdapter) Search(ctx context.Context, query string) (*models.TrackIdentity, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	endpoint := fmt.Sprintf("/search?q=%s&type=track&limit=1", url.QueryEscape(query))

	var response spotifySearchResponse
	status, err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response)
	if err != nil {
		return nil, platformErr(Spotify, "search", err)
	}
	if status == http.StatusNotFound || len(response.Tracks.Items) == 0 {
		return nil, nil
	}

	return spotifyIdentity(response.Tracks.Items[0]), nil
}

// CreatePlaylist creates a private playlist and seeds it with the given URIs.
func (s *SpotifyAdapter) CreatePlaylist(ctx context.Context, name string, trackIDs []string) (string, error) {
	if len(trackIDs) == 0 {
		return "", nil
	}

	create := map[string]any{
		"name":        name,
		"public":      false,
		"description": "Curated by bmat",
	}

	var playlist spotifyPlaylist
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(s.userID))
	if _, err := s.doRequest(ctx, http.MethodPost, endpoint, create, &playlist); err != nil {
		return "", platformErr(Spotify, "create playlist", err)
	}

	// Track additions are capped at 100 URIs per request.
	for start := 0; start < len(trackIDs); start += 100 {
		end := min(start+100, len(trackIDs))
		body := map[string]any{"uris": trackIDs[start:end]}
		if _, err := s.doRequest(ctx, http.MethodPost, "/playlists/"+playlist.ID+"/tracks", body, nil); err != nil {
			return "", platformErr(Spotify, "seed playlist", err)
		}
	}

	return playlist.ID, nil
}

// AddToPlaylist appends one track URI to an existing playlist.
// Spotify accepts duplicate additions, so no membership check is needed.
func (s *SpotifyAdapter) AddToPlaylist(ctx context.Context, playlistID, trackID string) error {
	body := map[string]any{"uris": []string{trackID}}
	if _, err := s.doRequest(ctx, http.MethodPost, "/playlists/"+playlistID+"/tracks", body, nil); err != nil {
		return platformErr(Spotify, "add to playlist", err)
	}
	return nil
}

// spotifyTrackID extracts the track id from an open.spotify.com/track URL.
// Returns "" for URLs that do not point at a track.
func spotifyTrackID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, segment := range segments {
		// Locale prefixes ("/intl-es/track/...") shift the id segment.
		if segment == "track" && i+1 < len(segments) {
			return segments[i+1]
		}
	}
	return ""
}

func spotifyIdentity(track SpotifyTrack) *models.TrackIdentity {
	identity := &models.TrackIdentity{
		Title:      track.Name,
		SpotifyURI: track.URI,
	}
	if identity.SpotifyURI == "" && track.ID != "" {
		identity.SpotifyURI = "spotify:track:" + track.ID
	}
	if len(track.Artists) > 0 {
		identity.Artist = track.Artists[0].Name
	}
	return identity
}
