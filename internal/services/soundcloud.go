// SoundCloud API implementation of [Adapter]
//
// Uses the /resolve endpoint to turn public permalinks into track resources.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iuliopime/bmat/internal/models"
	"github.com/iuliopime/bmat/internal/shared"
	"golang.org/x/time/rate"
)

const soundcloudBaseURL = "https://api.soundcloud.com"

// SoundCloudTrack represents a SoundCloud track resource.
type SoundCloudTrack struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Kind  string `json:"kind"`
	User  struct {
		Username string `json:"username"`
	} `json:"user"`
}

type soundcloudPlaylist struct {
	ID     int64             `json:"id"`
	Tracks []SoundCloudTrack `json:"tracks"`
}

// SoundCloudAdapter implements [Adapter] against the SoundCloud API.
type SoundCloudAdapter struct {
	clientID   string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// NewSoundCloudAdapter creates a SoundCloud adapter from injected credentials.
func NewSoundCloudAdapter(cfg shared.SoundCloudConfig) *SoundCloudAdapter {
	return &SoundCloudAdapter{
		clientID:   cfg.ClientID,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(10), 5),
		baseURL:    soundcloudBaseURL,
	}
}

// Name returns the platform tag.
func (s *SoundCloudAdapter) Name() Platform {
	return SoundCloud
}

// SetBaseURL overrides the API base URL, for tests.
func (s *SoundCloudAdapter) SetBaseURL(u string) {
	s.baseURL = u
}

// SetHTTPClient overrides the HTTP client, for tests.
func (s *SoundCloudAdapter) SetHTTPClient(c *http.Client) {
	s.httpClient = c
}

func (s *SoundCloudAdapter) doRequest(ctx context.Context, method, endpoint string, body, result any) (int, error) {
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

	apiURL := s.baseURL + endpoint
	if s.clientID != "" {
		separator := "?"
		if strings.Contains(endpoint, "?") {
			separator = "&"
		}
		apiURL += separator + "client_id=" + url.QueryEscape(s.clientID)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "OAuth "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return resp.StatusCode, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("soundcloud API error: status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

// ResolveURL resolves a public soundcloud.com permalink into a track.
func (s *SoundCloudAdapter) ResolveURL(ctx context.Context, rawURL string) (*models.TrackIdentity, error) {
	endpoint := "/resolve?url=" + url.QueryEscape(rawURL)

	var track SoundCloudTrack
	status, err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &track)
	if err != nil {
		return nil, platformErr(SoundCloud, "resolve url", err)
	}
	// The resolver also answers for user and playlist permalinks.
	if status == http.StatusNotFound || track.ID == 0 || (track.Kind != "" && track.Kind != "track") {
		return nil, nil
	}

	return soundcloudIdentity(track), nil
}

// Search looks up the first track matching the query.
func (s *SoundCloudAdapter) Search(ctx context.Context, query string) (*models.TrackIdentity, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	endpoint := "/tracks?q=" + url.QueryEscape(query) + "&limit=1"

	var tracks []SoundCloudTrack
	status, err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &tracks)
	if err != nil {
		return nil, platformErr(SoundCloud, "search", err)
	}
	if status == http.StatusNotFound || len(tracks) == 0 {
		return nil, nil
	}

	return soundcloudIdentity(tracks[0]), nil
}

// CreatePlaylist creates a public set seeded with the given track ids.
func (s *SoundCloudAdapter) CreatePlaylist(ctx context.Context, name string, trackIDs []string) (string, error) {
	if len(trackIDs) == 0 {
		return "", nil
	}

	refs, err := soundcloudTrackRefs(trackIDs)
	if err != nil {
		return "", platformErr(SoundCloud, "create playlist", err)
	}

	body := map[string]any{
		"playlist": map[string]any{
			"title":   name,
			"sharing": "public",
			"tracks":  refs,
		},
	}

	var playlist soundcloudPlaylist
	if _, err := s.doRequest(ctx, http.MethodPost, "/playlists", body, &playlist); err != nil {
		return "", platformErr(SoundCloud, "create playlist", err)
	}

	return strconv.FormatInt(playlist.ID, 10), nil
}

// AddToPlaylist appends one track to a set.
//
// The playlists endpoint replaces the track list wholesale on update, so the
// current membership is fetched first; a track already present is a no-op.
func (s *SoundCloudAdapter) AddToPlaylist(ctx context.Context, playlistID, trackID string) error {
	var playlist soundcloudPlaylist
	status, err := s.doRequest(ctx, http.MethodGet, "/playlists/"+url.PathEscape(playlistID), nil, &playlist)
	if err != nil {
		return platformErr(SoundCloud, "add to playlist", err)
	}
	if status == http.StatusNotFound {
		return platformErr(SoundCloud, "add to playlist", fmt.Errorf("playlist %s not found", playlistID))
	}

	ids := make([]string, 0, len(playlist.Tracks)+1)
	for _, track := range playlist.Tracks {
		id := strconv.FormatInt(track.ID, 10)
		if id == trackID {
			return nil
		}
		ids = append(ids, id)
	}
	ids = append(ids, trackID)

	refs, err := soundcloudTrackRefs(ids)
	if err != nil {
		return platformErr(SoundCloud, "add to playlist", err)
	}

	body := map[string]any{"playlist": map[string]any{"tracks": refs}}
	if _, err := s.doRequest(ctx, http.MethodPut, "/playlists/"+url.PathEscape(playlistID), body, nil); err != nil {
		return platformErr(SoundCloud, "add to playlist", err)
	}
	return nil
}

// soundcloudTrackRefs converts decimal id strings into the {"id": n}
// reference objects the playlists endpoint expects.
func soundcloudTrackRefs(ids []string) ([]map[string]int64, error) {
	refs := make([]map[string]int64, len(ids))
	for i, id := range ids {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid soundcloud track id %q: %w", id, err)
		}
		refs[i] = map[string]int64{"id": n}
	}
	return refs, nil
}

func soundcloudIdentity(track SoundCloudTrack) *models.TrackIdentity {
	return &models.TrackIdentity{
		Title:        track.Title,
		Artist:       track.User.Username,
		SoundCloudID: strconv.FormatInt(track.ID, 10),
	}
}
