// Apple Music API implementation of [Adapter]
//
// Catalog reads use the developer token; library playlist writes additionally
// require the Music-User-Token header.
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
	"golang.org/x/time/rate"
)

const appleBaseURL = "https://api.music.apple.com/v1"

// AppleSong represents a catalog song resource.
type AppleSong struct {
	ID         string `json:"id"`
	Attributes struct {
		Name       string `json:"name"`
		ArtistName string `json:"artistName"`
	} `json:"attributes"`
}

type appleSongsResponse struct {
	Data []AppleSong `json:"data"`
}

type appleSearchResponse struct {
	Results struct {
		Songs struct {
			Data []AppleSong `json:"data"`
		} `json:"songs"`
	} `json:"results"`
}

// AppleAdapter implements [Adapter] against the Apple Music API.
type AppleAdapter struct {
	developerToken string
	userToken      string
	storefront     string
	httpClient     *http.Client
	limiter        *rate.Limiter
	baseURL        string
}

// NewAppleAdapter creates an Apple Music adapter from injected credentials.
func NewAppleAdapter(cfg shared.AppleConfig) *AppleAdapter {
	storefront := cfg.Storefront
	if storefront == "" {
		storefront = "us"
	}

	return &AppleAdapter{
		developerToken: cfg.DeveloperToken,
		userToken:      cfg.UserToken,
		storefront:     storefront,
		httpClient:     &http.Client{Timeout: 15 * time.Second},
		limiter:        rate.NewLimiter(rate.Limit(10), 5),
		baseURL:        appleBaseURL,
	}
}

// Name returns the platform tag.
func (a *AppleAdapter) Name() Platform {
	return AppleMusic
}

// SetBaseURL overrides the API base URL, for tests.
func (a *AppleAdapter) SetBaseURL(u string) {
	a.baseURL = u
}

// SetHTTPClient overrides the HTTP client, for tests.
func (a *AppleAdapter) SetHTTPClient(c *http.Client) {
	a.httpClient = c
}

func (a *AppleAdapter) doRequest(ctx context.Context, method, endpoint string, body, result any) (int, error) {
	if err := a.limiter.Wait(ctx); err != nil {
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

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+endpoint, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.developerToken)
	req.Header.Set("Content-Type", "application/json")
	if a.userToken != "" {
		req.Header.Set("Music-User-Token", a.userToken)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return resp.StatusCode, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("apple music API error: status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

// ResolveURL fetches song metadata for a music.apple.com URL.
func (a *AppleAdapter) ResolveURL(ctx context.Context, rawURL string) (*models.TrackIdentity, error) {
	songID := appleSongID(rawURL)
	if songID == "" {
		return nil, nil
	}

	endpoint := fmt.Sprintf("/catalog/%s/songs/%s", a.storefront, url.PathEscape(songID))

	var response appleSongsResponse
	status, err := a.doRequest(ctx, http.MethodGet, endpoint, nil, &response)
	if err != nil {
		return nil, platformErr(AppleMusic, "resolve url", err)
	}
	if status == http.StatusNotFound || len(response.Data) == 0 {
		return nil, nil
	}

	return appleIdentity(response.Data[0]), nil
}

// Search looks up the first catalog song matching the query.
func (a *AppleAdapter) Search(ctx context.Context, query string) (*models.TrackIdentity, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	endpoint := fmt.Sprintf("/catalog/%s/search?term=%s&types=songs&limit=1",
		a.storefront, url.QueryEscape(query))

	var response appleSearchResponse
	status, err := a.doRequest(ctx, http.MethodGet, endpoint, nil, &response)
	if err != nil {
		return nil, platformErr(AppleMusic, "search", err)
	}
	if status == http.StatusNotFound || len(response.Results.Songs.Data) == 0 {
		return nil, nil
	}

	return appleIdentity(response.Results.Songs.Data[0]), nil
}

// CreatePlaylist creates a library playlist seeded with the given song ids.
func (a *AppleAdapter) CreatePlaylist(ctx context.Context, name string, trackIDs []string) (string, error) {
	if len(trackIDs) == 0 {
		return "", nil
	}

	body := map[string]any{
		"attributes": map[string]any{"name": name},
		"relationships": map[string]any{
			"tracks": map[string]any{"data": appleSongRefs(trackIDs)},
		},
	}

	var response appleSongsResponse
	if _, err := a.doRequest(ctx, http.MethodPost, "/me/library/playlists", body, &response); err != nil {
		return "", platformErr(AppleMusic, "create playlist", err)
	}
	if len(response.Data) == 0 {
		return "", platformErr(AppleMusic, "create playlist", fmt.Errorf("empty response"))
	}

	return response.Data[0].ID, nil
}

// AddToPlaylist appends one catalog song to a library playlist.
func (a *AppleAdapter) AddToPlaylist(ctx context.Context, playlistID, trackID string) error {
	body := map[string]any{"data": appleSongRefs([]string{trackID})}
	endpoint := fmt.Sprintf("/me/library/playlists/%s/tracks", url.PathEscape(playlistID))
	if _, err := a.doRequest(ctx, http.MethodPost, endpoint, body, nil); err != nil {
		return platformErr(AppleMusic, "add to playlist", err)
	}
	return nil
}

func appleSongRefs(ids []string) []map[string]string {
	refs := make([]map[string]string, len(ids))
	for i, id := range ids {
		refs[i] = map[string]string{"id": id, "type": "songs"}
	}
	return refs
}

// appleSongID extracts the catalog song id from a music.apple.com URL.
//
// Album URLs carry the song id in the "i" query parameter
// ("/us/album/name/1440?i=144013"); song URLs carry it as the last path
// segment ("/us/song/name/144013").
func appleSongID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	if id := u.Query().Get("i"); id != "" {
		return id
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, segment := range segments {
		if segment == "song" && i < len(segments)-1 {
			return segments[len(segments)-1]
		}
	}
	return ""
}

func appleIdentity(song AppleSong) *models.TrackIdentity {
	return &models.TrackIdentity{
		Title:        song.Attributes.Name,
		Artist:       song.Attributes.ArtistName,
		AppleMusicID: song.ID,
	}
}
