// YouTube Data API implementation of [Adapter]
//
// YouTube contributes title/artist metadata to resolution only. Playlist
// writes require a user OAuth grant the service does not hold, so the write
// operations fail with a platform error and no YouTube id is ever persisted.
package services

import (
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

const youtubeBaseURL = "https://www.googleapis.com/youtube/v3"

type youtubeSnippet struct {
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
}

type youtubeVideosResponse struct {
	Items []struct {
		ID      string         `json:"id"`
		Snippet youtubeSnippet `json:"snippet"`
	} `json:"items"`
}

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet youtubeSnippet `json:"snippet"`
	} `json:"items"`
}

// YouTubeAdapter implements [Adapter] against the YouTube Data API.
type YouTubeAdapter struct {
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// NewYouTubeAdapter creates a YouTube adapter from an injected API key.
func NewYouTubeAdapter(cfg shared.YouTubeConfig) *YouTubeAdapter {
	return &YouTubeAdapter{
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(10), 5),
		baseURL:    youtubeBaseURL,
	}
}

// Name returns the platform tag.
func (y *YouTubeAdapter) Name() Platform {
	return YouTube
}

// SetBaseURL overrides the API base URL, for tests.
func (y *YouTubeAdapter) SetBaseURL(u string) {
	y.baseURL = u
}

func (y *YouTubeAdapter) doRequest(ctx context.Context, endpoint string, result any) (int, error) {
	if err := y.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	separator := "?"
	if strings.Contains(endpoint, "?") {
		separator = "&"
	}
	apiURL := y.baseURL + endpoint + separator + "key=" + url.QueryEscape(y.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return resp.StatusCode, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("youtube API error: status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

// ResolveURL fetches video metadata for a youtube.com or youtu.be URL.
func (y *YouTubeAdapter) ResolveURL(ctx context.Context, rawURL string) (*models.TrackIdentity, error) {
	videoID := youtubeVideoID(rawURL)
	if videoID == "" {
		return nil, nil
	}

	endpoint := "/videos?part=snippet&id=" + url.QueryEscape(videoID)

	var response youtubeVideosResponse
	status, err := y.doRequest(ctx, endpoint, &response)
	if err != nil {
		return nil, platformErr(YouTube, "resolve url", err)
	}
	if status == http.StatusNotFound || len(response.Items) == 0 {
		return nil, nil
	}

	return youtubeIdentity(response.Items[0].Snippet), nil
}

// Search looks up the first music video matching the query.
func (y *YouTubeAdapter) Search(ctx context.Context, query string) (*models.TrackIdentity, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	endpoint := "/search?part=snippet&type=video&videoCategoryId=10&maxResults=1&q=" + url.QueryEscape(query)

	var response youtubeSearchResponse
	status, err := y.doRequest(ctx, endpoint, &response)
	if err != nil {
		return nil, platformErr(YouTube, "search", err)
	}
	if status == http.StatusNotFound || len(response.Items) == 0 {
		return nil, nil
	}

	return youtubeIdentity(response.Items[0].Snippet), nil
}

// CreatePlaylist is unsupported: playlist writes need a per-user OAuth grant.
func (y *YouTubeAdapter) CreatePlaylist(ctx context.Context, name string, trackIDs []string) (string, error) {
	if len(trackIDs) == 0 {
		return "", nil
	}
	return "", platformErr(YouTube, "create playlist", shared.ErrNotImplemented)
}

// AddToPlaylist is unsupported: playlist writes need a per-user OAuth grant.
func (y *YouTubeAdapter) AddToPlaylist(ctx context.Context, playlistID, trackID string) error {
	return platformErr(YouTube, "add to playlist", shared.ErrNotImplemented)
}

// youtubeVideoID extracts the video id from watch, shorts, music and
// youtu.be URL shapes.
func youtubeVideoID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	if host == "youtu.be" {
		return strings.Trim(u.Path, "/")
	}

	if id := u.Query().Get("v"); id != "" {
		return id
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) == 2 && (segments[0] == "shorts" || segments[0] == "embed") {
		return segments[1]
	}
	return ""
}

// youtubeIdentity maps a snippet to an identity. The channel title stands in
// for the artist, which is what topic channels report for music uploads.
func youtubeIdentity(snippet youtubeSnippet) *models.TrackIdentity {
	artist := strings.TrimSuffix(snippet.ChannelTitle, " - Topic")
	return &models.TrackIdentity{
		Title:  snippet.Title,
		Artist: artist,
	}
}
