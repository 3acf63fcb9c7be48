package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/addojo/api/internal/config"
	"github.com/addojo/api/internal/model"
)

// StockMediaProvider lists stock clips and sounds the editor can place on
// the timeline.
type StockMediaProvider interface {
	SearchVideos(ctx context.Context, query string) ([]model.MediaItem, error)
	ListSounds(ctx context.Context) ([]model.MediaItem, error)
}

// PexelsClient implements StockMediaProvider against the Pexels video API.
// Without an API key it serves a built-in library, the same fallback
// behavior the editor ships with.
type PexelsClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewPexelsClient(cfg *config.PexelsConfig) *PexelsClient {
	return &PexelsClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
	}
}

type pexelsSearchResponse struct {
	Videos []struct {
		ID         int    `json:"id"`
		Image      string `json:"image"`
		VideoFiles []struct {
			Link    string `json:"link"`
			Quality string `json:"quality"`
		} `json:"video_files"`
	} `json:"videos"`
}

// SearchVideos returns named clip references for the query. Each item's
// Image is usable as the clip overlay content and Link as its playable src.
func (c *PexelsClient) SearchVideos(ctx context.Context, query string) ([]model.MediaItem, error) {
	if c.apiKey == "" {
		return defaultVideos, nil
	}

	endpoint := fmt.Sprintf("%s/videos/search?query=%s&per_page=30&size=medium&orientation=landscape",
		c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pexels request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pexels returned status %d", resp.StatusCode)
	}

	var parsed pexelsSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode pexels response: %w", err)
	}

	items := make([]model.MediaItem, 0, len(parsed.Videos))
	for _, v := range parsed.Videos {
		link := ""
		// Prefer HD, fall back to whatever file comes first.
		for _, f := range v.VideoFiles {
			if link == "" || f.Quality == "hd" {
				link = f.Link
			}
			if f.Quality == "hd" {
				break
			}
		}
		if link == "" {
			continue
		}
		items = append(items, model.MediaItem{
			ID:    strconv.Itoa(v.ID),
			Name:  query,
			Image: v.Image,
			Link:  link,
		})
	}
	return items, nil
}

// ListSounds returns the built-in soundtrack library. Pexels has no audio
// API, so sounds always come from the static set.
func (c *PexelsClient) ListSounds(ctx context.Context) ([]model.MediaItem, error) {
	return defaultSounds, nil
}

var defaultVideos = []model.MediaItem{
	{
		ID:    "7664770",
		Name:  "Runner at sunrise",
		Image: "https://images.pexels.com/videos/7664770/pexels-photo-7664770.jpeg?auto=compress&cs=tinysrgb&fit=crop&h=630&w=1200",
		Link:  "https://videos.pexels.com/video-files/8691736/8691736-uhd_1440_2732_24fps.mp4",
	},
	{
		ID:    "7649282",
		Name:  "Abstract shapes",
		Image: "https://images.pexels.com/videos/7649282/abstract-aircraft-alien-art-7649282.jpeg?auto=compress&cs=tinysrgb&fit=crop&h=630&w=1200",
		Link:  "https://videos.pexels.com/video-files/5320011/5320011-uhd_1440_2560_25fps.mp4",
	},
	{
		ID:    "7180706",
		Name:  "Training montage",
		Image: "https://images.pexels.com/videos/7180706/pexels-photo-7180706.jpeg?auto=compress&cs=tinysrgb&fit=crop&h=630&w=1200",
		Link:  "https://videos.pexels.com/video-files/6254849/6254849-uhd_1440_2560_30fps.mp4",
	},
}

var defaultSounds = []model.MediaItem{
	{
		ID:   "sound-1",
		Name: "Upbeat Corporate",
		Link: "https://rwxrdxvxndclnqvznxfj.supabase.co/storage/v1/object/public/sounds/sound-1.mp3",
	},
	{
		ID:   "sound-2",
		Name: "Inspiring Cinematic",
		Link: "https://rwxrdxvxndclnqvznxfj.supabase.co/storage/v1/object/public/sounds/sound-2.mp3",
	},
	{
		ID:   "sound-3",
		Name: "Lo-fi Chill",
		Link: "https://rwxrdxvxndclnqvznxfj.supabase.co/storage/v1/object/public/sounds/sound-3.mp3",
	},
}
