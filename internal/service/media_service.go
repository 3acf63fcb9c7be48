package service

import (
	"context"

	"github.com/addojo/api/internal/client"
	"github.com/addojo/api/internal/model"
)

// MediaService exposes stock clips and sounds for the editor panels. Items
// carry a name, a preview image and a playable link; the editor turns them
// into clip/sound overlay content references.
type MediaService struct {
	provider client.StockMediaProvider
}

func NewMediaService(provider client.StockMediaProvider) *MediaService {
	return &MediaService{provider: provider}
}

// SearchVideos lists stock clips matching the query.
func (s *MediaService) SearchVideos(ctx context.Context, query string) (*model.MediaListResponse, error) {
	if query == "" {
		query = "business"
	}
	items, err := s.provider.SearchVideos(ctx, query)
	if err != nil {
		return nil, err
	}
	return &model.MediaListResponse{Items: items}, nil
}

// ListSounds lists the soundtrack library.
func (s *MediaService) ListSounds(ctx context.Context) (*model.MediaListResponse, error) {
	items, err := s.provider.ListSounds(ctx)
	if err != nil {
		return nil, err
	}
	return &model.MediaListResponse{Items: items}, nil
}
