package model

// MediaItem is a stock clip or sound the editor can place on the timeline.
// Image is the thumbnail / preview reference used as the overlay content;
// Link is the playable source.
type MediaItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
	Link  string `json:"link"`
}

// MediaListResponse wraps a stock media listing
type MediaListResponse struct {
	Items []MediaItem `json:"items"`
}
