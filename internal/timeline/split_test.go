package timeline

import (
	"errors"
	"testing"

	"github.com/addojo/api/internal/model"
)

func TestSplitOverlayAt_Basic(t *testing.T) {
	overlay := clipAt(4, 1, 100, 200)

	first, second, err := SplitOverlayAt(&overlay, 150, 99, 30)
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}

	if first.ID != 4 || first.From != 100 || first.DurationInFrames != 50 {
		t.Errorf("first half = {id:%d, from:%d, duration:%d}, want {id:4, from:100, duration:50}",
			first.ID, first.From, first.DurationInFrames)
	}
	if second.ID != 99 || second.From != 150 || second.DurationInFrames != 150 {
		t.Errorf("second half = {id:%d, from:%d, duration:%d}, want {id:99, from:150, duration:150}",
			second.ID, second.From, second.DurationInFrames)
	}
}

func TestSplitOverlayAt_DurationPreserving(t *testing.T) {
	overlay := clipAt(1, 0, 37, 91)

	for frame := overlay.From + 1; frame < overlay.End(); frame++ {
		first, second, err := SplitOverlayAt(&overlay, frame, 2, 30)
		if err != nil {
			t.Fatalf("split at %d failed: %v", frame, err)
		}
		if first.End() != second.From {
			t.Fatalf("split at %d left a gap: first ends %d, second starts %d", frame, first.End(), second.From)
		}
		if first.DurationInFrames+second.DurationInFrames != overlay.DurationInFrames {
			t.Fatalf("split at %d changed total duration", frame)
		}
	}
}

func TestSplitOverlayAt_RejectsBoundaries(t *testing.T) {
	overlay := clipAt(1, 0, 100, 200)

	for _, frame := range []int{0, 99, 100, 300, 301} {
		if _, _, err := SplitOverlayAt(&overlay, frame, 2, 30); !errors.Is(err, ErrInvalidSplitPoint) {
			t.Errorf("split at %d: expected ErrInvalidSplitPoint, got %v", frame, err)
		}
	}
}

func TestSplitOverlayAt_AdvancesClipSourceOffset(t *testing.T) {
	start := 2.0
	overlay := clipAt(1, 0, 0, 90)
	overlay.VideoStartTime = &start
	overlay.Src = "https://example.com/clip.mp4"

	_, second, err := SplitOverlayAt(&overlay, 60, 2, 30)
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}

	// 60 elapsed frames at 30fps is 2 seconds on top of the existing offset.
	if second.VideoStartTime == nil || *second.VideoStartTime != 4.0 {
		t.Errorf("expected videoStartTime 4.0, got %v", second.VideoStartTime)
	}
	if second.Src != overlay.Src {
		t.Errorf("second half lost its source reference")
	}
	if overlay.VideoStartTime == nil || *overlay.VideoStartTime != 2.0 {
		t.Errorf("original overlay mutated: videoStartTime %v", overlay.VideoStartTime)
	}
}

func TestSplitOverlayAt_SoundOffsetFromZero(t *testing.T) {
	overlay := model.Overlay{
		ID:               7,
		Type:             model.OverlayTypeSound,
		Row:              4,
		From:             0,
		DurationInFrames: 378,
		Src:              "https://example.com/sound.mp3",
	}

	_, second, err := SplitOverlayAt(&overlay, 90, 8, 30)
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if second.AudioStartTime == nil || *second.AudioStartTime != 3.0 {
		t.Errorf("expected audioStartTime 3.0, got %v", second.AudioStartTime)
	}
}

func TestSplitOverlayAt_TextKeepsContent(t *testing.T) {
	overlay := model.Overlay{
		ID:               3,
		Type:             model.OverlayTypeText,
		From:             10,
		DurationInFrames: 40,
		Content:          "Be a Better You",
	}

	first, second, err := SplitOverlayAt(&overlay, 25, 4, 30)
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if first.Content != overlay.Content || second.Content != overlay.Content {
		t.Errorf("split halves lost text content")
	}
	if second.VideoStartTime != nil || second.AudioStartTime != nil {
		t.Errorf("text overlay gained a source offset")
	}
}
