package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lrstanley/go-ytdlp"
)

// YTMetadata is the subset of yt-dlp's metadata sonar cares about for
// catalogue entries.
type YTMetadata struct {
	ID       string
	Title    string
	Artist   string
	Uploader string
	Duration float64
}

// pickArtist falls back through the fields yt-dlp tends to populate when a
// dedicated "artist" tag is missing.
func pickArtist(meta *ytdlp.ExtractedInfo) string {
	if meta.Artist != "" {
		return meta.Artist
	}
	if meta.Channel != "" {
		return meta.Channel
	}
	if meta.Uploader != "" {
		return meta.Uploader
	}
	return "Unknown Artist"
}

// DownloadYouTubeAudio fetches the best available audio stream for a
// YouTube URL into outputDir, returning its local path and metadata. The
// downloaded file is in whatever container yt-dlp selected; callers
// typically pass it through ConvertToMonoWAV before ingest.
func DownloadYouTubeAudio(ctx context.Context, youtubeURL, outputDir string) (audioPath string, meta *YTMetadata, err error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("creating output dir: %w", err)
	}

	dl := ytdlp.New().
		NoPlaylist().
		ExtractAudio().
		NoOverwrites().
		Output(filepath.Join(outputDir, "%(id)s.%(ext)s"))

	result, err := dl.Run(ctx, youtubeURL)
	if err != nil {
		return "", nil, fmt.Errorf("yt-dlp download failed: %w", err)
	}

	info, err := result.GetExtractedInfo()
	if err != nil || len(info) == 0 {
		return "", nil, fmt.Errorf("yt-dlp produced no metadata: %w", err)
	}
	extracted := info[0]

	audioExtensions := []string{".m4a", ".webm", ".opus", ".mp3", ".aac", ".ogg", ".wav"}
	for _, ext := range audioExtensions {
		candidate := filepath.Join(outputDir, extracted.ID+ext)
		if _, statErr := os.Stat(candidate); statErr == nil {
			audioPath = candidate
			break
		}
	}
	if audioPath == "" {
		return "", nil, fmt.Errorf("downloaded audio file not found for video %s", extracted.ID)
	}

	meta = &YTMetadata{
		ID:       extracted.ID,
		Title:    extracted.Title,
		Artist:   pickArtist(extracted),
		Uploader: extracted.Uploader,
		Duration: extracted.Duration,
	}
	return audioPath, meta, nil
}
