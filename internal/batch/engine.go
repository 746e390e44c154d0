package batch

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"yt-sub-archiver/internal/model"
	"yt-sub-archiver/internal/ytdlp"
)

// Engine is the boundary to the external downloader. Tests substitute
// a fake; production code uses YTDLPEngine.
type Engine interface {
	ListChannel(req ListRequest) (Listing, error)
	FetchSubtitles(req FetchRequest) error
}

type ListRequest struct {
	ChannelURL string
	MaxEntries int
	Common     ytdlp.CommonOptions
}

type Listing struct {
	ChannelID    string
	ChannelTitle string
	Videos       []model.Video
}

type FetchRequest struct {
	Video      model.Video
	OutputDir  string
	SubLangs   string
	SubFormat  string
	Common     ytdlp.CommonOptions
	LogWriter  io.Writer
	EchoOutput bool
}

type YTDLPEngine struct{}

type ytDLPCollection struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Entries []ytDLPEntry `json:"entries"`
}

type ytDLPEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

func (YTDLPEngine) ListChannel(req ListRequest) (Listing, error) {
	raw, err := ytdlp.ChannelListJSON(ytdlp.ListOptions{
		ChannelURL: req.ChannelURL,
		MaxEntries: req.MaxEntries,
		Common:     req.Common,
	})
	if err != nil {
		return Listing{}, err
	}

	var c ytDLPCollection
	if err := json.Unmarshal(raw, &c); err != nil {
		return Listing{}, fmt.Errorf("parse yt-dlp channel JSON: %w", err)
	}

	title := strings.TrimSpace(c.Title)
	videos := make([]model.Video, 0, len(c.Entries))
	for _, e := range c.Entries {
		id := strings.TrimSpace(e.ID)
		if id == "" || isUnavailableEntryTitle(e.Title) {
			continue
		}
		videos = append(videos, model.Video{
			ID:      id,
			Title:   strings.TrimSpace(e.Title),
			URL:     resolveVideoURL(id, strings.TrimSpace(e.URL)),
			Channel: title,
		})
	}

	return Listing{
		ChannelID:    strings.TrimSpace(c.ID),
		ChannelTitle: title,
		Videos:       videos,
	}, nil
}

func (YTDLPEngine) FetchSubtitles(req FetchRequest) error {
	return ytdlp.DownloadSubtitles(ytdlp.DownloadOptions{
		VideoURL:   req.Video.URL,
		OutputDir:  req.OutputDir,
		SubLangs:   req.SubLangs,
		SubFormat:  req.SubFormat,
		Common:     req.Common,
		LogWriter:  req.LogWriter,
		EchoOutput: req.EchoOutput,
	})
}

func isUnavailableEntryTitle(title string) bool {
	t := strings.TrimSpace(title)
	return t == "[Private video]" || t == "[Deleted video]"
}

func resolveVideoURL(videoID, maybeURL string) string {
	u := strings.TrimSpace(maybeURL)
	if u != "" {
		if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
			return u
		}
		if strings.HasPrefix(u, "watch?") || strings.HasPrefix(u, "/watch?") {
			return "https://www.youtube.com/" + strings.TrimPrefix(u, "/")
		}
		if len(u) == 11 {
			return "https://www.youtube.com/watch?v=" + u
		}
	}
	if strings.TrimSpace(videoID) != "" {
		return "https://www.youtube.com/watch?v=" + strings.TrimSpace(videoID)
	}
	return ""
}
