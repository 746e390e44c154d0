package batch

import (
	"fmt"
	"io"
	"strings"

	"yt-sub-archiver/internal/model"
	"yt-sub-archiver/internal/proxy"
	"yt-sub-archiver/internal/ytdlp"
)

// ChannelJob is one channel as resolved for a batch run, with global
// defaults already folded into the per-channel fields.
type ChannelJob struct {
	Name       string
	Identifier string
	MaxVideos  int
	SortMode   string
	SubLangs   string
}

type Lister struct {
	Engine  Engine
	Proxies *proxy.Rotator
	Common  ytdlp.CommonOptions
	Out     io.Writer
}

// List resolves the channel identifier to a videos-tab URL and asks the
// engine for a flat listing. Listing failures come back as errors; the
// caller decides how a failed channel affects the batch.
func (l *Lister) List(job ChannelJob) ([]model.Video, error) {
	channelURL := l.channelURL(job)

	common := l.Common
	proxyURL := ""
	if l.Proxies != nil {
		if p, ok := l.Proxies.Next(); ok {
			proxyURL = p
			common.ProxyURL = p
		}
	}

	listing, err := l.Engine.ListChannel(ListRequest{
		ChannelURL: channelURL,
		MaxEntries: job.MaxVideos,
		Common:     common,
	})
	if err != nil {
		if proxyURL != "" && l.Proxies != nil {
			l.Proxies.MarkFailed(proxyURL)
		}
		return nil, fmt.Errorf("list channel %s: %w", channelURL, err)
	}

	videos := listing.Videos
	if job.MaxVideos > 0 && len(videos) > job.MaxVideos {
		videos = videos[:job.MaxVideos]
	}
	return videos, nil
}

func (l *Lister) channelURL(job ChannelJob) string {
	base := buildChannelURL(job.Identifier)
	switch job.SortMode {
	case model.SortRecency:
		return base + "?sort=dd"
	case model.SortPopularity:
		return base + "?sort=p"
	case "":
		return base
	default:
		if l.Out != nil {
			fmt.Fprintf(l.Out, "warning: unknown sort mode %q for channel %s, listing unsorted\n", job.SortMode, job.Name)
		}
		return base
	}
}

// buildChannelURL accepts a full URL, an @handle, or a bare channel
// name and returns the channel's videos tab.
func buildChannelURL(identifier string) string {
	id := strings.TrimSpace(identifier)
	if strings.HasPrefix(id, "http://") || strings.HasPrefix(id, "https://") {
		return id
	}
	if strings.HasPrefix(id, "@") {
		return "https://www.youtube.com/" + id + "/videos"
	}
	return "https://www.youtube.com/@" + id + "/videos"
}
