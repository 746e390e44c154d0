package registry

import "yt-sub-archiver/internal/model"

const (
	DefaultOutputDir        = "subtitles"
	DefaultArchiveFile      = "state/archive.txt"
	DefaultMaxRetries       = 5
	DefaultMaxVideos        = 30
	DefaultSortBy           = model.SortRecency
	DefaultSubLangs         = "tr,en"
	DefaultSubFormat        = "srt/best"
	DefaultUserAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultAcceptLanguage   = "en-us,en;q=0.5"
	DefaultSocketTimeoutSec = 30
)

func defaultVideoDelay() model.DelayRange {
	return model.DelayRange{Min: 2, Max: 5}
}

func defaultChannelDelay() model.DelayRange {
	return model.DelayRange{Min: 5, Max: 10}
}
