package batch

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"yt-sub-archiver/internal/archive"
	"yt-sub-archiver/internal/model"
	"yt-sub-archiver/internal/proxy"
	"yt-sub-archiver/internal/ytdlp"
)

type FetchResult struct {
	Video    model.Video
	Outcome  string
	Attempts int
	LastErr  error
}

// Fetcher downloads subtitles for one video at a time, with the archive
// short-circuit and classified retry backoff. Sleep and RandFloat exist
// so tests can observe backoff without waiting it out.
type Fetcher struct {
	Engine     Engine
	Archive    *archive.Store
	Proxies    *proxy.Rotator
	Common     ytdlp.CommonOptions
	OutputDir  string
	SubFormat  string
	MaxRetries int
	Out        io.Writer
	LogWriter  io.Writer
	EchoOutput bool

	Sleep     func(time.Duration)
	RandFloat func() float64
}

// Fetch runs the retry state machine for a single video. The returned
// error is non-nil only for archive I/O failures, which abort the whole
// batch; download failures are reported in the result instead.
func (f *Fetcher) Fetch(video model.Video, subLangs string) (FetchResult, error) {
	res := FetchResult{Video: video}

	seen, err := f.Archive.Contains(video.ID)
	if err != nil {
		return res, err
	}
	if seen {
		res.Outcome = model.OutcomeSkipped
		f.printf("skip %s [%s]: already archived\n", video.Title, video.ID)
		return res, nil
	}

	attempts := 0
	for attempts < f.MaxRetries {
		common := f.Common
		proxyURL := ""
		if f.Proxies != nil {
			if p, ok := f.Proxies.Next(); ok {
				proxyURL = p
				common.ProxyURL = p
			}
		}

		fetchErr := f.Engine.FetchSubtitles(FetchRequest{
			Video:      video,
			OutputDir:  f.OutputDir,
			SubLangs:   subLangs,
			SubFormat:  f.SubFormat,
			Common:     common,
			LogWriter:  f.LogWriter,
			EchoOutput: f.EchoOutput,
		})
		if fetchErr == nil {
			if err := f.Archive.Record(video.ID); err != nil {
				return res, err
			}
			res.Outcome = model.OutcomeDownloaded
			res.Attempts = attempts + 1
			return res, nil
		}

		res.LastErr = fetchErr
		attempts++
		res.Attempts = attempts

		kind := classifyFailure(fetchErr)
		if kind == failureRateLimited && proxyURL != "" {
			f.Proxies.MarkFailed(proxyURL)
		}
		if attempts >= f.MaxRetries {
			break
		}

		wait := f.backoff(kind, attempts, proxyURL != "")
		f.printf("retry %d/%d for %s [%s] in %s (%s)\n", attempts, f.MaxRetries, video.Title, video.ID, wait.Round(time.Millisecond), kind)
		f.sleep(wait)
	}

	res.Outcome = model.OutcomeFailed
	f.printf("failed %s [%s] after %d attempts: %v\n", video.Title, video.ID, res.Attempts, res.LastErr)
	return res, nil
}

// backoff computes the wait before the next attempt. attempts is the
// number of failures so far, including the one just classified.
func (f *Fetcher) backoff(kind string, attempts int, usedProxy bool) time.Duration {
	if kind == failureRateLimited {
		if usedProxy {
			secs := 5 * attempts
			if secs > 30 {
				secs = 30
			}
			return time.Duration(secs) * time.Second
		}
		return time.Duration(60*attempts) * time.Second
	}
	return uniformDelay(model.DelayRange{Min: 2, Max: 5}, f.randFloat())
}

func uniformDelay(r model.DelayRange, sample float64) time.Duration {
	span := r.Max - r.Min
	if span < 0 {
		span = 0
	}
	secs := r.Min + sample*span
	return time.Duration(secs * float64(time.Second))
}

func (f *Fetcher) sleep(d time.Duration) {
	if f.Sleep != nil {
		f.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (f *Fetcher) randFloat() float64 {
	if f.RandFloat != nil {
		return f.RandFloat()
	}
	return rand.Float64()
}

func (f *Fetcher) printf(format string, args ...any) {
	if f.Out == nil {
		return
	}
	fmt.Fprintf(f.Out, format, args...)
}
