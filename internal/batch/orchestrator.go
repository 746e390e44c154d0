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

// RunConfig holds batch-wide settings after global and per-channel
// values have been merged by the caller.
type RunConfig struct {
	OutputDir    string
	SubFormat    string
	MaxRetries   int
	VideoDelay   model.DelayRange
	ChannelDelay model.DelayRange
	Common       ytdlp.CommonOptions
	EchoOutput   bool
}

type Orchestrator struct {
	Engine    Engine
	Archive   *archive.Store
	Proxies   *proxy.Rotator
	Config    RunConfig
	Out       io.Writer
	LogWriter io.Writer

	Sleep     func(time.Duration)
	RandFloat func() float64
}

// ProcessChannel lists a channel and fetches subtitles for each video.
// A listing failure is recorded on the summary and leaves it at zero
// videos; only archive I/O failures return an error.
func (o *Orchestrator) ProcessChannel(job ChannelJob) (model.ChannelSummary, error) {
	summary := model.ChannelSummary{Channel: job.Name}

	lister := &Lister{
		Engine:  o.Engine,
		Proxies: o.Proxies,
		Common:  o.Config.Common,
		Out:     o.Out,
	}
	videos, err := lister.List(job)
	if err != nil {
		summary.ListingError = err.Error()
		o.printf("warning: %v\n", err)
		return summary, nil
	}

	summary.Total = len(videos)
	o.printf("channel %s: %d videos to process\n", job.Name, len(videos))

	fetcher := &Fetcher{
		Engine:     o.Engine,
		Archive:    o.Archive,
		Proxies:    o.Proxies,
		Common:     o.Config.Common,
		OutputDir:  o.Config.OutputDir,
		SubFormat:  o.Config.SubFormat,
		MaxRetries: o.Config.MaxRetries,
		Out:        o.Out,
		LogWriter:  o.LogWriter,
		EchoOutput: o.Config.EchoOutput,
		Sleep:      o.Sleep,
		RandFloat:  o.RandFloat,
	}

	for i, video := range videos {
		o.printf("[%d/%d] %s [%s]\n", i+1, len(videos), video.Title, video.ID)
		res, err := fetcher.Fetch(video, job.SubLangs)
		if err != nil {
			return summary, err
		}
		summary.Tally(res.Outcome)
		if res.Outcome == model.OutcomeDownloaded {
			o.printf("[%d/%d] downloaded %s [%s]\n", i+1, len(videos), video.Title, video.ID)
		}

		if i < len(videos)-1 {
			o.sleep(uniformDelay(o.Config.VideoDelay, o.randFloat()))
		}
	}

	return summary, nil
}

// ProcessChannels runs every channel job in order with a randomized
// pause between channels, and aggregates per-channel summaries.
func (o *Orchestrator) ProcessChannels(jobs []ChannelJob) (model.BatchSummary, error) {
	var batch model.BatchSummary

	for i, job := range jobs {
		summary, err := o.ProcessChannel(job)
		if err != nil {
			batch.Add(summary)
			return batch, fmt.Errorf("channel %s: %w", job.Name, err)
		}
		batch.Add(summary)
		o.printf("channel %s done: %d downloaded, %d skipped, %d failed\n",
			job.Name, summary.Successful, summary.Skipped, summary.Failed)

		if i < len(jobs)-1 {
			o.sleep(uniformDelay(o.Config.ChannelDelay, o.randFloat()))
		}
	}

	o.printf("batch done: %d channels, %d videos, %d downloaded, %d skipped, %d failed\n",
		batch.Channels, batch.Total, batch.Successful, batch.Skipped, batch.Failed)
	return batch, nil
}

func (o *Orchestrator) sleep(d time.Duration) {
	if o.Sleep != nil {
		o.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (o *Orchestrator) randFloat() float64 {
	if o.RandFloat != nil {
		return o.RandFloat()
	}
	return rand.Float64()
}

func (o *Orchestrator) printf(format string, args ...any) {
	if o.Out == nil {
		return
	}
	fmt.Fprintf(o.Out, format, args...)
}
