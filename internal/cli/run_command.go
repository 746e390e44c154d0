package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"yt-sub-archiver/internal/archive"
	"yt-sub-archiver/internal/batch"
	"yt-sub-archiver/internal/proxy"
	"yt-sub-archiver/internal/registry"
	"yt-sub-archiver/internal/store"
	"yt-sub-archiver/internal/ytdlp"
)

func runBatch(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	channel := fs.String("channel", "", "channel name or comma-separated names")
	allChannels := fs.Bool("all-channels", false, "run every configured channel")
	activeOnly := fs.Bool("active-only", false, "skip channels with active=no")
	config := fs.String("config", registry.DefaultChannelsConfigPath, "channel config path")
	stateDir := fs.String("state-dir", "state", "state directory")
	outputDir := fs.String("output-dir", "", "subtitle output directory override")
	maxVideos := fs.Int("max-videos", 0, "video cap override for this run (0 = per config)")
	echo := fs.Bool("echo", false, "echo raw yt-dlp output")
	jsonOut := fs.Bool("json", false, "print JSON summary")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	configPath := strings.TrimSpace(*config)
	if err := ytdlp.CheckDependencies(); err != nil {
		return err
	}

	channels, err := registry.ResolveChannelSelection(configPath, strings.TrimSpace(*channel), *allChannels, *activeOnly)
	if err != nil {
		return err
	}
	global, err := registry.GetGlobalSettings(configPath)
	if err != nil {
		return err
	}

	state := strings.TrimSpace(*stateDir)
	if state == "" {
		state = "state"
	}
	if err := store.Mkdir(state); err != nil {
		return err
	}
	lock, err := store.AcquireBatchLock(state)
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.Release()
	}()

	if global.CookiesPath != "" {
		if _, statErr := os.Stat(global.CookiesPath); statErr != nil {
			fmt.Printf("warning: cookies file %s not found, continuing without cookies\n", global.CookiesPath)
			global.CookiesPath = ""
		}
	}

	archivePath := global.ArchiveFile
	if !filepath.IsAbs(archivePath) && strings.HasPrefix(archivePath, "state/") && state != "state" {
		archivePath = filepath.Join(state, strings.TrimPrefix(archivePath, "state/"))
	}
	arch := archive.NewStore(archivePath)
	if err := arch.Ensure(); err != nil {
		return err
	}

	logPath := filepath.Join(state, "logs", "batch-"+time.Now().UTC().Format("20060102T150405Z")+".log")
	if err := store.Mkdir(filepath.Dir(logPath)); err != nil {
		return err
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open batch log %s: %w", logPath, err)
	}
	defer func() {
		_ = logFile.Close()
	}()

	outDir := strings.TrimSpace(*outputDir)
	if outDir == "" {
		outDir = global.OutputDir
	}

	jobs := make([]batch.ChannelJob, 0, len(channels))
	for _, c := range channels {
		job := batch.ChannelJob{
			Name:       c.Name,
			Identifier: c.Identifier,
			MaxVideos:  global.MaxVideos,
			SortMode:   global.SortBy,
			SubLangs:   global.SubLangs,
		}
		if c.MaxVideos > 0 {
			job.MaxVideos = c.MaxVideos
		}
		if *maxVideos > 0 {
			job.MaxVideos = *maxVideos
		}
		if c.SortBy != "" {
			job.SortMode = c.SortBy
		}
		if c.SubLangs != "" {
			job.SubLangs = c.SubLangs
		}
		jobs = append(jobs, job)
	}

	orch := &batch.Orchestrator{
		Engine:  batch.YTDLPEngine{},
		Archive: arch,
		Proxies: proxy.NewRotator(global.Proxies),
		Config: batch.RunConfig{
			OutputDir:    outDir,
			SubFormat:    global.SubFormat,
			MaxRetries:   global.MaxRetries,
			VideoDelay:   global.VideoDelay,
			ChannelDelay: global.ChannelDelay,
			Common: ytdlp.CommonOptions{
				CookiesPath:      global.CookiesPath,
				UserAgent:        global.UserAgent,
				AcceptLanguage:   global.AcceptLanguage,
				SocketTimeoutSec: global.SocketTimeoutSec,
			},
			EchoOutput: *echo,
		},
		Out:       os.Stdout,
		LogWriter: logFile,
	}

	fmt.Printf("run: %d channel(s), archive %s, log %s\n", len(jobs), arch.Path(), logPath)
	summary, runErr := orch.ProcessChannels(jobs)
	if *jsonOut {
		if err := printJSON(summary); err != nil {
			return err
		}
	}
	if runErr != nil {
		return runErr
	}

	if !*jsonOut {
		for _, report := range summary.Reports {
			if report.ListingError != "" {
				fmt.Printf("channel %s: listing failed (%s)\n", report.Channel, report.ListingError)
			}
		}
	}
	return nil
}
