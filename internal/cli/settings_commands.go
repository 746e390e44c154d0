package cli

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"yt-sub-archiver/internal/model"
	"yt-sub-archiver/internal/registry"
)

func runSettings(args []string) error {
	if len(args) == 0 {
		printSettingsUsage()
		return nil
	}
	switch args[0] {
	case "show":
		return runSettingsShow(args[1:])
	case "set":
		return runSettingsSet(args[1:])
	case "proxy":
		return runSettingsProxy(args[1:])
	case "help", "-h", "--help":
		printSettingsUsage()
		return nil
	default:
		printSettingsUsage()
		return fmt.Errorf("unknown settings subcommand %q", args[0])
	}
}

func runSettingsShow(args []string) error {
	fs := flag.NewFlagSet("settings show", flag.ContinueOnError)
	config := fs.String("config", registry.DefaultChannelsConfigPath, "channel config path")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	global, err := registry.GetGlobalSettings(strings.TrimSpace(*config))
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(map[string]any{
			"config_path": strings.TrimSpace(*config),
			"global":      global,
		})
	}

	fmt.Printf("config: %s\n", strings.TrimSpace(*config))
	fmt.Printf("output_dir: %s\n", global.OutputDir)
	fmt.Printf("archive_file: %s\n", global.ArchiveFile)
	fmt.Printf("cookies_path: %s\n", defaultIfEmpty(global.CookiesPath, "(none)"))
	fmt.Printf("max_retries: %d\n", global.MaxRetries)
	fmt.Printf("max_videos: %d\n", global.MaxVideos)
	fmt.Printf("sort_by: %s\n", global.SortBy)
	fmt.Printf("sub_langs: %s\n", global.SubLangs)
	fmt.Printf("sub_format: %s\n", global.SubFormat)
	fmt.Printf("video_delay: %s..%ss\n", formatFloat(global.VideoDelay.Min), formatFloat(global.VideoDelay.Max))
	fmt.Printf("channel_delay: %s..%ss\n", formatFloat(global.ChannelDelay.Min), formatFloat(global.ChannelDelay.Max))
	fmt.Printf("socket_timeout_sec: %d\n", global.SocketTimeoutSec)
	if len(global.Proxies) == 0 {
		fmt.Println("proxies: (none)")
		return nil
	}
	fmt.Println("proxies:")
	for i, p := range global.Proxies {
		fmt.Printf("  %d. %s\n", i+1, p)
	}
	return nil
}

func runSettingsSet(args []string) error {
	fs := flag.NewFlagSet("settings set", flag.ContinueOnError)
	config := fs.String("config", registry.DefaultChannelsConfigPath, "channel config path")
	outputDir := fs.String("output-dir", "", "subtitle output directory (empty keeps current)")
	archiveFile := fs.String("archive-file", "", "archive file path (empty keeps current)")
	cookies := fs.String("cookies", "", "path to cookies.txt (empty keeps current)")
	maxRetries := fs.Int("max-retries", -1, "per-video attempt cap (>=1, -1 keeps current)")
	maxVideos := fs.Int("max-videos", -1, "default videos per channel (>=1, -1 keeps current)")
	sortBy := fs.String("sort-by", "", "listing order: recency|popularity (empty keeps current)")
	subLangs := fs.String("sub-langs", "", "subtitle languages (empty keeps current)")
	subFormat := fs.String("sub-format", "", "subtitle format preference (empty keeps current)")
	videoDelay := fs.String("video-delay", "", "video pacing range in seconds, min..max (empty keeps current)")
	channelDelay := fs.String("channel-delay", "", "channel pacing range in seconds, min..max (empty keeps current)")
	socketTimeout := fs.Int("socket-timeout", -1, "engine socket timeout in seconds (>=1, -1 keeps current)")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	configPath := strings.TrimSpace(*config)
	global, err := registry.GetGlobalSettings(configPath)
	if err != nil {
		return err
	}

	if strings.TrimSpace(*outputDir) != "" {
		global.OutputDir = strings.TrimSpace(*outputDir)
	}
	if strings.TrimSpace(*archiveFile) != "" {
		global.ArchiveFile = strings.TrimSpace(*archiveFile)
	}
	if strings.TrimSpace(*cookies) != "" {
		global.CookiesPath = strings.TrimSpace(*cookies)
	}
	if *maxRetries != -1 {
		if *maxRetries <= 0 {
			return errors.New("--max-retries must be >= 1")
		}
		global.MaxRetries = *maxRetries
	}
	if *maxVideos != -1 {
		if *maxVideos <= 0 {
			return errors.New("--max-videos must be >= 1")
		}
		global.MaxVideos = *maxVideos
	}
	if strings.TrimSpace(*sortBy) != "" {
		mode := strings.ToLower(strings.TrimSpace(*sortBy))
		if !model.IsKnownSortMode(mode) {
			return errors.New("--sort-by must be recency or popularity")
		}
		global.SortBy = mode
	}
	if strings.TrimSpace(*subLangs) != "" {
		global.SubLangs = strings.TrimSpace(*subLangs)
	}
	if strings.TrimSpace(*subFormat) != "" {
		global.SubFormat = strings.TrimSpace(*subFormat)
	}
	if strings.TrimSpace(*videoDelay) != "" {
		r, err := parseDelayRange(*videoDelay)
		if err != nil {
			return fmt.Errorf("--video-delay: %w", err)
		}
		global.VideoDelay = r
	}
	if strings.TrimSpace(*channelDelay) != "" {
		r, err := parseDelayRange(*channelDelay)
		if err != nil {
			return fmt.Errorf("--channel-delay: %w", err)
		}
		global.ChannelDelay = r
	}
	if *socketTimeout != -1 {
		if *socketTimeout <= 0 {
			return errors.New("--socket-timeout must be >= 1")
		}
		global.SocketTimeoutSec = *socketTimeout
	}

	res, err := registry.UpdateGlobalSettings(registry.UpdateGlobalSettingsOptions{
		ConfigPath: configPath,
		Global:     global,
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(res)
	}

	fmt.Printf("updated global settings in %s\n", res.ConfigPath)
	fmt.Printf("output_dir: %s\n", res.Global.OutputDir)
	fmt.Printf("max_retries: %d\n", res.Global.MaxRetries)
	fmt.Printf("max_videos: %d\n", res.Global.MaxVideos)
	fmt.Printf("sort_by: %s\n", res.Global.SortBy)
	fmt.Printf("sub_langs: %s\n", res.Global.SubLangs)
	fmt.Printf("proxies: %d\n", len(res.Global.Proxies))
	return nil
}

func runSettingsProxy(args []string) error {
	if len(args) == 0 {
		printSettingsProxyUsage()
		return nil
	}
	switch args[0] {
	case "list":
		return runSettingsProxyList(args[1:])
	case "add":
		return runSettingsProxyAdd(args[1:])
	case "remove":
		return runSettingsProxyRemove(args[1:])
	case "help", "-h", "--help":
		printSettingsProxyUsage()
		return nil
	default:
		printSettingsProxyUsage()
		return fmt.Errorf("unknown settings proxy subcommand %q", args[0])
	}
}

func runSettingsProxyList(args []string) error {
	fs := flag.NewFlagSet("settings proxy list", flag.ContinueOnError)
	config := fs.String("config", registry.DefaultChannelsConfigPath, "channel config path")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	global, err := registry.GetGlobalSettings(strings.TrimSpace(*config))
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(map[string]any{
			"config_path": strings.TrimSpace(*config),
			"proxies":     global.Proxies,
		})
	}
	if len(global.Proxies) == 0 {
		fmt.Println("no proxies configured")
		return nil
	}
	for i, p := range global.Proxies {
		fmt.Printf("%d. %s\n", i+1, p)
	}
	return nil
}

func runSettingsProxyAdd(args []string) error {
	fs := flag.NewFlagSet("settings proxy add", flag.ContinueOnError)
	config := fs.String("config", registry.DefaultChannelsConfigPath, "channel config path")
	value := fs.String("value", "", "proxy URL to add")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*value) == "" {
		return errors.New("--value is required")
	}

	configPath := strings.TrimSpace(*config)
	global, err := registry.GetGlobalSettings(configPath)
	if err != nil {
		return err
	}
	global.Proxies = append(global.Proxies, strings.TrimSpace(*value))

	res, err := registry.UpdateGlobalSettings(registry.UpdateGlobalSettingsOptions{
		ConfigPath: configPath,
		Global:     global,
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(res)
	}
	fmt.Printf("proxy added. total proxies: %d\n", len(res.Global.Proxies))
	return nil
}

func runSettingsProxyRemove(args []string) error {
	fs := flag.NewFlagSet("settings proxy remove", flag.ContinueOnError)
	config := fs.String("config", registry.DefaultChannelsConfigPath, "channel config path")
	value := fs.String("value", "", "proxy URL to remove")
	index := fs.Int("index", 0, "1-based proxy index to remove")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*value) == "" && *index <= 0 {
		return errors.New("set --value or --index")
	}

	configPath := strings.TrimSpace(*config)
	global, err := registry.GetGlobalSettings(configPath)
	if err != nil {
		return err
	}

	next := make([]string, 0, len(global.Proxies))
	removed := false
	if strings.TrimSpace(*value) != "" {
		target := strings.TrimSpace(*value)
		for _, p := range global.Proxies {
			if !removed && p == target {
				removed = true
				continue
			}
			next = append(next, p)
		}
	} else {
		targetIdx := *index - 1
		if targetIdx < 0 || targetIdx >= len(global.Proxies) {
			return fmt.Errorf("--index out of range (1..%d)", len(global.Proxies))
		}
		for i, p := range global.Proxies {
			if i == targetIdx {
				removed = true
				continue
			}
			next = append(next, p)
		}
	}
	if !removed {
		return errors.New("proxy not found")
	}

	global.Proxies = next
	res, err := registry.UpdateGlobalSettings(registry.UpdateGlobalSettingsOptions{
		ConfigPath: configPath,
		Global:     global,
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(res)
	}
	fmt.Printf("proxy removed. total proxies: %d\n", len(res.Global.Proxies))
	return nil
}

func printSettingsUsage() {
	fmt.Println("settings commands:")
	fmt.Println("  settings show")
	fmt.Println("  settings set [--output-dir DIR] [--max-retries N] [--max-videos N] [--sort-by recency|popularity]")
	fmt.Println("               [--sub-langs LANGS] [--sub-format FMT] [--video-delay MIN..MAX] [--channel-delay MIN..MAX]")
	fmt.Println("               [--cookies PATH] [--archive-file PATH] [--socket-timeout SECS]")
	fmt.Println("  settings proxy list")
	fmt.Println("  settings proxy add --value <proxy-url>")
	fmt.Println("  settings proxy remove --value <proxy-url> | --index <n>")
}

func printSettingsProxyUsage() {
	fmt.Println("settings proxy commands:")
	fmt.Println("  settings proxy list")
	fmt.Println("  settings proxy add --value <proxy-url>")
	fmt.Println("  settings proxy remove --value <proxy-url> | --index <n>")
}

// parseDelayRange parses "min..max" (or a single number for a fixed
// delay) into a DelayRange in seconds.
func parseDelayRange(raw string) (model.DelayRange, error) {
	s := strings.TrimSpace(raw)
	parts := strings.SplitN(s, "..", 2)
	minV, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || minV < 0 {
		return model.DelayRange{}, fmt.Errorf("invalid range %q (want min..max seconds)", raw)
	}
	maxV := minV
	if len(parts) == 2 {
		maxV, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil || maxV < minV {
			return model.DelayRange{}, fmt.Errorf("invalid range %q (want min..max seconds)", raw)
		}
	}
	return model.DelayRange{Min: minV, Max: maxV}, nil
}

func formatFloat(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
