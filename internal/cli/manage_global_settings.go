package cli

import (
	"fmt"
	"strconv"
	"strings"

	"yt-sub-archiver/internal/model"
	"yt-sub-archiver/internal/registry"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func newManageGlobalForm(global registry.GlobalSettings, width int) *manageForm {
	f := &manageForm{
		Kind:  manageFormKindGlobal,
		Title: "Global Settings",
	}
	f.Fields = []manageFormField{
		{Key: "output_dir", Label: "Output Directory", Help: "Where subtitle files land", Kind: manageFieldString, Value: global.OutputDir, Required: true},
		{Key: "cookies", Label: "Cookies File", Help: "Netscape cookies; empty disables cookies", Kind: manageFieldString, Value: global.CookiesPath},
		{Key: "proxies", Label: "Proxies", Help: "Comma-separated proxy URLs; empty disables rotation", Kind: manageFieldString, Value: strings.Join(global.Proxies, ",")},
		{Key: "max_retries", Label: "Max Retries", Help: "Attempts per video", Kind: manageFieldInt, Value: strconv.Itoa(global.MaxRetries)},
		{Key: "max_videos", Label: "Max Videos", Help: "Default per-channel listing cap", Kind: manageFieldInt, Value: strconv.Itoa(global.MaxVideos)},
		{Key: "sort_by", Label: "Sort", Help: "Default listing order", Kind: manageFieldSelect, Value: global.SortBy, Options: []string{model.SortRecency, model.SortPopularity}},
		{Key: "sub_langs", Label: "Subtitle Languages", Help: "Comma-separated language codes", Kind: manageFieldString, Value: global.SubLangs},
		{Key: "sub_format", Label: "Subtitle Format", Help: "yt-dlp --sub-format value", Kind: manageFieldString, Value: global.SubFormat},
		{Key: "video_delay", Label: "Video Delay", Help: "Seconds between videos, as min..max", Kind: manageFieldString, Value: formatDelayRange(global.VideoDelay)},
		{Key: "channel_delay", Label: "Channel Delay", Help: "Seconds between channels, as min..max", Kind: manageFieldString, Value: formatDelayRange(global.ChannelDelay)},
	}

	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 2048
	input.Width = clampInt(width-8, 20, 120)
	f.Input = input
	f.loadFieldIntoInput()
	f.Input.Focus()
	return f
}

func (f *manageForm) toGlobalSettings(current registry.GlobalSettings) (registry.GlobalSettings, error) {
	vals := make(map[string]string, len(f.Fields))
	for _, field := range f.Fields {
		v := strings.TrimSpace(field.Value)
		if field.Required && v == "" {
			return registry.GlobalSettings{}, fmt.Errorf("%s is required", strings.ToLower(field.Label))
		}
		vals[field.Key] = v
	}

	out := current
	out.OutputDir = vals["output_dir"]
	out.CookiesPath = vals["cookies"]
	out.Proxies = parseProxyValueList(vals["proxies"])
	out.SortBy = vals["sort_by"]
	out.SubLangs = vals["sub_langs"]
	out.SubFormat = vals["sub_format"]

	retries, err := strconv.Atoi(defaultIfEmpty(vals["max_retries"], "0"))
	if err != nil || retries < 1 {
		return registry.GlobalSettings{}, fmt.Errorf("max retries must be an integer >= 1")
	}
	out.MaxRetries = retries

	maxVideos, err := strconv.Atoi(defaultIfEmpty(vals["max_videos"], "0"))
	if err != nil || maxVideos < 1 {
		return registry.GlobalSettings{}, fmt.Errorf("max videos must be an integer >= 1")
	}
	out.MaxVideos = maxVideos

	videoDelay, err := parseDelayRange(vals["video_delay"])
	if err != nil {
		return registry.GlobalSettings{}, fmt.Errorf("video delay: %w", err)
	}
	out.VideoDelay = videoDelay

	channelDelay, err := parseDelayRange(vals["channel_delay"])
	if err != nil {
		return registry.GlobalSettings{}, fmt.Errorf("channel delay: %w", err)
	}
	out.ChannelDelay = channelDelay

	return out, nil
}

func parseProxyValueList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func formatDelayRange(r model.DelayRange) string {
	return formatFloat(r.Min) + ".." + formatFloat(r.Max)
}

func saveGlobalSettingsCmd(configPath string, global registry.GlobalSettings) tea.Cmd {
	return func() tea.Msg {
		_, err := registry.UpdateGlobalSettings(registry.UpdateGlobalSettingsOptions{
			ConfigPath: configPath,
			Global:     global,
		})
		if err != nil {
			return manageSaveMsg{err: err}
		}
		return manageSaveMsg{message: "updated global settings"}
	}
}
