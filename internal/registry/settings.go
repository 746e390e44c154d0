package registry

import (
	"errors"
	"os"
	"strings"
	"time"

	"yt-sub-archiver/internal/model"
)

// GlobalSettings are batch-wide defaults. Per-channel fields in Channel
// override MaxVideos, SortBy, and SubLangs for that channel only.
type GlobalSettings struct {
	OutputDir        string           `yaml:"output_dir,omitempty" json:"output_dir,omitempty"`
	ArchiveFile      string           `yaml:"archive_file,omitempty" json:"archive_file,omitempty"`
	CookiesPath      string           `yaml:"cookies_path,omitempty" json:"cookies_path,omitempty"`
	Proxies          []string         `yaml:"proxies,omitempty" json:"proxies,omitempty"`
	MaxRetries       int              `yaml:"max_retries,omitempty" json:"max_retries,omitempty"`
	MaxVideos        int              `yaml:"max_videos,omitempty" json:"max_videos,omitempty"`
	SortBy           string           `yaml:"sort_by,omitempty" json:"sort_by,omitempty"`
	SubLangs         string           `yaml:"sub_langs,omitempty" json:"sub_langs,omitempty"`
	SubFormat        string           `yaml:"sub_format,omitempty" json:"sub_format,omitempty"`
	VideoDelay       model.DelayRange `yaml:"video_delay,omitempty" json:"video_delay,omitempty"`
	ChannelDelay     model.DelayRange `yaml:"channel_delay,omitempty" json:"channel_delay,omitempty"`
	UserAgent        string           `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`
	AcceptLanguage   string           `yaml:"accept_language,omitempty" json:"accept_language,omitempty"`
	SocketTimeoutSec int              `yaml:"socket_timeout_sec,omitempty" json:"socket_timeout_sec,omitempty"`
}

type UpdateGlobalSettingsOptions struct {
	ConfigPath string
	Global     GlobalSettings
}

type UpdateGlobalSettingsResult struct {
	ConfigPath string         `json:"config_path"`
	Global     GlobalSettings `json:"global"`
}

func defaultGlobalSettings() GlobalSettings {
	return GlobalSettings{
		OutputDir:        DefaultOutputDir,
		ArchiveFile:      DefaultArchiveFile,
		Proxies:          []string{},
		MaxRetries:       DefaultMaxRetries,
		MaxVideos:        DefaultMaxVideos,
		SortBy:           DefaultSortBy,
		SubLangs:         DefaultSubLangs,
		SubFormat:        DefaultSubFormat,
		VideoDelay:       defaultVideoDelay(),
		ChannelDelay:     defaultChannelDelay(),
		UserAgent:        DefaultUserAgent,
		AcceptLanguage:   DefaultAcceptLanguage,
		SocketTimeoutSec: DefaultSocketTimeoutSec,
	}
}

func normalizeGlobalSettings(raw GlobalSettings) GlobalSettings {
	norm := raw
	norm.OutputDir = strings.TrimSpace(norm.OutputDir)
	if norm.OutputDir == "" {
		norm.OutputDir = DefaultOutputDir
	}
	norm.ArchiveFile = strings.TrimSpace(norm.ArchiveFile)
	if norm.ArchiveFile == "" {
		norm.ArchiveFile = DefaultArchiveFile
	}
	norm.CookiesPath = strings.TrimSpace(norm.CookiesPath)
	norm.Proxies = normalizeProxyList(norm.Proxies)
	if norm.MaxRetries <= 0 {
		norm.MaxRetries = DefaultMaxRetries
	}
	if norm.MaxVideos <= 0 {
		norm.MaxVideos = DefaultMaxVideos
	}
	norm.SortBy = strings.ToLower(strings.TrimSpace(norm.SortBy))
	if !model.IsKnownSortMode(norm.SortBy) {
		norm.SortBy = DefaultSortBy
	}
	norm.SubLangs = strings.TrimSpace(norm.SubLangs)
	if norm.SubLangs == "" {
		norm.SubLangs = DefaultSubLangs
	}
	norm.SubFormat = strings.TrimSpace(norm.SubFormat)
	if norm.SubFormat == "" {
		norm.SubFormat = DefaultSubFormat
	}
	norm.VideoDelay = normalizeDelayRange(norm.VideoDelay, defaultVideoDelay())
	norm.ChannelDelay = normalizeDelayRange(norm.ChannelDelay, defaultChannelDelay())
	norm.UserAgent = strings.TrimSpace(norm.UserAgent)
	if norm.UserAgent == "" {
		norm.UserAgent = DefaultUserAgent
	}
	norm.AcceptLanguage = strings.TrimSpace(norm.AcceptLanguage)
	if norm.AcceptLanguage == "" {
		norm.AcceptLanguage = DefaultAcceptLanguage
	}
	if norm.SocketTimeoutSec <= 0 {
		norm.SocketTimeoutSec = DefaultSocketTimeoutSec
	}
	return norm
}

func normalizeDelayRange(raw, fallback model.DelayRange) model.DelayRange {
	if raw.IsZero() {
		return fallback
	}
	if raw.Min < 0 {
		raw.Min = 0
	}
	if raw.Max < raw.Min {
		raw.Max = raw.Min
	}
	return raw
}

func normalizeProxyList(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, p := range raw {
		v := strings.TrimSpace(p)
		if v == "" {
			continue
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func ReadGlobalSettings(configPath string) (GlobalSettings, error) {
	path := normalizeConfigPath(configPath)
	reg, err := loadRegistry(path)
	if err == nil {
		return reg.Global, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return defaultGlobalSettings(), nil
	}
	return GlobalSettings{}, err
}

func GetGlobalSettings(configPath string) (GlobalSettings, error) {
	reg, _, err := EnsureRegistry(configPath)
	if err != nil {
		return GlobalSettings{}, err
	}
	return reg.Global, nil
}

func UpdateGlobalSettings(opts UpdateGlobalSettingsOptions) (UpdateGlobalSettingsResult, error) {
	configPath := normalizeConfigPath(opts.ConfigPath)
	reg, _, err := EnsureRegistry(configPath)
	if err != nil {
		return UpdateGlobalSettingsResult{}, err
	}
	reg.Global = normalizeGlobalSettings(opts.Global)
	reg.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	if err := saveRegistry(configPath, reg); err != nil {
		return UpdateGlobalSettingsResult{}, err
	}
	return UpdateGlobalSettingsResult{
		ConfigPath: configPath,
		Global:     reg.Global,
	}, nil
}
