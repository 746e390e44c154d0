package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"yt-sub-archiver/internal/model"
	"yt-sub-archiver/internal/store"
)

const (
	DefaultChannelsConfigPath = "config/channels.yaml"
	channelSchemaVersion      = 1
)

var (
	ErrNoChannelsConfigured  = errors.New("no channels configured")
	ErrChannelSelectRequired = errors.New("channel selection required")
)

// Channel is one tracked YouTube channel. Identifier may be a full URL,
// an @handle, or a bare channel name. Zero-valued per-channel fields
// fall back to the global settings at run time.
type Channel struct {
	Name       string `yaml:"name" json:"name"`
	Identifier string `yaml:"identifier" json:"identifier"`
	Active     *bool  `yaml:"active,omitempty" json:"active,omitempty"`
	MaxVideos  int    `yaml:"max_videos,omitempty" json:"max_videos,omitempty"`
	SortBy     string `yaml:"sort_by,omitempty" json:"sort_by,omitempty"`
	SubLangs   string `yaml:"sub_langs,omitempty" json:"sub_langs,omitempty"`
}

type Registry struct {
	SchemaVersion int            `yaml:"schema_version" json:"schema_version"`
	UpdatedAt     string         `yaml:"updated_at" json:"updated_at"`
	Global        GlobalSettings `yaml:"global" json:"global"`
	Channels      []Channel      `yaml:"channels" json:"channels"`
}

type AddChannelOptions struct {
	ConfigPath          string
	Name                string
	Identifier          string
	MaxVideos           int
	SortBy              string
	SubLangs            string
	Active              *bool
	ReplaceIfNameExists bool
}

type AddChannelResult struct {
	Channel Channel
	Created bool
}

type RemoveChannelOptions struct {
	ConfigPath string
	Name       string
}

type RemoveChannelResult struct {
	Channel Channel
	Removed bool
}

type ListChannelsOptions struct {
	ConfigPath string
}

type ListChannelsResult struct {
	ConfigPath string
	Channels   []Channel
}

func normalizeConfigPath(path string) string {
	p := strings.TrimSpace(path)
	if p == "" {
		return DefaultChannelsConfigPath
	}
	return p
}

func EnsureRegistry(configPath string) (Registry, bool, error) {
	path := normalizeConfigPath(configPath)
	reg, err := loadRegistry(path)
	if err == nil {
		return reg, false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return Registry{}, false, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	reg = Registry{
		SchemaVersion: channelSchemaVersion,
		UpdatedAt:     now,
		Global:        defaultGlobalSettings(),
		Channels:      []Channel{},
	}
	if err := saveRegistry(path, reg); err != nil {
		return Registry{}, false, err
	}
	return reg, true, nil
}

func AddChannel(opts AddChannelOptions) (AddChannelResult, error) {
	configPath := normalizeConfigPath(opts.ConfigPath)
	reg, _, err := EnsureRegistry(configPath)
	if err != nil {
		return AddChannelResult{}, err
	}

	identifier := strings.TrimSpace(opts.Identifier)
	if identifier == "" {
		return AddChannelResult{}, fmt.Errorf("channel identifier is required")
	}
	if opts.MaxVideos < 0 {
		return AddChannelResult{}, fmt.Errorf("max videos must be >= 0")
	}
	sortBy := strings.ToLower(strings.TrimSpace(opts.SortBy))
	if sortBy != "" && !model.IsKnownSortMode(sortBy) {
		return AddChannelResult{}, fmt.Errorf("sort mode must be %q or %q", model.SortRecency, model.SortPopularity)
	}
	for _, c := range reg.Channels {
		if strings.EqualFold(strings.TrimSpace(c.Identifier), identifier) && !strings.EqualFold(strings.TrimSpace(c.Name), strings.TrimSpace(opts.Name)) {
			return AddChannelResult{}, fmt.Errorf("channel already tracked as %q", c.Name)
		}
	}

	explicitName := canonicalChannelName(opts.Name)
	name := explicitName
	if name == "" {
		name = suggestChannelName(identifier)
	}
	if explicitName == "" {
		name = ensureUniqueChannelName(name, reg.Channels, opts.ReplaceIfNameExists)
	}
	if name == "" {
		return AddChannelResult{}, fmt.Errorf("channel name is required")
	}

	channel := Channel{
		Name:       name,
		Identifier: identifier,
		Active:     opts.Active,
		MaxVideos:  opts.MaxVideos,
		SortBy:     sortBy,
		SubLangs:   strings.TrimSpace(opts.SubLangs),
	}
	if channel.Active == nil {
		channel.Active = boolPtr(true)
	}

	created := true
	replaced := false
	for i := range reg.Channels {
		if strings.EqualFold(reg.Channels[i].Name, name) {
			if !opts.ReplaceIfNameExists {
				return AddChannelResult{}, fmt.Errorf("channel %q already exists (use --replace)", name)
			}
			reg.Channels[i] = channel
			created = false
			replaced = true
			break
		}
	}
	if !replaced {
		reg.Channels = append(reg.Channels, channel)
	}

	sort.Slice(reg.Channels, func(i, j int) bool {
		return reg.Channels[i].Name < reg.Channels[j].Name
	})
	reg.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	if err := saveRegistry(configPath, reg); err != nil {
		return AddChannelResult{}, err
	}

	return AddChannelResult{
		Channel: channel,
		Created: created,
	}, nil
}

func RemoveChannel(opts RemoveChannelOptions) (RemoveChannelResult, error) {
	configPath := normalizeConfigPath(opts.ConfigPath)
	reg, _, err := EnsureRegistry(configPath)
	if err != nil {
		return RemoveChannelResult{}, err
	}

	name := canonicalChannelName(opts.Name)
	if name == "" {
		return RemoveChannelResult{}, fmt.Errorf("channel name is required")
	}

	for i := range reg.Channels {
		if strings.EqualFold(reg.Channels[i].Name, name) {
			removed := reg.Channels[i]
			reg.Channels = append(reg.Channels[:i], reg.Channels[i+1:]...)
			reg.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
			if err := saveRegistry(configPath, reg); err != nil {
				return RemoveChannelResult{}, err
			}
			return RemoveChannelResult{Channel: removed, Removed: true}, nil
		}
	}

	return RemoveChannelResult{}, fmt.Errorf("channel %q not found", name)
}

func ListChannels(opts ListChannelsOptions) (ListChannelsResult, error) {
	configPath := normalizeConfigPath(opts.ConfigPath)
	reg, _, err := EnsureRegistry(configPath)
	if err != nil {
		return ListChannelsResult{}, err
	}

	channels := append([]Channel(nil), reg.Channels...)
	sort.Slice(channels, func(i, j int) bool {
		return channels[i].Name < channels[j].Name
	})

	return ListChannelsResult{
		ConfigPath: configPath,
		Channels:   channels,
	}, nil
}

func LoadRegistry(configPath string) (Registry, error) {
	reg, _, err := EnsureRegistry(configPath)
	if err != nil {
		return Registry{}, err
	}
	return reg, nil
}

func FindChannelByName(configPath, name string) (Channel, error) {
	reg, _, err := EnsureRegistry(configPath)
	if err != nil {
		return Channel{}, err
	}
	target := canonicalChannelName(name)
	if target == "" {
		return Channel{}, fmt.Errorf("channel name is required")
	}

	for _, c := range reg.Channels {
		if strings.EqualFold(c.Name, target) {
			return c, nil
		}
	}
	return Channel{}, fmt.Errorf("channel %q not found", target)
}

func ResolveChannelSelection(configPath string, channelName string, all bool, activeOnly bool) ([]Channel, error) {
	reg, _, err := EnsureRegistry(configPath)
	if err != nil {
		return nil, err
	}
	if len(reg.Channels) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoChannelsConfigured, normalizeConfigPath(configPath))
	}

	if all {
		channels := make([]Channel, 0, len(reg.Channels))
		for _, c := range reg.Channels {
			if activeOnly && !IsChannelActive(c) {
				continue
			}
			channels = append(channels, c)
		}
		if len(channels) == 0 {
			if activeOnly {
				return nil, fmt.Errorf("no active channels selected")
			}
			return nil, fmt.Errorf("no channels selected")
		}
		sort.Slice(channels, func(i, j int) bool {
			return channels[i].Name < channels[j].Name
		})
		return channels, nil
	}

	names := splitAndClean(channelName)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w (--channel <name> or --all-channels)", ErrChannelSelectRequired)
	}

	index := make(map[string]Channel, len(reg.Channels))
	for _, c := range reg.Channels {
		index[strings.ToLower(strings.TrimSpace(c.Name))] = c
	}
	selected := make([]Channel, 0, len(names))
	seen := make(map[string]bool)
	for _, n := range names {
		key := strings.ToLower(n)
		if seen[key] {
			continue
		}
		c, ok := index[key]
		if !ok {
			return nil, fmt.Errorf("channel %q not found", n)
		}
		if activeOnly && !IsChannelActive(c) {
			continue
		}
		selected = append(selected, c)
		seen[key] = true
	}
	if len(selected) == 0 {
		if activeOnly {
			return nil, fmt.Errorf("no active channels selected")
		}
		return nil, fmt.Errorf("no channels selected")
	}
	return selected, nil
}

func IsChannelActive(c Channel) bool {
	if c.Active == nil {
		return true
	}
	return *c.Active
}

func loadRegistry(path string) (Registry, error) {
	var reg Registry
	if err := store.ReadYAML(path, &reg); err != nil {
		return Registry{}, err
	}
	if reg.SchemaVersion == 0 {
		reg.SchemaVersion = channelSchemaVersion
	}
	reg.Global = normalizeGlobalSettings(reg.Global)
	if reg.Channels == nil {
		reg.Channels = []Channel{}
	}
	normalized := make([]Channel, 0, len(reg.Channels))
	for _, c := range reg.Channels {
		c.Name = canonicalChannelName(c.Name)
		c.Identifier = strings.TrimSpace(c.Identifier)
		c.SortBy = strings.ToLower(strings.TrimSpace(c.SortBy))
		c.SubLangs = strings.TrimSpace(c.SubLangs)
		if c.Active == nil {
			c.Active = boolPtr(true)
		}
		if c.MaxVideos < 0 {
			c.MaxVideos = 0
		}
		if c.SortBy != "" && !model.IsKnownSortMode(c.SortBy) {
			c.SortBy = ""
		}
		if c.Name == "" || c.Identifier == "" {
			continue
		}
		normalized = append(normalized, c)
	}
	reg.Channels = normalized
	return reg, nil
}

func boolPtr(v bool) *bool {
	b := v
	return &b
}

func saveRegistry(path string, reg Registry) error {
	reg.SchemaVersion = channelSchemaVersion
	if strings.TrimSpace(reg.UpdatedAt) == "" {
		reg.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	reg.Global = normalizeGlobalSettings(reg.Global)
	if reg.Channels == nil {
		reg.Channels = []Channel{}
	}
	if err := store.Mkdir(filepath.Dir(path)); err != nil {
		return err
	}
	return store.WriteYAML(path, reg)
}

func splitAndClean(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := canonicalChannelName(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func suggestChannelName(identifier string) string {
	u := strings.TrimSpace(identifier)
	if u == "" {
		return "channel"
	}
	if idx := strings.Index(u, "/@"); idx >= 0 {
		v := u[idx+2:]
		if cut := strings.Index(v, "/"); cut >= 0 {
			v = v[:cut]
		}
		if name := canonicalChannelName(v); name != "" {
			return name
		}
	}
	if strings.HasPrefix(u, "@") {
		if name := canonicalChannelName(u[1:]); name != "" {
			return name
		}
	}
	base := strings.TrimSpace(filepath.Base(strings.TrimRight(u, "/")))
	if name := canonicalChannelName(base); name != "" {
		return name
	}
	return "channel"
}

func canonicalChannelName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return ""
	}
	var b strings.Builder
	prevDash := false
	for _, r := range s {
		isAlphaNum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if isAlphaNum {
			b.WriteRune(r)
			prevDash = false
			continue
		}
		if !prevDash {
			b.WriteRune('-')
			prevDash = true
		}
	}
	clean := strings.Trim(b.String(), "-")
	if clean == "" {
		return ""
	}
	return clean
}

func ensureUniqueChannelName(base string, existing []Channel, allowExisting bool) string {
	name := canonicalChannelName(base)
	if name == "" {
		return ""
	}
	if allowExisting {
		return name
	}
	set := make(map[string]bool, len(existing))
	for _, c := range existing {
		set[strings.ToLower(strings.TrimSpace(c.Name))] = true
	}
	if !set[name] {
		return name
	}
	for i := 2; i < 10000; i++ {
		candidate := fmt.Sprintf("%s-%d", name, i)
		if !set[candidate] {
			return candidate
		}
	}
	return ""
}
