package registry

import (
	"testing"

	"yt-sub-archiver/internal/model"
)

func TestAddChannelSuggestsNameFromHandle(t *testing.T) {
	tmp := t.TempDir()
	cfg := tmp + "/channels.yaml"

	res, err := AddChannel(AddChannelOptions{
		ConfigPath: cfg,
		Identifier: "https://www.youtube.com/@SomeChannel/videos",
	})
	if err != nil {
		t.Fatalf("add channel failed: %v", err)
	}
	if res.Channel.Name != "somechannel" {
		t.Fatalf("suggested name mismatch: got %q want %q", res.Channel.Name, "somechannel")
	}
	if !res.Created {
		t.Fatalf("expected channel to be created")
	}
	if !IsChannelActive(res.Channel) {
		t.Fatalf("new channel should default to active")
	}
}

func TestAddChannelRejectsDuplicateIdentifier(t *testing.T) {
	tmp := t.TempDir()
	cfg := tmp + "/channels.yaml"

	if _, err := AddChannel(AddChannelOptions{ConfigPath: cfg, Name: "first", Identifier: "@chan"}); err != nil {
		t.Fatalf("add first channel failed: %v", err)
	}
	if _, err := AddChannel(AddChannelOptions{ConfigPath: cfg, Name: "second", Identifier: "@chan"}); err == nil {
		t.Fatalf("expected duplicate identifier to be rejected")
	}
}

func TestAddChannelRejectsUnknownSortMode(t *testing.T) {
	tmp := t.TempDir()
	cfg := tmp + "/channels.yaml"

	_, err := AddChannel(AddChannelOptions{ConfigPath: cfg, Identifier: "@chan", SortBy: "views"})
	if err == nil {
		t.Fatalf("expected unknown sort mode to be rejected")
	}
}

func TestRemoveChannel(t *testing.T) {
	tmp := t.TempDir()
	cfg := tmp + "/channels.yaml"

	if _, err := AddChannel(AddChannelOptions{ConfigPath: cfg, Name: "demo", Identifier: "@demo"}); err != nil {
		t.Fatalf("add channel failed: %v", err)
	}
	res, err := RemoveChannel(RemoveChannelOptions{ConfigPath: cfg, Name: "demo"})
	if err != nil {
		t.Fatalf("remove channel failed: %v", err)
	}
	if !res.Removed || res.Channel.Name != "demo" {
		t.Fatalf("unexpected remove result: %+v", res)
	}
	if _, err := RemoveChannel(RemoveChannelOptions{ConfigPath: cfg, Name: "demo"}); err == nil {
		t.Fatalf("expected remove of missing channel to fail")
	}
}

func TestResolveChannelSelectionActiveOnly(t *testing.T) {
	tmp := t.TempDir()
	cfg := tmp + "/channels.yaml"

	if _, err := AddChannel(AddChannelOptions{
		ConfigPath: cfg,
		Name:       "active-one",
		Identifier: "@a",
		Active:     boolPtr(true),
	}); err != nil {
		t.Fatalf("add active channel failed: %v", err)
	}
	if _, err := AddChannel(AddChannelOptions{
		ConfigPath: cfg,
		Name:       "inactive-one",
		Identifier: "@b",
		Active:     boolPtr(false),
	}); err != nil {
		t.Fatalf("add inactive channel failed: %v", err)
	}

	selected, err := ResolveChannelSelection(cfg, "", true, true)
	if err != nil {
		t.Fatalf("resolve active-only selection failed: %v", err)
	}
	if len(selected) != 1 {
		t.Fatalf("expected 1 active channel, got %d", len(selected))
	}
	if selected[0].Name != "active-one" {
		t.Fatalf("expected active-one, got %q", selected[0].Name)
	}
}

func TestLoadRegistryDropsInvalidSortMode(t *testing.T) {
	tmp := t.TempDir()
	cfg := tmp + "/channels.yaml"

	if _, err := AddChannel(AddChannelOptions{ConfigPath: cfg, Name: "demo", Identifier: "@demo", SortBy: model.SortPopularity}); err != nil {
		t.Fatalf("add channel failed: %v", err)
	}
	reg, err := LoadRegistry(cfg)
	if err != nil {
		t.Fatalf("load registry failed: %v", err)
	}
	if len(reg.Channels) != 1 || reg.Channels[0].SortBy != model.SortPopularity {
		t.Fatalf("unexpected channels: %+v", reg.Channels)
	}
}
