package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"yt-sub-archiver/internal/registry"
)

func runAddChannel(args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	name := fs.String("name", "", "channel name (optional; auto-generated from identifier)")
	channel := fs.String("channel", "", "channel URL, @handle, or bare name")
	config := fs.String("config", registry.DefaultChannelsConfigPath, "channel config path")
	maxVideos := fs.Int("max-videos", 0, "per-channel video cap (0 = inherit global)")
	sortBy := fs.String("sort-by", "", "listing order: recency|popularity (empty inherits global)")
	subLangs := fs.String("sub-langs", "", "subtitle languages, comma-separated (empty inherits global)")
	replace := fs.Bool("replace", false, "replace channel if it already exists")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	identifier := strings.TrimSpace(*channel)
	if identifier == "" {
		var err error
		identifier, err = promptRequired("channel identifier")
		if err != nil {
			return err
		}
	}

	res, err := registry.AddChannel(registry.AddChannelOptions{
		ConfigPath:          strings.TrimSpace(*config),
		Name:                strings.TrimSpace(*name),
		Identifier:          identifier,
		MaxVideos:           *maxVideos,
		SortBy:              strings.TrimSpace(*sortBy),
		SubLangs:            strings.TrimSpace(*subLangs),
		Active:              boolPtr(true),
		ReplaceIfNameExists: *replace,
	})
	if err != nil {
		return err
	}

	if *jsonOut {
		return printJSON(res)
	}

	action := "added"
	if !res.Created {
		action = "updated"
	}
	fmt.Printf("channel %s: %s\n", action, res.Channel.Name)
	fmt.Printf("identifier: %s\n", res.Channel.Identifier)
	fmt.Printf("config: %s\n", strings.TrimSpace(*config))
	fmt.Printf("next: yt-sub-archiver run --channel %s\n", res.Channel.Name)
	return nil
}

func runListChannels(args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	config := fs.String("config", registry.DefaultChannelsConfigPath, "channel config path")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := registry.ListChannels(registry.ListChannelsOptions{ConfigPath: strings.TrimSpace(*config)})
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(res)
	}

	fmt.Printf("config: %s\n", res.ConfigPath)
	if len(res.Channels) == 0 {
		fmt.Println("no channels configured")
		fmt.Println("next: yt-sub-archiver add --channel <url|@handle|name>")
		return nil
	}
	for _, c := range res.Channels {
		activeMark := " "
		if registry.IsChannelActive(c) {
			activeMark = "x"
		}
		fmt.Printf("- [%s] %s | %s\n", activeMark, c.Name, c.Identifier)
	}
	return nil
}

func runRemoveChannel(args []string) error {
	fs := flag.NewFlagSet("remove", flag.ContinueOnError)
	name := fs.String("name", "", "channel name")
	config := fs.String("config", registry.DefaultChannelsConfigPath, "channel config path")
	yes := fs.Bool("yes", false, "skip confirmation")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	target := strings.TrimSpace(*name)
	if target == "" {
		return errors.New("--name is required")
	}
	if !*yes {
		ok, err := promptConfirm(fmt.Sprintf("remove channel %q? [y/N] ", target))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("aborted")
			return nil
		}
	}

	res, err := registry.RemoveChannel(registry.RemoveChannelOptions{
		ConfigPath: strings.TrimSpace(*config),
		Name:       target,
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(res)
	}
	fmt.Printf("removed channel: %s (%s)\n", res.Channel.Name, res.Channel.Identifier)
	return nil
}
