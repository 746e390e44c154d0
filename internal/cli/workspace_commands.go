package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"yt-sub-archiver/internal/registry"
)

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	stateDir := fs.String("state-dir", "state", "state directory")
	config := fs.String("config", registry.DefaultChannelsConfigPath, "channel config path")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := registry.InitWorkspace(registry.InitWorkspaceOptions{
		StateDir:   strings.TrimSpace(*stateDir),
		ConfigPath: strings.TrimSpace(*config),
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(res)
	}

	fmt.Println("workspace initialized")
	fmt.Printf("state_dir: %s\n", res.StateDir)
	fmt.Printf("config: %s\n", res.ConfigPath)
	fmt.Printf("created_state_dir: %t\n", res.CreatedStateDir)
	fmt.Printf("created_config: %t\n", res.CreatedConfig)
	fmt.Println("checks:")
	for _, c := range res.DoctorResult.Checks {
		status := "ok"
		if !c.OK {
			status = "fail"
		}
		fmt.Printf("  %s: %s (%s)\n", c.Name, status, c.Message)
	}
	if !res.DoctorResult.OK {
		return errors.New("doctor checks failed")
	}
	fmt.Println("next: yt-sub-archiver add --channel <url|@handle|name>")
	return nil
}

func runDoctor(args []string) error {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	stateDir := fs.String("state-dir", "state", "state directory")
	config := fs.String("config", registry.DefaultChannelsConfigPath, "channel config path")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := registry.Doctor(registry.DoctorOptions{
		StateDir:   strings.TrimSpace(*stateDir),
		ConfigPath: strings.TrimSpace(*config),
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(res)
	}

	for _, c := range res.Checks {
		status := "ok"
		if !c.OK {
			status = "fail"
		}
		fmt.Printf("%s: %s (%s)\n", c.Name, status, c.Message)
	}
	if !res.OK {
		return errors.New("doctor checks failed")
	}
	fmt.Println("doctor: all checks passed")
	return nil
}
