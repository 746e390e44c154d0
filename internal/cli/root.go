package cli

import "fmt"

func Run(args []string) error {
	if len(args) == 0 {
		printRootUsage()
		return nil
	}

	switch args[0] {
	case "init":
		return runInit(args[1:])
	case "doctor":
		return runDoctor(args[1:])
	case "add":
		return runAddChannel(args[1:])
	case "list":
		return runListChannels(args[1:])
	case "remove":
		return runRemoveChannel(args[1:])
	case "settings":
		return runSettings(args[1:])
	case "manage":
		return runManage(args[1:])
	case "run":
		return runBatch(args[1:])
	case "help", "-h", "--help":
		printRootUsage()
		return nil
	default:
		printRootUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printRootUsage() {
	fmt.Println("yt-sub-archiver: channel-first YouTube subtitle batch downloader")
	fmt.Println()
	fmt.Println("Quick Start:")
	fmt.Println("  yt-sub-archiver init")
	fmt.Println("  yt-sub-archiver add --channel <url|@handle|name> [--name <channel>]")
	fmt.Println("  yt-sub-archiver run --all-channels")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  init      create workspace config + run environment checks")
	fmt.Println("  doctor    run dependency and filesystem preflight checks")
	fmt.Println("  add       add/update a tracked channel in config")
	fmt.Println("  list      list configured channels")
	fmt.Println("  remove    remove a channel from config")
	fmt.Println("  settings  show/update global batch settings")
	fmt.Println("  manage    interactive channel manager (wizard + editor)")
	fmt.Println("  run       download subtitles for channel(s)")
	fmt.Println()
	fmt.Println("Notes:")
	fmt.Println("  - Use --json on commands for machine-readable output")
	fmt.Println("  - run targets: --channel <name> (comma-separated) or --all-channels")
}
