package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/lotas/tabwarden/internal/applog"
	"github.com/lotas/tabwarden/internal/bridge"
	"github.com/lotas/tabwarden/internal/export"
	"github.com/lotas/tabwarden/internal/firefox"
	"github.com/lotas/tabwarden/internal/mcp"
	"github.com/lotas/tabwarden/internal/server"
	"github.com/lotas/tabwarden/internal/storage"
	"github.com/lotas/tabwarden/internal/types"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		runServe(os.Args[2:])
	case "bridge":
		runBridge(os.Args[2:])
	case "live":
		runLive(os.Args[2:])
	case "export":
		runExport(os.Args[2:])
	case "queue":
		runQueue(os.Args[2:])
	case "snapshot":
		runSnapshotInfo(os.Args[2:])
	case "profiles":
		runProfiles()
	case "help", "--help", "-h":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q. Run 'tabwarden help'.\n", os.Args[1])
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Print(`tabwarden — tab inspection and organization tools for agents

Usage:
  tabwarden serve                       Serve tools over MCP on stdin/stdout
    --db <path>            Database path (env: TABWARDEN_DB)
    --offline              Read tabs from the Firefox session store instead of synced data
    --profile <name>       Firefox profile for --offline (env: TABWARDEN_PROFILE)

  tabwarden bridge                      Run as a native-messaging host (started by the browser)
    --db <path>            Database path

  tabwarden live                        Accept extension syncs over WebSocket
    --db <path>            Database path
    --port <n>             Listen port (default: 19292, env: TABWARDEN_PORT)

  tabwarden export                      Export the latest snapshot
    --json                 Export as JSON instead of markdown
    --out <file>           Output file path (default: stdout)
    --offline              Export from the Firefox session store
    --profile <name>       Firefox profile for --offline

  tabwarden queue list                  List pending commands
  tabwarden queue clear                 Empty the command queue
  tabwarden snapshot                    Show latest snapshot summary
  tabwarden profiles                    List Firefox profiles with session data

Environment:
  TABWARDEN_DB         Database path override
  TABWARDEN_PORT       Live-mode WebSocket port
  TABWARDEN_PROFILE    Default Firefox profile for offline mode
  TABWARDEN_DEBUG      Set to 1 for debug log lines
`)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func openDB(path string) *sql.DB {
	if path == "" {
		var err error
		path, err = storage.DefaultDBPath()
		if err != nil {
			fatal("Error resolving database path: %v", err)
		}
	}
	db, err := storage.OpenDB(path)
	if err != nil {
		fatal("Error opening database: %v", err)
	}
	return db
}

func initLog() {
	// Logging is best-effort; a read-only home directory must not stop
	// the tool server.
	_ = applog.Init(storage.DefaultLogDir())
}

func resolveProfileName(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("TABWARDEN_PROFILE")
}

func resolvePort(flagValue int) int {
	if flagValue != 0 {
		return flagValue
	}
	if v := os.Getenv("TABWARDEN_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			return p
		}
	}
	return server.DefaultPort
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	dbPath := fs.String("db", "", "Database path")
	offline := fs.Bool("offline", false, "Read tabs from the Firefox session store")
	profileName := fs.String("profile", "", "Firefox profile name for offline mode")
	fs.Parse(args)

	initLog()
	defer applog.Close()

	db := openDB(*dbPath)
	defer db.Close()

	var source mcp.SnapshotSource = storage.Source{DB: db}
	if *offline {
		profile, err := firefox.ResolveProfile(resolveProfileName(*profileName))
		if err != nil {
			fatal("Error: %v", err)
		}
		source = firefox.SessionSource{ProfilePath: profile.Path}
		applog.Info("serve.offline", "profile", profile.Name)
	}

	srv := mcp.NewServer(source, storage.Queue{DB: db})
	applog.Info("serve.start")
	if err := srv.Run(os.Stdin, os.Stdout); err != nil {
		applog.Error("serve.run", err)
		fatal("Error: %v", err)
	}
}

func runBridge(args []string) {
	fs := flag.NewFlagSet("bridge", flag.ExitOnError)
	dbPath := fs.String("db", "", "Database path")
	// The browser passes the extension origin as a positional argument;
	// it is not needed here.
	fs.Parse(args)

	initLog()
	defer applog.Close()

	db := openDB(*dbPath)
	defer db.Close()

	host := &bridge.Host{DB: db, In: os.Stdin, Out: os.Stdout}
	applog.Info("bridge.start")
	if err := host.Run(); err != nil {
		applog.Error("bridge.run", err)
		fatal("Error: %v", err)
	}
}

func runLive(args []string) {
	fs := flag.NewFlagSet("live", flag.ExitOnError)
	dbPath := fs.String("db", "", "Database path")
	port := fs.Int("port", 0, "WebSocket port")
	fs.Parse(args)

	initLog()
	defer applog.Close()

	db := openDB(*dbPath)
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(resolvePort(*port))
	go srv.ListenAndServe(ctx)

	fmt.Fprintf(os.Stderr, "Waiting for extension on port %d...\n", resolvePort(*port))
	if err := srv.SyncLoop(ctx, db); err != nil && err != context.Canceled {
		fatal("Error: %v", err)
	}
}

func loadSnapshot(dbPath string, offline bool, profileName string) *types.Snapshot {
	if offline {
		profile, err := firefox.ResolveProfile(resolveProfileName(profileName))
		if err != nil {
			fatal("Error: %v", err)
		}
		snap, err := firefox.ReadSessionFile(profile.Path)
		if err != nil {
			fatal("Error reading session: %v", err)
		}
		return snap
	}

	db := openDB(dbPath)
	defer db.Close()
	snap, err := storage.LatestSnapshot(db)
	if err != nil {
		fatal("Error loading snapshot: %v", err)
	}
	if snap == nil {
		fatal("No snapshot yet. Sync from the extension or use --offline.")
	}
	return snap
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	dbPath := fs.String("db", "", "Database path")
	jsonFlag := fs.Bool("json", false, "Export as JSON instead of markdown")
	outFile := fs.String("out", "", "Output file path (default: stdout)")
	offline := fs.Bool("offline", false, "Export from the Firefox session store")
	profileName := fs.String("profile", "", "Firefox profile name")
	fs.Parse(args)

	snap := loadSnapshot(*dbPath, *offline, *profileName)

	var output string
	if *jsonFlag {
		var err error
		output, err = export.JSON(snap)
		if err != nil {
			fatal("Error generating JSON: %v", err)
		}
	} else {
		output = export.Markdown(snap)
	}

	if *outFile != "" {
		if err := os.WriteFile(*outFile, []byte(output), 0o644); err != nil {
			fatal("Error writing file: %v", err)
		}
	} else {
		fmt.Print(output)
	}
}

func runQueue(args []string) {
	fs := flag.NewFlagSet("queue", flag.ExitOnError)
	dbPath := fs.String("db", "", "Database path")
	fs.Parse(args)

	sub := "list"
	if fs.NArg() > 0 {
		sub = fs.Arg(0)
	}

	db := openDB(*dbPath)
	defer db.Close()

	switch sub {
	case "list":
		pending, err := storage.PendingCommands(db)
		if err != nil {
			fatal("Error reading queue: %v", err)
		}
		if len(pending) == 0 {
			fmt.Println("No pending commands.")
			return
		}
		for _, c := range pending {
			fmt.Printf("#%d  %-13s", c.ID, c.Action)
			switch c.Action {
			case types.ActionCreateGroup:
				fmt.Printf("  %q (%s), %d tabs", c.Name, c.Color, len(c.TabIDs))
			case types.ActionCloseTabs, types.ActionUngroupTabs:
				fmt.Printf("  %d tabs", len(c.TabIDs))
			case types.ActionFocusTab:
				fmt.Printf("  tab %d", c.TabID)
			case types.ActionShuffleTabs:
				fmt.Printf("  %d moves", len(c.Moves))
			}
			fmt.Println()
		}
	case "clear":
		if err := storage.ClearCommands(db); err != nil {
			fatal("Error clearing queue: %v", err)
		}
		fmt.Println("Command queue cleared.")
	default:
		fatal("Unknown queue command %q. Use list or clear.", sub)
	}
}

func runSnapshotInfo(args []string) {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	dbPath := fs.String("db", "", "Database path")
	fs.Parse(args)

	db := openDB(*dbPath)
	defer db.Close()

	snap, err := storage.LatestSnapshot(db)
	if err != nil {
		fatal("Error loading snapshot: %v", err)
	}
	if snap == nil {
		fmt.Println("No snapshot yet. Sync from the extension first.")
		return
	}
	fmt.Printf("Latest sync: %s (%s ago)\n",
		snap.Taken().Format("2006-01-02 15:04:05"),
		time.Since(snap.Taken()).Round(time.Second))
	fmt.Printf("Tabs: %d across %d window(s), %d group(s)\n",
		len(snap.Tabs), snap.WindowCount, len(snap.Groups))
}

func runProfiles() {
	profiles, err := firefox.DiscoverProfiles()
	if err != nil {
		fatal("Error discovering Firefox profiles: %v", err)
	}
	if len(profiles) == 0 {
		fatal("No Firefox profiles with session data found.")
	}
	for _, p := range profiles {
		suffix := ""
		if p.IsDefault {
			suffix = " [default]"
		}
		fmt.Printf("%s (%s)%s\n", p.Name, p.Path, suffix)
	}
}
