package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/fotofindr/internal/api"
	"github.com/mmcdole/fotofindr/internal/assets"
	"github.com/mmcdole/fotofindr/internal/config"
	"github.com/mmcdole/fotofindr/internal/indexer"
	"github.com/mmcdole/fotofindr/internal/log"
	"github.com/mmcdole/fotofindr/internal/search"
	"github.com/mmcdole/fotofindr/internal/store"
	"github.com/mmcdole/fotofindr/internal/tui"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	// Handle version flag
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("fotofindr %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting fotofindr", "version", Version)

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("fotofindr requires an interactive terminal")
	}

	// Check if configured
	if !cfg.IsConfigured() {
		if err := runSetupFlow(cfg); err != nil {
			return err
		}
	}

	// Create backend API client
	client := api.NewClient(cfg.Backend.URL, cfg.Backend.UserID, logger)

	// Open the reconciliation store. Degrade to memory-only mode if the
	// cache directory is unusable; indexing still works, it just repeats
	// uploads next run.
	photoStore, err := store.NewPhotoStore(config.GetCachePath())
	if err != nil {
		logger.Warn("cache unavailable, using memory-only store", "error", err)
		photoStore, _ = store.NewPhotoStore("")
	}
	defer photoStore.Close()

	// Create the asset library and its change watcher
	library := assets.NewDirLibrary(cfg.Library.Path, logger)

	watcher, err := assets.NewWatcher(cfg.Library.Path, logger)
	if err != nil {
		logger.Warn("library watching disabled", "error", err)
		watcher = nil
	} else {
		watchCtx, watchCancel := context.WithCancel(context.Background())
		defer watchCancel()
		go watcher.Run(watchCtx)
	}

	// Create the indexer and search bridge
	ix := indexer.New(client, client, photoStore, logger, indexer.Options{
		IndexLimit:     cfg.Index.Limit,
		BatchSize:      cfg.Index.BatchSize,
		UploadTimeout:  time.Duration(cfg.Index.UploadTimeoutSec) * time.Second,
		ResolveTimeout: time.Duration(cfg.Index.ResolveTimeoutSec) * time.Second,
		PollInterval:   time.Duration(cfg.Index.PollIntervalSec) * time.Second,
		PollDeadline:   time.Duration(cfg.Index.PollDeadlineSec) * time.Second,
	})
	bridge := search.NewBridge(client, logger, cfg.UI.SearchLimit)

	// Create TUI model
	model := tui.NewModel(library, client, photoStore, ix, bridge, watcher)

	// Run the TUI
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI", "library", cfg.Library.Path, "backend", cfg.Backend.URL)

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow prompts for the library path when not configured
func runSetupFlow(cfg *config.Config) error {
	fmt.Println()
	fmt.Println("Welcome to FotoFindr!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("Enter your photo library path (e.g., ~/Pictures): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		path := strings.TrimSpace(input)

		if path == "" {
			fmt.Println("Library path cannot be empty. Please try again.")
			continue
		}

		if strings.HasPrefix(path, "~") {
			home, err := os.UserHomeDir()
			if err == nil {
				path = home + path[1:]
			}
		}

		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			fmt.Println("Not a readable directory. Please try again.")
			continue
		}

		cfg.Library.Path = path
		break
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved")
	fmt.Println()
	return nil
}
