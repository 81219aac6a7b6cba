package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"airbutler/pkg/ai"
	_ "airbutler/pkg/ai/providers"
	"airbutler/pkg/butler"
	"airbutler/pkg/commands"
	"airbutler/pkg/config"
	"airbutler/pkg/logging"
	"airbutler/pkg/page"
	"airbutler/pkg/ui"
	"airbutler/pkg/ui/components/toast"
	"airbutler/pkg/version"

	tea "charm.land/bubbletea/v2"
	"github.com/joho/godotenv"
	"golang.org/x/term"
)

// Program reference for messages sent from timers outside the update loop.
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

func main() {
	configPath := flag.String("config", config.GetConfigPath(), "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	plain := flag.Bool("plain", false, "line-based chat without the full-screen UI")
	flag.Parse()

	if *showVersion {
		printVersion()
		return
	}

	// A missing .env is normal; the AIRBUTLER_* variables are optional.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config %s: %v\n", *configPath, err)
		os.Exit(1)
	}

	logs, err := logging.Init(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	defer logs.Close()
	slog.Info("airbutler_start",
		"version", version.Summary(),
		"platform", version.Platform(),
		"provider", cfg.Provider,
		"config_path", *configPath,
	)

	provider, err := ai.GetProviderFromConfig(cfg)
	if err != nil {
		slog.Warn("provider_init_failed", "provider", cfg.Provider, "error", err)
		cfg.Provider = config.ProviderButler
		provider, err = ai.GetProviderFromConfig(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating provider: %v\n", err)
			os.Exit(1)
		}
	}

	doc, err := page.Load(cfg.PageFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading page: %v\n", err)
		os.Exit(1)
	}

	widget := butler.New(butler.OptionsFromConfig(cfg, provider))
	dispatcher := commands.NewDispatcher()
	defer widget.Shutdown()

	if *plain || !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		if err := runPlain(os.Stdin, os.Stdout, widget, dispatcher, version.Version); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	m := ui.NewModel(ui.Options{
		Document:   doc,
		Widget:     widget,
		Toasts:     toast.New(nil),
		Dispatcher: dispatcher,
		Provider:   cfg.Provider,
		Version:    version.Version,
		Locale:     cfg.Locale,
		Send:       send,
	})
	defer m.Shutdown()

	p := tea.NewProgram(m)

	programMu.Lock()
	programRef = p
	programMu.Unlock()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running airbutler: %v\n", err)
		os.Exit(1)
	}
	slog.Info("airbutler_exit")
}

func send(msg tea.Msg) {
	programMu.Lock()
	p := programRef
	programMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}
