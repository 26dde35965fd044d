package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"m3u8cmd/config"
	"m3u8cmd/dom"
	"m3u8cmd/internal/logger"
	"m3u8cmd/metrics"
	"m3u8cmd/notify"
	"m3u8cmd/pipeline"
)

// Exit codes
const (
	exitOK          = 0
	exitError       = 1
	exitNotFound    = 2
	exitInterrupted = 130 // Standard exit code for SIGINT
)

var log = logger.Get("Main")

func main() {
	os.Exit(run())
}

func run() int {
	// Step 1: Load configuration (CLI flags > environment > config file > defaults)
	cfg, err := config.LoadConfig()
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(os.Stderr, "❌ Configuration error: %v\n", err)
		return exitError
	}

	logger.Log.SetMinStatus(cfg.LogLevel())

	if cfg.SaveConfig != "" {
		if err := config.SaveConfigFile(cfg, cfg.SaveConfig); err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			return exitError
		}
		log.Emit(logger.SUCCESS, "Configuration saved to %s\n", cfg.SaveConfig)
	}

	// Step 2: Set up context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Step 3: Register signal handlers (Ctrl+C, SIGTERM)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		if _, ok := <-sigChan; ok {
			fmt.Fprintln(os.Stderr, "\n⚠️  Interrupt received, stopping...")
			cancel()
		}
	}()

	// Step 4: Run the extraction
	var recorder *metrics.Recorder
	if cfg.MetricsFile != "" {
		recorder = metrics.New()
		defer func() {
			if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
				log.Emit(logger.WARNING, "%v\n", err)
			}
		}()
	}

	notifier := notify.NewConsoleNotifier(os.Stderr)

	res, err := extract(ctx, cfg, recorder)
	if err != nil {
		var notFound *pipeline.NotFoundError
		switch {
		case errors.Is(err, context.Canceled):
			fmt.Fprintln(os.Stderr, "⚠️  Cancelled by user")
			return exitInterrupted
		case errors.As(err, &notFound):
			notifier.NotFound(notFound.Levels)
			return exitNotFound
		}
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		return exitError
	}

	if res.Guessed() {
		notifier.Guess(res.Candidate.URL)
	}

	// Step 5: Hand the command to the user
	if cfg.DryRun {
		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println("                      DRY RUN MODE")
		fmt.Println("═══════════════════════════════════════════════════════════")
		cfg.PrintConfig()
		fmt.Println()
		fmt.Println(res.CommandLine)
		return exitOK
	}

	if !cfg.Output.Clipboard {
		fmt.Println(res.CommandLine)
		return exitOK
	}

	delivery := &notify.Delivery{
		Clipboard: notify.SystemClipboard{},
		Notifier:  notifier,
		Prompter:  notify.NewTerminalPrompter(os.Stdin, os.Stderr),
		Timeout:   cfg.Output.ClipboardTimeout,
	}
	if _, err := delivery.Deliver(ctx, res.CommandLine); err != nil {
		if errors.Is(err, context.Canceled) {
			return exitInterrupted
		}
		fmt.Fprintf(os.Stderr, "❌ Delivery error: %v\n", err)
		return exitError
	}

	return exitOK
}

// extract loads the page named by cfg and runs the pipeline on it.
func extract(ctx context.Context, cfg *config.Config, recorder *metrics.Recorder) (*pipeline.Result, error) {
	policy, err := cfg.NamingPolicy()
	if err != nil {
		return nil, err
	}

	var pageURL *url.URL
	if cfg.PageURL != "" {
		pageURL, err = url.Parse(cfg.PageURL)
		if err != nil {
			return nil, fmt.Errorf("invalid page url: %w", err)
		}
	}

	doc, err := readPage(cfg, pageURL)
	if err != nil {
		return nil, err
	}

	p := pipeline.New(pipeline.Options{
		Locator:   cfg.LocatorOptions(),
		Metadata:  cfg.MetadataOptions(),
		Policy:    policy,
		MaxDepth:  cfg.MaxDepth,
		Resolver:  pipeline.NewResolver(cfg.FramesDir, cfg.AllowCrossOrigin),
		PageURL:   pageURL,
		Tool:      cfg.Output.Tool,
		Separator: cfg.Output.PathSeparator,
		ExtraArgs: cfg.Output.ExtraArgs,
		Metrics:   recorder,
	})
	return p.Run(ctx, doc)
}

func readPage(cfg *config.Config, pageURL *url.URL) (*dom.Document, error) {
	var r io.Reader = os.Stdin
	if !cfg.ReadsStdin() {
		f, err := os.Open(cfg.Input)
		if err != nil {
			return nil, fmt.Errorf("failed to open page: %w", err)
		}
		defer f.Close()
		r = f
	}

	doc, err := pipeline.LoadDocument(r, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to read page %s: %w", cfg.Input, err)
	}
	return doc, nil
}
