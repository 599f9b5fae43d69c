// Command play runs the game in a terminal.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"adventure-server/internal/cache"
	"adventure-server/internal/config"
	"adventure-server/internal/domain"
	"adventure-server/internal/game"
	"adventure-server/internal/generation"
	applogger "adventure-server/internal/logger"
	"adventure-server/internal/scenes"

	"go.uber.org/zap"
)

const separator = "--------------------------------------------------"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.CredentialError(); err != nil {
		fmt.Fprintln(os.Stderr, domain.CredentialErrorMessage)
		os.Exit(1)
	}

	// Logs go to stderr and stay quiet unless LOG_OUTPUT points elsewhere.
	logCfg := applogger.Config{Level: "error", Encoding: "console"}
	if cfg.LogOutput != "" {
		logCfg = applogger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding, OutputPath: cfg.LogOutput}
	}
	logger, err := applogger.New(logCfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	graph, _, err := scenes.Default()
	if cfg.ScenesFile != "" {
		graph, _, err = scenes.LoadFile(cfg.ScenesFile)
	}
	if err != nil {
		logger.Fatal("Failed to load scene table", zap.Error(err))
	}

	provider, err := generation.NewProvider(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create generation provider", zap.Error(err))
	}
	if closer, ok := provider.(io.Closer); ok {
		defer closer.Close()
	}
	provider = generation.WithImageCache(provider, cache.NewMemoryImageCache(cfg.ImageCacheTTL), logger)

	controller := game.NewController(graph, provider, game.WithLogger(logger))

	fmt.Println("Sahne yükleniyor...")
	render(os.Stdout, controller.Start(ctx))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		cmd := parseCommand(scanner.Text())

		switch cmd.kind {
		case commandQuit:
			return
		case commandHelp:
			printHelp(os.Stdout)
		case commandRestart:
			fmt.Println("Sahne yükleniyor...")
			render(os.Stdout, controller.Restart(ctx))
		case commandSearch:
			state, err := controller.Search(ctx, cmd.query)
			if err != nil {
				fmt.Println("Arama metni boş olamaz.")
				continue
			}
			renderSearch(os.Stdout, state)
		case commandChoice:
			fmt.Println("Sahne yükleniyor...")
			snap, err := controller.SelectChoice(ctx, cmd.index)
			if err != nil && snap.Error == "" {
				fmt.Printf("Geçersiz seçim: %d\n", cmd.index+1)
				continue
			}
			render(os.Stdout, snap)
		default:
			fmt.Println("Anlaşılmadı. Yardım için 'y' yazın.")
		}
	}
}

type commandKind int

const (
	commandUnknown commandKind = iota
	commandChoice
	commandRestart
	commandSearch
	commandHelp
	commandQuit
)

type command struct {
	kind  commandKind
	index int
	query string
}

// parseCommand reads one input line. Choices are numbered from 1 on screen.
func parseCommand(line string) command {
	line = strings.TrimSpace(line)
	if line == "" {
		return command{}
	}
	if n, err := strconv.Atoi(line); err == nil {
		return command{kind: commandChoice, index: n - 1}
	}

	word, rest, _ := strings.Cut(line, " ")
	switch strings.ToLower(word) {
	case "r", "yeniden":
		return command{kind: commandRestart}
	case "a", "ara":
		return command{kind: commandSearch, query: strings.TrimSpace(rest)}
	case "y", "yardim", "yardım":
		return command{kind: commandHelp}
	case "q", "cik", "çık":
		return command{kind: commandQuit}
	}
	return command{}
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "1, 2, ...    seçim yap")
	fmt.Fprintln(w, "a <metin>    web'de ara")
	fmt.Fprintln(w, "r            oyunu yeniden başlat")
	fmt.Fprintln(w, "q            çık")
}

func render(w io.Writer, snap game.Snapshot) {
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "%s\n\n", snap.SceneTitle)
	if snap.Error != "" {
		fmt.Fprintf(w, "! %s\n\n", snap.Error)
	}
	fmt.Fprintln(w, snap.NarrativeText)
	if snap.ImageRef != "" {
		fmt.Fprintln(w, "\n[görsel hazır]")
	}
	if !snap.IsStart && !snap.IsTerminal {
		fmt.Fprintln(w)
		for _, s := range snap.StatViews {
			fmt.Fprintf(w, "%-11s %s %3d\n", s.Label, bar(s.Value), s.Value)
		}
	}
	fmt.Fprintln(w)
	for _, ch := range snap.Choices {
		fmt.Fprintf(w, "%d) %s\n", ch.Index+1, ch.Text)
	}
	if snap.CanSearch {
		fmt.Fprintln(w, "a <metin>) Ara")
	}
	if snap.CanRestart {
		fmt.Fprintln(w, "r) Yeniden Başla")
	}
	fmt.Fprintln(w, separator)
}

func renderSearch(w io.Writer, state domain.SearchState) {
	fmt.Fprintln(w, separator)
	if state.Error != "" {
		fmt.Fprintln(w, state.Error)
		fmt.Fprintln(w, separator)
		return
	}
	fmt.Fprintln(w, state.Text)
	if len(state.Citations) > 0 {
		fmt.Fprintln(w, "\nKaynaklar:")
		for _, c := range state.Citations {
			fmt.Fprintf(w, "- %s <%s>\n", c.DisplayTitle(), c.URI)
		}
	}
	fmt.Fprintln(w, separator)
}

// bar draws value on a 20 cell gauge.
func bar(value int) string {
	filled := domain.Clamp(value) / 5
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", 20-filled) + "]"
}
