package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rankmatch/server/internal/config"
	"github.com/rankmatch/server/internal/data"
	"github.com/rankmatch/server/internal/handler"
	"github.com/rankmatch/server/internal/match"
	gonet "github.com/rankmatch/server/internal/net"
	"github.com/rankmatch/server/internal/net/packet"
	"github.com/rankmatch/server/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            rankmatchd  v0.1.0             \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      rank-based matchmaking server        \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config; a missing file just means defaults.
	cfgPath := "config/server.toml"
	if p := os.Getenv("RANKMATCH_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = config.Default()
	} else if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	// 3. World state and optional arena presets
	state := world.NewState()

	if cfg.Matching.ArenasFile != "" {
		printSection("data")
		table, err := data.LoadArenaTable(cfg.Matching.ArenasFile)
		if err != nil {
			return fmt.Errorf("load arena presets: %w", err)
		}
		for _, a := range table.All() {
			state.AddArena(a.Name, a.Seats)
		}
		printStat("arenas preloaded", table.Count())
		fmt.Println()
	}

	// 4. Packet handler registry
	pktReg := packet.NewRegistry(log)
	deps := &handler.Deps{
		State: state,
		Log:   log,
	}
	handler.RegisterAll(pktReg, deps)
	printOK("packet handlers registered")

	// 5. Matching engine and room-creation dispatcher
	httpClient := &http.Client{Timeout: cfg.API.Timeout}
	dispatcher := match.NewDispatcher(cfg.API.URL, httpClient, state, log)
	engine := match.NewEngine(state, dispatcher, cfg.Matching.TickInterval, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go engine.Run(ctx)

	// 6. WebSocket server
	netServer := gonet.NewServer(cfg.WebSocket.Addr, func(sess *gonet.Session) {
		handler.HandleConnection(sess, pktReg, deps)
	}, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- netServer.ListenAndServe()
	}()

	printSection("server ready")
	printReady(fmt.Sprintf("listening on %s", cfg.WebSocket.Addr))
	printReady(fmt.Sprintf("room API %s", cfg.API.URL))
	printReady(fmt.Sprintf("matching loop started (tick: %s)", cfg.Matching.TickInterval))
	fmt.Println()

	// 7. Run until a signal or a listener failure
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", cfg.WebSocket.Addr, err)
		}
		return nil
	case sig := <-shutdownCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := netServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("shutdown incomplete", zap.Error(err))
		}
		log.Info("server stopped")
		return nil
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
