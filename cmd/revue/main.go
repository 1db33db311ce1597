// Command revue attaches to a running Vue application and tracks component
// re-renders.
//
// Usage:
//
//	revue -config revue.yaml                         # full config
//	revue -url http://localhost:5173                 # quick start, own browser
//	revue -url http://localhost:5173 -remote ws://.. # attach to open browser
//	revue -mcp                                       # serve MCP tools on stdio
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/revue/api"
	"github.com/hazyhaar/revue/track"
)

func main() {
	configPath := flag.String("config", "", "path to revue.yaml config file")
	appURL := flag.String("url", "", "application URL to instrument")
	remoteURL := flag.String("remote", "", "devtools websocket URL of a running browser")
	httpAddr := flag.String("http", "", "debug API listen address (overrides config)")
	mcpStdio := flag.Bool("mcp", false, "serve MCP tools on stdio")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *appURL, *remoteURL, *httpAddr, *mcpStdio); err != nil {
		logger.Error("revue: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, appURL, remoteURL, httpAddr string, mcpStdio bool) error {
	cfg, err := buildConfig(configPath, appURL, remoteURL, httpAddr)
	if err != nil {
		return err
	}

	sinks := buildSinks(cfg, logger)
	w := track.New(cfg, logger, sinks...)

	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	defer w.Stop()

	if mcpStdio {
		// MCP on stdio owns the process lifetime: the session ends when
		// the client disconnects.
		srv := mcp.NewServer(&mcp.Implementation{Name: "revue", Version: "0.1.0"}, nil)
		w.Tracker().RegisterMCP(srv)

		go serveHTTP(ctx, logger, cfg.HTTP.Addr, w)

		logger.Info("revue: serving MCP on stdio")
		return srv.Run(ctx, &mcp.StdioTransport{})
	}

	go serveHTTP(ctx, logger, cfg.HTTP.Addr, w)

	<-ctx.Done()
	return nil
}

func buildConfig(configPath, appURL, remoteURL, httpAddr string) (*track.Config, error) {
	var cfg *track.Config
	if configPath != "" {
		loaded, err := track.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = &track.Config{}
	}

	if appURL != "" {
		cfg.App.URL = appURL
	}
	if remoteURL != "" {
		cfg.Browser.Remote = remoteURL
	}
	if httpAddr != "" {
		cfg.HTTP.Addr = httpAddr
	}

	if cfg.App.URL == "" {
		fmt.Fprintln(os.Stderr, "usage: revue -config <file> | revue -url <url> [-remote <ws-url>]")
		os.Exit(1)
	}
	return cfg, nil
}

func buildSinks(cfg *track.Config, logger *slog.Logger) []track.Sink {
	var sinks []track.Sink
	for _, sc := range cfg.Sinks {
		switch sc.Type {
		case "stdout":
			sinks = append(sinks, track.NewStdoutSink(nil))
		case "webhook":
			sinks = append(sinks, track.NewWebhookSink(sc.URL, logger))
		default:
			logger.Warn("revue: unknown sink type", "type", sc.Type)
		}
	}
	if len(sinks) == 0 {
		sinks = append(sinks, track.NewStdoutSink(nil))
	}
	return sinks
}

func serveHTTP(ctx context.Context, logger *slog.Logger, addr string, w *track.Watcher) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(w.Tracker(), logger),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("revue: debug API listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("revue: debug API", "error", err)
	}
}
