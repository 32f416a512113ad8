// Command mcpserver runs an MCP server over stdio or SSE, serving the
// built-in tools, resources, and prompts.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/richard-senior/mcp-runtime/internal/config"
	"github.com/richard-senior/mcp-runtime/internal/logger"
	"github.com/richard-senior/mcp-runtime/pkg/prompts"
	"github.com/richard-senior/mcp-runtime/pkg/server"
	"github.com/richard-senior/mcp-runtime/pkg/transport"
)

func main() {
	cfg := config.DefaultConfig()

	fs := flag.NewFlagSet("mcpserver", flag.ContinueOnError)
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, `"stdio" or "sse"`)
	fs.StringVar(&cfg.Host, "host", cfg.Host, "host to bind the SSE listener to")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "port to bind the SSE listener to")
	fs.StringVar(&cfg.APIKey, "api-key", cfg.APIKey, "static API key required of SSE clients (blank disables auth)")
	promptDBPath := fs.String("prompt-db", defaultPromptDBPath(), "path to the prompt store's SQLite database")
	logFile := fs.Bool("log-file", cfg.Transport == "stdio", "write logs to a file instead of stdout/stderr")

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	if cfg.Transport == "stdio" || *logFile {
		logger.SetLogOutput('f')
	}
	logger.SetShowDateTime(true)

	setCorrectArchitecture()

	promptRegistry, err := prompts.NewRegistry(*promptDBPath)
	if err != nil {
		logger.Error("failed to open prompt store: %v", err)
		os.Exit(1)
	}
	defer promptRegistry.Close()

	srv := server.New(cfg, promptRegistry)

	switch cfg.Transport {
	case "stdio":
		runStdio(srv)
	case "sse":
		runSSE(srv, cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown transport %q: must be \"stdio\" or \"sse\"\n", cfg.Transport)
		os.Exit(2)
	}
}

func runStdio(srv *server.Server) {
	// stdio carries protocol bytes on stdout; nothing but JSON-RPC frames
	// may ever be written there, which is why logging was redirected to a
	// file before this function was reached.
	t := transport.NewStdioTransport(os.Stdin, os.Stdout)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(t) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("stdio server exited: %v", err)
			os.Exit(1)
		}
	case sig := <-sigCh:
		logger.Info("received signal %v, shutting down", sig)
		t.Close()
	}
}

func runSSE(srv *server.Server, cfg config.Config) {
	handler := server.NewHTTPHandler(srv, cfg)
	defer handler.Shutdown()

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	httpSrv := &http.Server{Addr: addr, Handler: handler.Mux()}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("sse server listening on %s (sse=%s messages=%s)", addr, cfg.SSEPath, cfg.MessagesPath)
		errCh <- httpSrv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("sse server exited: %v", err)
			os.Exit(1)
		}
	case sig := <-sigCh:
		logger.Info("received signal %v, shutting down", sig)
		httpSrv.Close()
	}
}

func defaultPromptDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "prompts.db"
	}
	return home + "/.mcp/prompts.db"
}

// setCorrectArchitecture forces GOARCH/CGO_ENABLED to match the running
// machine before any subprocess-spawning tool (the headless browser
// screenshot tool launches its own Chromium binary) gets a chance to pick
// a mismatched one.
func setCorrectArchitecture() {
	if runtime.GOOS == "darwin" {
		cmd := exec.Command("sysctl", "-n", "machdep.cpu.brand_string")
		output, err := cmd.Output()
		if err == nil && strings.Contains(string(output), "Apple") {
			logger.Info("detected Apple Silicon, forcing GOARCH=arm64")
			os.Setenv("GOARCH", "arm64")
			os.Setenv("CGO_ENABLED", "1")
			return
		}
	}

	cmd := exec.Command("uname", "-m")
	output, err := cmd.Output()
	if err != nil {
		logger.Warn("failed to detect system architecture: %v", err)
		return
	}

	systemArch := strings.TrimSpace(string(output))
	var targetArch string
	switch systemArch {
	case "arm64", "aarch64":
		targetArch = "arm64"
	case "x86_64", "amd64":
		targetArch = "amd64"
	default:
		logger.Warn("unknown system architecture: %s", systemArch)
		return
	}

	if runtime.GOARCH != targetArch {
		logger.Info("setting GOARCH from %s to %s", runtime.GOARCH, targetArch)
		os.Setenv("GOARCH", targetArch)
	}
}
