// Command mcpclient is a small exercise harness for an MCP server: it
// connects over SSE, performs the initialize handshake, and prints
// whatever capability listing the caller asked for.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/richard-senior/mcp-runtime/internal/config"
	"github.com/richard-senior/mcp-runtime/internal/logger"
	mcpclient "github.com/richard-senior/mcp-runtime/pkg/client"
	"github.com/richard-senior/mcp-runtime/pkg/transport"
)

func main() {
	cfg := config.DefaultConfig()

	fs := flag.NewFlagSet("mcpclient", flag.ContinueOnError)
	fs.StringVar(&cfg.Host, "host", cfg.Host, "server host")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "server port")
	fs.StringVar(&cfg.APIKey, "api-key", cfg.APIKey, "bearer token to present to the server")
	action := fs.String("action", "tools", `one of "tools", "resources", "prompts", "call"`)
	toolName := fs.String("tool", "", `tool name, required when -action=call`)
	toolArgs := fs.String("args", "{}", `JSON object of tool arguments, used with -action=call`)
	timeout := fs.Duration("timeout", cfg.RequestTimeout, "timeout shared by the initialize call and the requested action")

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	logger.SetLevel(logger.WARN)

	url := fmt.Sprintf("%s://%s:%d%s", cfg.Scheme, cfg.Host, cfg.Port, cfg.SSEPath)
	httpClient := &http.Client{}
	if cfg.APIKey != "" {
		httpClient.Transport = bearerTransport{key: cfg.APIKey, base: http.DefaultTransport}
	}

	t := transport.NewSSEClientTransport(url, httpClient)
	c := mcpclient.New(t)

	if err := c.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to %s: %v\n", url, err)
		os.Exit(1)
	}
	defer c.Close()

	if err := t.WaitReady(cfg.EndpointHandshakeTimeout); err != nil {
		fmt.Fprintf(os.Stderr, "endpoint handshake failed: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if _, err := c.Initialize(ctx, "mcpclient", "0.1.0"); err != nil {
		fmt.Fprintf(os.Stderr, "initialize failed: %v\n", err)
		os.Exit(1)
	}

	var out any
	var err error

	switch *action {
	case "tools":
		out, err = c.ListTools(ctx)
	case "resources":
		out, err = c.ListResources(ctx)
	case "prompts":
		out, err = c.ListPrompts(ctx)
	case "call":
		if *toolName == "" {
			fmt.Fprintln(os.Stderr, "-tool is required when -action=call")
			os.Exit(2)
		}
		var args map[string]any
		if jsonErr := json.Unmarshal([]byte(*toolArgs), &args); jsonErr != nil {
			fmt.Fprintf(os.Stderr, "invalid -args JSON: %v\n", jsonErr)
			os.Exit(2)
		}
		out, err = c.CallTool(ctx, *toolName, args)
	default:
		fmt.Fprintf(os.Stderr, "unknown -action %q\n", *action)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", *action, err)
		os.Exit(1)
	}

	encoded, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(encoded))
}

// bearerTransport adds an Authorization header to every request, used to
// present the configured API key on both the GET stream and POST message
// requests the SSE client transport makes.
type bearerTransport struct {
	key  string
	base http.RoundTripper
}

func (b bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.key)
	return b.base.RoundTrip(req)
}
