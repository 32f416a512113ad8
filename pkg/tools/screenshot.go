package tools

import (
	"encoding/base64"
	"fmt"

	"github.com/playwright-community/playwright-go"
	"github.com/richard-senior/mcp-runtime/internal/logger"
	"github.com/richard-senior/mcp-runtime/pkg/protocol"
)

// ScreenshotTool returns the descriptor for "web_screenshot". It is the
// one tool in this runtime that produces an "image" Content variant
// rather than text.
func ScreenshotTool() protocol.Tool {
	return protocol.Tool{
		Name:        "web_screenshot",
		Description: "Renders a URL in a headless browser and returns a PNG screenshot",
		InputSchema: protocol.InputSchema{
			Type: "object",
			Properties: map[string]protocol.ToolProperty{
				"url": {Type: "string", Description: "the page to render"},
			},
			Required: []string{"url"},
		},
	}
}

// HandleScreenshot implements "web_screenshot" by driving a headless
// Chromium instance. A page load failure is a tool-level error (the URL
// the caller gave us is what's wrong), not a JSON-RPC error.
func HandleScreenshot(args map[string]any) (protocol.ToolCallResult, error) {
	url, ok := args["url"].(string)
	if !ok || url == "" {
		return protocol.NewToolError("argument 'url' is required"), nil
	}

	pw, err := playwright.Run()
	if err != nil {
		return protocol.ToolCallResult{}, fmt.Errorf("tools: screenshot: start playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		return protocol.ToolCallResult{}, fmt.Errorf("tools: screenshot: launch browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.NewPage()
	if err != nil {
		return protocol.ToolCallResult{}, fmt.Errorf("tools: screenshot: new page: %w", err)
	}

	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		logger.Warn("web_screenshot: navigation to %s failed: %v", url, err)
		return protocol.NewToolError(fmt.Sprintf("failed to load %s: %v", url, err)), nil
	}

	png, err := page.Screenshot(playwright.PageScreenshotOptions{
		Type: playwright.ScreenshotTypePng,
	})
	if err != nil {
		return protocol.ToolCallResult{}, fmt.Errorf("tools: screenshot: capture: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(png)
	logger.Info("web_screenshot: captured %d bytes for %s", len(png), url)

	return protocol.ToolCallResult{
		Content: []protocol.Content{protocol.ImageContent(encoded, "image/png")},
	}, nil
}
