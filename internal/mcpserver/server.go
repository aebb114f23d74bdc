// Package mcpserver exposes the scraper as an MCP tool.
package mcpserver

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Name is the implementation name reported to MCP clients.
const Name = "Webustler"

// ToolName is the name of the single tool the server registers.
const ToolName = "scrape"

// Scraper produces the document for one URL.
type Scraper interface {
	Scrape(ctx context.Context, url string) (string, error)
}

// ScrapeInput is the argument object of the scrape tool.
type ScrapeInput struct {
	URL string `json:"url" jsonschema:"absolute http(s) URL of the page to scrape"`
}

// New returns a server with the scrape tool registered.
func New(s Scraper, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: Name, Version: version}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolName,
		Description: "Scrape a URL and return content with metadata, links, and images.",
	}, scrapeHandler(s))
	return server
}

func scrapeHandler(s Scraper) mcp.ToolHandlerFor[ScrapeInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in ScrapeInput) (*mcp.CallToolResult, any, error) {
		target := strings.TrimSpace(in.URL)
		if target == "" {
			return errorResult(errors.New("url is required")), nil, nil
		}
		doc, err := s.Scrape(ctx, target)
		if err != nil {
			log.Warn().Err(err).Str("url", target).Msg("scrape tool failed")
			return errorResult(err), nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: doc}},
		}, nil, nil
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}

// ServeStdio runs server over stdin/stdout until ctx is done or the client
// disconnects.
func ServeStdio(ctx context.Context, server *mcp.Server) error {
	log.Info().Str("server", Name).Msg("serving MCP over stdio")
	return server.Run(ctx, &mcp.StdioTransport{})
}
