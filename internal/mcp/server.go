package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/a3tai/fieldforms/internal/config"
	"github.com/a3tai/fieldforms/internal/descriptions"
	"github.com/a3tai/fieldforms/internal/forms"
	"github.com/a3tai/fieldforms/internal/pdf"
)

const shutdownTimeout = 5 * time.Second

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	logger     *zap.Logger
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service, logger *zap.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if pdfService == nil {
		return nil, errors.New("pdfService cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // the tool list never changes at runtime
		server.WithRecovery(),
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		logger:     logger,
		mcpServer:  mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		"form_export",
		mcp.WithDescription(descriptions.GetToolDescription("form_export")),
		mcp.WithString("form",
			mcp.Required(),
			mcp.Description(`Form envelope {"kind": "work_order", "data": {...}} as JSON or YAML, or a JSON array of envelopes for a batch`),
		),
		mcp.WithString("file_name",
			mcp.Description("Output file name for a single form (optional)"),
		),
	), s.handleFormExport)

	s.mcpServer.AddTool(mcp.NewTool(
		"form_validate",
		mcp.WithDescription(descriptions.GetToolDescription("form_validate")),
		mcp.WithString("form",
			mcp.Required(),
			mcp.Description("Form envelope as JSON or YAML"),
		),
	), s.handleFormValidate)

	s.mcpServer.AddTool(mcp.NewTool(
		"form_blank",
		mcp.WithDescription(descriptions.GetToolDescription("form_blank")),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Enum(kindNames()...),
			mcp.Description("Form kind"),
		),
	), s.handleFormBlank)

	s.mcpServer.AddTool(mcp.NewTool(
		"form_set_field",
		mcp.WithDescription(descriptions.GetToolDescription("form_set_field")),
		mcp.WithString("form",
			mcp.Required(),
			mcp.Description("Form envelope as JSON or YAML"),
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Dotted field path such as client.name or materials.0.quantity"),
		),
		mcp.WithString("value",
			mcp.Description("New value; JSON for numbers, objects and lists. Omit to remove the field"),
		),
	), s.handleFormSetField)

	s.mcpServer.AddTool(mcp.NewTool(
		"document_list",
		mcp.WithDescription(descriptions.GetToolDescription("document_list")),
		mcp.WithString("query",
			mcp.Description("Optional search words for fuzzy file name matching"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of documents to return (optional)"),
		),
	), s.handleDocumentList)

	s.mcpServer.AddTool(mcp.NewTool(
		"document_stats",
		mcp.WithDescription(descriptions.GetToolDescription("document_stats")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File name or path inside the output directory"),
		),
	), s.handleDocumentStats)

	s.mcpServer.AddTool(mcp.NewTool(
		"document_read",
		mcp.WithDescription(descriptions.GetToolDescription("document_read")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File name or path inside the output directory"),
		),
		mcp.WithNumber("first_page",
			mcp.Description("First page to read, 1-based (optional)"),
		),
		mcp.WithNumber("last_page",
			mcp.Description("Last page to read, inclusive (optional, defaults to the end)"),
		),
	), s.handleDocumentRead)

	s.mcpServer.AddTool(mcp.NewTool(
		"document_validate",
		mcp.WithDescription(descriptions.GetToolDescription("document_validate")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File name or path inside the output directory"),
		),
	), s.handleDocumentValidate)

	s.mcpServer.AddTool(mcp.NewTool(
		"document_bundle",
		mcp.WithDescription(descriptions.GetToolDescription("document_bundle")),
		mcp.WithString("paths",
			mcp.Required(),
			mcp.Description(`JSON array of file names to merge, in order, e.g. ["a.pdf", "b.pdf"]`),
		),
		mcp.WithString("file_name",
			mcp.Description("Name of the merged file (optional)"),
		),
	), s.handleDocumentBundle)

	s.mcpServer.AddTool(mcp.NewTool(
		"server_info",
		mcp.WithDescription(descriptions.GetToolDescription("server_info")),
	), s.handleServerInfo)
}

func kindNames() []string {
	kinds := forms.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}

// Run starts the MCP server in the configured mode and blocks until ctx is
// cancelled or the transport stops
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx, os.Stdin, os.Stdout)
}

// runStdioMode serves MCP over the given streams
func (s *Server) runStdioMode(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info("starting MCP server in stdio mode",
		zap.String("output", s.config.OutputDirectory),
	)

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(zap.NewStdLog(s.logger))

	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves MCP over HTTP with server-sent events until ctx is done
func (s *Server) runServerMode(ctx context.Context) error {
	addr := s.config.Address()
	sse := server.NewSSEServer(s.mcpServer,
		server.WithBaseURL("http://"+addr),
	)

	s.logger.Info("starting MCP server in server mode",
		zap.String("address", addr),
		zap.String("output", s.config.OutputDirectory),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- sse.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := sse.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}
