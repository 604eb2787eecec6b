package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/a3tai/fieldforms/internal/config"
	"github.com/a3tai/fieldforms/internal/descriptions"
	"github.com/a3tai/fieldforms/internal/forms"
	"github.com/a3tai/fieldforms/internal/pdf"
	"github.com/a3tai/fieldforms/internal/signature"
)

func testConfig(dir string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.OutputDirectory = dir
	cfg.ServerName = "test-server"
	cfg.Company = "Coolfix Ltd"
	cfg.Workers = 2
	return cfg
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := testConfig(t.TempDir())
	svc, err := pdf.NewService(pdf.Options{
		OutputDirectory: cfg.OutputDirectory,
		Company:         cfg.Company,
		Timeout:         time.Minute,
		Workers:         cfg.Workers,
		Now: func() time.Time {
			return time.Date(2024, 3, 18, 14, 30, 0, 0, time.UTC)
		},
	}, zap.NewNop())
	require.NoError(t, err)

	s, err := NewServer(cfg, svc, zap.NewNop())
	require.NoError(t, err)
	return s
}

func testSignature(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 120, 40))
	for x := 5; x < 115; x++ {
		img.Set(x, 20+(x%5)-2, color.NRGBA{A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	url, err := signature.DataURL(buf.Bytes())
	require.NoError(t, err)
	return url
}

func workOrderJSON(t *testing.T, number string) string {
	t.Helper()
	env, err := forms.Wrap(&forms.WorkOrder{
		Number:          number,
		Date:            "2024-03-18",
		Client:          forms.Party{Name: "Acme Cold Storage"},
		ProblemReported: "Compressor trips on high pressure.",
		Technician:      forms.Signature{Name: "J. Silva", Image: testSignature(t)},
	})
	require.NoError(t, err)
	data, err := json.Marshal(env)
	require.NoError(t, err)
	return string(data)
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func extractTextFromResult(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}

	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			return textContent.Text
		}
		if textContentPtr, ok := content.(*mcp.TextContent); ok {
			return textContentPtr.Text
		}
	}

	return ""
}

func TestNewServer(t *testing.T) {
	dir := t.TempDir()
	svc, err := pdf.NewService(pdf.Options{OutputDirectory: dir}, nil)
	require.NoError(t, err)

	tests := []struct {
		name        string
		config      *config.Config
		service     *pdf.Service
		expectError bool
	}{
		{name: "stdio mode", config: testConfig(dir), service: svc},
		{
			name: "server mode",
			config: func() *config.Config {
				c := testConfig(dir)
				c.Mode = config.ModeServer
				return c
			}(),
			service: svc,
		},
		{name: "nil config", config: nil, service: svc, expectError: true},
		{name: "nil service", config: testConfig(dir), service: nil, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, err := NewServer(tt.config, tt.service, nil)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, server)
				return
			}

			require.NoError(t, err)
			assert.Same(t, tt.config, server.config)
			assert.Same(t, tt.service, server.pdfService)
			assert.NotNil(t, server.mcpServer)
			assert.NotNil(t, server.logger)
		})
	}
}

func TestServer_ToolsRegistered(t *testing.T) {
	s := newTestServer(t)

	msg := s.mcpServer.HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var resp struct {
		Result struct {
			Tools []struct {
				Name        string `json:"name"`
				Description string `json:"description"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(data, &resp))

	var names []string
	for _, tool := range resp.Result.Tools {
		names = append(names, tool.Name)
		assert.Equal(t, descriptions.GetToolDescription(tool.Name), tool.Description)
	}
	assert.ElementsMatch(t, descriptions.GetAllToolNames(), names)
}

func TestServer_RunStdioMode(t *testing.T) {
	s := newTestServer(t)

	t.Run("end of input", func(t *testing.T) {
		var out bytes.Buffer
		err := s.runStdioMode(context.Background(), strings.NewReader(""), &out)
		assert.NoError(t, err)
	})

	t.Run("context cancelled", func(t *testing.T) {
		s := newTestServer(t)
		in, w := io.Pipe()
		defer w.Close()

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- s.runStdioMode(ctx, in, io.Discard)
		}()
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("stdio server did not stop after cancellation")
		}
	})
}

func TestServer_RunServerMode(t *testing.T) {
	s := newTestServer(t)
	s.config.Mode = config.ModeServer
	s.config.Port = 0

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
