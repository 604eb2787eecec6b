package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/a3tai/fieldforms/internal/forms"
	"github.com/a3tai/fieldforms/internal/pdf"
)

func (s *Server) handleFormExport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	envs, batch, err := parseForms(args["form"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fileName, _ := args["file_name"].(string)

	if !batch {
		result, err := s.pdfService.Export(ctx, pdf.ExportRequest{Envelope: envs[0], FileName: fileName})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatExportResult(result)), nil
	}

	if fileName != "" {
		return mcp.NewToolResultError("file_name can only be used with a single form"), nil
	}
	reqs := make([]pdf.ExportRequest, len(envs))
	for i, env := range envs {
		reqs[i] = pdf.ExportRequest{Envelope: env}
	}
	result, err := s.pdfService.ExportBatch(ctx, reqs)
	if err != nil {
		if result == nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(formatBatchResult(result) + "\nBatch stopped: " + err.Error()), nil
	}
	return mcp.NewToolResultText(formatBatchResult(result)), nil
}

func (s *Server) handleFormValidate(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	env, err := parseForm(request.GetArguments()["form"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ValidateForm(env)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatValidateFormResult(result)), nil
}

func (s *Server) handleFormBlank(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := request.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state, err := forms.Blank(forms.Kind(kind))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return stateResult(state)
}

func (s *Server) handleFormSetField(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	env, err := parseForm(args["form"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state, err := forms.NewState(env.Kind, env.Data)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	switch raw := args["value"].(type) {
	case nil:
		err = state.Remove(path)
	case string:
		err = setText(state, path, raw)
	default:
		err = state.Set(path, raw)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return stateResult(state)
}

func (s *Server) handleDocumentList(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	req := pdf.ListDocumentsRequest{}
	if q, ok := args["query"].(string); ok {
		req.Query = q
	}
	if limit, ok := args["limit"].(float64); ok && limit > 0 {
		req.Limit = int(limit)
	}

	result, err := s.pdfService.ListDocuments(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if result.TotalCount == 0 {
		text := fmt.Sprintf("No documents found in: %s", result.Directory)
		if result.Query != "" {
			text += fmt.Sprintf(" (searched for: %s)", result.Query)
		}
		return mcp.NewToolResultText(text), nil
	}
	return mcp.NewToolResultText(formatListDocumentsResult(result)), nil
}

func (s *Server) handleDocumentStats(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.DocumentStats(pdf.DocumentRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatDocumentStatsResult(result)), nil
}

func (s *Server) handleDocumentRead(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := pdf.DocumentRequest{Path: path}
	args := request.GetArguments()
	first, hasFirst := args["first_page"].(float64)
	last, hasLast := args["last_page"].(float64)
	if hasFirst || hasLast {
		req.Pages = []pdf.PageRange{{Start: int(first), End: int(last)}}
	}

	result, err := s.pdfService.ReadDocument(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("Document: %s\n", result.Path)
	text += fmt.Sprintf("Pages: %d\n", result.Pages)
	if len(result.PagesRead) > 0 {
		text += fmt.Sprintf("Pages read: %s\n", strings.Trim(fmt.Sprint(result.PagesRead), "[]"))
	}
	text += fmt.Sprintf("Size: %d bytes\n", result.Size)
	text += fmt.Sprintf("Images: %d\n", result.Images)
	text += "\nContent:\n"
	text += result.Content
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleDocumentValidate(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ValidateDocument(pdf.DocumentRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if result.Valid {
		return mcp.NewToolResultText(
			fmt.Sprintf("Document %s is a valid PDF (%d pages)", result.Path, result.Pages)), nil
	}
	return mcp.NewToolResultText(
		fmt.Sprintf("Document validation failed for %s: %s", result.Path, result.Message)), nil
}

func (s *Server) handleDocumentBundle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	paths, err := parsePaths(args["paths"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fileName, _ := args["file_name"].(string)

	result, err := s.pdfService.Bundle(ctx, pdf.BundleRequest{Paths: paths, FileName: fileName})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(result.String()), nil
}

func (s *Server) handleServerInfo(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.pdfService.Info(ctx, s.config.ServerName, s.config.Version)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatInfoResult(result)), nil
}

// stateResult returns the edited form as an indented envelope
func stateResult(state *forms.State) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode form: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// rawArgument returns the bytes of an argument given either as text or as
// a structured JSON value
func rawArgument(name string, v any) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("required argument %q not found", name)
	case string:
		data := bytes.TrimSpace([]byte(val))
		if len(data) == 0 {
			return nil, fmt.Errorf("argument %q cannot be empty", name)
		}
		return data, nil
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", name, err)
		}
		return data, nil
	}
}

// parseForms decodes one envelope or a JSON array of envelopes. Text that
// is not JSON is read as YAML.
func parseForms(v any) ([]*forms.Envelope, bool, error) {
	data, err := rawArgument("form", v)
	if err != nil {
		return nil, false, err
	}

	if data[0] != '[' {
		env, err := forms.Decode(data, formatOf(data))
		if err != nil {
			return nil, false, err
		}
		return []*forms.Envelope{env}, false, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, true, fmt.Errorf("failed to parse form list: %w", err)
	}
	if len(items) == 0 {
		return nil, true, errors.New("form list is empty")
	}
	envs := make([]*forms.Envelope, len(items))
	for i, item := range items {
		env, err := forms.Decode(item, forms.FormatJSON)
		if err != nil {
			return nil, true, fmt.Errorf("form %d: %w", i, err)
		}
		envs[i] = env
	}
	return envs, true, nil
}

// parseForm decodes exactly one envelope
func parseForm(v any) (*forms.Envelope, error) {
	envs, batch, err := parseForms(v)
	if err != nil {
		return nil, err
	}
	if batch {
		return nil, errors.New("expected a single form, got a list")
	}
	return envs[0], nil
}

func formatOf(data []byte) forms.Format {
	if data[0] == '{' {
		return forms.FormatJSON
	}
	return forms.FormatYAML
}

// parsePaths accepts a JSON array of strings, given as text or as a list
func parsePaths(v any) ([]string, error) {
	if list, ok := v.([]any); ok {
		paths := make([]string, 0, len(list))
		for i, item := range list {
			p, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("paths[%d] is not a string", i)
			}
			paths = append(paths, p)
		}
		return paths, nil
	}

	data, err := rawArgument("paths", v)
	if err != nil {
		return nil, err
	}
	var paths []string
	if err := json.Unmarshal(data, &paths); err != nil {
		return nil, fmt.Errorf("paths must be a JSON array of file names: %w", err)
	}
	return paths, nil
}

// setText stores a text argument at path. Text fields keep the raw string
// so "0042" stays text; other fields read it as JSON when the result still
// decodes into the typed form.
func setText(state *forms.State, path, text string) error {
	if current, err := state.Get(path); err == nil {
		if _, isText := current.(string); isText {
			return state.Set(path, text)
		}
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return state.Set(path, text)
	}
	if err := state.Set(path, v); err != nil {
		return err
	}
	if _, err := state.Form(); err != nil {
		return state.Set(path, text)
	}
	return nil
}
