package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/fieldforms/internal/forms"
)

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error),
	args map[string]any,
) (*mcp.CallToolResult, string) {
	t.Helper()
	result, err := handler(context.Background(), callRequest(args))
	require.NoError(t, err, "handlers report failures in the result")
	require.NotNil(t, result)
	return result, extractTextFromResult(result)
}

func decodeState(t *testing.T, text string) *forms.Envelope {
	t.Helper()
	env, err := forms.Decode([]byte(text), forms.FormatJSON)
	require.NoError(t, err, text)
	return env
}

func TestHandleFormExport(t *testing.T) {
	s := newTestServer(t)

	result, text := call(t, s.handleFormExport, map[string]any{
		"form":      workOrderJSON(t, "WO-1042"),
		"file_name": "wo-1042",
	})
	require.False(t, result.IsError, text)
	assert.Contains(t, text, "Exported work_order WO-1042")
	assert.Contains(t, text, "Unsigned: Customer")
	assert.FileExists(t, filepath.Join(s.config.OutputDirectory, "wo-1042.pdf"))
}

func TestHandleFormExport_StructuredArgument(t *testing.T) {
	s := newTestServer(t)

	var env map[string]any
	require.NoError(t, json.Unmarshal([]byte(workOrderJSON(t, "WO-7")), &env))

	result, text := call(t, s.handleFormExport, map[string]any{"form": env})
	require.False(t, result.IsError, text)
	assert.Contains(t, text, "WO-7")
}

func TestHandleFormExport_YAML(t *testing.T) {
	s := newTestServer(t)

	form := "kind: survey\ndata:\n  number: SV-3\n  date: \"2024-03-18\"\n  client:\n    name: Northwind\n"
	result, text := call(t, s.handleFormExport, map[string]any{"form": form})
	require.False(t, result.IsError, text)
	assert.Contains(t, text, "Exported survey SV-3")
	assert.Contains(t, text, "Unsigned: Surveyor, Customer")
}

func TestHandleFormExport_Batch(t *testing.T) {
	s := newTestServer(t)

	batch := "[" + workOrderJSON(t, "WO-1") + "," + workOrderJSON(t, "") + "," + workOrderJSON(t, "WO-3") + "]"
	result, text := call(t, s.handleFormExport, map[string]any{"form": batch})
	require.False(t, result.IsError, text)
	assert.Contains(t, text, "2 succeeded, 1 failed")
	assert.Contains(t, text, "item 1")

	entries, err := os.ReadDir(s.config.OutputDirectory)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestHandleFormExport_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{name: "missing form", args: map[string]any{}, want: "not found"},
		{name: "empty form", args: map[string]any{"form": "  "}, want: "cannot be empty"},
		{name: "unknown kind", args: map[string]any{"form": `{"kind": "invoice", "data": {}}`}, want: "unknown form kind"},
		{name: "invalid form", args: map[string]any{"form": workOrderJSON(t, "")}, want: "INVALID_FORM"},
		{name: "empty batch", args: map[string]any{"form": "[]"}, want: "form list is empty"},
		{
			name: "file name with batch",
			args: map[string]any{"form": "[" + workOrderJSON(t, "WO-1") + "]", "file_name": "x"},
			want: "single form",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, text := call(t, s.handleFormExport, tt.args)
			assert.True(t, result.IsError)
			assert.Contains(t, text, tt.want)
		})
	}
}

func TestHandleFormValidate(t *testing.T) {
	s := newTestServer(t)

	result, text := call(t, s.handleFormValidate, map[string]any{"form": workOrderJSON(t, "WO-1")})
	require.False(t, result.IsError, text)
	assert.Contains(t, text, "WO-1 is ready to export")
	assert.Contains(t, text, "Unsigned: Customer")

	result, text = call(t, s.handleFormValidate, map[string]any{
		"form": `{"kind": "maintenance", "data": {"date": "18/03/2024"}}`,
	})
	require.False(t, result.IsError, text)
	assert.Contains(t, text, "problem(s)")
	assert.Contains(t, text, "number")
	assert.Contains(t, text, "client.name")

	result, _ = call(t, s.handleFormValidate, map[string]any{"form": "[" + workOrderJSON(t, "WO-1") + "]"})
	assert.True(t, result.IsError)
}

func TestHandleFormBlank(t *testing.T) {
	s := newTestServer(t)

	result, text := call(t, s.handleFormBlank, map[string]any{"kind": "maintenance"})
	require.False(t, result.IsError, text)
	env := decodeState(t, text)
	assert.Equal(t, forms.KindMaintenance, env.Kind)
	assert.NotEmpty(t, env.Data["sections"])

	result, _ = call(t, s.handleFormBlank, map[string]any{"kind": "invoice"})
	assert.True(t, result.IsError)

	result, _ = call(t, s.handleFormBlank, map[string]any{})
	assert.True(t, result.IsError)
}

func TestHandleFormSetField(t *testing.T) {
	s := newTestServer(t)

	_, blank := call(t, s.handleFormBlank, map[string]any{"kind": "work_order"})

	set := func(form, path string, value any) string {
		t.Helper()
		args := map[string]any{"form": form, "path": path}
		if value != nil {
			args["value"] = value
		}
		result, text := call(t, s.handleFormSetField, args)
		require.False(t, result.IsError, text)
		return text
	}

	form := set(blank, "number", "0042")
	form = set(form, "client.name", "Acme Cold Storage")
	form = set(form, "materials.0", `{"description": "Fan motor", "quantity": 1}`)
	form = set(form, "materials.0.quantity", "2.5")
	form = set(form, "labor", []any{map[string]any{"technician": "J. Silva", "hours": 3}})

	env := decodeState(t, form)
	typed, err := env.Form()
	require.NoError(t, err)
	wo := typed.(*forms.WorkOrder)
	assert.Equal(t, "0042", wo.Number, "text fields keep the raw string")
	assert.Equal(t, "Acme Cold Storage", wo.Client.Name)
	require.Len(t, wo.Materials, 1)
	assert.Equal(t, 2.5, wo.Materials[0].Quantity)
	require.Len(t, wo.Labor, 1)
	assert.Equal(t, 3.0, wo.Labor[0].Hours)

	form = set(form, "materials.0", nil)
	env = decodeState(t, form)
	typed, err = env.Form()
	require.NoError(t, err)
	assert.Empty(t, typed.(*forms.WorkOrder).Materials)
}

func TestHandleFormSetField_Errors(t *testing.T) {
	s := newTestServer(t)
	_, blank := call(t, s.handleFormBlank, map[string]any{"kind": "survey"})

	tests := []struct {
		name string
		args map[string]any
	}{
		{name: "missing path", args: map[string]any{"form": blank, "value": "x"}},
		{name: "index out of range", args: map[string]any{"form": blank, "path": "measurements.5.label", "value": "x"}},
		{name: "remove missing field", args: map[string]any{"form": blank, "path": "nothing"}},
		{name: "bad form", args: map[string]any{"form": "{", "path": "number", "value": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _ := call(t, s.handleFormSetField, tt.args)
			assert.True(t, result.IsError)
		})
	}
}

func TestHandleDocumentTools(t *testing.T) {
	s := newTestServer(t)

	_, text := call(t, s.handleDocumentList, map[string]any{})
	assert.Contains(t, text, "No documents found")

	for _, ref := range []string{"WO-1", "WO-2"} {
		result, text := call(t, s.handleFormExport, map[string]any{"form": workOrderJSON(t, ref), "file_name": ref})
		require.False(t, result.IsError, text)
	}

	_, text = call(t, s.handleDocumentList, map[string]any{"limit": float64(1)})
	assert.Contains(t, text, "Found 2 document(s)")
	assert.Contains(t, text, "Showing the 1 most recent")

	_, text = call(t, s.handleDocumentList, map[string]any{"query": "wo 2"})
	assert.Contains(t, text, "WO-2.pdf")
	assert.NotContains(t, text, "WO-1.pdf")

	result, text := call(t, s.handleDocumentStats, map[string]any{"path": "WO-1.pdf"})
	require.False(t, result.IsError, text)
	assert.Contains(t, text, "Form kind: work_order")
	assert.Contains(t, text, "Form reference: WO-1")
	assert.Contains(t, text, "Company: Coolfix Ltd")

	result, text = call(t, s.handleDocumentRead, map[string]any{"path": "WO-1.pdf"})
	require.False(t, result.IsError, text)
	assert.Contains(t, text, "Content:")
	assert.Contains(t, text, "Pages: 1")
	assert.NotContains(t, text, "Pages read:")

	result, text = call(t, s.handleDocumentRead, map[string]any{"path": "WO-1.pdf", "first_page": float64(1)})
	require.False(t, result.IsError, text)
	assert.Contains(t, text, "Pages read: 1")

	result, text = call(t, s.handleDocumentRead, map[string]any{"path": "WO-1.pdf", "first_page": float64(3)})
	assert.True(t, result.IsError)
	assert.Contains(t, text, "no pages selected")

	result, text = call(t, s.handleDocumentValidate, map[string]any{"path": "WO-2.pdf"})
	require.False(t, result.IsError, text)
	assert.Contains(t, text, "is a valid PDF")

	result, text = call(t, s.handleDocumentBundle, map[string]any{
		"paths":     `["WO-1.pdf", "WO-2.pdf"]`,
		"file_name": "visit",
	})
	require.False(t, result.IsError, text)
	assert.FileExists(t, filepath.Join(s.config.OutputDirectory, "visit.pdf"))

	result, text = call(t, s.handleDocumentBundle, map[string]any{
		"paths": []any{"WO-1.pdf", "WO-2.pdf"},
	})
	require.False(t, result.IsError, text)
}

func TestHandleDocumentTools_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]any
		want    string
	}{
		{name: "stats outside directory", handler: s.handleDocumentStats, args: map[string]any{"path": "/etc/passwd"}, want: "SECURITY"},
		{name: "read missing", handler: s.handleDocumentRead, args: map[string]any{"path": "nope.pdf"}, want: "NOT_FOUND"},
		{name: "validate without path", handler: s.handleDocumentValidate, args: map[string]any{}, want: "path"},
		{name: "bundle bad paths", handler: s.handleDocumentBundle, args: map[string]any{"paths": "a.pdf"}, want: "JSON array"},
		{name: "bundle non-string", handler: s.handleDocumentBundle, args: map[string]any{"paths": []any{1}}, want: "not a string"},
		{name: "bundle missing source", handler: s.handleDocumentBundle, args: map[string]any{"paths": `["gone.pdf"]`}, want: "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, text := call(t, tt.handler, tt.args)
			assert.True(t, result.IsError)
			assert.Contains(t, text, tt.want)
		})
	}
}

func TestHandleServerInfo(t *testing.T) {
	s := newTestServer(t)

	result, text := call(t, s.handleServerInfo, nil)
	require.False(t, result.IsError, text)
	assert.Contains(t, text, "test-server")
	assert.Contains(t, text, s.config.OutputDirectory)
	assert.Contains(t, text, "work_order (Work Order)")
	assert.Contains(t, text, "none exported yet")
	for _, name := range []string{"form_export", "form_set_field", "document_bundle"} {
		assert.Contains(t, text, name)
	}
}
