package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/fieldforms/internal/forms"
)

const workOrderYAML = `kind: work_order
data:
  number: WO-1042
  date: "2024-03-18"
  client:
    name: Acme Cold Storage
  problem_reported: Compressor trips on high pressure.
  materials:
    - description: Fan motor
      quantity: 1
`

const surveyJSON = `{"kind": "survey", "data": {"number": "SV-9", "date": "2024-03-19", "client": {"name": "Northwind"}}}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeSignature(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 100, 30))
	for x := 4; x < 96; x++ {
		img.Set(x, 15+(x%4)-2, color.NRGBA{A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return writeFile(t, dir, "sig.png", buf.String())
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func pdfFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	require.NoError(t, err)
	return matches
}

func TestRun_SingleForm(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "docs")
	form := writeFile(t, in, "wo.yaml", workOrderYAML)

	code, stdout, stderr := runCLI(t, "--output", out, "--company", "Coolfix Ltd", "--draft", form)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "work_order-WO-1042-")
	assert.Contains(t, stdout, "DRAFT")
	assert.Len(t, pdfFiles(t, out), 1)
}

func TestRun_BatchWithSignaturesAndBundle(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	wo := writeFile(t, in, "wo.yml", workOrderYAML)
	sv := writeFile(t, in, "survey.json", surveyJSON)
	sig := writeSignature(t, in)

	code, stdout, stderr := runCLI(t,
		"-o", out,
		"--draft",
		"--sign-technician", sig,
		"--sign-customer", sig,
		"--bundle", "visit",
		wo, sv,
	)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "wo.yml: ")
	assert.Contains(t, stdout, "survey.json: ")
	assert.NotContains(t, stdout, "DRAFT", "every signature slot is filled")
	assert.FileExists(t, filepath.Join(out, "visit.pdf"))
	assert.Len(t, pdfFiles(t, out), 3)
}

func TestRun_Errors(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	valid := writeFile(t, in, "wo.yaml", workOrderYAML)
	invalid := writeFile(t, in, "bad.json", `{"kind": "work_order", "data": {"date": "2024-03-18"}}`)
	unknown := writeFile(t, in, "x.json", `{"kind": "invoice", "data": {}}`)
	notImage := writeFile(t, in, "sig.txt", "not an image")

	tests := []struct {
		name string
		args []string
		code int
	}{
		{name: "no forms", args: []string{"-o", out}, code: 2},
		{name: "unknown flag", args: []string{"--dir", out, valid}, code: 2},
		{name: "bad page size", args: []string{"-o", out, "--pagesize", "A3", valid}, code: 2},
		{name: "bad log level", args: []string{"-o", out, "--loglevel", "loud", valid}, code: 2},
		{name: "missing file", args: []string{"-o", out, filepath.Join(in, "nope.json")}, code: 1},
		{name: "unknown kind", args: []string{"-o", out, unknown}, code: 1},
		{name: "invalid form", args: []string{"-o", out, invalid}, code: 1},
		{name: "batch with a failure", args: []string{"-o", out, valid, invalid}, code: 1},
		{name: "bad signature", args: []string{"-o", out, "--sign-customer", notImage, valid}, code: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			assert.Equal(t, tt.code, code, stderr)
		})
	}
}

func TestRun_Help(t *testing.T) {
	code, _, stderr := runCLI(t, "--help")
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "Usage: form-export")
}

func TestReadForm_Signatures(t *testing.T) {
	in := t.TempDir()
	path := writeFile(t, in, "survey.json", surveyJSON)

	env, err := readForm(path, signatureFiles{first: "data:image/png;base64,AAAA"})
	require.NoError(t, err)

	form, err := env.Form()
	require.NoError(t, err)
	survey := form.(*forms.SiteSurvey)
	assert.True(t, strings.HasPrefix(survey.Surveyor.Image, "data:image/png"))
	assert.False(t, survey.Customer.Signed())
}
