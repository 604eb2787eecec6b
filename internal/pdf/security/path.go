package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// maxFileNameLength keeps generated names well under common filesystem limits
const maxFileNameLength = 120

// PathValidator keeps every read and write inside the output directory
type PathValidator struct {
	configuredDirectory string
}

// NewPathValidator creates a new path validator for the given directory
func NewPathValidator(configuredDirectory string) (*PathValidator, error) {
	if configuredDirectory == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}

	abs, err := filepath.Abs(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configured directory: %w", err)
	}

	return &PathValidator{
		configuredDirectory: abs,
	}, nil
}

// ValidatePath checks if a path is within the configured directory
func (v *PathValidator) ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	isWithin, err := v.IsPathWithinDirectory(path)
	if err != nil {
		return fmt.Errorf("path validation failed: %w", err)
	}

	if !isWithin {
		return fmt.Errorf("path is outside configured directory: %s", path)
	}

	return nil
}

// IsPathWithinDirectory checks if a path is within the configured directory.
// Symlinks are resolved on both sides so a link cannot point outside.
func (v *PathValidator) IsPathWithinDirectory(path string) (bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}

	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(v.configuredDirectory)

	realPath := cleanPath
	if info, err := os.Lstat(cleanPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if resolved, err := filepath.EvalSymlinks(cleanPath); err == nil {
			realPath = resolved
		}
	}

	realDir := cleanDir
	if resolved, err := filepath.EvalSymlinks(cleanDir); err == nil {
		realDir = resolved
	}

	within := func(p string) bool {
		for _, dir := range []string{cleanDir, realDir} {
			if p == dir || strings.HasPrefix(p, dir+string(filepath.Separator)) {
				return true
			}
		}
		return false
	}

	return within(cleanPath) && within(realPath), nil
}

// Resolve turns a file name or a relative path into an absolute path inside
// the configured directory
func (v *PathValidator) Resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("file name cannot be empty")
	}

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(v.configuredDirectory, path)
	}
	if err := v.ValidatePath(path); err != nil {
		return "", err
	}
	return filepath.Clean(path), nil
}

// GetConfiguredDirectory returns the configured directory path
func (v *PathValidator) GetConfiguredDirectory() string {
	return v.configuredDirectory
}

// SanitizeFileName reduces name to a safe single path element: letters,
// digits, '-', '_' and '.', with everything else collapsed to '-'
func SanitizeFileName(name string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '_', r == '.':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}

	out := strings.Trim(b.String(), "-.")
	for strings.Contains(out, "..") {
		out = strings.ReplaceAll(out, "..", ".")
	}
	if len(out) > maxFileNameLength {
		out = strings.TrimRight(out[:maxFileNameLength], "-.")
	}
	if out == "" {
		out = "document"
	}
	return out
}
