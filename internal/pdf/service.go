package pdf

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/a3tai/fieldforms/internal/forms"
	pdferrors "github.com/a3tai/fieldforms/internal/pdf/errors"
	"github.com/a3tai/fieldforms/internal/pdf/security"
	"github.com/a3tai/fieldforms/internal/render"
	"github.com/a3tai/fieldforms/internal/signature"
)

// Defaults used when an Options field is left zero
const (
	DefaultMaxFileSize = 50 * 1024 * 1024
	DefaultTimeout     = 30 * time.Second
	DefaultWorkers     = 4
)

// Options configure the export service
type Options struct {
	OutputDirectory  string
	MaxFileSize      int64
	MaxSignatureSize int
	PageSize         string
	Company          string
	Timeout          time.Duration
	Workers          int
	Draft            bool

	// Now stamps the printed generation time. Defaults to time.Now.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = DefaultMaxFileSize
	}
	if o.MaxSignatureSize <= 0 {
		o.MaxSignatureSize = signature.DefaultMaxBytes
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Service renders forms into the output directory and serves the documents
// already there, orchestrating the renderer and the PDF components
type Service struct {
	opts          Options
	logger        *zap.Logger
	pathValidator *security.PathValidator
	decoder       *signature.Decoder
	post          *PostProcessor
	reader        *Reader
	validator     *Validator
	stats         *Stats
	search        *Search
	newID         func() string
}

// NewService creates a new export service with all components. The output
// directory is created if it does not exist.
func NewService(opts Options, logger *zap.Logger) (*Service, error) {
	opts = opts.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	pathValidator, err := security.NewPathValidator(opts.OutputDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}
	if err := os.MkdirAll(pathValidator.GetConfiguredDirectory(), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	validator := NewValidator(opts.MaxFileSize)
	return &Service{
		opts:          opts,
		logger:        logger,
		pathValidator: pathValidator,
		decoder:       signature.NewDecoder(opts.MaxSignatureSize),
		post:          NewPostProcessor(opts.Company),
		reader:        NewReader(opts.MaxFileSize),
		validator:     validator,
		stats:         NewStats(validator),
		search:        NewSearch(validator, pathValidator),
		newID:         func() string { return uuid.NewString()[:8] },
	}, nil
}

// OutputDirectory returns the absolute output directory
func (s *Service) OutputDirectory() string {
	return s.pathValidator.GetConfiguredDirectory()
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.opts.MaxFileSize
}

// RenderOptions returns the renderer options derived from the service config
func (s *Service) RenderOptions() render.Options {
	return render.Options{
		PageSize: s.opts.PageSize,
		Company:  s.opts.Company,
		Draft:    s.opts.Draft,
		Now:      s.opts.Now,
		Decoder:  s.decoder,
	}
}

// ValidateForm checks a form without rendering it. Signatures are decoded so
// a broken capture is reported here rather than at export time.
func (s *Service) ValidateForm(env *forms.Envelope) (*ValidateFormResult, error) {
	if env == nil {
		return nil, pdferrors.New(pdferrors.ErrorTypeInvalidForm, "form cannot be empty", nil)
	}
	form, err := env.Form()
	if err != nil {
		return nil, pdferrors.New(pdferrors.ErrorTypeInvalidForm, "failed to decode form", err)
	}

	result := &ValidateFormResult{
		Kind:      form.Kind(),
		Reference: form.Reference(),
		Valid:     true,
	}
	if err := form.Validate(); err != nil {
		result.Valid = false
		var ve *forms.ValidationError
		if errors.As(err, &ve) {
			result.Problems = append(result.Problems, ve.Problems...)
		} else {
			result.Problems = append(result.Problems, err.Error())
		}
	}

	captions := render.SignatureCaptions(form.Kind())
	for i, sig := range form.Signatures() {
		caption := captions[i]
		captured, err := render.Captured(s.decoder, sig)
		if err != nil {
			result.Valid = false
			result.Problems = append(result.Problems, fmt.Sprintf("%s signature: %v", caption, err))
			continue
		}
		if !captured {
			result.Unsigned = append(result.Unsigned, caption)
		}
	}
	return result, nil
}

// ListDocuments lists exported PDFs, most recent first
func (s *Service) ListDocuments(req ListDocumentsRequest) (*ListDocumentsResult, error) {
	return s.search.List(req)
}

// DocumentStats returns size, page count and metadata of an exported document
func (s *Service) DocumentStats(req DocumentRequest) (*DocumentStatsResult, error) {
	path, err := s.resolve(req.Path)
	if err != nil {
		return nil, err
	}
	result, err := s.stats.GetFileStats(path)
	if err != nil {
		return nil, notFoundOr(pdferrors.ErrorTypeUnknown, "failed to read document stats", err).WithPath(path)
	}
	if result.Draft, err = s.post.HasWatermark(path); err != nil {
		s.logger.Debug("watermark check failed", zap.String("path", path), zap.Error(err))
	}
	return result, nil
}

// ReadDocument extracts the plain text of an exported document
func (s *Service) ReadDocument(req DocumentRequest) (*ReadDocumentResult, error) {
	path, err := s.resolve(req.Path)
	if err != nil {
		return nil, err
	}
	result, err := s.reader.ReadFile(path, req.Pages...)
	if err != nil {
		return nil, notFoundOr(pdferrors.ErrorTypeUnknown, "failed to read document", err).WithPath(path)
	}
	return result, nil
}

// ValidateDocument checks that an exported document is a structurally valid PDF
func (s *Service) ValidateDocument(req DocumentRequest) (*ValidateDocumentResult, error) {
	path, err := s.resolve(req.Path)
	if err != nil {
		return nil, err
	}
	return s.validator.ValidateFile(path)
}

// resolve maps a file name or path onto the output directory
func (s *Service) resolve(path string) (string, error) {
	resolved, err := s.pathValidator.Resolve(path)
	if err != nil {
		return "", pdferrors.New(pdferrors.ErrorTypeSecurity, "security validation failed", err).WithPath(path)
	}
	return resolved, nil
}

// fileName builds <kind>-<reference>-<short id>.pdf
func (s *Service) fileName(form forms.Form) string {
	ref := form.Reference()
	if ref == "" {
		ref = "unnumbered"
	}
	base := fmt.Sprintf("%s-%s-%s", form.Kind(), ref, s.newID())
	return security.SanitizeFileName(base) + ".pdf"
}
