package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/a3tai/fieldforms/internal/forms"
	pdferrors "github.com/a3tai/fieldforms/internal/pdf/errors"
	"github.com/a3tai/fieldforms/internal/pdf/security"
	"github.com/a3tai/fieldforms/internal/render"
)

// rendered is a document held in memory until it is written out
type rendered struct {
	result *render.Result
	data   []byte
}

// Export validates a form, renders it and writes the finished PDF into the
// output directory. Nothing is left behind in the directory when any step
// fails.
func (s *Service) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	start := time.Now()

	form, err := requestForm(req)
	if err != nil {
		return nil, err
	}
	log := s.logger.With(
		zap.String("kind", string(form.Kind())),
		zap.String("reference", form.Reference()),
	)

	if err := form.Validate(); err != nil {
		log.Debug("form rejected", zap.Error(err))
		return nil, pdferrors.New(pdferrors.ErrorTypeInvalidForm, "form validation failed", err).
			WithReference(form.Reference())
	}

	name := s.fileName(form)
	if req.FileName != "" {
		name = security.SanitizeFileName(strings.TrimSuffix(req.FileName, ".pdf")) + ".pdf"
	}
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err == nil {
		return nil, existsError(path)
	}

	opts := s.RenderOptions()
	doc, err := withTimeout(ctx, s.opts.Timeout, func() (*rendered, error) {
		var buf bytes.Buffer
		result, err := render.Render(&buf, form, opts)
		if err != nil {
			return nil, err
		}
		return &rendered{result: result, data: buf.Bytes()}, nil
	})
	if err != nil {
		log.Warn("render failed", zap.Error(err))
		return nil, renderError(err).WithReference(form.Reference()).WithPath(path)
	}
	if int64(len(doc.data)) > s.opts.MaxFileSize {
		return nil, pdferrors.New(pdferrors.ErrorTypeLayout, "rendered document too large",
			fmt.Errorf("%d bytes (max: %d bytes)", len(doc.data), s.opts.MaxFileSize)).
			WithReference(form.Reference())
	}

	draft := s.opts.Draft && len(doc.result.Unsigned) > 0
	if err := s.writeDocument(path, form, doc.data, draft); err != nil {
		log.Error("export failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, pdferrors.New(pdferrors.ErrorTypeWrite, "failed to stat exported document", err).WithPath(path)
	}

	result := &ExportResult{
		Path:      path,
		Name:      info.Name(),
		Kind:      form.Kind(),
		Reference: form.Reference(),
		Pages:     doc.result.Pages,
		Size:      info.Size(),
		Unsigned:  doc.result.Unsigned,
		Draft:     draft,
		Duration:  time.Since(start).Round(time.Millisecond).String(),
	}
	log.Info("exported form",
		zap.String("path", path),
		zap.Int("pages", result.Pages),
		zap.Strings("unsigned", result.Unsigned),
		zap.Bool("draft", draft),
	)
	return result, nil
}

// writeDocument writes data to a hidden temp file next to path, finishes it
// with pdfcpu and renames it into place
func (s *Service) writeDocument(path string, form forms.Form, data []byte, draft bool) (err error) {
	tmp, err := os.CreateTemp(s.OutputDirectory(), ".export-*.pdf")
	if err != nil {
		return pdferrors.New(pdferrors.ErrorTypeWrite, "failed to create temp file", err).WithPath(path)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return pdferrors.New(pdferrors.ErrorTypeWrite, "failed to write document", err).WithPath(path)
	}
	if err := tmp.Close(); err != nil {
		return pdferrors.New(pdferrors.ErrorTypeWrite, "failed to close document", err).WithPath(path)
	}

	if err := s.post.Finish(tmpPath, form, draft); err != nil {
		return pdferrors.New(pdferrors.ErrorTypePostProcess, "failed to post-process document", err).WithPath(path)
	}

	// Link fails when path exists, so a document is never replaced.
	if err := os.Link(tmpPath, path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return existsError(path)
		}
		return pdferrors.New(pdferrors.ErrorTypeWrite, "failed to move document into place", err).WithPath(path)
	}
	os.Remove(tmpPath)
	return nil
}

func existsError(path string) *pdferrors.ExportError {
	return pdferrors.New(pdferrors.ErrorTypeExists, "a document with this name already exists", nil).WithPath(path)
}

// ExportBatch exports forms concurrently, at most Workers at a time. A
// critical failure stops the items that have not started yet.
func (s *Service) ExportBatch(ctx context.Context, reqs []ExportRequest) (*BatchResult, error) {
	if len(reqs) == 0 {
		return nil, pdferrors.New(pdferrors.ErrorTypeInvalidForm, "no forms to export", nil)
	}

	results := make([]*ExportResult, len(reqs))
	failures := make([]*pdferrors.ExportError, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, req := range reqs {
		g.Go(func() error {
			if gctx.Err() != nil {
				failures[i] = pdferrors.New(pdferrors.ErrorTypeCancelled, "not exported, batch stopped", context.Cause(gctx)).
					WithContext(fmt.Sprintf("item %d", i))
				return nil
			}
			result, err := s.Export(gctx, req)
			if err != nil {
				failures[i] = asExportError(err).WithContext(fmt.Sprintf("item %d", i))
				if failures[i].IsCritical() {
					return failures[i]
				}
				return nil
			}
			results[i] = result
			return nil
		})
	}
	waitErr := g.Wait()

	batch := &BatchResult{
		Results: results,
		Errors:  pdferrors.NewErrorCollection(),
	}
	for i := range reqs {
		switch {
		case failures[i] != nil:
			batch.Errors.Add(failures[i])
			batch.Failed++
		case results[i] != nil:
			batch.Succeeded++
		}
	}

	s.logger.Info("batch export finished",
		zap.Int("forms", len(reqs)),
		zap.Int("succeeded", batch.Succeeded),
		zap.Int("failed", batch.Failed),
	)
	if waitErr != nil {
		return batch, waitErr
	}
	return batch, nil
}

// requestForm picks the typed form out of a request
func requestForm(req ExportRequest) (forms.Form, error) {
	if req.Form != nil {
		return req.Form, nil
	}
	if req.Envelope == nil {
		return nil, pdferrors.New(pdferrors.ErrorTypeInvalidForm, "form cannot be empty", nil)
	}
	form, err := req.Envelope.Form()
	if err != nil {
		return nil, pdferrors.New(pdferrors.ErrorTypeInvalidForm, "failed to decode form", err)
	}
	return form, nil
}

// renderError classifies a failure of the render step
func renderError(err error) *pdferrors.ExportError {
	switch {
	case errors.Is(err, errTimeout):
		return pdferrors.New(pdferrors.ErrorTypeTimeout, "render timed out", err)
	case errors.Is(err, context.DeadlineExceeded):
		return pdferrors.New(pdferrors.ErrorTypeTimeout, "deadline exceeded", err)
	case errors.Is(err, context.Canceled):
		return pdferrors.New(pdferrors.ErrorTypeCancelled, "export cancelled", err)
	case errors.Is(err, render.ErrSignature):
		return pdferrors.New(pdferrors.ErrorTypeInvalidSignature, "signature cannot be embedded", err)
	default:
		return pdferrors.New(pdferrors.ErrorTypeLayout, "failed to render document", err)
	}
}

// asExportError returns err as an ExportError, wrapping it if needed
func asExportError(err error) *pdferrors.ExportError {
	var ee *pdferrors.ExportError
	if errors.As(err, &ee) {
		return ee
	}
	return pdferrors.New(pdferrors.ErrorTypeUnknown, "export failed", err)
}

// notFoundOr types err as NOT_FOUND when a file is missing, else as fallback
func notFoundOr(fallback pdferrors.ErrorType, message string, err error) *pdferrors.ExportError {
	if errors.Is(err, fs.ErrNotExist) {
		return pdferrors.New(pdferrors.ErrorTypeNotFound, "document not found", err)
	}
	return pdferrors.New(fallback, message, err)
}
