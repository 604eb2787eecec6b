package pdf

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	pdferrors "github.com/a3tai/fieldforms/internal/pdf/errors"
	"github.com/a3tai/fieldforms/internal/pdf/security"
)

// Bundle merges exported documents, in the given order, into one PDF in the
// output directory
func (s *Service) Bundle(ctx context.Context, req BundleRequest) (*BundleResult, error) {
	if len(req.Paths) == 0 {
		return nil, pdferrors.New(pdferrors.ErrorTypeNotFound, "no documents to bundle", nil)
	}
	if req.FileName == "" {
		req.FileName = "bundle-" + s.newID()
	}

	sources := make([]string, len(req.Paths))
	for i, p := range req.Paths {
		path, err := s.resolve(p)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, notFoundOr(pdferrors.ErrorTypeUnknown, "cannot access document", err).WithPath(path)
		}
		if err := s.validator.ValidateFileInfo(path, info); err != nil {
			return nil, pdferrors.New(pdferrors.ErrorTypeNotFound, "not an exported document", err).WithPath(path)
		}
		sources[i] = path
	}

	name := security.SanitizeFileName(strings.TrimSuffix(req.FileName, ".pdf")) + ".pdf"
	out, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	for _, src := range sources {
		if src == out {
			return nil, pdferrors.New(pdferrors.ErrorTypeWrite, "bundle would overwrite one of its sources", nil).WithPath(out)
		}
	}

	tmp, err := os.CreateTemp(s.OutputDirectory(), ".bundle-*.pdf")
	if err != nil {
		return nil, pdferrors.New(pdferrors.ErrorTypeWrite, "failed to create temp file", err).WithPath(out)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	_, err = withTimeout(ctx, s.opts.Timeout, func() (struct{}, error) {
		return struct{}{}, s.post.Merge(sources, tmpPath)
	})
	if err != nil {
		if te := renderError(err); te.Type == pdferrors.ErrorTypeTimeout || te.Type == pdferrors.ErrorTypeCancelled {
			return nil, te.WithPath(out)
		}
		return nil, pdferrors.New(pdferrors.ErrorTypePostProcess, "failed to merge documents", err).WithPath(out)
	}
	if err := os.Rename(tmpPath, out); err != nil {
		return nil, pdferrors.New(pdferrors.ErrorTypeWrite, "failed to move bundle into place", err).WithPath(out)
	}

	pages, err := s.post.PageCount(out)
	if err != nil {
		return nil, pdferrors.New(pdferrors.ErrorTypePostProcess, "failed to count bundle pages", err).WithPath(out)
	}
	info, err := os.Stat(out)
	if err != nil {
		return nil, pdferrors.New(pdferrors.ErrorTypeWrite, "failed to stat bundle", err).WithPath(out)
	}

	s.logger.Info("bundled documents",
		zap.String("path", out),
		zap.Int("sources", len(sources)),
		zap.Int("pages", pages),
	)
	return &BundleResult{
		Path:    out,
		Pages:   pages,
		Size:    info.Size(),
		Sources: len(sources),
	}, nil
}

// String renders a short human summary of the bundle
func (r *BundleResult) String() string {
	return fmt.Sprintf("%s (%d documents, %d pages)", r.Path, r.Sources, r.Pages)
}
