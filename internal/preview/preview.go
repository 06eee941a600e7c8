package preview

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	api "github.com/gigdesk/gigdesk/api/v1alpha1"
	"go.uber.org/zap"
)

type Kind string

const (
	KindImage    Kind = "image"
	KindVideo    Kind = "video"
	KindPDF      Kind = "pdf"
	KindDocument Kind = "document"
	KindOther    Kind = "other"
)

var kinds = []struct {
	kind    Kind
	pattern *regexp.Regexp
}{
	{KindImage, regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp)$`)},
	{KindVideo, regexp.MustCompile(`(?i)\.(mp4|webm|mov|avi|wmv)$`)},
	{KindPDF, regexp.MustCompile(`(?i)\.pdf$`)},
	{KindDocument, regexp.MustCompile(`(?i)\.(doc|docx)$`)},
}

var ErrEmptyFileKey = errors.New("file key is required")

// KindOf derives the file kind from the extension of the file key.
func KindOf(fileKey string) Kind {
	for _, k := range kinds {
		if k.pattern.MatchString(fileKey) {
			return k.kind
		}
	}
	return KindOther
}

// URLSource returns a short-lived URL for a stored file. The API client and
// the MinIO signer both implement it.
type URLSource interface {
	GetPreviewURL(ctx context.Context, fileKey string, status api.SubmissionStatus) (string, error)
}

type Preview struct {
	FileKey string
	URL     string
	Kind    Kind
	// Downloadable is only set for files of approved submissions. Viewing is
	// always allowed.
	Downloadable bool
}

type Resolver struct {
	source URLSource
}

func NewResolver(source URLSource) *Resolver {
	return &Resolver{source: source}
}

// Resolve asks for a fresh URL on every call; preview URLs expire and are
// never cached.
func (r *Resolver) Resolve(ctx context.Context, fileKey string, status api.SubmissionStatus) (*Preview, error) {
	if fileKey == "" {
		return nil, ErrEmptyFileKey
	}

	url, err := r.source.GetPreviewURL(ctx, fileKey, status)
	if err != nil {
		return nil, fmt.Errorf("resolving preview of %s: %w", fileKey, err)
	}

	p := &Preview{
		FileKey:      fileKey,
		URL:          url,
		Kind:         KindOf(fileKey),
		Downloadable: status == api.SubmissionStatusApproved,
	}
	zap.S().Named("preview").Debugw("preview resolved", "file_key", fileKey, "kind", p.Kind, "downloadable", p.Downloadable)
	return p, nil
}

// ResolveAll resolves every file of a submission, stopping at the first error.
func (r *Resolver) ResolveAll(ctx context.Context, sub api.Submission) ([]Preview, error) {
	out := make([]Preview, 0, len(sub.Files))
	for _, f := range sub.Files {
		p, err := r.Resolve(ctx, f.FileKey, sub.Status)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}
