package upload

import (
	"context"
	"errors"
	"fmt"
	"io"

	api "github.com/gigdesk/gigdesk/api/v1alpha1"
	"github.com/gigdesk/gigdesk/internal/storage"
	"go.uber.org/zap"
)

const (
	// FailedProgress marks a file whose upload did not complete.
	FailedProgress = -1
	// NegotiatedProgress is reported once the signed target is known; the
	// transfer fills the remaining range up to 100.
	NegotiatedProgress = 30
	CompleteProgress   = 100
)

var ErrAllUploadsFailed = errors.New("all uploads failed")

// TargetRequester hands out signed upload targets. The API client and the
// self-hosted MinIO signer both satisfy it.
type TargetRequester interface {
	RequestUploadURL(ctx context.Context, req api.UploadTargetRequest) (*api.UploadTarget, error)
}

// Putter transfers bytes to a signed URL.
type Putter interface {
	Put(ctx context.Context, uploadURL, contentType string, body io.Reader, size int64, onProgress storage.ProgressFunc) error
}

// ProgressFunc receives the percentage (0-100, or FailedProgress) of the file at index.
type ProgressFunc func(index int, name string, percent int)

type FileFailure struct {
	Index int
	Name  string
	Err   error
}

type BatchResult struct {
	Uploaded []api.FileDescriptor
	Failed   []FileFailure
	// Progress holds the final value per input file.
	Progress []int
}

func (b BatchResult) AllFailed() bool {
	return len(b.Uploaded) == 0 && len(b.Failed) > 0
}

type Pipeline struct {
	targets TargetRequester
	putter  Putter
}

func NewPipeline(targets TargetRequester, putter Putter) *Pipeline {
	return &Pipeline{targets: targets, putter: putter}
}

// UploadOne negotiates a target and transfers a single file. It never retries;
// callers re-invoke it to retry a failed file.
func (p *Pipeline) UploadOne(ctx context.Context, taskID string, f File, onProgress func(percent int)) (api.FileDescriptor, error) {
	report := func(percent int) {
		if onProgress != nil {
			onProgress(percent)
		}
	}
	report(0)

	target, err := p.targets.RequestUploadURL(ctx, api.UploadTargetRequest{
		FileName: f.Name,
		FileType: f.ContentType,
		FileSize: f.Size,
		TaskId:   taskID,
	})
	if err != nil {
		report(FailedProgress)
		return api.FileDescriptor{}, fmt.Errorf("requesting upload url for %s: %w", f.Name, err)
	}
	report(NegotiatedProgress)

	body, err := f.Open()
	if err != nil {
		report(FailedProgress)
		return api.FileDescriptor{}, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer body.Close()

	last := NegotiatedProgress
	err = p.putter.Put(ctx, target.UploadURL, f.ContentType, body, f.Size, func(sent, total int64) {
		if total <= 0 {
			return
		}
		percent := NegotiatedProgress + int(sent*(CompleteProgress-NegotiatedProgress)/total)
		// 100 is reserved for a confirmed transfer.
		if percent >= CompleteProgress {
			percent = CompleteProgress - 1
		}
		if percent > last {
			last = percent
			report(percent)
		}
	})
	if err != nil {
		report(FailedProgress)
		return api.FileDescriptor{}, fmt.Errorf("uploading %s: %w", f.Name, err)
	}
	report(CompleteProgress)

	return api.FileDescriptor{FileKey: target.FileKey}, nil
}

// UploadBatch uploads files one after the other so each file has a single,
// unambiguous progress figure. Failed files are left out of Uploaded. The
// call only returns once every file has resolved; it errors with
// ErrAllUploadsFailed when nothing made it.
func (p *Pipeline) UploadBatch(ctx context.Context, taskID string, files []File, onProgress ProgressFunc) (BatchResult, error) {
	result := BatchResult{Progress: make([]int, len(files))}
	log := zap.S().Named("upload")

	for i, f := range files {
		fileProgress := func(percent int) {
			result.Progress[i] = percent
			if onProgress != nil {
				onProgress(i, f.Name, percent)
			}
		}

		if err := ctx.Err(); err != nil {
			fileProgress(FailedProgress)
			result.Failed = append(result.Failed, FileFailure{Index: i, Name: f.Name, Err: err})
			continue
		}

		desc, err := p.UploadOne(ctx, taskID, f, fileProgress)
		if err != nil {
			log.Warnw("file upload failed", "task_id", taskID, "file", f.Name, "error", err)
			result.Failed = append(result.Failed, FileFailure{Index: i, Name: f.Name, Err: err})
			continue
		}
		log.Debugw("file uploaded", "task_id", taskID, "file", f.Name, "file_key", desc.FileKey)
		result.Uploaded = append(result.Uploaded, desc)
	}

	if result.AllFailed() {
		return result, fmt.Errorf("%w: %d of %d files", ErrAllUploadsFailed, len(result.Failed), len(files))
	}
	return result, nil
}
