package upload

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

const (
	DefaultMaxFileSize  int64 = 10 * 1024 * 1024
	DefaultMaxFiles           = 10
	DefaultMaxTotalSize int64 = 50 * 1024 * 1024
)

var (
	ErrFileTooLarge  = errors.New("file too large")
	ErrTooManyFiles  = errors.New("too many files")
	ErrDuplicateFile = errors.New("duplicate file")
	ErrBatchTooLarge = errors.New("total size too large")
	ErrEmptyFile     = errors.New("file is empty")
)

type Limits struct {
	MaxFileSize  int64
	MaxFiles     int
	MaxTotalSize int64
}

func DefaultLimits() Limits {
	return Limits{
		MaxFileSize:  DefaultMaxFileSize,
		MaxFiles:     DefaultMaxFiles,
		MaxTotalSize: DefaultMaxTotalSize,
	}
}

// RejectedFile explains why one file was kept out of the selection.
type RejectedFile struct {
	Name string
	Err  error
}

func (r *RejectedFile) Error() string {
	return fmt.Sprintf("%s: %v", r.Name, r.Err)
}

func (r *RejectedFile) Unwrap() error {
	return r.Err
}

// Selection is the set of files pending upload for one submission.
type Selection struct {
	limits Limits
	files  []File
}

func NewSelection(limits Limits) *Selection {
	return &Selection{limits: limits}
}

func (s *Selection) Files() []File {
	out := make([]File, len(s.files))
	copy(out, s.files)
	return out
}

func (s *Selection) Len() int {
	return len(s.files)
}

func (s *Selection) TotalSize() int64 {
	var total int64
	for _, f := range s.files {
		total += f.Size
	}
	return total
}

// Add accepts every file that passes validation and returns an aggregate of the
// rejections. When the accepted files would push the cumulative size over the
// limit, the whole batch is refused and nothing is added; the per-file
// rejections are still reported alongside.
func (s *Selection) Add(files ...File) error {
	seen := make(map[string]bool, len(s.files)+len(files))
	for _, f := range s.files {
		seen[f.key()] = true
	}

	var (
		accepted []File
		rejected []error
		size     int64
	)
	for _, f := range files {
		switch {
		case f.Size <= 0:
			rejected = append(rejected, &RejectedFile{Name: f.Name, Err: ErrEmptyFile})
		case f.Size >= s.limits.MaxFileSize:
			rejected = append(rejected, &RejectedFile{Name: f.Name, Err: fmt.Errorf("%w: %s exceeds %s", ErrFileTooLarge,
				humanize.IBytes(uint64(f.Size)), humanize.IBytes(uint64(s.limits.MaxFileSize)))})
		case seen[f.key()]:
			rejected = append(rejected, &RejectedFile{Name: f.Name, Err: ErrDuplicateFile})
		case len(s.files)+len(accepted) >= s.limits.MaxFiles:
			rejected = append(rejected, &RejectedFile{Name: f.Name, Err: fmt.Errorf("%w: at most %d files", ErrTooManyFiles, s.limits.MaxFiles)})
		default:
			seen[f.key()] = true
			accepted = append(accepted, f)
			size += f.Size
		}
	}

	if len(accepted) > 0 && s.TotalSize()+size > s.limits.MaxTotalSize {
		batchErr := fmt.Errorf("%w: %s exceeds %s", ErrBatchTooLarge,
			humanize.IBytes(uint64(s.TotalSize()+size)), humanize.IBytes(uint64(s.limits.MaxTotalSize)))
		return utilerrors.NewAggregate(append(rejected, batchErr))
	}

	s.files = append(s.files, accepted...)
	return utilerrors.NewAggregate(rejected)
}

// Remove drops the file at index i.
func (s *Selection) Remove(i int) {
	if i < 0 || i >= len(s.files) {
		return
	}
	s.files = append(s.files[:i], s.files[i+1:]...)
}

func (s *Selection) Clear() {
	s.files = nil
}
