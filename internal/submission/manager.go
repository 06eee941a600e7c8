package submission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	api "github.com/gigdesk/gigdesk/api/v1alpha1"
	"github.com/gigdesk/gigdesk/internal/upload"
	"github.com/gigdesk/gigdesk/internal/workflow"
	"go.uber.org/zap"
)

const MinMessageLength = 10

var (
	ErrMessageTooShort  = fmt.Errorf("message must be at least %d characters", MinMessageLength)
	ErrNoFiles          = errors.New("at least one file is required")
	ErrBusy             = errors.New("a submission is already being uploaded")
	ErrNotFound         = errors.New("submission not found")
	ErrAlreadyReviewed  = errors.New("submission has already been reviewed")
	ErrAllUploadsFailed = upload.ErrAllUploadsFailed
)

// ComposePhase tracks the freelancer's current submission attempt.
type ComposePhase string

const (
	Composing ComposePhase = "composing"
	Uploading ComposePhase = "uploading"
	Submitted ComposePhase = "submitted"
	Failed    ComposePhase = "failed"
)

// API is the subset of the gateway client the manager needs.
type API interface {
	SubmitTaskWork(ctx context.Context, taskID string, req api.SubmissionCreate) (*api.Submission, error)
	GetMySubmissions(ctx context.Context, taskID string) ([]api.Submission, error)
	ViewTaskSubmissions(ctx context.Context, taskID string) ([]api.Submission, error)
	DeleteSubmission(ctx context.Context, submissionID string) error
}

type Uploader interface {
	UploadBatch(ctx context.Context, taskID string, files []upload.File, onProgress upload.ProgressFunc) (upload.BatchResult, error)
}

type CreateResult struct {
	Submission api.Submission
	Failed     []upload.FileFailure
}

// Toast is the confirmation shown to the user.
func (r CreateResult) Toast() string {
	if len(r.Failed) > 0 {
		return fmt.Sprintf("Submitted successfully! (%d failed)", len(r.Failed))
	}
	return "Submitted successfully!"
}

// Manager holds the local view of one task's submissions and coordinates
// creating and deleting them.
type Manager struct {
	taskID   string
	api      API
	uploader Uploader

	mu          sync.Mutex
	submissions []api.Submission
	selected    string
	phase       ComposePhase
	createState workflow.State
	deleteState workflow.State
}

func NewManager(taskID string, client API, uploader Uploader) *Manager {
	return &Manager{
		taskID:   taskID,
		api:      client,
		uploader: uploader,
		phase:    Composing,
	}
}

func (m *Manager) TaskID() string {
	return m.taskID
}

// Load fetches the freelancer's own submissions.
func (m *Manager) Load(ctx context.Context) ([]api.Submission, error) {
	list, err := m.api.GetMySubmissions(ctx, m.taskID)
	if err != nil {
		return nil, fmt.Errorf("loading submissions for task %s: %w", m.taskID, err)
	}
	return m.replace(list), nil
}

// LoadForReview fetches every submission of the task as the employer sees them.
func (m *Manager) LoadForReview(ctx context.Context) ([]api.Submission, error) {
	list, err := m.api.ViewTaskSubmissions(ctx, m.taskID)
	if err != nil {
		return nil, fmt.Errorf("loading submissions for review of task %s: %w", m.taskID, err)
	}
	return m.replace(list), nil
}

func (m *Manager) replace(list []api.Submission) []api.Submission {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.submissions = SortNewestFirst(list)
	for i := range m.submissions {
		if m.submissions[i].Status == "" {
			m.submissions[i].Status = api.SubmissionStatusPending
		}
	}
	if m.selected != "" && m.indexOf(m.selected) < 0 {
		m.selected = ""
	}
	if m.selected == "" && len(m.submissions) > 0 {
		m.selected = m.submissions[0].Id
	}
	return m.snapshot()
}

// Submissions returns the local records, newest first.
func (m *Manager) Submissions() []api.Submission {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

func (m *Manager) snapshot() []api.Submission {
	out := make([]api.Submission, len(m.submissions))
	copy(out, m.submissions)
	return out
}

func (m *Manager) indexOf(id string) int {
	for i := range m.submissions {
		if m.submissions[i].Id == id {
			return i
		}
	}
	return -1
}

// Selected returns the selected submission, if any.
func (m *Manager) Selected() (api.Submission, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexOf(m.selected); i >= 0 {
		return m.submissions[i], true
	}
	return api.Submission{}, false
}

func (m *Manager) Select(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexOf(id) < 0 {
		return ErrNotFound
	}
	m.selected = id
	return nil
}

// Number is the submission's current 1-based position by creation time.
func (m *Manager) Number(id string) int {
	return Number(m.Submissions(), id)
}

func (m *Manager) Phase() ComposePhase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

func (m *Manager) CreateState() workflow.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createState
}

func (m *Manager) DeleteState() workflow.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteState
}

// CanResubmit is true when the latest submission asks for a revision.
func (m *Manager) CanResubmit() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.submissions) > 0 && m.submissions[0].Status == api.SubmissionStatusRevisionRequested
}

// Validate checks the compose form before anything is uploaded.
func Validate(message string, files []upload.File) error {
	if utf8.RuneCountInString(strings.TrimSpace(message)) < MinMessageLength {
		return ErrMessageTooShort
	}
	if len(files) == 0 {
		return ErrNoFiles
	}
	return nil
}

// Create validates the form, uploads every file, and only then persists the
// submission with the keys of the files that made it. Nothing is persisted
// when every upload failed.
func (m *Manager) Create(ctx context.Context, message string, files []upload.File, onProgress upload.ProgressFunc) (*CreateResult, error) {
	if err := Validate(message, files); err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.phase == Uploading {
		m.mu.Unlock()
		return nil, ErrBusy
	}
	m.phase = Uploading
	m.createState = workflow.NewInProgress()
	m.mu.Unlock()

	log := zap.S().Named("submission")

	result, err := m.uploader.UploadBatch(ctx, m.taskID, files, onProgress)
	if err != nil {
		log.Errorw("no file uploaded, submission not created", "task_id", m.taskID, "error", err)
		return nil, m.fail(err)
	}
	if len(result.Failed) > 0 {
		log.Warnw("some files failed to upload", "task_id", m.taskID, "failed", len(result.Failed), "uploaded", len(result.Uploaded))
	}

	created, err := m.api.SubmitTaskWork(ctx, m.taskID, api.SubmissionCreate{
		Message:  strings.TrimSpace(message),
		FileKeys: result.Uploaded,
	})
	if err != nil {
		return nil, m.fail(fmt.Errorf("creating submission: %w", err))
	}
	if created.Status == "" {
		created.Status = api.SubmissionStatusPending
	}

	m.mu.Lock()
	m.submissions = SortNewestFirst(append(m.submissions, *created))
	m.selected = created.Id
	m.phase = Submitted
	m.createState = workflow.NewSucceeded()
	m.mu.Unlock()

	log.Infow("submission created", "task_id", m.taskID, "submission_id", created.Id, "files", len(result.Uploaded))

	return &CreateResult{Submission: *created, Failed: result.Failed}, nil
}

func (m *Manager) fail(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phase = Failed
	m.createState = workflow.NewFailed(err)
	return err
}

// Compose starts a new attempt and reports whether it answers a revision
// request on the latest submission. An upload in flight is left alone.
func (m *Manager) Compose() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != Uploading {
		m.phase = Composing
		m.createState = workflow.NewIdle()
	}
	return len(m.submissions) > 0 && m.submissions[0].Status == api.SubmissionStatusRevisionRequested
}

// Delete removes a submission that has not been reviewed yet. When it was the
// selected one, the most recent remaining submission becomes selected.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	i := m.indexOf(id)
	if i < 0 {
		m.mu.Unlock()
		return ErrNotFound
	}
	if m.submissions[i].Status.Reviewed() {
		m.mu.Unlock()
		return fmt.Errorf("%w: status is %s", ErrAlreadyReviewed, m.submissions[i].Status)
	}
	m.deleteState = workflow.NewInProgress()
	m.mu.Unlock()

	if err := m.api.DeleteSubmission(ctx, id); err != nil {
		m.mu.Lock()
		m.deleteState = workflow.NewFailed(err)
		m.mu.Unlock()
		return fmt.Errorf("deleting submission %s: %w", id, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexOf(id); i >= 0 {
		m.submissions = append(m.submissions[:i], m.submissions[i+1:]...)
	}
	if m.selected == id {
		m.selected = ""
		if len(m.submissions) > 0 {
			m.selected = m.submissions[0].Id
		}
	}
	m.deleteState = workflow.NewSucceeded()

	zap.S().Named("submission").Infow("submission deleted", "task_id", m.taskID, "submission_id", id)
	return nil
}

// Apply replaces the local record with the same id, so a review shows up
// without reloading. It reports whether the record was known.
func (m *Manager) Apply(sub api.Submission) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(sub.Id)
	if i < 0 {
		return false
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = m.submissions[i].CreatedAt
	}
	if sub.Files == nil {
		sub.Files = m.submissions[i].Files
	}
	m.submissions[i] = sub
	return true
}
