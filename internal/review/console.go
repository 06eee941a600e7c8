package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	api "github.com/gigdesk/gigdesk/api/v1alpha1"
	"github.com/gigdesk/gigdesk/internal/workflow"
	"go.uber.org/zap"
)

var (
	ErrInvalidStatus    = errors.New("invalid review status")
	ErrFeedbackRequired = errors.New("feedback is required when rejecting or requesting a revision")
	ErrInProgress       = errors.New("a review of this submission is already in progress")
)

type API interface {
	ReviewTaskSubmission(ctx context.Context, submissionID string, review api.Review) (*api.Submission, error)
}

// Sink receives the reviewed record once the server has confirmed it.
type Sink interface {
	Apply(sub api.Submission) bool
}

// Draft is the employer's unsent decision for one submission.
type Draft struct {
	Status   api.SubmissionStatus
	Feedback string
}

func (d Draft) Validate() error {
	if !d.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, d.Status)
	}
	switch d.Status {
	case api.SubmissionStatusRejected, api.SubmissionStatusRevisionRequested:
		if strings.TrimSpace(d.Feedback) == "" {
			return ErrFeedbackRequired
		}
	}
	return nil
}

// Console keeps review drafts and their submit state per submission, so
// reviewing one submission never blocks another.
type Console struct {
	api  API
	sink Sink

	mu     sync.Mutex
	drafts map[string]Draft
	states map[string]workflow.State
}

func NewConsole(client API, sink Sink) *Console {
	return &Console{
		api:    client,
		sink:   sink,
		drafts: map[string]Draft{},
		states: map[string]workflow.State{},
	}
}

func (c *Console) SetDraft(submissionID string, draft Draft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drafts[submissionID] = draft
}

// Draft returns the stored draft, or a pending one with no feedback.
func (c *Console) Draft(submissionID string) Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d, ok := c.drafts[submissionID]; ok {
		return d
	}
	return Draft{Status: api.SubmissionStatusPending}
}

func (c *Console) State(submissionID string) workflow.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.states[submissionID]; ok {
		return s
	}
	return workflow.NewIdle()
}

func (c *Console) setState(submissionID string, state workflow.State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[submissionID] = state
}

// Submit sends the draft of submissionID. The local record is only touched
// after the server accepted the review.
func (c *Console) Submit(ctx context.Context, submissionID string) (*api.Submission, error) {
	draft := c.Draft(submissionID)
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.states[submissionID].IsBusy() {
		c.mu.Unlock()
		return nil, ErrInProgress
	}
	c.states[submissionID] = workflow.NewInProgress()
	c.mu.Unlock()

	log := zap.S().Named("review")

	reviewed, err := c.api.ReviewTaskSubmission(ctx, submissionID, api.Review{
		Status:   draft.Status,
		Feedback: strings.TrimSpace(draft.Feedback),
	})
	if err != nil {
		log.Warnw("review failed", "submission_id", submissionID, "status", draft.Status, "error", err)
		err = fmt.Errorf("reviewing submission %s: %w", submissionID, err)
		c.setState(submissionID, workflow.NewFailed(err))
		return nil, err
	}

	if reviewed.Id == "" {
		reviewed.Id = submissionID
	}
	if reviewed.Status == "" {
		reviewed.Status = draft.Status
	}
	if c.sink != nil && !c.sink.Apply(*reviewed) {
		log.Debugw("reviewed submission is not in the local list", "submission_id", submissionID)
	}
	c.setState(submissionID, workflow.NewSucceeded())

	log.Infow("submission reviewed", "submission_id", submissionID, "status", reviewed.Status)
	return reviewed, nil
}
