package review_test

import (
	"context"
	"errors"
	"sync"
	"time"

	api "github.com/gigdesk/gigdesk/api/v1alpha1"
	"github.com/gigdesk/gigdesk/internal/review"
	"github.com/gigdesk/gigdesk/internal/submission"
	"github.com/gigdesk/gigdesk/internal/workflow"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type apiMock struct {
	mu    sync.Mutex
	calls []api.Review

	ReviewTaskSubmissionFunc func(ctx context.Context, submissionID string, review api.Review) (*api.Submission, error)
}

func (m *apiMock) ReviewTaskSubmission(ctx context.Context, submissionID string, r api.Review) (*api.Submission, error) {
	m.mu.Lock()
	m.calls = append(m.calls, r)
	m.mu.Unlock()
	return m.ReviewTaskSubmissionFunc(ctx, submissionID, r)
}

type sinkMock struct {
	mu      sync.Mutex
	applied []api.Submission
}

func (s *sinkMock) Apply(sub api.Submission) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied = append(s.applied, sub)
	return true
}

var _ = Describe("review console", func() {
	var (
		ctx     context.Context
		client  *apiMock
		sink    *sinkMock
		console *review.Console
	)

	BeforeEach(func() {
		ctx = context.Background()
		client = &apiMock{
			ReviewTaskSubmissionFunc: func(ctx context.Context, submissionID string, r api.Review) (*api.Submission, error) {
				feedback := r.Feedback
				return &api.Submission{Id: submissionID, Status: r.Status, Feedback: &feedback}, nil
			},
		}
		sink = &sinkMock{}
		console = review.NewConsole(client, sink)
	})

	Context("validation", func() {
		DescribeTable("drafts",
			func(draft review.Draft, expected error) {
				err := draft.Validate()
				if expected == nil {
					Expect(err).To(BeNil())
					return
				}
				Expect(errors.Is(err, expected)).To(BeTrue())
			},
			Entry("approved without feedback", review.Draft{Status: api.SubmissionStatusApproved}, nil),
			Entry("pending without feedback", review.Draft{Status: api.SubmissionStatusPending}, nil),
			Entry("rejected without feedback", review.Draft{Status: api.SubmissionStatusRejected}, review.ErrFeedbackRequired),
			Entry("revision without feedback", review.Draft{Status: api.SubmissionStatusRevisionRequested, Feedback: "  "}, review.ErrFeedbackRequired),
			Entry("revision with feedback", review.Draft{Status: api.SubmissionStatusRevisionRequested, Feedback: "more contrast"}, nil),
			Entry("unknown status", review.Draft{Status: "done"}, review.ErrInvalidStatus),
		)

		It("does not call the server for an invalid draft", func() {
			console.SetDraft("s1", review.Draft{Status: api.SubmissionStatusRejected})
			_, err := console.Submit(ctx, "s1")
			Expect(errors.Is(err, review.ErrFeedbackRequired)).To(BeTrue())
			Expect(client.calls).To(BeEmpty())
			Expect(console.State("s1").Phase).To(Equal(workflow.Idle))
		})
	})

	It("keeps drafts per submission", func() {
		console.SetDraft("s1", review.Draft{Status: api.SubmissionStatusApproved})
		console.SetDraft("s2", review.Draft{Status: api.SubmissionStatusRejected, Feedback: "blurry"})

		Expect(console.Draft("s1").Status).To(Equal(api.SubmissionStatusApproved))
		Expect(console.Draft("s2").Feedback).To(Equal("blurry"))
		Expect(console.Draft("s3").Status).To(Equal(api.SubmissionStatusPending))
	})

	It("applies the confirmed review to the sink", func() {
		console.SetDraft("s1", review.Draft{Status: api.SubmissionStatusApproved, Feedback: " great work "})

		reviewed, err := console.Submit(ctx, "s1")
		Expect(err).To(BeNil())
		Expect(client.calls).To(Equal([]api.Review{{Status: api.SubmissionStatusApproved, Feedback: "great work"}}))
		Expect(reviewed.Status).To(Equal(api.SubmissionStatusApproved))
		Expect(sink.applied).To(HaveLen(1))
		Expect(console.State("s1").Phase).To(Equal(workflow.Succeeded))
	})

	It("leaves the local record untouched when the server refuses", func() {
		client.ReviewTaskSubmissionFunc = func(ctx context.Context, submissionID string, r api.Review) (*api.Submission, error) {
			return nil, errors.New("not your task")
		}
		console.SetDraft("s1", review.Draft{Status: api.SubmissionStatusApproved})

		_, err := console.Submit(ctx, "s1")
		Expect(err).NotTo(BeNil())
		Expect(sink.applied).To(BeEmpty())
		Expect(console.State("s1").IsFailed()).To(BeTrue())
		Expect(console.State("s1").Reason.Error()).To(ContainSubstring("not your task"))
	})

	It("reviews different submissions independently", func() {
		started := make(chan struct{})
		release := make(chan struct{})
		client.ReviewTaskSubmissionFunc = func(ctx context.Context, submissionID string, r api.Review) (*api.Submission, error) {
			if submissionID == "slow" {
				close(started)
				<-release
			}
			return &api.Submission{Id: submissionID, Status: r.Status}, nil
		}
		console.SetDraft("slow", review.Draft{Status: api.SubmissionStatusApproved})
		console.SetDraft("fast", review.Draft{Status: api.SubmissionStatusApproved})

		done := make(chan error, 1)
		go func() {
			defer GinkgoRecover()
			_, err := console.Submit(ctx, "slow")
			done <- err
		}()
		<-started

		Expect(console.State("slow").IsBusy()).To(BeTrue())
		_, err := console.Submit(ctx, "slow")
		Expect(errors.Is(err, review.ErrInProgress)).To(BeTrue())

		_, err = console.Submit(ctx, "fast")
		Expect(err).To(BeNil())

		close(release)
		Eventually(done).Should(Receive(BeNil()))
	})

	It("updates the freelancer's list without reloading", func() {
		created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
		manager := submission.NewManager("task-1", &listAPI{list: []api.Submission{
			{Id: "s1", Status: api.SubmissionStatusPending, CreatedAt: created},
		}}, nil)
		_, err := manager.Load(ctx)
		Expect(err).To(BeNil())

		console = review.NewConsole(client, manager)
		console.SetDraft("s1", review.Draft{
			Status:   api.SubmissionStatusRevisionRequested,
			Feedback: "Please use higher-resolution images",
		})
		_, err = console.Submit(ctx, "s1")
		Expect(err).To(BeNil())

		selected, ok := manager.Selected()
		Expect(ok).To(BeTrue())
		Expect(selected.Status).To(Equal(api.SubmissionStatusRevisionRequested))
		Expect(*selected.Feedback).To(Equal("Please use higher-resolution images"))
		Expect(selected.CreatedAt).To(Equal(created))
		Expect(manager.CanResubmit()).To(BeTrue())
	})
})

type listAPI struct {
	list []api.Submission
}

func (l *listAPI) SubmitTaskWork(ctx context.Context, taskID string, req api.SubmissionCreate) (*api.Submission, error) {
	return nil, errors.New("not implemented")
}

func (l *listAPI) GetMySubmissions(ctx context.Context, taskID string) ([]api.Submission, error) {
	return l.list, nil
}

func (l *listAPI) ViewTaskSubmissions(ctx context.Context, taskID string) ([]api.Submission, error) {
	return l.list, nil
}

func (l *listAPI) DeleteSubmission(ctx context.Context, submissionID string) error {
	return nil
}
