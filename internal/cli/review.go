package cli

import (
	"context"
	"fmt"
	"strings"

	api "github.com/gigdesk/gigdesk/api/v1alpha1"
	"github.com/gigdesk/gigdesk/internal/review"
	"github.com/gigdesk/gigdesk/internal/submission"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var legalReviewStatuses = []string{
	string(api.SubmissionStatusApproved),
	string(api.SubmissionStatusRejected),
	string(api.SubmissionStatusRevisionRequested),
	string(api.SubmissionStatusPending),
}

type ReviewOptions struct {
	GlobalOptions

	TaskId   string
	Status   string
	Feedback string
}

func DefaultReviewOptions() *ReviewOptions {
	return &ReviewOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdReview() *cobra.Command {
	o := DefaultReviewOptions()
	cmd := &cobra.Command{
		Use:     "review SUBMISSION_ID --task TASK_ID --status STATUS",
		Short:   "Approve, reject or request a revision of a submission.",
		Example: "review 66a0b1 --task 65f1c2 --status revision_requested --feedback \"Please use higher-resolution images\"",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())

	if err := markRequired(cmd, "task", "status"); err != nil {
		panic(err)
	}
	return cmd
}

func (o *ReviewOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.TaskId, "task", "t", o.TaskId, "Task the submission belongs to")
	fs.StringVarP(&o.Status, "status", "s", o.Status, fmt.Sprintf("New status. One of: (%s).", strings.Join(legalReviewStatuses, ", ")))
	fs.StringVar(&o.Feedback, "feedback", o.Feedback, "Feedback for the freelancer, required unless approving")
}

func (o *ReviewOptions) draft() review.Draft {
	return review.Draft{Status: api.SubmissionStatus(o.Status), Feedback: o.Feedback}
}

func (o *ReviewOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	return o.draft().Validate()
}

func (o *ReviewOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	id := args[0]
	manager := submission.NewManager(o.TaskId, c, nil)
	if _, err := manager.LoadForReview(ctx); err != nil {
		return err
	}

	console := review.NewConsole(c, manager)
	console.SetDraft(id, o.draft())
	reviewed, err := console.Submit(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("submission/%s (#%d) %s\n", reviewed.Id, manager.Number(reviewed.Id), reviewed.Status)
	return nil
}
