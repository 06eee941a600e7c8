package cli

import (
	"context"
	"fmt"

	"github.com/gigdesk/gigdesk/internal/submission"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type DeleteOptions struct {
	GlobalOptions

	TaskId string
}

func DefaultDeleteOptions() *DeleteOptions {
	return &DeleteOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdDelete() *cobra.Command {
	o := DefaultDeleteOptions()
	cmd := &cobra.Command{
		Use:     "delete submission/ID --task TASK_ID",
		Short:   "Delete a submission that has not been reviewed yet.",
		Example: "delete submission/66a0b1 --task 65f1c2",
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

	if err := markRequired(cmd, "task"); err != nil {
		panic(err)
	}
	return cmd
}

func (o *DeleteOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.TaskId, "task", "t", o.TaskId, "Task the submission belongs to")
}

func (o *DeleteOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}

	res, err := parseResource(args[0])
	if err != nil {
		return err
	}
	return res.expect(SubmissionKind, true)
}

func (o *DeleteOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	res, err := parseResource(args[0])
	if err != nil {
		return err
	}

	// Loading first lets the manager refuse submissions that were reviewed already.
	manager := submission.NewManager(o.TaskId, c, nil)
	if _, err := manager.Load(ctx); err != nil {
		return err
	}
	if err := manager.Delete(ctx, res.ID); err != nil {
		return fmt.Errorf("deleting %s: %w", res, err)
	}
	fmt.Printf("%s deleted\n", res)

	if selected, ok := manager.Selected(); ok {
		fmt.Printf("selected: #%d %s\n", manager.Number(selected.Id), resource{Kind: SubmissionKind, ID: selected.Id})
	}
	return nil
}
