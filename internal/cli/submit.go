package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gigdesk/gigdesk/internal/storage"
	"github.com/gigdesk/gigdesk/internal/submission"
	"github.com/gigdesk/gigdesk/internal/upload"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

type SubmitOptions struct {
	GlobalOptions

	Message string
	Files   []string
}

func DefaultSubmitOptions() *SubmitOptions {
	return &SubmitOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdSubmit() *cobra.Command {
	o := DefaultSubmitOptions()
	cmd := &cobra.Command{
		Use:          "submit TASK_ID",
		Short:        "Upload files and submit work for a task",
		Example:      "submit 65f1c2 -m \"Completed the logo redesign as requested\" -f logo.png -f logo-dark.png",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
	}
	o.Bind(cmd.Flags())

	if err := markRequired(cmd, "message", "file"); err != nil {
		panic(err)
	}
	return cmd
}

func (o *SubmitOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Message, "message", "m", o.Message, fmt.Sprintf("Message for the employer, at least %d characters", submission.MinMessageLength))
	fs.StringArrayVarP(&o.Files, "file", "f", o.Files, "File to upload, repeatable")
}

func (o *SubmitOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if strings.TrimSpace(args[0]) == "" {
		return fmt.Errorf("task id is required")
	}
	if len([]rune(strings.TrimSpace(o.Message))) < submission.MinMessageLength {
		return submission.ErrMessageTooShort
	}
	return nil
}

func (o *SubmitOptions) Run(ctx context.Context, args []string) error {
	taskID := args[0]

	limits, err := uploadLimits()
	if err != nil {
		return err
	}
	selection := upload.NewSelection(limits)

	var pathErrs []error
	files := make([]upload.File, 0, len(o.Files))
	for _, path := range o.Files {
		f, err := upload.FromPath(path)
		if err != nil {
			pathErrs = append(pathErrs, err)
			continue
		}
		files = append(files, f)
	}
	if err := selection.Add(files...); err != nil {
		pathErrs = append(pathErrs, err)
	}
	if len(pathErrs) > 0 {
		for _, err := range utilerrors.Flatten(utilerrors.NewAggregate(pathErrs)).Errors() {
			fmt.Fprintf(os.Stderr, "skipped: %v\n", err)
		}
	}
	if selection.Len() == 0 {
		return submission.ErrNoFiles
	}

	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}
	targets, err := o.uploadTargets(c)
	if err != nil {
		return fmt.Errorf("creating storage signer: %w", err)
	}

	manager := submission.NewManager(taskID, c, upload.NewPipeline(targets, storage.NewHTTPPutter(nil)))
	if _, err := manager.Load(ctx); err != nil {
		return err
	}
	if manager.Compose() {
		fmt.Println("Resubmitting after a revision request")
	}
	result, err := manager.Create(ctx, o.Message, selection.Files(), progressPrinter(os.Stdout))
	if err != nil {
		if errors.Is(err, submission.ErrAllUploadsFailed) {
			return fmt.Errorf("no file could be uploaded, nothing was submitted: %w", err)
		}
		return err
	}

	for _, f := range result.Failed {
		fmt.Fprintf(os.Stderr, "failed: %s: %v\n", f.Name, f.Err)
	}
	fmt.Println(result.Toast())
	fmt.Printf("submission/%s\n", result.Submission.Id)
	return nil
}

// progressPrinter writes a line each time a file's progress moves by at least
// 10 points, plus the final value.
func progressPrinter(w io.Writer) upload.ProgressFunc {
	last := map[int]int{}
	return func(index int, name string, percent int) {
		prev, seen := last[index]
		final := percent == upload.CompleteProgress || percent == upload.FailedProgress
		if seen && !final && percent-prev < 10 {
			return
		}
		last[index] = percent
		if percent == upload.FailedProgress {
			fmt.Fprintf(w, "[%d] %s: failed\n", index+1, name)
			return
		}
		fmt.Fprintf(w, "[%d] %s: %3d%%\n", index+1, name, percent)
	}
}

func markRequired(cmd *cobra.Command, flags ...string) error {
	for _, flag := range flags {
		if err := cmd.MarkFlagRequired(flag); err != nil {
			return err
		}
	}

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if funk.ContainsString(flags, f.Name) {
			f.Usage = fmt.Sprintf("%s (required)", f.Usage)
		}
	})
	return nil
}
