package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	api "github.com/gigdesk/gigdesk/api/v1alpha1"
	"github.com/gigdesk/gigdesk/internal/preview"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
)

type PreviewOptions struct {
	GlobalOptions

	Status string
}

func DefaultPreviewOptions() *PreviewOptions {
	return &PreviewOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Status:        string(api.SubmissionStatusPending),
	}
}

func NewCmdPreview() *cobra.Command {
	o := DefaultPreviewOptions()
	cmd := &cobra.Command{
		Use:     "preview FILE_KEY...",
		Short:   "Print short-lived preview URLs for submitted files.",
		Example: "preview submissions/65f1c2/logo.png --status approved",
		Args:    cobra.MinimumNArgs(1),
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
	return cmd
}

func (o *PreviewOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Status, "status", "s", o.Status, "Status of the submission the files belong to")
}

func (o *PreviewOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if !funk.ContainsString(legalReviewStatuses, o.Status) {
		return fmt.Errorf("status must be one of %s", strings.Join(legalReviewStatuses, ", "))
	}
	return nil
}

func (o *PreviewOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}
	source, err := o.previewSource(c)
	if err != nil {
		return fmt.Errorf("creating storage signer: %w", err)
	}

	resolver := preview.NewResolver(source)
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 1, '\t', 0)
	fmt.Fprintln(w, "FILE\tKIND\tDOWNLOAD\tURL")
	for _, key := range args {
		p, err := resolver.Resolve(ctx, key, api.SubmissionStatus(o.Status))
		if err != nil {
			_ = w.Flush()
			return err
		}
		download := "no"
		if p.Downloadable {
			download = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.FileKey, p.Kind, download, p.URL)
	}
	return w.Flush()
}
