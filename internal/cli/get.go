package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	api "github.com/gigdesk/gigdesk/api/v1alpha1"
	"github.com/gigdesk/gigdesk/internal/admin"
	"github.com/gigdesk/gigdesk/internal/submission"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
	"sigs.k8s.io/yaml"
)

const (
	jsonFormat = "json"
	yamlFormat = "yaml"
)

var (
	legalOutputTypes = []string{jsonFormat, yamlFormat}
)

type GetOptions struct {
	GlobalOptions

	Output string
	Review bool
}

func DefaultGetOptions() *GetOptions {
	return &GetOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdGet() *cobra.Command {
	o := DefaultGetOptions()
	cmd := &cobra.Command{
		Use:   "get (submissions TASK_ID | employers)",
		Short: "Display one or many resources.",
		Example: "get submissions 65f1c2\n" +
			"get submissions 65f1c2 --review -o yaml\n" +
			"get employers",
		Args: cobra.RangeArgs(1, 2),
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

func (o *GetOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
	fs.BoolVar(&o.Review, "review", o.Review, "List every submission of the task as its employer")
}

func (o *GetOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}

	res, err := parseResource(args[0])
	if err != nil {
		return err
	}
	if res.Kind == SubmissionKind && len(args) != 2 {
		return fmt.Errorf("listing %s requires a task id", res.plural())
	}

	if len(o.Output) > 0 && !funk.Contains(legalOutputTypes, o.Output) {
		return fmt.Errorf("output format must be one of %s", strings.Join(legalOutputTypes, ", "))
	}

	return nil
}

func (o *GetOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	res, err := parseResource(args[0])
	if err != nil {
		return err
	}

	switch res.Kind {
	case SubmissionKind:
		manager := submission.NewManager(args[1], c, nil)
		load := manager.Load
		if o.Review {
			load = manager.LoadForReview
		}
		list, err := load(ctx)
		if err != nil {
			return fmt.Errorf("listing %s: %w", res.plural(), err)
		}
		return o.print(list, func(w io.Writer) { printSubmissionsTable(w, list) })
	case EmployerKind:
		entries, err := admin.NewVerification(c).Load(ctx)
		if err != nil {
			return fmt.Errorf("listing %s: %w", res.plural(), err)
		}
		profiles := funk.Map(entries, func(e admin.Entry) api.EmployerProfile { return e.Profile }).([]api.EmployerProfile)
		return o.print(profiles, func(w io.Writer) { printEmployersTable(w, profiles) })
	default:
		return fmt.Errorf("unsupported resource kind: %s", res.Kind)
	}
}

func (o *GetOptions) print(resource any, table func(w io.Writer)) error {
	switch o.Output {
	case jsonFormat:
		marshalled, err := json.Marshal(resource)
		if err != nil {
			return fmt.Errorf("marshalling resource: %w", err)
		}
		fmt.Printf("%s\n", string(marshalled))
	case yamlFormat:
		marshalled, err := yaml.Marshal(resource)
		if err != nil {
			return fmt.Errorf("marshalling resource: %w", err)
		}
		fmt.Printf("%s\n", string(marshalled))
	default:
		w := tabwriter.NewWriter(os.Stdout, 0, 8, 1, '\t', 0)
		table(w)
		return w.Flush()
	}
	return nil
}

func printSubmissionsTable(w io.Writer, list []api.Submission) {
	numbers := submission.Numbers(list)
	fmt.Fprintln(w, "#\tID\tSTATUS\tFILES\tCREATED\tFEEDBACK")
	for _, s := range list {
		feedback := ""
		if s.Feedback != nil {
			feedback = *s.Feedback
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n", numbers[s.Id], s.Id, s.Status, len(s.Files),
			s.CreatedAt.Local().Format(time.DateTime), feedback)
	}
}

func printEmployersTable(w io.Writer, profiles []api.EmployerProfile) {
	fmt.Fprintln(w, "ID\tCOMPANY\tVERIFIED\tSTATUS")
	for _, p := range profiles {
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", p.Id, p.CompanyName, p.Verified, p.VerificationStatus)
	}
}
