package cli

import (
	"context"
	"fmt"
	"strings"

	api "github.com/gigdesk/gigdesk/api/v1alpha1"
	"github.com/gigdesk/gigdesk/internal/admin"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
)

var legalVerificationStatuses = []string{
	string(api.VerificationStatusPending),
	string(api.VerificationStatusApproved),
	string(api.VerificationStatusRejected),
}

type VerifyOptions struct {
	GlobalOptions

	Verified bool
	Status   string
}

func DefaultVerifyOptions() *VerifyOptions {
	return &VerifyOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Verified:      true,
	}
}

func NewCmdVerify() *cobra.Command {
	o := DefaultVerifyOptions()
	cmd := &cobra.Command{
		Use:     "verify employer/ID",
		Short:   "Verify or unverify an employer (admin only).",
		Example: "verify employer/64e2aa --verified=false\nverify employer/64e2aa --status approved",
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
	return cmd
}

func (o *VerifyOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.BoolVar(&o.Verified, "verified", o.Verified, "Whether the employer is verified")
	fs.StringVar(&o.Status, "status", o.Status, fmt.Sprintf("Set the verification request status instead. One of: (%s).", strings.Join(legalVerificationStatuses, ", ")))
}

func (o *VerifyOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}

	res, err := parseResource(args[0])
	if err != nil {
		return err
	}
	if err := res.expect(EmployerKind, true); err != nil {
		return err
	}
	if o.Status != "" && !funk.ContainsString(legalVerificationStatuses, o.Status) {
		return fmt.Errorf("status must be one of %s", strings.Join(legalVerificationStatuses, ", "))
	}
	return nil
}

func (o *VerifyOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}
	res, err := parseResource(args[0])
	if err != nil {
		return err
	}
	id := res.ID

	verification := admin.NewVerification(c)
	if _, err := verification.Load(ctx); err != nil {
		return err
	}

	var updated *api.EmployerProfile
	if o.Status != "" {
		updated, err = verification.SetStatus(ctx, id, api.VerificationStatus(o.Status))
	} else {
		updated, err = verification.Toggle(ctx, id, o.Verified)
	}
	if err != nil {
		entry, _ := verification.Get(id)
		return fmt.Errorf("%s kept verified=%t: %w", res, entry.Profile.Verified, err)
	}

	fmt.Printf("%s verified=%t status=%s\n", res, updated.Verified, updated.VerificationStatus)
	return nil
}
