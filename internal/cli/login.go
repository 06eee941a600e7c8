package cli

import (
	"context"
	"fmt"

	api "github.com/gigdesk/gigdesk/api/v1alpha1"
	"github.com/gigdesk/gigdesk/internal/client"
	"github.com/gigdesk/gigdesk/internal/validator"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type LoginOptions struct {
	GlobalOptions

	Phone string
	Otp   string
}

func DefaultLoginOptions() *LoginOptions {
	return &LoginOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdLogin() *cobra.Command {
	o := DefaultLoginOptions()
	cmd := &cobra.Command{
		Use:          "login --phone PHONE --otp CODE",
		Short:        "Verify a one-time code and store the session token",
		Example:      "login --phone +15551234567 --otp 123456",
		Args:         cobra.NoArgs,
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

	if err := markRequired(cmd, "phone", "otp"); err != nil {
		panic(err)
	}
	return cmd
}

func (o *LoginOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVar(&o.Phone, "phone", o.Phone, "Phone number in E.164 format")
	fs.StringVar(&o.Otp, "otp", o.Otp, "One-time code received by SMS")
}

func (o *LoginOptions) request() api.LoginRequest {
	return api.LoginRequest{Phone: o.Phone, Otp: o.Otp}
}

func (o *LoginOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	return validator.Validate(o.request())
}

func (o *LoginOptions) Run(ctx context.Context, args []string) error {
	cfg, err := o.ClientConfig()
	if err != nil {
		return err
	}
	c, err := client.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	resp, err := c.Login(ctx, o.request())
	if err != nil {
		return err
	}

	cfg.Session.Token = resp.Token
	cfg.Session.UserID = resp.User.Id
	if err := cfg.Persist(o.ConfigFilePath); err != nil {
		return err
	}
	fmt.Printf("logged in as %s (%s)\n", resp.User.Name, resp.User.Role)
	return nil
}
