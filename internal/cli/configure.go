package cli

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gigdesk/gigdesk/internal/client"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func NewCmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the client config file",
	}
	cmd.AddCommand(NewCmdConfigSetServer())
	return cmd
}

type ConfigSetServerOptions struct {
	ConfigFilePath string
}

func DefaultConfigSetServerOptions() *ConfigSetServerOptions {
	return &ConfigSetServerOptions{
		ConfigFilePath: client.DefaultClientConfigPath(),
	}
}

func NewCmdConfigSetServer() *cobra.Command {
	o := DefaultConfigSetServerOptions()
	cmd := &cobra.Command{
		Use:          "set-server URL",
		Short:        "Point the client at an API server",
		Example:      "config set-server https://api.gigdesk.example/api",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ConfigSetServerOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ConfigFilePath, "config", "c", o.ConfigFilePath, "Path to the client config file")
}

func (o *ConfigSetServerOptions) Validate(args []string) error {
	u, err := url.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid server url %q: %w", args[0], err)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("invalid server url %q: no hostname", args[0])
	}
	return nil
}

// Run keeps an existing session so switching servers does not log the user out
// of a file that is otherwise valid.
func (o *ConfigSetServerOptions) Run(ctx context.Context, args []string) error {
	cfg, err := client.ParseConfigFile(o.ConfigFilePath)
	if err != nil {
		cfg = client.NewDefault()
	}
	cfg.Service.Server = args[0]
	if err := cfg.Persist(o.ConfigFilePath); err != nil {
		return err
	}
	fmt.Printf("server set to %s in %s\n", args[0], o.ConfigFilePath)
	return nil
}
