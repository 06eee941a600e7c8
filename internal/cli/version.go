package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gigdesk/gigdesk/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
	"sigs.k8s.io/yaml"
)

type VersionOptions struct {
	Output string
}

func DefaultVersionOptions() *VersionOptions {
	return &VersionOptions{
		Output: "",
	}
}

func NewCmdVersion() *cobra.Command {
	o := DefaultVersionOptions()
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print gigdesk version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(o.Output) > 0 && !funk.ContainsString(legalOutputTypes, o.Output) {
				return fmt.Errorf("output format must be one of %v", legalOutputTypes)
			}
			return o.Run(cmd.Context(), args)
		},
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *VersionOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Output, "output", "o", o.Output, "Output format. One of: (json, yaml).")
}

func (o *VersionOptions) Run(ctx context.Context, args []string) error {
	versionInfo := version.Get()
	switch o.Output {
	case jsonFormat:
		out, err := json.Marshal(versionInfo)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	case yamlFormat:
		out, err := yaml.Marshal(versionInfo)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
	default:
		fmt.Printf("gigdesk version: %s\n", versionInfo.String())
		fmt.Printf("go: %s %s\n", versionInfo.GoVersion, versionInfo.Platform)
	}
	return nil
}
