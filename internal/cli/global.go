package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/gigdesk/gigdesk/internal/client"
	"github.com/gigdesk/gigdesk/internal/config"
	"github.com/gigdesk/gigdesk/internal/preview"
	"github.com/gigdesk/gigdesk/internal/storage"
	"github.com/gigdesk/gigdesk/internal/upload"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type GlobalOptions struct {
	ConfigFilePath string
	ServerUrl      string
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{
		ConfigFilePath: client.DefaultClientConfigPath(),
	}
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ConfigFilePath, "config", "c", o.ConfigFilePath, "Path to the client config file")
	fs.StringVarP(&o.ServerUrl, "server-url", "u", o.ServerUrl, "Address of the API server, overrides the config file")
}

func (o *GlobalOptions) Complete(cmd *cobra.Command, args []string) error {
	return nil
}

func (o *GlobalOptions) Validate(args []string) error {
	return nil
}

// ClientConfig reads the config file. A missing file yields the defaults from
// the environment.
func (o *GlobalOptions) ClientConfig() (*client.Config, error) {
	cfg, err := client.ParseConfigFile(o.ConfigFilePath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		env, envErr := config.New()
		if envErr != nil {
			return nil, fmt.Errorf("reading environment: %w", envErr)
		}
		cfg = client.NewDefault()
		cfg.Service.Server = env.Service.ApiUrl
		cfg.Service.Timeout = client.Duration{Duration: env.Service.Timeout}
	}
	if o.ServerUrl != "" {
		cfg.Service.Server = o.ServerUrl
	}
	return cfg, nil
}

func (o *GlobalOptions) Client() (*client.Client, error) {
	cfg, err := o.ClientConfig()
	if err != nil {
		return nil, err
	}
	return client.NewFromConfig(cfg)
}

// signer is the self-hosted storage signer, or nil when uploads and previews
// are signed by the API server.
func (o *GlobalOptions) signer() (*storage.MinioSigner, error) {
	env, err := config.New()
	if err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if env.Storage.Endpoint == "" {
		return nil, nil
	}
	zap.S().Named("cli").Debugw("using self-hosted storage", "endpoint", env.Storage.Endpoint, "bucket", env.Storage.Bucket)
	return storage.NewMinioSigner(
		storage.WithEndpoint(env.Storage.Endpoint),
		storage.WithBucket(env.Storage.Bucket),
		storage.WithAccessKey(env.Storage.AccessKey),
		storage.WithSecretKey(env.Storage.SecretKey),
		storage.WithSSL(env.Storage.UseSSL),
		storage.WithURLExpiry(env.Storage.URLExpiry),
	)
}

func (o *GlobalOptions) uploadTargets(c *client.Client) (upload.TargetRequester, error) {
	s, err := o.signer()
	if err != nil || s == nil {
		return c, err
	}
	return s, nil
}

func (o *GlobalOptions) previewSource(c *client.Client) (preview.URLSource, error) {
	s, err := o.signer()
	if err != nil || s == nil {
		return c, err
	}
	return s, nil
}

func uploadLimits() (upload.Limits, error) {
	env, err := config.New()
	if err != nil {
		return upload.Limits{}, fmt.Errorf("reading environment: %w", err)
	}
	return upload.Limits{
		MaxFileSize:  env.Upload.MaxFileSize,
		MaxFiles:     env.Upload.MaxFiles,
		MaxTotalSize: env.Upload.MaxTotalSize,
	}, nil
}
