package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Service *svcConfig
	Upload  *uploadConfig
	Chat    *chatConfig
	Storage *storageConfig
}

type svcConfig struct {
	ApiUrl   string        `envconfig:"GIGDESK_API_URL" default:"http://localhost:5000/api"`
	Timeout  time.Duration `envconfig:"GIGDESK_API_TIMEOUT" default:"10s"`
	LogLevel string        `envconfig:"GIGDESK_LOG_LEVEL" default:"warn"`
}

type uploadConfig struct {
	MaxFileSize  int64 `envconfig:"GIGDESK_UPLOAD_MAX_FILE_SIZE" default:"10485760"`
	MaxFiles     int   `envconfig:"GIGDESK_UPLOAD_MAX_FILES" default:"10"`
	MaxTotalSize int64 `envconfig:"GIGDESK_UPLOAD_MAX_TOTAL_SIZE" default:"52428800"`
}

type chatConfig struct {
	Url    string `envconfig:"GIGDESK_CHAT_URL" default:"wss://chat.localhost/connect"`
	ApiKey string `envconfig:"GIGDESK_CHAT_API_KEY" default:""`
}

// storageConfig enables self-hosted object storage. When Endpoint is empty the
// server hands out signed URLs and no local signing happens.
type storageConfig struct {
	Endpoint  string        `envconfig:"GIGDESK_STORAGE_ENDPOINT" default:""`
	Bucket    string        `envconfig:"GIGDESK_STORAGE_BUCKET" default:"submissions"`
	AccessKey string        `envconfig:"GIGDESK_STORAGE_ACCESS_KEY" default:""`
	SecretKey string        `envconfig:"GIGDESK_STORAGE_SECRET_KEY" default:""`
	UseSSL    bool          `envconfig:"GIGDESK_STORAGE_USE_SSL" default:"false"`
	URLExpiry time.Duration `envconfig:"GIGDESK_STORAGE_URL_EXPIRY" default:"15m"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		cfg := new(Config)
		if err := envconfig.Process("", cfg); err != nil {
			return nil, err
		}
		singleConfig = cfg
	}
	return singleConfig, nil
}

// Reset drops the cached configuration so the next New re-reads the environment.
func Reset() {
	singleConfig = nil
}
