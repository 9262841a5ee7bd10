package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config is the process configuration. Secrets and storage credentials are
// read once here and injected at construction time; business code never
// touches the environment directly.
type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`

	DBConnectionString string `envconfig:"DB_CONNECTION_STRING" required:"true"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	S3URL       string `envconfig:"S3_URL" required:"true"`
	S3Bucket    string `envconfig:"S3_BUCKET" required:"true"`
	S3Region    string `envconfig:"S3_REGION" required:"true"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY" required:"true"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY" required:"true"`

	// Media upload staging
	UploadDir       string `envconfig:"UPLOAD_DIR" default:"uploads"`
	MaxUploadSizeMB int64  `envconfig:"MAX_UPLOAD_SIZE_MB" default:"500"`

	FrontendOrigin string `envconfig:"FRONTEND_ORIGIN" default:"http://localhost:5173"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
