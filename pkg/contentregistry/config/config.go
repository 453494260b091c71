// Package config holds the server configuration, read from the environment
// with cleanenv.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tendant/content-registry/pkg/contentregistry"
)

// Config is the top-level server configuration
type Config struct {
	Port         string `env:"PORT" env-default:"8080"`
	Storage      string `env:"STORAGE_TYPE" env-default:"memory"` // memory, postgres, s3
	ApiKeySHA256 string `env:"API_KEY_SHA256" env-default:""`
	JWTSecret    string `env:"AUTH_JWT_SECRET" env-default:""`

	// ContentTypes lists the content types registered at startup, each as
	// "<id>:<latest version>", e.g. "article:v2".
	ContentTypes []string `env:"CONTENT_TYPES" env-default:"article:v1"`

	DB DbConfig
	S3 S3Config
}

// DbConfig holds Postgres connection settings
type DbConfig struct {
	Port     uint16 `env:"CONTENT_PG_PORT" env-default:"5432"`
	Host     string `env:"CONTENT_PG_HOST" env-default:"localhost"`
	Name     string `env:"CONTENT_PG_NAME" env-default:"content_db"`
	User     string `env:"CONTENT_PG_USER" env-default:"content"`
	Password string `env:"CONTENT_PG_PASSWORD" env-default:"pwd"`
	Table    string `env:"CONTENT_PG_TABLE" env-default:"content.item"`
}

// S3Config holds S3 connection settings
type S3Config struct {
	Endpoint        string `env:"AWS_S3_ENDPOINT" env-default:""`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
	BucketName      string `env:"AWS_S3_BUCKET" env-default:"content-bucket"`
	Region          string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	UsePathStyle    bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"true"`
	KeyPrefix       string `env:"AWS_S3_KEY_PREFIX" env-default:""`
}

// DatabaseURL renders the Postgres connection string.
func (c DbConfig) DatabaseURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Name,
	}
	return u.String()
}

// ContentTypeSpec is one parsed CONTENT_TYPES entry.
type ContentTypeSpec struct {
	ID     string
	Latest contentregistry.Version
}

// ParseContentTypes parses "<id>:<version>" entries.
func ParseContentTypes(entries []string) ([]ContentTypeSpec, error) {
	specs := make([]ContentTypeSpec, 0, len(entries))
	for _, entry := range entries {
		id, token, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok || id == "" {
			return nil, fmt.Errorf("malformed content type entry %q, want \"<id>:<version>\"", entry)
		}
		latest, err := contentregistry.ParseVersion(token)
		if err != nil {
			return nil, fmt.Errorf("content type %q: %w", id, err)
		}
		specs = append(specs, ContentTypeSpec{ID: id, Latest: latest})
	}
	return specs, nil
}
