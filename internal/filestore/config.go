package filestore

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/koustreak/objstore/internal/errs"
)

// Provider identifies the storage backend.
type Provider string

const (
	ProviderLocal  Provider = "local"
	ProviderMinIO  Provider = "minio"
	ProviderS3     Provider = "s3"
	ProviderSpaces Provider = "spaces"
)

// spacesDomain is the DigitalOcean Spaces service domain; the endpoint for
// a region is https://{region}.digitaloceanspaces.com.
const spacesDomain = "digitaloceanspaces.com"

// Config holds all settings needed to bind a Store to one location.
type Config struct {
	// Provider is the storage backend (e.g. ProviderLocal).
	Provider Provider `yaml:"provider" toml:"provider"`

	// Root is the existing directory that holds blobs for ProviderLocal.
	Root string `yaml:"root" toml:"root"`

	// Endpoint is the storage server.
	// MinIO expects host:port ("localhost:9000"); S3 expects a URL and may
	// be left empty for AWS. Spaces derives it from Region.
	Endpoint string `yaml:"endpoint" toml:"endpoint"`

	// AccessKey is the access key ID (MinIO / S3 style).
	AccessKey string `yaml:"access_key" toml:"access_key"`

	// SecretKey is the secret access key.
	SecretKey string `yaml:"secret_key" toml:"secret_key"`

	// UseSSL controls whether TLS is used for the MinIO connection.
	UseSSL bool `yaml:"use_ssl" toml:"use_ssl"`

	// Region is used by region-aware backends (S3, Spaces).
	Region string `yaml:"region" toml:"region"`

	// Bucket is the bucket (Space) every key is stored in.
	// It must already exist; stores never create it.
	Bucket string `yaml:"bucket" toml:"bucket"`

	// PathStyle forces path-style bucket addressing for S3.
	// Always on for MinIO and Spaces.
	PathStyle bool `yaml:"path_style" toml:"path_style"`
}

// DefaultConfig returns a config for a local store rooted at root.
func DefaultConfig(root string) *Config {
	return &Config{
		Provider: ProviderLocal,
		Root:     root,
	}
}

// SpacesConfig returns the config of a DigitalOcean Space.
func SpacesConfig(accessKey, secretKey, space, region string) *Config {
	return &Config{
		Provider:  ProviderSpaces,
		AccessKey: accessKey,
		SecretKey: secretKey,
		Bucket:    space,
		Region:    region,
		Endpoint:  SpacesEndpoint(region),
		PathStyle: true,
	}
}

// SpacesEndpoint returns the service endpoint of a Spaces region.
func SpacesEndpoint(region string) string {
	return fmt.Sprintf("https://%s.%s", region, spacesDomain)
}

// ApplyDefaults fills unset fields derived from the provider.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderLocal
	}
	if c.Provider == ProviderSpaces {
		if c.Endpoint == "" && c.Region != "" {
			c.Endpoint = SpacesEndpoint(c.Region)
		}
		c.PathStyle = true
	}
}

// Normalize trims whitespace that commonly sneaks into config files.
func (c *Config) Normalize() {
	c.Provider = Provider(strings.ToLower(strings.TrimSpace(string(c.Provider))))
	c.Root = strings.TrimSpace(c.Root)
	c.Endpoint = strings.TrimRight(strings.TrimSpace(c.Endpoint), "/")
	c.Region = strings.TrimSpace(c.Region)
	c.Bucket = strings.TrimSpace(c.Bucket)
}

// Validate checks that the settings required by the provider are present.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderLocal:
		if c.Root == "" {
			return invalid("local root directory is required")
		}
		return nil
	case ProviderMinIO:
		if c.Endpoint == "" {
			return invalid("minio endpoint is required")
		}
		if strings.Contains(c.Endpoint, "://") {
			return invalid("minio endpoint must be host:port without a scheme")
		}
	case ProviderS3, ProviderSpaces:
		if c.Region == "" {
			return invalid(fmt.Sprintf("%s region is required", c.Provider))
		}
		if c.Endpoint != "" {
			u, err := url.Parse(c.Endpoint)
			if err != nil || u.Host == "" {
				return invalid(fmt.Sprintf("%s endpoint must be a valid http(s) URL", c.Provider))
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return invalid(fmt.Sprintf("%s endpoint must use http or https", c.Provider))
			}
		}
	default:
		return invalid(fmt.Sprintf("unknown provider %q", c.Provider))
	}

	if c.Bucket == "" {
		return invalid(fmt.Sprintf("%s bucket is required", c.Provider))
	}
	if (c.AccessKey == "") != (c.SecretKey == "") {
		return invalid("access key and secret key must be set together")
	}
	return nil
}

func invalid(msg string) error {
	return errs.New(errs.ErrKindInvalidConfig, msg)
}
