package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App        ApplicationConfig `yaml:"app"`
	CORS       CORSConfig        `yaml:"cors"`
	Auth       AuthConfig        `yaml:"auth"`
	Fuseki     FusekiConfig      `yaml:"fuseki"`
	Vocabulary VocabularyConfig  `yaml:"vocabulary"`
	Shapes     ShapesConfig      `yaml:"shapes"`
	Datasets   DatasetsConfig    `yaml:"datasets"`
	SQLite     SQLiteConfig      `yaml:"sqlite"`
	Limits     LimitsConfig      `yaml:"limits"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	for _, v := range []validation.Validatable{
		&c.App, &c.CORS, &c.Auth, &c.Fuseki, &c.Vocabulary, &c.Limits,
	} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	if c.Datasets.Enabled() && c.SQLite.Path == "" {
		return fmt.Errorf("sqlite: path is required when datasets.path is set")
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Validate validates the CORS configuration.
func (c *CORSConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.AllowedOrigins, validation.Each(validation.Required, validation.By(origin))),
	)
}

func origin(value any) error {
	s, _ := value.(string)
	if s == "*" {
		return nil
	}
	return is.URL.Validate(s)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// FusekiConfig locates the remote triple store. An empty URL disables the
// remote graph and validation endpoints.
type FusekiConfig struct {
	URL     string        `yaml:"url"`
	Dataset string        `yaml:"dataset"`
	Timeout time.Duration `yaml:"timeout"`
}

// Validate validates the Fuseki configuration.
func (c *FusekiConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.URL, is.URL),
		validation.Field(&c.Dataset, validation.When(c.URL != "", validation.Required)),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

// Enabled reports whether a remote triple store is configured.
func (c *FusekiConfig) Enabled() bool {
	return c.URL != ""
}

// VocabularyConfig holds application namespaces hidden from graphs.
type VocabularyConfig struct {
	ExcludeNamespaces []string `yaml:"exclude_namespaces"`
}

// Validate validates the vocabulary configuration.
func (c *VocabularyConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ExcludeNamespaces, validation.Each(validation.Required, is.URL)),
	)
}

// ShapesConfig points to a SHACL shapes file. An empty path selects the
// built-in star shape.
type ShapesConfig struct {
	Path string `yaml:"path"`
}

// DatasetsConfig holds the directory of local RDF documents.
type DatasetsConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// Enabled reports whether a local dataset directory is configured.
func (c *DatasetsConfig) Enabled() bool {
	return c.Path != ""
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// LimitsConfig bounds request and document sizes. Zero means unlimited
// triples and the default body limit.
type LimitsConfig struct {
	MaxTriples   int64 `yaml:"max_triples"`
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// Validate validates the limits configuration.
func (c *LimitsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MaxTriples, validation.Min(int64(0))),
		validation.Field(&c.MaxBodyBytes, validation.Min(int64(0))),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 5255,
			},
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Fuseki: FusekiConfig{
			Dataset: "stars",
			Timeout: 30 * time.Second,
		},
		Datasets: DatasetsConfig{
			Path:  "./datasets",
			Watch: true,
		},
		SQLite: SQLiteConfig{
			Path: "./rowlet.db",
		},
		Limits: LimitsConfig{
			MaxTriples:   1_000_000,
			MaxBodyBytes: 10 << 20,
		},
	}
}
