package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/modelsite/internal/foundation/errors"
)

// DefaultConfigFile is the configuration path used when -c is not given.
const DefaultConfigFile = "modelsite.yaml"

// Config represents the application configuration.
type Config struct {
	Models     string           `yaml:"models"` // Root directory holding .nlogox files
	Output     OutputConfig     `yaml:"output"`
	Site       SiteConfig       `yaml:"site"`
	Index      IndexConfig      `yaml:"index"`
	Info       InfoConfig       `yaml:"info"`
	NetLogoWeb NetLogoWebConfig `yaml:"netlogoweb"`
	Build      BuildConfig      `yaml:"build"`
	Report     ReportConfig     `yaml:"report"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	// KeepPrevious retains the replaced output as <directory>.prev after promotion.
	KeepPrevious bool `yaml:"keep_previous"`
}

// SiteConfig holds site-wide presentation settings.
type SiteConfig struct {
	Title         string `yaml:"title"`
	BaseURL       string `yaml:"base_url,omitempty"` // Public URL the site is deployed under
	Icon          string `yaml:"icon,omitempty"`     // Optional replacement for the embedded model icon
	StampRevision bool   `yaml:"stamp_revision"`     // Print the models repository HEAD in the page footer
}

// IndexConfig controls the folder tree on the index page.
type IndexConfig struct {
	OpenFolders bool `yaml:"open_folders"`
	PruneEmpty  bool `yaml:"prune_empty"` // Hide folders that contain no models at any depth
}

// InfoConfig controls how the Info tab is turned into HTML.
type InfoConfig struct {
	Format InfoFormat `yaml:"format"`
}

// NetLogoWebConfig controls the "Run on NetLogoWeb" link.
type NetLogoWebConfig struct {
	URLTemplate string `yaml:"url_template,omitempty"`
}

// BuildConfig holds pipeline tuning knobs.
type BuildConfig struct {
	Workers int `yaml:"workers"` // Parallel model parsers; 1 parses sequentially
}

// ReportConfig controls build report persistence.
type ReportConfig struct {
	Path string `yaml:"path,omitempty"` // Directory receiving build-report.json/.txt; empty disables
}

// MetricsConfig controls metrics export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"` // Prometheus textfile collector output; empty disables
}

// Load reads configuration from configPath. A missing file yields the defaults so
// the binary works without any configuration at all.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	cfg := &Config{}
	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// defaults only
	case err != nil:
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
			Fatal().WithContext("path", configPath).Build()
	default:
		// Expand environment variables in the YAML content
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").
				Fatal().WithContext("path", configPath).Build()
		}
	}

	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).
			WithContext("path", configPath).Build()
	}

	example := Default()
	example.Site.BaseURL = "https://models.example.com"
	example.Report.Path = "./build-reports"

	data, err := yaml.Marshal(example)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal example config").Build()
	}
	header := "# modelsite configuration\n# Values may reference environment variables as ${VAR}.\n"
	if err := os.WriteFile(configPath, append([]byte(header), data...), 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "failed to write config file").
			Fatal().WithContext("path", configPath).Build()
	}
	return nil
}
