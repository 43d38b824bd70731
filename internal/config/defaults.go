package config

// Defaults shared with the CLI flag definitions.
const (
	DefaultModelsDir = "./models"
	DefaultOutputDir = "./site"
	DefaultSiteTitle = "NetLogo Models"
	DefaultWorkers   = 1

	// DefaultLaunchTemplate reproduces the NetLogoWeb models library URL.
	DefaultLaunchTemplate = "https://netlogoweb.org/launch#https://netlogoweb.org/assets/modelslib/{{.Path}}"
	// SiteLaunchTemplate points NetLogoWeb at the model file copied into the deployed site.
	SiteLaunchTemplate = "https://netlogoweb.org/launch#{{.SiteURL}}/models/{{.Path}}"
)

func applyDefaults(cfg *Config) {
	if cfg.Models == "" {
		cfg.Models = DefaultModelsDir
	}
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = DefaultOutputDir
	}
	if cfg.Site.Title == "" {
		cfg.Site.Title = DefaultSiteTitle
	}
	if cfg.Info.Format == "" {
		cfg.Info.Format = InfoFormatMarkdown
	} else if f := NormalizeInfoFormat(string(cfg.Info.Format)); f != "" {
		cfg.Info.Format = f
	}
	if cfg.Build.Workers == 0 {
		cfg.Build.Workers = DefaultWorkers
	}
}

// LaunchTemplate returns the NetLogoWeb URL template in effect.
func (c *Config) LaunchTemplate() string {
	if c.NetLogoWeb.URLTemplate != "" {
		return c.NetLogoWeb.URLTemplate
	}
	if c.Site.BaseURL != "" {
		return SiteLaunchTemplate
	}
	return DefaultLaunchTemplate
}
