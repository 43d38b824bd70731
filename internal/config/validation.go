package config

import (
	"fmt"
	"strings"
	"text/template"

	ferrors "git.home.luguber.info/inful/modelsite/internal/foundation/errors"
)

// Validate checks the configuration after defaults have been applied.
func (c *Config) Validate() error {
	if NormalizeInfoFormat(string(c.Info.Format)) == "" {
		return ferrors.ValidationError(fmt.Sprintf("unknown info.format %q (want one of %s)", c.Info.Format, strings.Join(InfoFormatNames(), ", "))).
			WithContext("field", "info.format").Build()
	}
	if c.Build.Workers < 1 {
		return ferrors.ValidationError(fmt.Sprintf("build.workers must be at least 1, got %d", c.Build.Workers)).
			WithContext("field", "build.workers").Build()
	}
	if c.Models == "" || c.Output.Directory == "" {
		return ferrors.ValidationError("models and output.directory must be set").Build()
	}
	if _, err := template.New("netlogoweb").Option("missingkey=error").Parse(c.LaunchTemplate()); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryValidation, "invalid netlogoweb.url_template").
			Fatal().WithContext("field", "netlogoweb.url_template").Build()
	}
	return nil
}
