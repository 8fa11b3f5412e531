// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package config // import "website.app/v2/internal/config"

// Opts holds parsed configuration options.
var Opts *Options

// Load loads configuration values from a local .env file (if filename isn't
// empty) and from environment variables after that.
func Load(filename string) (err error) {
	p := NewParser()
	if filename != "" {
		Opts, err = p.ParseEnvFile(filename)
		return
	}
	Opts, err = p.ParseEnvironmentVariables()
	return
}

// LoadYAML loads structured configuration values from yamlFile (if it isn't
// empty) and everything else like Load.
func LoadYAML(yamlFile, envFile string) error {
	p := NewParser()
	if yamlFile != "" {
		if err := p.ParseYAML(yamlFile); err != nil {
			return err
		}
	}

	var opts *Options
	var err error
	if envFile != "" {
		opts, err = p.ParseEnvFile(envFile)
	} else {
		opts, err = p.ParseEnvironmentVariables()
	}
	if err != nil {
		return err
	}
	Opts = opts
	return nil
}
