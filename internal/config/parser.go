// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package config // import "website.app/v2/internal/config"

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v4"
)

// Parser fills Options from YAML, an env file and the process environment, in
// this order. Every later source overrides earlier ones.
type Parser struct {
	opts *Options
}

func NewParser() *Parser { return &Parser{opts: NewOptions()} }

// ParseEnvironmentVariables finishes parsing with the process environment
// and validates the result.
func (self *Parser) ParseEnvironmentVariables() (*Options, error) {
	return self.parseEnv(env.Options{})
}

// ParseEnvFile reads filename in the dotenv format, then continues with the
// process environment.
func (self *Parser) ParseEnvFile(filename string) (*Options, error) {
	vars, err := godotenv.Read(filename)
	if err != nil {
		return nil, fmt.Errorf("config: read env file %q: %w", filename, err)
	}

	err = env.ParseWithOptions(&self.opts.env, env.Options{Environment: vars})
	if err != nil {
		return nil, fmt.Errorf("config: parse env file %q: %w", filename, err)
	}
	return self.ParseEnvironmentVariables()
}

func (self *Parser) parseEnv(opts env.Options) (*Options, error) {
	if err := env.ParseWithOptions(&self.opts.env, opts); err != nil {
		return nil, fmt.Errorf("config: parse env vars: %w", err)
	}
	if err := self.opts.init(); err != nil {
		return nil, err
	}
	return self.opts, nil
}

// ParseYAML reads the structured part of Options. It must be called before
// ParseEnvironmentVariables or ParseEnvFile.
func (self *Parser) ParseYAML(filename string) error {
	b, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("config: read yaml %q: %w", filename, err)
	} else if err := yaml.Unmarshal(b, self.opts); err != nil {
		return fmt.Errorf("config: parse yaml %q: %w", filename, err)
	}
	return nil
}

// setBaseURL splits BASE_URL into the origin serving the site and the path
// every route is mounted under.
func (o *Options) setBaseURL(value string) error {
	if value == "" {
		value = defaultBaseURL
	}
	value = strings.TrimSuffix(value, "/")

	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("config: invalid BASE_URL: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return errors.New(
			"config: invalid BASE_URL: scheme must be http or https")
	}

	o.env.BaseURL, o.basePath = value, u.Path
	o.rootURL = (&url.URL{Scheme: u.Scheme, User: u.User, Host: u.Host}).String()
	return nil
}
