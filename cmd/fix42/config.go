/*
fix42 — FIX 4.2 message codec and tools
Copyright (C) 2025 Steve Clarke <stephenlclarke@mac.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.

In accordance with section 13 of the AGPL, if you modify this program,
your modified version must prominently offer all users interacting with it
remotely through a computer network an opportunity to receive the source
code of your version.
*/
package main

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds settings read from an optional config file and FIX42_*
// environment variables. Flags given on the command line win.
type Config struct {
	Colour        string       `mapstructure:"colour" validate:"omitempty,oneof=yes no auto"`
	Charset       string       `mapstructure:"charset"`
	Dictionary    string       `mapstructure:"dictionary"`
	Validate      bool         `mapstructure:"validate"`
	Obfuscate     bool         `mapstructure:"obfuscate"`
	SensitiveTags []int        `mapstructure:"sensitive_tags" validate:"dive,gt=0"`
	Encode        EncodeConfig `mapstructure:"encode"`
	Log           LogConfig    `mapstructure:"log"`
}

// EncodeConfig supplies defaults for -encode.
type EncodeConfig struct {
	Sender string `mapstructure:"sender"`
	Target string `mapstructure:"target"`
}

// LogConfig controls the diagnostic logger.
type LogConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAge     int    `mapstructure:"max_age" validate:"gte=0"`
	Compress   bool   `mapstructure:"compress"`
}

var configDefaults = map[string]any{
	"colour":          "auto",
	"charset":         "",
	"dictionary":      "",
	"validate":        false,
	"obfuscate":       false,
	"sensitive_tags":  []int{},
	"encode.sender":   "",
	"encode.target":   "",
	"log.level":       "warn",
	"log.file":        "",
	"log.max_size":    10,
	"log.max_backups": 3,
	"log.max_age":     28,
	"log.compress":    false,
}

// loadConfig reads path (if not empty) and the environment into a Config.
func loadConfig(path string) (Config, error) {
	var cfg Config

	v := viper.New()
	for key, value := range configDefaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix("FIX42")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("read config error: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config error: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// applyConfig fills options the user did not set on the command line.
func applyConfig(opts *CLIOptions, cfg Config) {
	if !opts.isSet("xml") {
		opts.XMLPath = cfg.Dictionary
	}
	if !opts.isSet("charset") {
		opts.Charset = cfg.Charset
	}
	if !opts.isSet("validate") {
		opts.Validate = cfg.Validate
	}
	if !opts.isSet("obfuscate") {
		opts.Obfuscate = cfg.Obfuscate
	}
	if !opts.isSet("sender") {
		opts.Sender = cfg.Encode.Sender
	}
	if !opts.isSet("target") {
		opts.Target = cfg.Encode.Target
	}
	if !opts.Colour.isSet && cfg.Colour != "auto" && cfg.Colour != "" {
		_ = opts.Colour.Set(cfg.Colour)
	}
}
