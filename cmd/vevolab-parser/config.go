// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/pdiddy/vevolab-parser/pkg/types"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// loadConfig builds the conversion settings from v (flags, environment and
// config file, in that order of precedence) and validates them.
func loadConfig(v *viper.Viper) (types.ConvertConfig, error) {
	cfg := types.DefaultConvertConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
