// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/vevolab-parser/pkg/types"
)

// FileReport summarizes the conversion of one input file.
type FileReport struct {
	Input        string                 `json:"input" yaml:"input"`
	Status       types.ConversionStatus `json:"status" yaml:"status"`
	Measurements int                    `json:"measurements" yaml:"measurements"`
	Calculations int                    `json:"calculations" yaml:"calculations"`
	Outputs      []string               `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Error        string                 `json:"error,omitempty" yaml:"error,omitempty"`
	Diagnostics  []types.Diagnostic     `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// Report is the diagnostics report for a run.
type Report struct {
	Files []FileReport `json:"files" yaml:"files"`
}

// WriteReport writes r to path as JSON when the extension is .json and as
// YAML otherwise.
func WriteReport(path string, r Report) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(r, "", "  ")
		data = append(data, '\n')
	default:
		data, err = yaml.Marshal(r)
	}
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
