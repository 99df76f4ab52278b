// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// OutputFormat selects how the two result tables are written.
type OutputFormat string

const (
	FormatCSV  OutputFormat = "csv"
	FormatTSV  OutputFormat = "tsv"
	FormatXLSX OutputFormat = "xlsx"
)

// Naming selects where the table name goes in an output file name.
type Naming string

const (
	// NamingSuffix produces "<stem>_measurements.csv".
	NamingSuffix Naming = "suffix"
	// NamingPrefix produces "measurements_<stem>.csv".
	NamingPrefix Naming = "prefix"
)

// ErrorAction decides what a conversion does with a row-level error.
type ErrorAction string

const (
	ActionAbort ErrorAction = "abort"
	ActionSkip  ErrorAction = "skip"
)

// ConvertConfig holds settings for a conversion run. It is filled from flags,
// VEVOLAB_PARSER_* environment variables and the optional config file.
type ConvertConfig struct {
	// OutputDir is where result tables are written. Empty means next to each input.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// Format selects csv, tsv or xlsx output (default csv).
	Format OutputFormat `json:"format" yaml:"format" mapstructure:"format" validate:"oneof=csv tsv xlsx"`

	// Naming selects suffix or prefix output file names (default suffix).
	Naming Naming `json:"naming" yaml:"naming" mapstructure:"naming" validate:"oneof=suffix prefix"`

	// Unrecognized is the action for rows that partially match a record layout (default skip).
	Unrecognized ErrorAction `json:"unrecognized" yaml:"unrecognized" mapstructure:"unrecognized" validate:"oneof=abort skip"`

	// MissingContext is the action for data rows seen before a series and
	// protocol header (default abort).
	MissingContext ErrorAction `json:"missing_context" yaml:"missing_context" mapstructure:"missing_context" validate:"oneof=abort skip"`

	// SQLitePath, when set, also appends every converted table to this database.
	SQLitePath string `json:"sqlite,omitempty" yaml:"sqlite,omitempty" mapstructure:"sqlite"`

	// ReportPath, when set, receives a YAML or JSON diagnostics report.
	ReportPath string `json:"report,omitempty" yaml:"report,omitempty" mapstructure:"report" validate:"omitempty,endswith=.yaml|endswith=.yml|endswith=.json"`

	// Jobs is the number of input files converted concurrently (default 4).
	Jobs int `json:"jobs" yaml:"jobs" mapstructure:"jobs" validate:"min=1,max=64"`

	// Strict turns skipped rows into a failing exit status.
	Strict bool `json:"strict" yaml:"strict" mapstructure:"strict"`
}

// DefaultConvertConfig returns the settings used when nothing overrides them.
func DefaultConvertConfig() ConvertConfig {
	return ConvertConfig{
		Format:         FormatCSV,
		Naming:         NamingSuffix,
		Unrecognized:   ActionSkip,
		MissingContext: ActionAbort,
		Jobs:           4,
	}
}
