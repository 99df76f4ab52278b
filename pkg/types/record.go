// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the records shared by the parser, the exporters and the
// SQLite store.
package types

import (
	"strconv"
	"strings"
)

// Context identifies the section of an export that currently owns data rows:
// the series (one animal or recording session) and the acquisition protocol.
type Context struct {
	// SeriesID is the value of the most recent "Series Name" header.
	SeriesID string `json:"series_id" yaml:"series_id"`

	// Protocol is the value of the most recent "Protocol Name" header within
	// the current series.
	Protocol string `json:"protocol" yaml:"protocol"`
}

// Complete reports whether both halves of the context are set. Data rows may
// only be attributed to a complete context.
func (c Context) Complete() bool {
	return c.SeriesID != "" && c.Protocol != ""
}

// MeasurementColumns lists the measurement table columns in output order.
var MeasurementColumns = []string{
	"id", "protocol", "measurement", "mode", "parameter",
	"units", "avg", "std", "instance_1", "instance_2",
}

// CalculationColumns lists the calculation table columns in output order.
var CalculationColumns = []string{"id", "protocol", "calculation", "units", "value"}

// MeasurementRecord is one row of the measurement table. Value fields keep the
// exporter's text verbatim; an empty field stays empty.
type MeasurementRecord struct {
	SeriesID    string `json:"id" yaml:"id"`
	Protocol    string `json:"protocol" yaml:"protocol"`
	Measurement string `json:"measurement" yaml:"measurement"`
	Mode        string `json:"mode" yaml:"mode"`
	Parameter   string `json:"parameter" yaml:"parameter"`
	Units       string `json:"units" yaml:"units"`
	Avg         string `json:"avg" yaml:"avg"`
	Std         string `json:"std" yaml:"std"`
	Instance1   string `json:"instance_1" yaml:"instance_1"`
	Instance2   string `json:"instance_2" yaml:"instance_2"`
}

// Row returns the record's fields in MeasurementColumns order.
func (m MeasurementRecord) Row() []string {
	return []string{
		m.SeriesID, m.Protocol, m.Measurement, m.Mode, m.Parameter,
		m.Units, m.Avg, m.Std, m.Instance1, m.Instance2,
	}
}

// Numbers parses the four value fields. A nil entry means the field was empty
// or not a number.
func (m MeasurementRecord) Numbers() (avg, std, instance1, instance2 *float64) {
	return ParseNumber(m.Avg), ParseNumber(m.Std), ParseNumber(m.Instance1), ParseNumber(m.Instance2)
}

// CalculationRecord is one row of the calculation table.
type CalculationRecord struct {
	SeriesID    string `json:"id" yaml:"id"`
	Protocol    string `json:"protocol" yaml:"protocol"`
	Calculation string `json:"calculation" yaml:"calculation"`
	Units       string `json:"units" yaml:"units"`
	Value       string `json:"value" yaml:"value"`
}

// Row returns the record's fields in CalculationColumns order.
func (c CalculationRecord) Row() []string {
	return []string{c.SeriesID, c.Protocol, c.Calculation, c.Units, c.Value}
}

// Number parses the value field, returning nil when it is empty or not a number.
func (c CalculationRecord) Number() *float64 {
	return ParseNumber(c.Value)
}

// Tables holds the two output tables of one conversion, each in input order.
type Tables struct {
	Measurements []MeasurementRecord `json:"measurements" yaml:"measurements"`
	Calculations []CalculationRecord `json:"calculations" yaml:"calculations"`
}

// ParseNumber converts exporter text to a float. It returns nil for empty or
// non-numeric text instead of guessing a placeholder value.
func ParseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
