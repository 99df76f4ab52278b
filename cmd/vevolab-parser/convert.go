// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/vevolab-parser/internal/convert"
	"github.com/pdiddy/vevolab-parser/internal/export"
	"github.com/pdiddy/vevolab-parser/internal/store"
)

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	for _, input := range args {
		info, err := os.Stat(input)
		if err != nil || !info.Mode().IsRegular() {
			return fmt.Errorf("%q does not exist or is not a regular file", input)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var importer convert.Importer
	if cfg.SQLitePath != "" {
		st, err := store.Open(cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer st.Close()
		importer = st
	}

	w := cmd.ErrOrStderr()
	for _, input := range args {
		fmt.Fprintf(w, "Parsing file: %s\n", input)
	}

	result := convert.New(cfg, importer).ConvertBatch(ctx, args, w)

	if cfg.ReportPath != "" {
		if err := export.WriteReport(cfg.ReportPath, result.Report()); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Fprintf(w, "Report written to %s\n", cfg.ReportPath)
	}

	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	if cfg.Strict && result.HasWarnings() {
		return fmt.Errorf("%d file(s) had skipped rows (--strict)", result.Partial)
	}
	return nil
}
