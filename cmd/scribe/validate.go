package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"inkwell-hq/scribe/pkg/cli"
	"inkwell-hq/scribe/pkg/config"
)

var validateFlags struct {
	format string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load the configuration file, apply defaults and environment variable
overrides, and check every section against its validation rules.

The command exits non-zero when the configuration is invalid, so it can
gate deployments:

Examples:
  # Validate the default config file
  scribe validate

  # Validate a specific file
  scribe validate --config /etc/scribe/config.yaml

  # Machine-readable report
  scribe validate --format json`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json")
}

type validationReport struct {
	File   string   `json:"file"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

func validateConfig(cmd *cobra.Command, args []string) error {
	report := validationReport{File: cfgFile, Valid: true}

	if _, err := config.LoadConfigWithEnvOverrides(cfgFile); err != nil {
		report.Valid = false

		var vErr config.ValidationError
		if errors.As(err, &vErr) {
			for _, fieldErr := range vErr.Errors {
				report.Errors = append(report.Errors, fieldErr.Error())
			}
		} else {
			report.Errors = append(report.Errors, err.Error())
		}
	}

	if validateFlags.format == "json" {
		if err := cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, report); err != nil {
			return err
		}
	} else if report.Valid {
		fmt.Printf("✓ Configuration valid: %s\n", cfgFile)
	} else {
		fmt.Printf("✗ Configuration invalid: %s\n", cfgFile)
		for _, msg := range report.Errors {
			fmt.Printf("  - %s\n", msg)
		}
	}

	if !report.Valid {
		return cli.NewCommandError("validate", fmt.Errorf("configuration invalid"))
	}
	return nil
}
