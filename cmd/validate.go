package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hume-connect/intake/normalize"
	"github.com/hume-connect/intake/schema"
	"github.com/hume-connect/intake/validate"
)

var (
	validateInput     string
	validateFormsDir  string
	validateNormalize bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <application-type>",
	Short: "Validate a submission file without serving",
	Long: `Validate checks a JSON submission against a form configuration.

The submission is a flat JSON object mapping field IDs to values. The
form configuration is resolved from --forms when given, otherwise the
built-in baseline for the application type is used.

Input defaults to stdin.

Examples:
  intake validate clinical -i submission.json
  intake validate wholesale -i submission.json --forms ./forms
  cat submission.json | intake validate affiliate --normalize`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "Input file (default: stdin)")
	validateCmd.Flags().StringVar(&validateFormsDir, "forms", "", "YAML form configuration file or directory")
	validateCmd.Flags().BoolVar(&validateNormalize, "normalize", false, "Print the normalized submission when valid")
}

func runValidate(cmd *cobra.Command, args []string) (err error) {
	appType := schema.ApplicationType(args[0])
	if !appType.Valid() {
		return fmt.Errorf("unknown application type %q", args[0])
	}

	var input io.Reader
	if validateInput != "" {
		f, openErr := os.Open(validateInput)
		if openErr != nil {
			return fmt.Errorf("opening input file: %w", openErr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing input file: %w", cerr)
			}
		}()
		input = f
	} else {
		input = os.Stdin
	}

	form, err := resolveForm(appType)
	if err != nil {
		return err
	}

	var data map[string]any
	if err := json.NewDecoder(input).Decode(&data); err != nil {
		return fmt.Errorf("decoding submission: %w", err)
	}

	result := validate.Validate(data, form)

	for _, warning := range result.Warnings {
		fmt.Printf("warning: %s\n", warning)
	}
	if !result.IsValid() {
		for _, issue := range result.Errors {
			fmt.Printf("error: %s\n", issue)
		}
		return fmt.Errorf("%d validation error(s) against form %q", len(result.Errors), form.Name)
	}

	fmt.Printf("✓ Valid against form %q (version %s)\n", form.Name, form.Version)

	if validateNormalize {
		normalized := normalize.Normalize(data, form)
		out, err := json.MarshalIndent(normalized, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding normalized submission: %w", err)
		}
		fmt.Println(string(out))
	}
	return nil
}

// resolveForm picks the configuration for a type: from --forms when set,
// falling back to the embedded baseline.
func resolveForm(appType schema.ApplicationType) (*schema.FormConfiguration, error) {
	if validateFormsDir != "" {
		registry := schema.NewRegistry()
		if err := registry.LoadFromPath(validateFormsDir); err != nil {
			return nil, fmt.Errorf("loading form configurations: %w", err)
		}
		if form, ok := registry.Get(appType); ok {
			return form, nil
		}
	}
	return schema.DefaultForm(appType)
}
