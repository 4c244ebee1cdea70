package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hume-connect/intake/schema"
	"github.com/hume-connect/intake/store"
)

var (
	formsDB     string
	formsExport string
)

var formsCmd = &cobra.Command{
	Use:   "forms",
	Short: "List or export form configurations",
	Long: `Forms lists the stored form configurations, or the built-in
baselines when no database is given.

With --export, the configuration resolved for one application type is
written to stdout as YAML, suitable for editing and re-seeding.

Examples:
  intake forms
  intake forms --db intake.db
  intake forms --export clinical > clinical.yaml`,
	Args: cobra.NoArgs,
	RunE: runForms,
}

func init() {
	formsCmd.Flags().StringVar(&formsDB, "db", "", "SQLite database path (default: built-in baselines)")
	formsCmd.Flags().StringVar(&formsExport, "export", "", "Export the form for one application type as YAML")
}

func runForms(cmd *cobra.Command, args []string) error {
	forms, err := loadForms(cmd)
	if err != nil {
		return err
	}

	if formsExport != "" {
		return exportForm(forms, schema.ApplicationType(formsExport))
	}

	fmt.Printf("%-10s %-40s %-8s %-7s %-7s %s\n", "TYPE", "NAME", "VERSION", "ACTIVE", "DEFAULT", "FIELDS")
	for _, f := range forms {
		fmt.Printf("%-10s %-40s %-8s %-7t %-7t %d\n",
			f.ApplicationType, f.Name, f.Version, f.IsActive, f.IsDefault, len(f.Fields))
	}
	return nil
}

func loadForms(cmd *cobra.Command) ([]*schema.FormConfiguration, error) {
	if formsDB != "" {
		st, err := store.Open(formsDB)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		return st.List(cmd.Context())
	}

	var forms []*schema.FormConfiguration
	for _, t := range schema.ApplicationTypes() {
		f, err := schema.DefaultForm(t)
		if err != nil {
			return nil, err
		}
		forms = append(forms, f)
	}
	return forms, nil
}

func exportForm(forms []*schema.FormConfiguration, t schema.ApplicationType) error {
	if !t.Valid() {
		return fmt.Errorf("unknown application type %q", t)
	}

	for _, f := range forms {
		if f.ApplicationType != t || !f.IsActive {
			continue
		}
		config := schema.Config{Version: "1", Forms: []schema.FormConfiguration{*f}}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(config); err != nil {
			return fmt.Errorf("encoding form configuration: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("no active form configuration for type %q", t)
}
