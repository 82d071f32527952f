package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/josephjohncox/driftline/internal/ddl"
	"github.com/josephjohncox/driftline/internal/flow"
	"github.com/josephjohncox/driftline/pkg/catalog"
	"github.com/josephjohncox/driftline/pkg/drift"
)

const cliVersion = "0.0.0-dev"

func main() {
	if err := run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	command := newAdminCommand(afero.NewOsFs())
	parsedArgs := []string{}
	if len(args) > 1 {
		parsedArgs = args[1:]
	}
	command.SetArgs(parsedArgs)
	return command.Execute()
}

func newAdminCommand(fs afero.Fs) *cobra.Command {
	command := &cobra.Command{
		Use:          "driftline-admin",
		Short:        "Driftline admin CLI",
		Version:      cliVersion,
		SilenceUsage: true,
	}

	command.PersistentFlags().String("config", "", "path to driftline-admin config file")
	command.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return initAdminConfig(cmd)
	}

	command.AddCommand(newApplyCommand(fs))
	command.AddCommand(newRenderCommand(fs))
	command.AddCommand(newCheckCommand(fs))
	return command
}

func initAdminConfig(cmd *cobra.Command) error {
	viper.Reset()
	viper.SetEnvPrefix("DRIFTLINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return fmt.Errorf("read config flag: %w", err)
	}
	if configPath != "" {
		viper.SetConfigFile(configPath)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("read admin config: %w", err)
		}
	}
	return viper.BindPFlags(cmd.Flags())
}

func newApplyCommand(fs afero.Fs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "apply a drift event file to a schema file and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schemaPath := viper.GetString("schema")
			eventsPath := viper.GetString("events")
			if schemaPath == "" || eventsPath == "" {
				return fmt.Errorf("apply requires --schema and --events")
			}

			schema, err := loadSchema(fs, schemaPath)
			if err != nil {
				return err
			}
			events, err := loadEvents(fs, eventsPath)
			if err != nil {
				return err
			}

			handler := drift.NewHandler(schema)
			var combined drift.Effects
			for _, event := range events {
				next, effects, err := handler.Apply(event)
				if err != nil {
					return err
				}
				combined.TypeChanged = combined.TypeChanged || effects.TypeChanged
				if effects.TableRenamed != "" {
					combined.TableRenamed = effects.TableRenamed
				}
				handler.Reset(next)
			}

			printSchema(cmd, handler.Schema(), combined)
			return nil
		},
	}
	cmd.Flags().String("schema", "", "path to a table schema YAML file")
	cmd.Flags().String("events", "", "path to a drift events YAML file")
	return cmd
}

func newRenderCommand(fs afero.Fs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "render drift events as DDL for a target dialect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eventsPath := viper.GetString("events")
			if eventsPath == "" {
				return fmt.Errorf("render requires --events")
			}

			events, err := loadEvents(fs, eventsPath)
			if err != nil {
				return err
			}

			dialect := ddl.DialectConfigFor(ddl.Dialect(viper.GetString("dialect")))
			overrides, err := ddl.LoadTypeMappings(map[string]string{
				"type_mappings":      viper.GetString("type-mappings"),
				"type_mappings_file": viper.GetString("type-mappings-file"),
			})
			if err != nil {
				return err
			}
			dialect = dialect.WithOverrides(overrides)

			for _, event := range events {
				statements, err := ddl.Render(event, dialect)
				if err != nil {
					return err
				}
				for _, statement := range statements {
					fmt.Fprintln(cmd.OutOrStdout(), statement+";")
				}
			}
			return nil
		},
	}
	cmd.Flags().String("events", "", "path to a drift events YAML file")
	cmd.Flags().String("dialect", string(ddl.DialectPostgres), "target dialect (postgres, clickhouse, duckdb, snowflake)")
	cmd.Flags().String("type-mappings", "", "inline JSON type mapping overrides")
	cmd.Flags().String("type-mappings-file", "", "path to a JSON or YAML type mapping file")
	return cmd
}

func newCheckCommand(fs afero.Fs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "validate a pipeline definition file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipelinePath := viper.GetString("pipeline")
			if pipelinePath == "" {
				return fmt.Errorf("check requires --pipeline")
			}
			def, err := flow.Load(fs, pipelinePath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pipeline %q ok\n", def.Name)
			return nil
		},
	}
	cmd.Flags().String("pipeline", "", "path to a pipeline definition YAML file")
	return cmd
}

func loadSchema(fs afero.Fs, path string) (catalog.TableSchema, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return catalog.TableSchema{}, fmt.Errorf("read schema file: %w", err)
	}
	var schema catalog.TableSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return catalog.TableSchema{}, fmt.Errorf("parse schema file %s: %w", path, err)
	}
	return schema, nil
}

// loadEvents reads a YAML list of kind-tagged event envelopes. Each entry is
// re-marshaled to JSON and decoded through the drift codec so the CLI and the
// registry share one wire format.
func loadEvents(fs afero.Fs, path string) ([]drift.Event, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read events file: %w", err)
	}

	var raw []map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse events file %s: %w", path, err)
	}

	events := make([]drift.Event, 0, len(raw))
	for i, entry := range raw {
		payload, err := json.Marshal(entry)
		if err != nil {
			return nil, fmt.Errorf("encode event %d: %w", i, err)
		}
		event, err := drift.Decode(payload)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		events = append(events, event)
	}
	return events, nil
}

func printSchema(cmd *cobra.Command, schema catalog.TableSchema, effects drift.Effects) {
	writer := table.NewWriter()
	writer.SetOutputMirror(cmd.OutOrStdout())
	writer.AppendHeader(table.Row{"#", "Column", "Type", "Source Type", "Nullable"})
	for i, col := range schema.Columns {
		writer.AppendRow(table.Row{i, col.Name, col.Type.String(), col.SourceType, col.Nullable})
	}
	writer.Render()

	if effects.TypeChanged {
		fmt.Fprintln(cmd.OutOrStdout(), "type changed: downstream rebuild may be required")
	}
	if effects.TableRenamed != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "table renamed to %q\n", effects.TableRenamed)
	}
}
