package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/sqlgraph/internal/cli/ui"
	"github.com/conduit-lang/sqlgraph/internal/orm/query"
)

// relationsOutput is the JSON shape of the relations command
type relationsOutput struct {
	Tables []tableOutput `json:"tables"`
	Joins  []joinOutput  `json:"joins"`
	Scopes []scopeOutput `json:"scopes"`
}

type tableOutput struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

type scopeOutput struct {
	Name      string `json:"name"`
	Condition string `json:"condition"`
}

type joinOutput struct {
	Master    string `json:"master"`
	Detail    string `json:"detail"`
	Condition string `json:"condition"`
}

func newRelationsCommand(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "relations",
		Short: "List declared tables and registered joins",
		Long: `List the tables declared in the config and the master-detail joins
registered between them, in registration order.`,
		Example: `  # Show tables and joins
  sqlgraph relations

  # Output in JSON format for tooling
  sqlgraph relations --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(opts)
			if err != nil {
				return err
			}
			defer env.close()

			out, err := describeRelations(env)
			if err != nil {
				return err
			}

			switch format {
			case "json":
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(out)
			case "table":
				renderRelations(cmd, out, opts.noColor)
				return nil
			default:
				return fmt.Errorf("unknown format %q: use table or json", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")

	return cmd
}

func describeRelations(env *environment) (*relationsOutput, error) {
	out := &relationsOutput{
		Tables: make([]tableOutput, 0, env.registry.Count()),
		Joins:  make([]joinOutput, 0),
		Scopes: make([]scopeOutput, 0),
	}

	for _, name := range env.registry.List() {
		table, _ := env.registry.Get(name)
		out.Tables = append(out.Tables, tableOutput{Name: name, Columns: table.Columns()})
	}

	for _, join := range env.graph.Joins() {
		condition, _, err := query.SQL(join.Condition)
		if err != nil {
			return nil, fmt.Errorf("join %s -> %s: %w", join.Master.TableName(), join.Detail.TableName(), err)
		}
		out.Joins = append(out.Joins, joinOutput{
			Master:    join.Master.TableName(),
			Detail:    join.Detail.TableName(),
			Condition: condition,
		})
	}

	for _, name := range env.scopes.List() {
		preds := make([]query.Predicate, 0, len(env.scopeFilters[name]))
		for _, f := range env.scopeFilters[name] {
			preds = append(preds, query.Equal(f.column, f.value))
		}
		condition, _, err := query.SQL(query.And(preds...))
		if err != nil {
			return nil, fmt.Errorf("scope %s: %w", name, err)
		}
		out.Scopes = append(out.Scopes, scopeOutput{Name: name, Condition: condition})
	}

	return out, nil
}

// unjoined returns the declared tables that take part in no join
func unjoined(out *relationsOutput) []string {
	joined := make(map[string]bool)
	for _, j := range out.Joins {
		joined[j.Master] = true
		joined[j.Detail] = true
	}
	names := make([]string, 0)
	for _, t := range out.Tables {
		if !joined[t.Name] {
			names = append(names, t.Name)
		}
	}
	return names
}

func renderRelations(cmd *cobra.Command, out *relationsOutput, noColor bool) {
	w := cmd.OutOrStdout()
	heading := color.New(color.FgGreen, color.Bold)
	if noColor {
		heading.DisableColor()
	}

	if len(out.Tables) == 0 {
		ui.WriteError(cmd.ErrOrStderr(), ui.ErrorOptions{
			Level:        ui.ErrorLevelInfo,
			Problem:      "No tables are declared.",
			HelpCommands: []string{"Declare tables and joins in sqlgraph.yaml"},
			NoColor:      noColor,
		})
		return
	}

	if names := unjoined(out); len(names) > 0 {
		ui.WriteError(cmd.ErrOrStderr(), ui.ErrorOptions{
			Level:       ui.ErrorLevelWarning,
			Context:     "unjoined tables",
			Problem:     strings.Join(names, ", "),
			Consequence: "No join path leads to or from these tables.",
			NoColor:     noColor,
		})
		fmt.Fprintln(cmd.ErrOrStderr())
	}

	heading.Fprintf(w, "TABLES (%d)\n", len(out.Tables))
	tables := ui.NewTable(w, noColor, "TABLE", "COLUMNS")
	for _, t := range out.Tables {
		tables.AddRow(t.Name, strings.Join(t.Columns, ", "))
	}
	tables.Render()

	fmt.Fprintln(w)
	heading.Fprintf(w, "JOINS (%d)\n", len(out.Joins))
	joinTable := ui.NewTable(w, noColor, "MASTER", "DETAIL", "ON")
	for _, j := range out.Joins {
		joinTable.AddRow(j.Master, j.Detail, j.Condition)
	}
	joinTable.Render()

	if len(out.Scopes) > 0 {
		fmt.Fprintln(w)
		heading.Fprintf(w, "SCOPES (%d)\n", len(out.Scopes))
		scopeTable := ui.NewTable(w, noColor, "SCOPE", "WHERE")
		for _, sc := range out.Scopes {
			scopeTable.AddRow(sc.Name, sc.Condition)
		}
		scopeTable.Render()
	}
}
