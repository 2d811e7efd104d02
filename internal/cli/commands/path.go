package commands

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/sqlgraph/internal/cli/ui"
	"github.com/conduit-lang/sqlgraph/internal/orm/joins"
	"github.com/conduit-lang/sqlgraph/internal/orm/query"
	"github.com/conduit-lang/sqlgraph/internal/orm/schema"
)

var errMissingEndpoints = errors.New("requires <source> and <target> tables (or --interactive)")

// askTable prompts for one of the declared tables. Tests replace it.
var askTable = func(message string, options []string) (string, error) {
	var answer string
	prompt := &survey.Select{
		Message: message,
		Options: options,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return "", err
	}
	return answer, nil
}

func newPathCommand(opts *rootOptions) *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "path <source> <target>",
		Short: "Show the shortest join path between two tables",
		Long: `Show the shortest chain of master-detail joins leading from the source
table to the target table. When several chains are equally short the one
using earlier-registered joins wins.`,
		Example: `  # Resolve a path
  sqlgraph path order_detail category

  # Pick the tables from a list
  sqlgraph path --interactive`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(opts)
			if err != nil {
				return err
			}
			defer env.close()

			source, target, err := endpoints(env, args, interactive)
			if err != nil {
				return err
			}

			path, err := env.graph.JoinPath(source, target)
			if err != nil {
				return err
			}

			renderPath(cmd, source, path, opts.noColor)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Prompt for missing tables")

	return cmd
}

// endpoints resolves the source and target tables from args, prompting for
// missing ones in interactive mode
func endpoints(env *environment, args []string, interactive bool) (*schema.Table, *schema.Table, error) {
	names := append([]string(nil), args...)
	if len(names) < 2 && !interactive {
		return nil, nil, errMissingEndpoints
	}

	prompts := []string{"Source table:", "Target table:"}
	for len(names) < 2 {
		answer, err := askTable(prompts[len(names)], env.registry.List())
		if err != nil {
			return nil, nil, err
		}
		names = append(names, answer)
	}

	source, err := env.table(names[0])
	if err != nil {
		return nil, nil, err
	}
	target, err := env.table(names[1])
	if err != nil {
		return nil, nil, err
	}
	return source, target, nil
}

func renderPath(cmd *cobra.Command, source *schema.Table, path joins.Path, noColor bool) {
	w := cmd.OutOrStdout()
	if path.Len() == 0 {
		fmt.Fprintln(w, ui.FormatSuccess(source.TableName()+" (no joins needed)", noColor))
		return
	}

	fmt.Fprintln(w, ui.FormatSuccess(path.String(), noColor))
	fmt.Fprintln(w)

	hops := ui.NewTable(w, noColor, "#", "MASTER", "DETAIL", "ON")
	for i, join := range path {
		condition, _, err := query.SQL(join.Condition)
		if err != nil {
			condition = err.Error()
		}
		hops.AddRow(fmt.Sprint(i+1), join.Master.TableName(), join.Detail.TableName(), condition)
	}
	hops.Render()
}
