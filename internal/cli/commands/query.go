package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/sqlgraph/internal/orm/joins"
	"github.com/conduit-lang/sqlgraph/internal/orm/schema"
)

// errTableNotOnPath is returned when a selected or filtered column belongs to
// a table the composed query does not join
var errTableNotOnPath = errors.New("table is not on the join path")

type queryOptions struct {
	selects     []string
	wheres      []string
	scopes      []string
	limit       int
	offset      int
	interactive bool
}

func (qo *queryOptions) validate() error {
	if qo.limit < -1 {
		return fmt.Errorf("invalid --limit %d: must be -1 (no limit) or greater", qo.limit)
	}
	if qo.offset < 0 {
		return fmt.Errorf("invalid --offset %d: must not be negative", qo.offset)
	}
	return nil
}

func newQueryCommand(opts *rootOptions) *cobra.Command {
	qo := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "query <source> <target>",
		Short: "Render the inner-join query that follows the join path",
		Long: `Render the SELECT statement that starts at the source table and inner-joins
every table on the shortest join path to the target.

Columns are selected with --select table.column or table.column:alias.
Without --select every column is selected. Each --where table.column=value
adds an equality filter bound as a parameter, and each --scope applies a
named set of filters from the config. Selected and filtered columns must
belong to a table on the join path.`,
		Example: `  # Join order lines to their product category
  sqlgraph query order_detail category \
    --select order_detail.id:orderDetailId --select category.id:categoryId

  # Filter on a joined table
  sqlgraph query order_detail category --where category.name=Books

  # Apply a scope declared in sqlgraph.yaml
  sqlgraph query order_detail category --scope books

  # Limit the result set
  sqlgraph query order_detail category --limit 10`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := qo.validate(); err != nil {
				return err
			}

			env, err := loadEnvironment(opts)
			if err != nil {
				return err
			}
			defer env.close()

			source, target, err := endpoints(env, args, qo.interactive)
			if err != nil {
				return err
			}

			selections, err := parseSelections(env, qo.selects)
			if err != nil {
				return err
			}

			filters, err := env.filters(qo.wheres)
			if err != nil {
				return err
			}

			var scoped []filter
			for _, name := range qo.scopes {
				if !env.scopes.Has(name) {
					return fmt.Errorf("unknown scope %q (declared: %s)", name, strings.Join(env.scopes.List(), ", "))
				}
				scoped = append(scoped, env.scopeFilters[name]...)
			}

			path, qb, err := joins.Resolve(env.graph, env.mapper, source, target)
			if err != nil {
				return err
			}

			onPath := pathTables(source, path)
			for _, sel := range selections {
				if err := checkOnPath(sel.Column, onPath, path); err != nil {
					return err
				}
			}
			for _, f := range append(filters, scoped...) {
				if err := checkOnPath(f.column, onPath, path); err != nil {
					return err
				}
			}

			qb.Select(selections...)
			for _, f := range filters {
				qb.Scopes(f.scope())
			}
			env.scopes.Apply(qb, qo.scopes...)
			if qo.limit >= 0 {
				qb.Limit(qo.limit)
			}
			if qo.offset > 0 {
				qb.Offset(qo.offset)
			}

			sql, queryArgs, err := qb.ToSQL()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, sql)
			if len(queryArgs) > 0 {
				fmt.Fprintf(w, "-- args: %v\n", queryArgs)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&qo.selects, "select", "s", nil, "Column to select as table.column[:alias] (repeatable)")
	cmd.Flags().StringArrayVarP(&qo.wheres, "where", "w", nil, "Equality filter as table.column=value (repeatable)")
	cmd.Flags().StringArrayVar(&qo.scopes, "scope", nil, "Named scope from the config (repeatable)")
	cmd.Flags().IntVar(&qo.limit, "limit", -1, "Maximum number of rows (-1 for no limit)")
	cmd.Flags().IntVar(&qo.offset, "offset", 0, "Number of rows to skip")
	cmd.Flags().BoolVarP(&qo.interactive, "interactive", "i", false, "Prompt for missing tables")

	return cmd
}

// parseSelections resolves table.column[:alias] flags against the registry
func parseSelections(env *environment, refs []string) ([]schema.Selection, error) {
	selections := make([]schema.Selection, 0, len(refs))
	for _, ref := range refs {
		colRef, alias, _ := strings.Cut(ref, ":")
		col, err := env.column(colRef)
		if err != nil {
			return nil, err
		}
		selections = append(selections, col.As(alias))
	}
	return selections, nil
}

// pathTables returns the names of the tables a composed query reads from
func pathTables(source *schema.Table, path joins.Path) map[string]bool {
	tables := map[string]bool{source.TableName(): true}
	for _, name := range path.Tables() {
		tables[name] = true
	}
	return tables
}

func checkOnPath(col schema.Column, onPath map[string]bool, path joins.Path) error {
	name := col.Table.TableName()
	if onPath[name] {
		return nil
	}
	route := path.String()
	if route == "" {
		route = "(no joins)"
	}
	return fmt.Errorf("column %s: %w: %q is not joined by %s", col.Qualified(), errTableNotOnPath, name, route)
}
