package commands

import (
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/rmmkit/ninja/pkg/ninja"
	"github.com/spf13/cobra"
)

// NewQueriesCommand creates the queries command group.
func NewQueriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "queries",
		Aliases: []string{"query"},
		Short:   "Run reporting queries",
		Long:    "Run cursor-paginated reporting queries across devices",
	}

	cmd.AddCommand(newQueriesWindowsServicesCommand())
	cmd.AddCommand(newQueriesCustomFieldsCommand())
	cmd.AddCommand(newQueriesOSPatchesCommand())

	return cmd
}

func newQueriesWindowsServicesCommand() *cobra.Command {
	var (
		deviceFilter string
		name         string
		state        string
	)

	cmd := &cobra.Command{
		Use:   "windows-services",
		Short: "Query windows services",
		Long:  "Report windows services across devices, optionally filtered by name and state",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			filter := &ninja.WindowsServicesFilter{
				DeviceFilter: deviceFilter,
				Name:         name,
				State:        state,
			}

			rows, err := client.Queries().WindowsServices(cmd.Context(), filter, pageOptions())
			if err != nil {
				return fmt.Errorf("failed to query windows services: %w", err)
			}

			return outputQueryRows(rows)
		},
	}

	cmd.Flags().StringVar(&deviceFilter, "device-filter", "", "device filter expression (df)")
	cmd.Flags().StringVar(&name, "name", "", "filter by service name")
	cmd.Flags().StringVar(&state, "state", "", "filter by service state, e.g. RUNNING")

	return cmd
}

func newQueriesCustomFieldsCommand() *cobra.Command {
	var deviceFilter string

	cmd := &cobra.Command{
		Use:   "custom-fields",
		Short: "Query custom fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			rows, err := client.Queries().CustomFields(cmd.Context(), deviceFilter, pageOptions())
			if err != nil {
				return fmt.Errorf("failed to query custom fields: %w", err)
			}

			return outputQueryRows(rows)
		},
	}

	cmd.Flags().StringVar(&deviceFilter, "device-filter", "", "device filter expression (df)")

	return cmd
}

func newQueriesOSPatchesCommand() *cobra.Command {
	var deviceFilter string

	cmd := &cobra.Command{
		Use:   "os-patches",
		Short: "Query OS patches",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			rows, err := client.Queries().OSPatches(cmd.Context(), deviceFilter, pageOptions())
			if err != nil {
				return fmt.Errorf("failed to query OS patches: %w", err)
			}

			return outputQueryRows(rows)
		},
	}

	cmd.Flags().StringVar(&deviceFilter, "device-filter", "", "device filter expression (df)")

	return cmd
}

// outputQueryRows renders loosely typed query rows. Table columns are the
// union of keys across rows, sorted for stable output.
func outputQueryRows(rows []ninja.QueryRow) error {
	if handled, err := renderStructured(rows); handled {
		return err
	}

	if len(rows) == 0 {
		_, _ = os.Stdout.WriteString("No results found\n")

		return nil
	}

	columnSet := make(map[string]struct{})
	for _, row := range rows {
		for key := range row {
			columnSet[key] = struct{}{}
		}
	}

	columns := make([]string, 0, len(columnSet))
	for key := range columnSet {
		columns = append(columns, key)
	}

	sort.Strings(columns)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header(columns)

	for _, row := range rows {
		values := make([]string, len(columns))

		for i, column := range columns {
			if value, ok := row[column]; ok {
				values[i] = fmt.Sprintf("%v", value)
			}
		}

		_ = table.Append(values)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
