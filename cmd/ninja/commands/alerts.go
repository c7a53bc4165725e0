package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/rmmkit/ninja/internal/constants"
	"github.com/rmmkit/ninja/pkg/ninja"
	"github.com/spf13/cobra"
)

// NewAlertsCommand creates the alerts command group.
func NewAlertsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "alerts",
		Aliases: []string{"alert"},
		Short:   "Manage alerts",
		Long:    "List and reset triggered alerts",
	}

	cmd.AddCommand(newAlertsListCommand())
	cmd.AddCommand(newAlertsResetCommand())

	return cmd
}

func newAlertsListCommand() *cobra.Command {
	var deviceFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List triggered alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			var params *ninja.QueryParams
			if deviceFilter != "" {
				params = ninja.NewQueryParams().WithDeviceFilter(deviceFilter)
			}

			alerts, err := client.Alerts().List(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to list alerts: %w", err)
			}

			return outputAlerts(alerts)
		},
	}

	cmd.Flags().StringVar(&deviceFilter, "device-filter", "", "device filter expression (df)")

	return cmd
}

func outputAlerts(alerts []ninja.Alert) error {
	if handled, err := renderStructured(alerts); handled {
		return err
	}

	if len(alerts) == 0 {
		_, _ = os.Stdout.WriteString("No alerts found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("UID", "Device", "Source", "Message", "Created")

	for _, alert := range alerts {
		_ = table.Append(
			alert.UID,
			strconv.Itoa(alert.DeviceID),
			defaultString(alert.SourceName, alert.SourceType),
			truncateString(alert.Message, constants.StringTruncationLength),
			formatEpoch(alert.CreateTime),
		)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func newAlertsResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset ALERT_UID",
		Short: "Reset a triggered alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			err = client.Alerts().Reset(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to reset alert: %w", err)
			}

			fmt.Printf("Reset alert %s\n", args[0])

			return nil
		},
	}
}
