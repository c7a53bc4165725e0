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

// NewDevicesCommand creates the devices command group.
func NewDevicesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "devices",
		Aliases: []string{"device", "dev"},
		Short:   "Manage devices",
		Long:    "List, inspect, and search NinjaRMM devices",
	}

	cmd.AddCommand(newDevicesListCommand())
	cmd.AddCommand(newDevicesGetCommand())
	cmd.AddCommand(newDevicesSearchCommand())

	return cmd
}

func newDevicesListCommand() *cobra.Command {
	var (
		orgFilter    string
		deviceFilter string
		expand       string
		backupUsage  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List devices",
		Long:  "List every device matching the filters, following pagination transparently",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			filter := &ninja.DeviceFilter{
				OrgFilter:          orgFilter,
				DeviceFilter:       deviceFilter,
				Expand:             expand,
				IncludeBackupUsage: backupUsage,
			}

			devices, err := client.Devices().ListAll(cmd.Context(), filter, pageOptions())
			if err != nil {
				return fmt.Errorf("failed to list devices: %w", err)
			}

			return outputDevices(devices)
		},
	}

	cmd.Flags().StringVar(&orgFilter, "org-filter", "", "organization filter expression (of)")
	cmd.Flags().StringVar(&deviceFilter, "device-filter", "", "device filter expression (df)")
	cmd.Flags().StringVar(&expand, "expand", "", "related resources to inline, e.g. organization")
	cmd.Flags().BoolVar(&backupUsage, "backup-usage", false, "include backup usage data")

	return cmd
}

func outputDevices(devices []ninja.Device) error {
	if handled, err := renderStructured(devices); handled {
		return err
	}

	if len(devices) == 0 {
		_, _ = os.Stdout.WriteString("No devices found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "Org", "Class", "Status", "Last Contact")

	for _, device := range devices {
		status := "online"
		if device.Offline {
			status = "offline"
		}

		name := device.SystemName
		if device.DisplayName != "" {
			name = device.DisplayName
		}

		_ = table.Append(
			strconv.Itoa(device.ID),
			truncateString(name, constants.StringTruncationLength),
			strconv.Itoa(device.OrganizationID),
			device.NodeClass,
			status,
			formatEpoch(device.LastContact),
		)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func newDevicesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get DEVICE_ID",
		Short: "Get device details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deviceID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: %s", ErrDeviceIDArg, args[0])
			}

			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			device, err := client.Devices().Get(cmd.Context(), deviceID)
			if err != nil {
				return fmt.Errorf("failed to get device: %w", err)
			}

			return outputDeviceDetails(device)
		},
	}
}

func outputDeviceDetails(device *ninja.Device) error {
	if handled, err := renderStructured(device); handled {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")
	_ = table.Append("ID", strconv.Itoa(device.ID))
	_ = table.Append("System Name", defaultString(device.SystemName, constants.NotAvailable))
	_ = table.Append("Display Name", defaultString(device.DisplayName, constants.NotAvailable))
	_ = table.Append("DNS Name", defaultString(device.DNSName, constants.NotAvailable))
	_ = table.Append("Organization", strconv.Itoa(device.OrganizationID))
	_ = table.Append("Node Class", defaultString(device.NodeClass, constants.NotAvailable))
	_ = table.Append("Offline", formatBool(device.Offline))
	_ = table.Append("Approved", formatBool(device.Approved))
	_ = table.Append("Created", formatEpoch(device.Created))
	_ = table.Append("Last Contact", formatEpoch(device.LastContact))

	if device.OS != nil {
		_ = table.Append("OS", device.OS.Name)
		_ = table.Append("OS Architecture", device.OS.Architecture)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func newDevicesSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search devices",
		Long:  "Search devices by free text, following cursor pagination transparently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" {
				return constants.ErrSearchQueryRequired
			}

			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			devices, err := client.Devices().SearchAll(cmd.Context(), args[0], pageOptions())
			if err != nil {
				return fmt.Errorf("failed to search devices: %w", err)
			}

			return outputDevices(devices)
		},
	}

	return cmd
}
