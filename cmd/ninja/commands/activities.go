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

// NewActivitiesCommand creates the activities command group.
func NewActivitiesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "activities",
		Aliases: []string{"activity"},
		Short:   "Browse the activity log",
		Long:    "List activity log entries, newest first",
	}

	cmd.AddCommand(newActivitiesListCommand())

	return cmd
}

func newActivitiesListCommand() *cobra.Command {
	var (
		deviceFilter string
		class        string
		activityType string
		status       string
		all          bool
		limit        int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List activities",
		Long:  "List activity log entries, optionally walking the full log backwards",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			filter := &ninja.ActivityFilter{
				DeviceFilter: deviceFilter,
				Class:        class,
				Type:         activityType,
				Status:       status,
			}

			if all {
				activities, err := client.Activities().ListAll(cmd.Context(), filter, pageOptions())
				if err != nil {
					return fmt.Errorf("failed to list activities: %w", err)
				}

				return outputActivities(activities)
			}

			// The iterator stops issuing requests once we stop asking, so
			// a limit never over-fetches more than one page.
			activities := make([]ninja.Activity, 0, limit)

			iterator := client.Activities().Iterate(cmd.Context(), filter, pageOptions())
			for iterator.HasNext() && len(activities) < limit {
				activity, err := iterator.Next()
				if err != nil {
					return fmt.Errorf("failed to list activities: %w", err)
				}

				activities = append(activities, activity)
			}

			return outputActivities(activities)
		},
	}

	cmd.Flags().StringVar(&deviceFilter, "device-filter", "", "device filter expression (df)")
	cmd.Flags().StringVar(&class, "class", "", "activity class, e.g. DEVICE")
	cmd.Flags().StringVar(&activityType, "type", "", "activity type")
	cmd.Flags().StringVar(&status, "status", "", "status code")
	cmd.Flags().BoolVar(&all, "all", false, "walk the entire activity log")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum entries to fetch when not using --all")

	return cmd
}

func outputActivities(activities []ninja.Activity) error {
	if handled, err := renderStructured(activities); handled {
		return err
	}

	if len(activities) == 0 {
		_, _ = os.Stdout.WriteString("No activities found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Time", "Device", "Type", "Status", "Message")

	for _, activity := range activities {
		_ = table.Append(
			strconv.Itoa(activity.ID),
			formatEpoch(activity.ActivityTime),
			strconv.Itoa(activity.DeviceID),
			activity.ActivityType,
			activity.StatusCode,
			truncateString(activity.Message, constants.StringTruncationLength),
		)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
