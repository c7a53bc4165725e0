package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/rmmkit/ninja/internal/constants"
	"github.com/rmmkit/ninja/pkg/ninja"
	"github.com/spf13/cobra"
)

// NewOrgsCommand creates the organizations command group.
func NewOrgsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orgs",
		Aliases: []string{"organizations", "org"},
		Short:   "Manage organizations",
		Long:    "List, create, update, and delete NinjaRMM organizations",
	}

	cmd.AddCommand(newOrgsListCommand())
	cmd.AddCommand(newOrgsGetCommand())
	cmd.AddCommand(newOrgsCreateCommand())
	cmd.AddCommand(newOrgsUpdateCommand())
	cmd.AddCommand(newOrgsDeleteCommand())

	return cmd
}

func newOrgsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List organizations",
		Long:  "List every organization, following pagination transparently",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			orgs, err := client.Organizations().ListAll(cmd.Context(), pageOptions())
			if err != nil {
				return fmt.Errorf("failed to list organizations: %w", err)
			}

			return outputOrganizations(orgs)
		},
	}
}

func outputOrganizations(orgs []ninja.Organization) error {
	if handled, err := renderStructured(orgs); handled {
		return err
	}

	if len(orgs) == 0 {
		_, _ = os.Stdout.WriteString("No organizations found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "Description", "Tags")

	for _, org := range orgs {
		_ = table.Append(
			strconv.Itoa(org.ID),
			org.Name,
			truncateString(org.Description, constants.StringTruncationLength),
			strings.Join(org.Tags, ", "),
		)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func newOrgsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ORG_ID",
		Short: "Get organization details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: %s", ErrOrganizationIDArg, args[0])
			}

			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			org, err := client.Organizations().Get(cmd.Context(), orgID)
			if err != nil {
				return fmt.Errorf("failed to get organization: %w", err)
			}

			return outputOrganizationDetails(org)
		},
	}
}

func outputOrganizationDetails(org *ninja.Organization) error {
	if handled, err := renderStructured(org); handled {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")
	_ = table.Append("ID", strconv.Itoa(org.ID))
	_ = table.Append("Name", org.Name)
	_ = table.Append("Description", defaultString(org.Description, constants.NotAvailable))
	_ = table.Append("Approval Mode", defaultString(org.NodeApprovalMode, constants.NotAvailable))
	_ = table.Append("Tags", defaultString(strings.Join(org.Tags, ", "), constants.NotAvailable))

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func newOrgsCreateCommand() *cobra.Command {
	var (
		description  string
		approvalMode string
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			org, err := client.Organizations().Create(cmd.Context(), &ninja.OrganizationCreateRequest{
				Name:             args[0],
				Description:      description,
				NodeApprovalMode: approvalMode,
			})
			if err != nil {
				return fmt.Errorf("failed to create organization: %w", err)
			}

			fmt.Printf("Created organization '%s' with ID %d\n", org.Name, org.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "organization description")
	cmd.Flags().StringVar(&approvalMode, "approval-mode", "", "node approval mode (AUTOMATIC, MANUAL, REJECT)")

	return cmd
}

func newOrgsUpdateCommand() *cobra.Command {
	var (
		name        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "update ORG_ID",
		Short: "Update an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: %s", ErrOrganizationIDArg, args[0])
			}

			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			org, err := client.Organizations().Update(cmd.Context(), orgID, &ninja.OrganizationUpdateRequest{
				Name:        name,
				Description: description,
			})
			if err != nil {
				return fmt.Errorf("failed to update organization: %w", err)
			}

			fmt.Printf("Updated organization '%s'\n", org.Name)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new organization name")
	cmd.Flags().StringVar(&description, "description", "", "new organization description")

	return cmd
}

func newOrgsDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete ORG_ID",
		Short: "Delete an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: %s", ErrOrganizationIDArg, args[0])
			}

			if !force {
				fmt.Printf("Really delete organization %d? (y/N): ", orgID)

				var response string

				_, _ = fmt.Scanln(&response)

				if response != "y" && response != "Y" {
					fmt.Println("Cancelled")

					return nil
				}
			}

			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			err = client.Organizations().Delete(cmd.Context(), orgID)
			if err != nil {
				return fmt.Errorf("failed to delete organization: %w", err)
			}

			fmt.Printf("Deleted organization %d\n", orgID)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}
