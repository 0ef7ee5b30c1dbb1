package cli

import (
	"github.com/spf13/cobra"

	"github.com/hemanthpathath/flexy-db/pkg/api"
)

// tenantCmd groups membership operations on one tenant.
var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Manage tenant memberships",
}

var memberRole string

var tenantAddUserCmd = &cobra.Command{
	Use:   "add-user <tenant-id> <user-id>",
	Short: "Add a user to a tenant",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := callMethod(api.MethodAddUserToTenant, api.AddUserToTenantParams{
			TenantID: args[0],
			UserID:   args[1],
			Role:     memberRole,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			printRawJSON(result)
			return nil
		}
		printFields(result, "tenant_user", tenantUserColumns)
		return nil
	},
}

var tenantRemoveUserCmd = &cobra.Command{
	Use:   "remove-user <tenant-id> <user-id>",
	Short: "Remove a user from a tenant",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := callMethod(api.MethodRemoveUserFromTenant, api.RemoveUserFromTenantParams{
			TenantID: args[0],
			UserID:   args[1],
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			printRawJSON(result)
			return nil
		}
		cmd.Printf("user %s removed from tenant %s\n", args[1], args[0])
		return nil
	},
}

var tenantUsersCmd = &cobra.Command{
	Use:   "users <tenant-id>",
	Short: "List the users of a tenant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := callMethod(api.MethodListTenantUsers, api.ListTenantUsersParams{
			TenantID:   args[0],
			ListParams: api.ListParams{PageSize: listPageSize, PageToken: listPageToken},
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			printRawJSON(result)
			return nil
		}
		printTable("tenant users", result, "tenant_users", []string{"user_id", "role", "status"})
		return nil
	},
}

func init() {
	tenantAddUserCmd.Flags().StringVar(&memberRole, "role", "", "Membership role (defaults to member)")
	tenantUsersCmd.Flags().IntVar(&listPageSize, "page-size", 0, "Number of results per page")
	tenantUsersCmd.Flags().StringVar(&listPageToken, "page-token", "", "Token returned by a previous page")

	tenantCmd.AddCommand(tenantAddUserCmd)
	tenantCmd.AddCommand(tenantRemoveUserCmd)
	tenantCmd.AddCommand(tenantUsersCmd)
}
