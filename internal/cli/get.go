package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hemanthpathath/flexy-db/pkg/api"
)

var tenantColumns = []string{"id", "slug", "name", "status", "created_at", "updated_at"}
var userColumns = []string{"id", "email", "display_name", "created_at", "updated_at"}
var tenantUserColumns = []string{"tenant_id", "user_id", "role", "status", "created_at"}

// getCmd fetches a single control-plane resource by ID.
var getCmd = &cobra.Command{
	Use:   "get [tenant|user] <id>",
	Short: "Get a tenant or user by ID",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "tenant":
			result, err := callMethod(api.MethodGetTenant, api.GetTenantParams{TenantID: args[1]})
			if err != nil {
				return err
			}
			if jsonOutput {
				printRawJSON(result)
				return nil
			}
			printFields(result, "tenant", tenantColumns)
		case "user":
			result, err := callMethod(api.MethodGetUser, api.GetUserParams{UserID: args[1]})
			if err != nil {
				return err
			}
			if jsonOutput {
				printRawJSON(result)
				return nil
			}
			printFields(result, "user", userColumns)
		default:
			return fmt.Errorf("unknown resource type %q (expected tenant or user)", args[0])
		}
		return nil
	},
}
