package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/hemanthpathath/flexy-db/pkg/api"
)

// deleteCmd deletes a control-plane resource by ID. Deleting a tenant
// also tears down its database.
var deleteCmd = &cobra.Command{
	Use:   "delete [tenant|user] <id>",
	Short: "Delete a tenant or user by ID",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			result []byte
			err    error
		)
		switch args[0] {
		case "tenant":
			result, err = callMethod(api.MethodDeleteTenant, api.DeleteTenantParams{TenantID: args[1]})
		case "user":
			result, err = callMethod(api.MethodDeleteUser, api.DeleteUserParams{UserID: args[1]})
		default:
			return fmt.Errorf("unknown resource type %q (expected tenant or user)", args[0])
		}
		if err != nil {
			return err
		}
		if jsonOutput {
			printRawJSON(result)
			return nil
		}
		if gjson.GetBytes(result, "deleted").Bool() {
			cmd.Printf("%s %s deleted\n", args[0], args[1])
		}
		return nil
	},
}
