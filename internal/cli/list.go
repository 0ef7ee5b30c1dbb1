package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hemanthpathath/flexy-db/pkg/api"
)

var (
	listPageSize  int
	listPageToken string
)

// listCmd pages through control-plane resources.
var listCmd = &cobra.Command{
	Use:   "list [tenants|users]",
	Short: "List tenants or users",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paging := api.ListParams{PageSize: listPageSize, PageToken: listPageToken}
		switch args[0] {
		case "tenants":
			result, err := callMethod(api.MethodListTenants, api.ListTenantsParams{ListParams: paging})
			if err != nil {
				return err
			}
			if jsonOutput {
				printRawJSON(result)
				return nil
			}
			printTable("tenants", result, "tenants", []string{"id", "slug", "name", "status"})
		case "users":
			result, err := callMethod(api.MethodListUsers, api.ListUsersParams{ListParams: paging})
			if err != nil {
				return err
			}
			if jsonOutput {
				printRawJSON(result)
				return nil
			}
			printTable("users", result, "users", []string{"id", "email", "display_name"})
		default:
			return fmt.Errorf("unknown resource type %q (expected tenants or users)", args[0])
		}
		return nil
	},
}

func init() {
	listCmd.Flags().IntVar(&listPageSize, "page-size", 0, "Number of results per page")
	listCmd.Flags().StringVar(&listPageToken, "page-token", "", "Token returned by a previous page")
}
