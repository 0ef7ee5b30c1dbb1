package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

// statusCmd probes the server's health endpoint.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status",
	Long: `Show server status. Probes the server's health endpoint and reports
whether the server and its control database are reachable.

Examples:
  # Get server status
  flexy status

  # Get server status in JSON format
  flexy status -j`,
	RunE: getStatus,
}

func getStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	body, err := newClient().Health(ctx, GetConfig().Server+"/health")
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}

	if jsonOutput {
		printRawJSON([]byte(body))
		return nil
	}
	cmd.Printf("server: %s\n", GetConfig().Server)
	cmd.Printf("status: %s\n", gjson.Get(body, "status").String())
	cmd.Printf("database: %s\n", gjson.Get(body, "database").String())
	return nil
}
