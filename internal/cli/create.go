package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/hemanthpathath/flexy-db/pkg/api"
)

var createFile string

// kindToMethod maps the YAML kind field to the create method for it.
var kindToMethod = map[string]string{
	"Tenant":       api.MethodCreateTenant,
	"User":         api.MethodCreateUser,
	"TenantUser":   api.MethodAddUserToTenant,
	"NodeType":     api.MethodCreateNodeType,
	"Node":         api.MethodCreateNode,
	"Relationship": api.MethodCreateRelationship,
}

// createCmd creates a resource from a YAML file. The file's kind selects
// the method; every other field is passed through as params.
var createCmd = &cobra.Command{
	Use:   "create -f <file>",
	Short: "Create a resource from a YAML file",
	Long: `Create a resource from a YAML file. The kind field selects the resource
type; the remaining fields become the request parameters.

Example file:
  kind: Tenant
  slug: acme
  name: Acme Corp`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if createFile == "" {
			return fmt.Errorf("a resource file is required (use -f)")
		}
		yamlDoc, err := os.ReadFile(createFile)
		if err != nil {
			return fmt.Errorf("unable to read %s: %w", createFile, err)
		}
		method, params, err := resourceToRequest(yamlDoc)
		if err != nil {
			return err
		}
		result, err := callMethod(method, params)
		if err != nil {
			return err
		}
		printRawJSON(result)
		return nil
	},
}

// resourceToRequest converts one YAML resource document into the method
// name and JSON params for it.
func resourceToRequest(yamlDoc []byte) (string, json.RawMessage, error) {
	jsonDoc, err := sigsyaml.YAMLToJSON(yamlDoc)
	if err != nil {
		return "", nil, fmt.Errorf("unable to parse resource file: %w", err)
	}
	kind := gjson.GetBytes(jsonDoc, "kind").String()
	if kind == "" {
		return "", nil, fmt.Errorf("resource file has no kind field")
	}
	method, ok := kindToMethod[kind]
	if !ok {
		return "", nil, fmt.Errorf("unknown resource kind %q", kind)
	}
	params, err := sjson.DeleteBytes(jsonDoc, "kind")
	if err != nil {
		return "", nil, err
	}
	return method, json.RawMessage(params), nil
}

func init() {
	createCmd.Flags().StringVarP(&createFile, "file", "f", "", "Path to the resource YAML file")
}
