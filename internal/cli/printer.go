package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/tidwall/gjson"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// printJSON prints the given value as indented JSON to stdout
func printJSON(data any) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(jsonData))
}

// printRawJSON pretty-prints an already-encoded JSON document
func printRawJSON(raw json.RawMessage) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		fmt.Println(string(raw))
		return
	}
	printJSON(v)
}

// printTable renders the rows under key in result as an aligned table.
// columns are JSON field names; headers are derived from them.
func printTable(resource string, result json.RawMessage, key string, columns []string) {
	fmt.Printf("%s:\n", cases.Title(language.English).String(resource))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = strings.ToUpper(strings.ReplaceAll(c, "_", " "))
	}
	fmt.Fprintln(w, strings.Join(headers, "\t"))

	rows := gjson.GetBytes(result, key)
	rows.ForEach(func(_, row gjson.Result) bool {
		vals := make([]string, len(columns))
		for i, c := range columns {
			vals[i] = row.Get(c).String()
		}
		fmt.Fprintln(w, strings.Join(vals, "\t"))
		return true
	})
	w.Flush()

	if next := gjson.GetBytes(result, "pagination.next_page_token").String(); next != "" {
		fmt.Printf("\nMore results available. Next page token: %s\n", next)
	}
}

// printFields renders one resource as "name: value" lines.
func printFields(result json.RawMessage, key string, columns []string) {
	obj := gjson.GetBytes(result, key)
	for _, c := range columns {
		fmt.Printf("%s: %s\n", c, obj.Get(c).String())
	}
}
