// Command schema emits the JSON schema for the application config. It is run
// via go:generate in pkg/config to refresh the embedded schema.json.
package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/obaranov/birdfeed/pkg/config"
)

func main() {
	out := "schema.json"
	if len(os.Args) > 1 {
		out = os.Args[1]
	}

	schema, err := config.GenerateSchema()
	if err != nil {
		log.Fatalf("can't generate schema: %v", err)
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("can't marshal schema: %v", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(out, data, 0o600); err != nil { //nolint:gosec // schema file is not sensitive
		log.Fatalf("can't write %s: %v", out, err)
	}
	log.Printf("schema written to %s", out)
}
