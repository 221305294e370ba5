package config

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// VerifyAgainstEmbeddedSchema validates the config against the embedded JSON schema
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	if err := verifySections([]byte(embeddedSchema), cfg); err != nil {
		return err
	}
	if err := validateRequiredFields(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// verifySections checks that every serialized config section is declared by
// the schema, catching a schema left stale after a Config change
func verifySections(schemaData []byte, cfg *Config) error {
	var schema struct {
		Defs map[string]struct {
			Properties map[string]json.RawMessage `json:"properties"`
		} `json:"$defs"`
	}
	if err := json.Unmarshal(schemaData, &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}
	root, ok := schema.Defs["Config"]
	if !ok {
		return fmt.Errorf("embedded schema has no Config definition")
	}

	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var configMap map[string]json.RawMessage
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	for key := range configMap {
		if _, ok := root.Properties[key]; !ok {
			return fmt.Errorf("config section %q is not in the schema", key)
		}
	}
	return nil
}

// validateRequiredFields performs basic validation of required fields
func validateRequiredFields(cfg *Config) error {
	if cfg.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if cfg.Server.Timeout == 0 {
		return fmt.Errorf("server.timeout is required")
	}
	if cfg.Crawl.FeedsFile == "" {
		return fmt.Errorf("crawl.feeds_file is required")
	}
	if cfg.Scraper.Command == "" {
		return fmt.Errorf("scraper.command is required")
	}
	return nil
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() (*jsonschema.Schema, error) {
	return jsonschema.Reflect(&Config{}), nil
}
