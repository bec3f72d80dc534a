package instantdb

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// EntrySchema returns the JSON Schema of a list of entries, the dataset
// format accepted by Database.Import.
func EntrySchema() ([]byte, error) {
	r := jsonschema.Reflector{Anonymous: true, DoNotReference: true}
	s := r.Reflect([]Entry{})
	s.Title = "instantdb entries"
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}
