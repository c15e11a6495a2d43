package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON dumps a geometry descriptor as JSON for inspection or
// visualization tooling.
func WriteDebugJSON(g Geometry, path string) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
