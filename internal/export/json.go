package export

import (
	"encoding/json"
	"fmt"
	"io"
)

// ToJSON writes the document as indented json
func ToJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
