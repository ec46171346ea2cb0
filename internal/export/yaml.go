package export

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ToYAML writes the document as yaml
func ToYAML(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
