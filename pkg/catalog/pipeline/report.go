package pipeline

import (
	"io"

	"gopkg.in/yaml.v3"
)

// WriteReport emits the run summary as YAML for audit review.
func WriteReport(w io.Writer, sum Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(sum); err != nil {
		return err
	}
	return enc.Close()
}
