package reporting

import (
	"bytes"
	stdjson "encoding/json"
	"io"

	"netvisor/internal/models"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WriteJSON writes the result with the same field names the HTTP API uses.
// jsoniter pads empty objects when indenting, so the compact encoding is
// indented separately.
func WriteJSON(w io.Writer, result *models.ParseResult) error {
	compact, err := json.Marshal(result)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := stdjson.Indent(&out, compact, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err = out.WriteTo(w)
	return err
}
