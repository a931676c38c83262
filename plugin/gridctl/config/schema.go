// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON schema of the table definition file.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		FieldNameTag:              "yaml",
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	s := r.Reflect(&Config{})
	s.Title = "gridctl table definition"

	return json.MarshalIndent(s, "", "  ")
}
