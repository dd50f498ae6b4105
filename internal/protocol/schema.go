package protocol

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/SeamusWaldron/rubik"
)

//go:embed schemas/client.schema.json
var clientSchemaJSON string

var clientSchema = jsonschema.MustCompileString("client.schema.json", clientSchemaJSON)

// ValidateClient checks a raw client message against the client schema.
func ValidateClient(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("protocol: malformed json: %w", err)
	}
	if err := clientSchema.Validate(v); err != nil {
		return fmt.Errorf("protocol: %w", err)
	}
	return nil
}

// ParseState decodes a SET_STATE payload into a validated sticker state.
func ParseState(m map[string]string) (rubik.StickerState, error) {
	colors := make(map[string]rubik.Color, len(m))
	for k, v := range m {
		c, err := rubik.ParseColor(v)
		if err != nil {
			return rubik.StickerState{}, err
		}
		colors[k] = c
	}
	return rubik.StateFromMap(colors)
}
