package gemini

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed verdict.schema.json
var verdictSchema string

//go:embed analysis.schema.json
var analysisSchema string

var (
	verdictLoader  = gojsonschema.NewStringLoader(verdictSchema)
	analysisLoader = gojsonschema.NewStringLoader(analysisSchema)
)

// extractJSON strips markdown fences and any prose around the outermost JSON
// object or array.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	raw = strings.TrimSpace(raw)

	start := strings.IndexAny(raw, "{[")
	if start > 0 {
		closer := "}"
		if raw[start] == '[' {
			closer = "]"
		}
		if end := strings.LastIndex(raw, closer); end > start {
			raw = raw[start : end+1]
		}
	}
	return raw
}

// decodeDocument parses raw model output, validates it against schema and
// returns the generic JSON value.
func decodeDocument(raw string, schema gojsonschema.JSONLoader) (map[string]any, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	result, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(data))
	if err != nil {
		return nil, fmt.Errorf("validate gemini response: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("gemini response does not match schema: %s", strings.Join(msgs, "; "))
	}

	return data, nil
}

// weakDecode copies a generic JSON value into out, converting numbers held
// as strings and similar model quirks.
func weakDecode(input any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
