package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	yaml "go.yaml.in/yaml/v3"
)

// decodeSettings decodes a settings file. .yaml and .yml go through the YAML
// decoder, anything else is JSON. Both reject unknown keys and trailing
// documents. An empty file yields empty settings.
func decodeSettings(path string, data []byte) (*settingsFile, error) {
	var sf settingsFile
	if len(bytes.TrimSpace(data)) == 0 {
		return &sf, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&sf); err != nil {
			if errors.Is(err, io.EOF) {
				return &sf, nil
			}
			return nil, fmt.Errorf("yaml: %w", err)
		}
		var extra yaml.Node
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			return nil, errors.New("yaml: more than one document")
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&sf); err != nil {
			return nil, fmt.Errorf("json: %w", err)
		}
		if dec.More() {
			return nil, errors.New("json: trailing data after settings object")
		}
	}
	return &sf, nil
}
