// Package reactflow reads and writes flows in the node/edge document format
// produced by the flow editor, as JSON or YAML.
package reactflow

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Tsinling0525/flowrun/model"
)

var (
	ErrEmptyFlow         = errors.New("flow has no nodes")
	ErrInvalidFlow       = errors.New("invalid flow")
	ErrUnsupportedFormat = errors.New("unsupported flow format")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode parses data according to ext (".json", ".yaml" or ".yml"; empty
// means JSON) and validates the result.
func Decode(data []byte, ext string) (model.Flow, error) {
	var flow model.Flow
	switch strings.ToLower(ext) {
	case "", ".json":
		if err := sonic.ConfigStd.Unmarshal(data, &flow); err != nil {
			return model.Flow{}, fmt.Errorf("decode json flow: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &flow); err != nil {
			return model.Flow{}, fmt.Errorf("decode yaml flow: %w", err)
		}
		flow = normalize(flow)
	default:
		return model.Flow{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err := Validate(flow); err != nil {
		return model.Flow{}, err
	}
	return flow, nil
}

// Validate checks the structural requirements a flow must meet before it can
// run: at least one node, and an id and type on every node.
func Validate(flow model.Flow) error {
	if len(flow.Nodes) == 0 {
		return ErrEmptyFlow
	}
	if err := validate.Struct(flow); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFlow, err)
	}
	return nil
}

// Load reads a flow file, picking the decoder from its extension.
func Load(path string) (model.Flow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Flow{}, fmt.Errorf("read flow %s: %w", path, err)
	}
	flow, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return model.Flow{}, fmt.Errorf("load flow %s: %w", path, err)
	}
	return flow, nil
}

// Encode renders flow as indented JSON.
func Encode(flow model.Flow) ([]byte, error) {
	return sonic.ConfigStd.MarshalIndent(flow, "", "  ")
}

// Save writes flow to path as JSON or YAML depending on the extension.
func Save(path string, flow model.Flow) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(flow)
	default:
		data, err = Encode(flow)
	}
	if err != nil {
		return fmt.Errorf("encode flow: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// normalize converts yaml's integer decoding to the float64 numbers the JSON
// path produces so handlers see one numeric type.
func normalize(flow model.Flow) model.Flow {
	for i := range flow.Nodes {
		if d := flow.Nodes[i].Data; d != nil {
			flow.Nodes[i].Data = Normalize(d).(map[string]any)
		}
	}
	for i := range flow.Edges {
		flow.Edges[i].Style = Normalize(flow.Edges[i].Style)
	}
	return flow
}

// Normalize rewrites YAML-decoded values into JSON-shaped ones.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = Normalize(e)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = Normalize(e)
		}
		return out
	case []any:
		for i, e := range t {
			t[i] = Normalize(e)
		}
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	}
	return v
}
