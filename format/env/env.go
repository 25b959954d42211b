// Package env loads the variables a run starts with from an environment file.
package env

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Tsinling0525/flowrun/format/reactflow"
	"github.com/Tsinling0525/flowrun/model"
)

// Load reads variables from a .json, .yaml/.yml or .env file. An empty path
// yields no variables.
func Load(path string) (model.Variables, error) {
	if path == "" {
		return model.Variables{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read env %s: %w", path, err)
	}
	vars, err := Decode(data, envExt(path))
	if err != nil {
		return nil, fmt.Errorf("load env %s: %w", path, err)
	}
	return vars, nil
}

// Decode parses environment data in the given format.
func Decode(data []byte, ext string) (model.Variables, error) {
	out := model.Variables{}
	switch ext {
	case ".json":
		if err := sonic.ConfigStd.Unmarshal(data, &out); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, err
		}
		for k, v := range out {
			out[k] = reactflow.Normalize(v)
		}
	case ".env":
		m, err := godotenv.UnmarshalBytes(data)
		if err != nil {
			return nil, err
		}
		for k, v := range m {
			out[k] = v
		}
	default:
		return nil, fmt.Errorf("%w: %q", reactflow.ErrUnsupportedFormat, ext)
	}
	return out, nil
}

// envExt treats dotfiles such as ".env" or "prod.env" as dotenv.
func envExt(path string) string {
	base := filepath.Base(path)
	if base == ".env" || strings.HasPrefix(base, ".env.") {
		return ".env"
	}
	return strings.ToLower(filepath.Ext(path))
}
