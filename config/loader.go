// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Format is a configuration file format.
type Format string

// Supported file formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned for a file extension without a decoder.
var ErrUnknownFormat = errors.New("unknown configuration format")

// DetectFormat returns the format of path based on its extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

func decode(format Format, data []byte) (map[string]any, error) {
	out := make(map[string]any)
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &out)
	case FormatTOML:
		_, err = toml.Decode(string(data), &out)
	case FormatJSON:
		err = json.Unmarshal(data, &out)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

var envReference = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expand replaces ${VAR} references. Bare $VAR is left alone so secrets may
// contain a dollar sign.
func expand(s string, env map[string]string) string {
	return envReference.ReplaceAllStringFunc(s, func(ref string) string {
		return env[ref[2:len(ref)-1]]
	})
}

func (l *loader) load(ctx context.Context) (*Kernel, error) {
	env, err := l.environment()
	if err != nil {
		return nil, err
	}

	merged := make(map[string]any)
	for i, f := range l.files {
		if err := ctx.Err(); err != nil {
			return nil, NewError("file", "load", err)
		}
		layer, err := f.load(env)
		if err != nil {
			return nil, NewError(fmt.Sprintf("file[%d]", i), "load", err)
		}
		if err := mergo.Map(&merged, layer, mergo.WithOverride); err != nil {
			return nil, NewError(fmt.Sprintf("file[%d]", i), "merge", err)
		}
	}

	if l.useEnv {
		layer, err := envLayer(env, l.envPrefix)
		if err != nil {
			return nil, err
		}
		if err := mergo.Map(&merged, layer, mergo.WithOverride); err != nil {
			return nil, NewError("env", "merge", err)
		}
	}

	cfg := Default()
	if err := bind(merged, cfg); err != nil {
		return nil, NewError("kernel", "bind", err)
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// environment returns the variables from .env files overlaid by the
// process environment.
func (l *loader) environment() (map[string]string, error) {
	env := make(map[string]string)
	if !l.useEnv {
		return env, nil
	}
	for _, path := range l.dotenv {
		vars, err := godotenv.Read(path)
		if err != nil {
			return nil, NewError("dotenv", "load", err)
		}
		for k, v := range vars {
			env[k] = v
		}
	}
	for _, kv := range l.environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env, nil
}

func (f fileSource) load(env map[string]string) (map[string]any, error) {
	data, format := f.data, f.format
	if f.path != "" {
		path := expand(f.path, env)
		var err error
		if format, err = DetectFormat(path); err != nil {
			return nil, err
		}
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
	}

	layer, err := decode(format, []byte(expand(string(data), env)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", format, err)
	}
	return layer, nil
}

func bind(input map[string]any, cfg *Kernel) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// envKey is a configuration key reachable from the environment. A dynamic
// key is a map whose entries are named by the rest of the variable name.
type envKey struct {
	path    []string
	typ     reflect.Type
	dynamic bool
}

var (
	durationType = reflect.TypeFor[time.Duration]()
	kernelKeys   = collectKeys(reflect.TypeFor[Kernel](), nil)
)

func collectKeys(t reflect.Type, prefix []string) []envKey {
	var keys []envKey
	for i := range t.NumField() {
		f := t.Field(i)
		name := f.Tag.Get("mapstructure")
		if name == "" || name == "-" {
			continue
		}
		path := append(append([]string(nil), prefix...), name)
		switch {
		case f.Type.Kind() == reflect.Struct:
			keys = append(keys, collectKeys(f.Type, path)...)
		case f.Type.Kind() == reflect.Map:
			keys = append(keys, envKey{path: path, typ: f.Type.Elem(), dynamic: true})
		default:
			keys = append(keys, envKey{path: path, typ: f.Type})
		}
	}
	return keys
}

// envLayer turns prefixed variables into a nested map. Unknown variables
// are ignored.
func envLayer(env map[string]string, prefix string) (map[string]any, error) {
	out := make(map[string]any)
	for name, raw := range env {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		rest := strings.ToUpper(strings.TrimPrefix(name, prefix))

		for _, key := range kernelKeys {
			envName := strings.ToUpper(strings.Join(key.path, "_"))
			path := key.path
			switch {
			case !key.dynamic && rest == envName:
			case key.dynamic && strings.HasPrefix(rest, envName+"_") && len(rest) > len(envName)+1:
				path = append(append([]string(nil), key.path...), strings.ToLower(rest[len(envName)+1:]))
			default:
				continue
			}

			value, err := coerce(raw, key.typ)
			if err != nil {
				return nil, NewFieldError("env", name, "decode", err)
			}
			setPath(out, path, value)
			break
		}
	}
	return out, nil
}

func coerce(raw string, typ reflect.Type) (any, error) {
	switch {
	case typ == durationType:
		return cast.ToDurationE(raw)
	case typ.Kind() == reflect.Bool:
		return cast.ToBoolE(raw)
	case typ.Kind() == reflect.Slice:
		var items []string
		for item := range strings.SplitSeq(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return cast.ToStringSliceE(items)
	default:
		return cast.ToStringE(raw)
	}
}

func setPath(m map[string]any, path []string, value any) {
	for _, p := range path[:len(path)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[p] = next
		}
		m = next
	}
	m[path[len(path)-1]] = value
}
