package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// ProjectFile is the file pwm init writes at the repository root.
const ProjectFile = ".pwm.toml"

// ProjectFiles are the project config candidates, first existing wins.
var ProjectFiles = []string{ProjectFile, ".pwm.yaml", ".pwm.yml"}

// Meta records where the merged configuration came from.
type Meta struct {
	UserConfigPath    string
	ProjectConfigPath string
	// Source is "defaults" or a "+" joined list of user, project and env.
	Source string
}

// Sources selects the layers Load merges.
type Sources struct {
	UserFiles   []string
	ProjectRoot string
	Env         *PWMEnv
}

// Load merges defaults, the user file, the project file under repoRoot and
// the environment.
func Load(repoRoot string) (*Config, *Meta, error) {
	return LoadSources(Sources{
		UserFiles:   GetPaths().UserConfig,
		ProjectRoot: repoRoot,
		Env:         Env(),
	})
}

// LoadSources merges the given layers over the built-in defaults.
func LoadSources(src Sources) (*Config, *Meta, error) {
	merged, err := toTree(Default())
	if err != nil {
		return nil, nil, err
	}
	meta := &Meta{}
	var used []string

	if path := firstExisting(src.UserFiles); path != "" {
		tree, err := ReadFile(path)
		if err != nil {
			return nil, nil, err
		}
		meta.UserConfigPath = path
		if len(tree) > 0 {
			merged = Merge(merged, tree)
			used = append(used, "user")
		}
	}

	if src.ProjectRoot != "" {
		candidates := make([]string, len(ProjectFiles))
		for i, name := range ProjectFiles {
			candidates[i] = filepath.Join(src.ProjectRoot, name)
		}
		if path := firstExisting(candidates); path != "" {
			tree, err := ReadFile(path)
			if err != nil {
				return nil, nil, err
			}
			meta.ProjectConfigPath = path
			if len(tree) > 0 {
				merged = Merge(merged, tree)
				used = append(used, "project")
			}
		}
	}

	if src.Env != nil {
		if overrides := src.Env.Overrides(); len(overrides) > 0 {
			merged = Merge(merged, overrides)
			used = append(used, "env")
		}
	}

	meta.Source = "defaults"
	if len(used) > 0 {
		meta.Source = strings.Join(used, "+")
	}

	cfg, err := fromTree(merged)
	if err != nil {
		return nil, nil, err
	}
	return cfg, meta, nil
}

// ReadFile decodes a TOML or YAML file into a generic tree.
func ReadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	tree := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &tree)
	default:
		err = toml.Unmarshal(data, &tree)
	}
	if err != nil {
		return nil, errors.WithHintf(errors.Wrapf(err, "parse config %s", path),
			"fix the syntax in %s or remove the file", path)
	}
	if tree == nil {
		tree = map[string]any{}
	}
	return tree, nil
}

// Merge returns a copy of base with over applied on top. Nested tables
// merge recursively; every other value from over replaces the base value.
func Merge(base, over map[string]any) map[string]any {
	out := make(map[string]any, len(base))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		if sub, ok := v.(map[string]any); ok {
			if cur, ok := out[k].(map[string]any); ok {
				out[k] = Merge(cur, sub)
				continue
			}
		}
		out[k] = v
	}
	return out
}

func firstExisting(paths []string) string {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

func toTree(cfg Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "encode defaults")
	}
	tree := map[string]any{}
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, errors.Wrap(err, "decode defaults")
	}
	return tree, nil
}

func fromTree(tree map[string]any) (*Config, error) {
	data, err := json.Marshal(tree)
	if err != nil {
		return nil, errors.Wrap(err, "encode merged config")
	}
	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.WithHint(errors.Wrap(err, "invalid configuration value"),
			"check value types in your config files")
	}
	return &cfg, nil
}
