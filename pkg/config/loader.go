package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for configuration environment variables
const EnvPrefix = "ENVBOOT_"

// ProjectConfigFiles are looked up, in order, in the project root
var ProjectConfigFiles = []string{"envboot.toml", ".envboot.toml"}

// LoadOptions controls where configuration is read from
type LoadOptions struct {
	// Root is the project root used to find envboot.toml
	Root string
	// File is an explicit config file; it must exist when set
	File string
	// Overrides are flat koanf keys ("environment.root") applied last
	Overrides map[string]interface{}
}

// Load builds the configuration from, in increasing precedence: embedded
// defaults, the project config file, ENVBOOT_* variables and overrides.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Load project config if it exists
	source, err := projectConfigPath(opts)
	if err != nil {
		return nil, err
	}
	if source != "" {
		if err := k.Load(file.Provider(source), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", source).
				WithDetail("path", source)
		}
	}

	// 3. Load env vars
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Apply overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	// 5. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	cfg.SourceFile = source

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the embedded defaults without consulting files or env
func Default() *Config {
	k := koanf.New(".")
	_ = k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser())
	var cfg Config
	_ = k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"})
	return &cfg
}

func projectConfigPath(opts LoadOptions) (string, error) {
	if opts.File != "" {
		path := opts.File
		if !filepath.IsAbs(path) && opts.Root != "" {
			path = filepath.Join(opts.Root, path)
		}
		if _, err := os.Stat(path); err != nil {
			return "", errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not readable", path).
				WithDetail("path", path)
		}
		return path, nil
	}

	for _, name := range ProjectConfigFiles {
		path := filepath.Join(opts.Root, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

// envKey maps ENVBOOT_RUNNER_COMMAND to runner.command and
// ENVBOOT_ENVIRONMENT_BIN_DIR to environment.bin_dir
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}
