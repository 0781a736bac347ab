package config

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// envPrefix is stripped from environment variable names before they are
// matched against koanf tags.
const envPrefix = "BLOCKS_"

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// BaseURL is the externally visible root used when building settings links.
	BaseURL string `koanf:"base_url" validate:"required,url"`

	// CacheSize bounds the decoded settings cache. Zero disables caching.
	CacheSize uint `koanf:"cache_size"`

	// DBPath is the bbolt file holding persisted options.
	DBPath string `koanf:"db_path" validate:"required"`

	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// FixedExclusions are always hidden and cannot be un-hidden from the settings page.
	FixedExclusions []string `koanf:"fixed_exclusions" validate:"dive,block_name"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// ManifestDir, when set, is walked for block manifests at startup.
	ManifestDir string `koanf:"manifest_dir"`

	// OptionName is the settings key the exclusion list is stored under.
	OptionName string `koanf:"option_name" validate:"required,option_name"`

	// Port is the HTTP port the service binds to.
	Port int `koanf:"port" validate:"required,gte=1,lt=65535"`
}

// DEFAULT_APP_CONFIG defines the defaults applied before environment overrides.
var DEFAULT_APP_CONFIG = AppConfig{
	BaseURL:         "http://localhost:8080",
	CacheSize:       64,
	DBPath:          "/var/lib/blockvisd/settings.db",
	Env:             "prod",
	FixedExclusions: []string{},
	LogLevel:        "info",
	ManifestDir:     "",
	OptionName:      "block_visibility_options",
	Port:            8080,
}

// listKeys are always decoded as lists, even when the env value holds a single item.
var listKeys = map[string]struct{}{
	"fixed_exclusions": {},
}

var optionNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_\-]*$`)

// validOptionName accepts lowercase option keys made of letters, digits, '_' and '-'.
func validOptionName(fl validator.FieldLevel) bool {
	return optionNamePattern.MatchString(fl.Field().String())
}

// validBlockName only rejects empty names and names containing whitespace.
// Block identifiers are otherwise opaque.
func validBlockName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" {
		return false
	}
	return strings.IndexFunc(name, unicode.IsSpace) < 0
}

func splitList(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return r == ' ' || r == ','
	})
}

// envLoader loads BLOCKS_ prefixed environment variables. Values containing
// spaces or commas become lists. Overridable in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			value = strings.TrimSpace(value)

			if _, ok := listKeys[key]; ok {
				return key, splitList(value)
			}
			if value == "" {
				return key, value
			}
			if strings.ContainsAny(value, " ,") {
				return key, splitList(value)
			}
			return key, value
		},
	}), nil)
}

// defaultLoader loads DEFAULT_APP_CONFIG through the structs provider.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// registerValidation installs the custom "option_name" and "block_name" rules.
var registerValidation = func(v *validator.Validate) error {
	if err := v.RegisterValidation("option_name", validOptionName); err != nil {
		return err
	}
	return v.RegisterValidation("block_name", validBlockName)
}

// Load builds an AppConfig from defaults and environment variables and validates it.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &cfg, nil
}
