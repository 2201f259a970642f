package event

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrorPolicy decides what happens when a listener fails.
type ErrorPolicy string

const (
	// ErrorPolicyIsolate records the failure as an error response and keeps
	// dispatching.
	ErrorPolicyIsolate ErrorPolicy = "isolate"
	// ErrorPolicyAbort stops the dispatch at the first failure and returns
	// a *ListenerError from Emit.
	ErrorPolicyAbort ErrorPolicy = "abort"
)

func (p ErrorPolicy) valid() bool {
	return p == ErrorPolicyIsolate || p == ErrorPolicyAbort
}

const (
	envErrorPolicy     = "EVENT_ERROR_POLICY"
	envDefaultPriority = "EVENT_DEFAULT_PRIORITY"
	envRecoverPanics   = "EVENT_RECOVER_PANICS"
)

// Config is the resolved emitter configuration.
type Config struct {
	// DefaultPriority is used when a listener is added without one.
	DefaultPriority Priority
	ErrorPolicy     ErrorPolicy
	// RecoverPanics turns listener panics into error responses.
	RecoverPanics bool
	// Bindings wire named handlers to events, see NewConfigProvider.
	Bindings []Binding
}

// Binding registers the handler called Handler for Event.
type Binding struct {
	Event    string    `yaml:"event"`
	Handler  string    `yaml:"handler"`
	Priority *Priority `yaml:"priority"`
	Once     bool      `yaml:"once"`
}

// configFile mirrors the YAML layout:
//
//	emitter:
//	  default_priority: 0
//	  error_policy: isolate
//	  recover_panics: true
//	bindings:
//	  - event: order.*
//	    handler: audit
//	    priority: 100
type configFile struct {
	Emitter struct {
		DefaultPriority *int    `yaml:"default_priority"`
		ErrorPolicy     *string `yaml:"error_policy"`
		RecoverPanics   *bool   `yaml:"recover_panics"`
	} `yaml:"emitter"`
	Bindings []Binding `yaml:"bindings"`
}

func DefaultConfig() Config {
	return Config{
		DefaultPriority: PriorityNormal,
		ErrorPolicy:     ErrorPolicyIsolate,
		RecoverPanics:   true,
	}
}

// ParseConfig applies the YAML document in data on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	var file configFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Config{}, errors.Wrap(err, "parse emitter config")
	}
	if v := file.Emitter.DefaultPriority; v != nil {
		cfg.DefaultPriority = Priority(*v)
	}
	if v := file.Emitter.ErrorPolicy; v != nil {
		cfg.ErrorPolicy = ErrorPolicy(strings.ToLower(strings.TrimSpace(*v)))
	}
	if v := file.Emitter.RecoverPanics; v != nil {
		cfg.RecoverPanics = *v
	}
	cfg.Bindings = file.Bindings

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig resolves configuration in order defaults -> file -> env.
// An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "read emitter config %s", path)
		}
		if cfg, err = ParseConfig(data); err != nil {
			return Config{}, errors.Wrapf(err, "load %s", path)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(envErrorPolicy); ok && v != "" {
		cfg.ErrorPolicy = ErrorPolicy(strings.ToLower(strings.TrimSpace(v)))
	}
	if v, ok := os.LookupEnv(envDefaultPriority); ok && v != "" {
		p, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return invalidArgument("%s=%q", envDefaultPriority, v)
		}
		cfg.DefaultPriority = Priority(p)
	}
	if v, ok := os.LookupEnv(envRecoverPanics); ok && v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return invalidArgument("%s=%q", envRecoverPanics, v)
		}
		cfg.RecoverPanics = b
	}
	return nil
}

func (c Config) Validate() error {
	if !c.ErrorPolicy.valid() {
		return invalidArgument("error policy %q", c.ErrorPolicy)
	}
	for i, b := range c.Bindings {
		if b.Event == "" || b.Handler == "" {
			return invalidArgument("binding %d needs both event and handler", i)
		}
		if _, err := compilePattern(b.Event); err != nil {
			return errors.Wrapf(err, "binding %d", i)
		}
	}
	return nil
}
