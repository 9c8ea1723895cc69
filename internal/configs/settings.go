package configs

import (
	"fmt"
	"os"

	kerrors "github.com/PolarWolf314/capi/internal/errors"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
)

// Environment resolves secrets by name. Entries from the dotenv file take
// precedence over the process environment.
type Environment struct {
	k *koanf.Koanf
}

// LoadEnvironment snapshots the process environment and overlays envFile.
// A missing envFile is skipped.
func LoadEnvironment(envFile string) (*Environment, error) {
	k := koanf.New(".")

	if err := k.Load(env.Provider("", ".", nil), nil); err != nil {
		return nil, fmt.Errorf("reading process environment: %w", err)
	}

	if envFile != "" {
		_, err := os.Stat(envFile)
		switch {
		case err == nil:
			if err := k.Load(file.Provider(envFile), dotenv.Parser()); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrInvalidConfig, envFile, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("reading %s: %w", envFile, err)
		}
	}

	return &Environment{k: k}, nil
}

// NewEnvironment builds an Environment from fixed values, ignoring the
// process environment.
func NewEnvironment(values map[string]string) *Environment {
	m := make(map[string]interface{}, len(values))
	for name, v := range values {
		m[name] = v
	}

	k := koanf.New(".")
	// confmap never fails on a flat map of strings.
	_ = k.Load(confmap.Provider(m, "."), nil)
	return &Environment{k: k}
}

// Lookup returns the value stored under name. It satisfies keyring.Source.
func (e *Environment) Lookup(name string) (string, bool) {
	if e == nil || !e.k.Exists(name) {
		return "", false
	}
	return e.k.String(name), true
}

// Get returns the value stored under name, or "" when unset.
func (e *Environment) Get(name string) string {
	v, _ := e.Lookup(name)
	return v
}
