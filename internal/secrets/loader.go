package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spigell/resume-ats/internal/utils"
)

var ErrNotConfigured = errors.New("not configured")

// Source lists the places a secret may come from, in order of preference:
// File, then Value, then the Env variable.
type Source struct {
	// Name gives error messages some context.
	Name  string
	Value string
	// File may start with "~".
	File string
	Env  string
}

// Load resolves src to a trimmed, non-empty secret.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if file := strings.TrimSpace(src.File); file != "" {
		return fromFile(name, utils.ExpandHome(file))
	}

	if secret := strings.TrimSpace(src.Value); secret != "" {
		return secret, nil
	}

	if src.Env == "" {
		return "", fmt.Errorf("%s is %w", name, ErrNotConfigured)
	}

	if secret := strings.TrimSpace(os.Getenv(src.Env)); secret != "" {
		return secret, nil
	}
	return "", fmt.Errorf("%s is %w (set %s)", name, ErrNotConfigured, src.Env)
}

func fromFile(name, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s from file %q: %w", name, path, err)
	}

	secret := strings.TrimSpace(string(data))
	if secret == "" {
		return "", fmt.Errorf("%s file %q is empty", name, path)
	}
	return secret, nil
}
