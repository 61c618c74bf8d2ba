package configuration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var envVarPattern = regexp.MustCompile(`\${([^}]+)}`)

// ExpandEnvStrict expands ${VAR} references and fails on the first one that
// is not set.
func ExpandEnvStrict(s string) (string, error) {
	for _, m := range envVarPattern.FindAllStringSubmatch(s, -1) {
		if _, ok := os.LookupEnv(m[1]); !ok {
			return "", fmt.Errorf("environment variable %s is not set", m[1])
		}
	}
	return os.ExpandEnv(s), nil
}

func loadAndExpandYaml(dir, filename string) (string, error) {
	file := filepath.Join(dir, filename+".yml")
	if _, err := os.Stat(file); err != nil {
		return "", fmt.Errorf("%s.yml not found", filename)
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	return ExpandEnvStrict(string(raw))
}
