package config

import (
	"fmt"
	"os"
	"regexp"
)

// envVarPattern matches ${VAR_NAME} references inside a value
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandRPCURL substitutes ${VAR} references in an endpoint, so a config
// file can point at a key-bearing URL kept in .env. Unset variables are an error.
func ExpandRPCURL(raw string) (string, error) {
	var missing []string
	expanded := envVarPattern.ReplaceAllStringFunc(raw, func(ref string) string {
		name := envVarPattern.FindStringSubmatch(ref)[1]
		value, ok := os.LookupEnv(name)
		if !ok || value == "" {
			missing = append(missing, name)
		}
		return value
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("rpc url references unset environment variable(s) %v", missing)
	}
	return expanded, nil
}
