package shared

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var dotenvOnce sync.Once

// loadDotEnvIfPresent loads the nearest .env walking up from the working
// directory. Variables already in the environment are left alone.
func loadDotEnvIfPresent() {
	dotenvOnce.Do(func() {
		if path, ok := findDotEnv(); ok {
			_, _ = loadDotEnvFile(path)
		}
	})
}

func findDotEnv() (string, bool) {
	current, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(current, ".env")
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

// loadDotEnvFile sets every valid, not yet defined KEY=value in path and
// returns how many variables it set.
func loadDotEnvFile(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	loaded := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		key, value, ok := parseDotEnvLine(scanner.Text())
		if !ok {
			continue
		}
		if _, alreadySet := os.LookupEnv(key); alreadySet {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return loaded, fmt.Errorf("set %s: %w", key, err)
		}
		loaded++
	}
	if err := scanner.Err(); err != nil {
		return loaded, fmt.Errorf("read %s: %w", path, err)
	}
	return loaded, nil
}

func parseDotEnvLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

	key, value, found := strings.Cut(line, "=")
	key = strings.TrimSpace(key)
	if !found || !isValidEnvKey(key) {
		return "", "", false
	}

	value = strings.TrimSpace(value)
	if len(value) >= 2 {
		quote := value[0]
		if (quote == '"' || quote == '\'') && value[len(value)-1] == quote {
			value = value[1 : len(value)-1]
		}
	}
	return key, value, true
}

func isValidEnvKey(key string) bool {
	if key == "" {
		return false
	}
	for index, character := range key {
		switch {
		case character == '_',
			character >= 'A' && character <= 'Z',
			character >= 'a' && character <= 'z',
			index > 0 && character >= '0' && character <= '9':
		default:
			return false
		}
	}
	return true
}
