package storage

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

const dropRoot = "drops"

var pathComponentPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,127}$`)

func BuildDropPath(dataset, fileName string) (string, error) {
	if err := validatePathComponent(dataset, "dataset"); err != nil {
		return "", err
	}
	if err := validatePathComponent(fileName, "file name"); err != nil {
		return "", err
	}
	return path.Join(dropRoot, dataset, fileName), nil
}

func ParseDropPath(key string) (dataset, fileName string, err error) {
	parts := strings.Split(path.Clean(strings.TrimPrefix(key, "/")), "/")
	if len(parts) != 3 || parts[0] != dropRoot {
		return "", "", fmt.Errorf("not a drop path: %q", key)
	}
	if err := validatePathComponent(parts[1], "dataset"); err != nil {
		return "", "", err
	}
	if err := validatePathComponent(parts[2], "file name"); err != nil {
		return "", "", err
	}
	return parts[1], parts[2], nil
}

func DropPrefix() string {
	return dropRoot + "/"
}

func validatePathComponent(value, field string) error {
	if !pathComponentPattern.MatchString(value) {
		return fmt.Errorf("invalid %s: %q", field, value)
	}
	return nil
}
