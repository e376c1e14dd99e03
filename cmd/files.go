package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"sensoringest/internal/service"
)

const defaultConfigPath = "configs/config.yml"

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

func readUpload(path string) (service.Upload, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return service.Upload{}, err
	}
	return service.Upload{Name: filepath.Base(path), Content: content}, nil
}

// workbookPath is where the certified workbook for input goes: dir when set, else next
// to the input, with the extension swapped for .xlsx.
func workbookPath(input, dir string) string {
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + ".xlsx"
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, name)
}

// samePath reports whether a and b name the same file once made absolute.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
