// Package fileutils provides common file operations used throughout the application.
package fileutils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CSVExtension is matched case-insensitively; PayPal names its downloads
// Download.CSV.
const CSVExtension = ".csv"

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsCSV reports whether filePath has a .csv extension in any case.
func IsCSV(filePath string) bool {
	return strings.EqualFold(filepath.Ext(filePath), CSVExtension)
}

// ListCSVFiles returns the CSV files directly inside dirPath, sorted by name.
// Subdirectories are not descended into.
func ListCSVFiles(dirPath string) ([]string, error) {
	if !DirectoryExists(dirPath) {
		return nil, fmt.Errorf("directory does not exist: %s", dirPath)
	}

	dirEntries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	var files []string
	for _, entry := range dirEntries {
		if entry.IsDir() || !IsCSV(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dirPath, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// ExpandInputs resolves the --input values: files are kept as given and
// directories are replaced by the CSV files they contain. Order is
// preserved and a path is returned once.
func ExpandInputs(paths []string) ([]string, error) {
	seen := make(map[string]bool, len(paths))
	var files []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, p := range paths {
		switch {
		case DirectoryExists(p):
			dirFiles, err := ListCSVFiles(p)
			if err != nil {
				return nil, err
			}
			for _, f := range dirFiles {
				add(f)
			}
		case FileExists(p):
			add(p)
		default:
			return nil, fmt.Errorf("input file does not exist: %s", p)
		}
	}
	return files, nil
}
