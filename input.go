package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// readURLsFromFile reads one URL per line, skipping blanks and # comments.
// Bare hostnames get an https:// scheme.
func readURLsFromFile(fileName string) ([]string, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to open URL file: %w", err)
	}
	defer file.Close()

	var urls []string
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !strings.Contains(line, "://") {
			line = "https://" + line
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		urls = append(urls, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning URL file: %w", err)
	}

	return urls, nil
}
