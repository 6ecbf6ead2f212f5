package cli

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// readURLsFromFile returns the non-empty, non-comment lines of path.
// A path of "-" reads from stdin.
func readURLsFromFile(path string, stdin io.Reader) ([]string, error) {
	if path == "-" {
		return readURLs(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readURLs(f)
}

func readURLs(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	// Signed URLs get long; allow up to 1 MiB per line.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return urls, nil
}
