package ingest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joseph-ayodele/docextract/internal/common"
)

// LoadURLsFromFile reads one url per line. Blank lines and lines starting
// with '#' are ignored.
func LoadURLsFromFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, common.WrapError(err, "open url file")
	}
	defer f.Close()
	return ReadURLs(f)
}

// ReadURLs is LoadURLsFromFile for an already open reader.
func ReadURLs(r io.Reader) ([]string, error) {
	var urls []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read urls: %w", err)
	}
	return urls, nil
}
