package runtime

import (
	"bufio"
	"bytes"
	"embed"
	"io/fs"
	"strings"

	"open-invite/errors"
)

//go:embed censored/*
var censoredFolder embed.FS

// LoadEmbeddedBlacklist loads the blacklist shipped with the binary.
func LoadEmbeddedBlacklist() (*BlacklistData, error) {
	return NewBlacklistLoader(censoredFolder).LoadAll("censored")
}

// BlacklistData carries the loaded blacklist plus metadata for logging.
type BlacklistData struct {
	Words     []string
	Languages []string
}

// BlacklistLoader reads censored title words from embedded files, one
// dictionary per language.
type BlacklistLoader struct {
	fs embed.FS
}

func NewBlacklistLoader(f embed.FS) *BlacklistLoader {
	return &BlacklistLoader{fs: f}
}

// LoadAll scans the directory for .txt language dictionaries and merges
// their contents into a unique word list.
func (l *BlacklistLoader) LoadAll(path string) (*BlacklistData, error) {
	entries, err := fs.ReadDir(l.fs, path)
	if err != nil {
		return nil, err
	}

	var languages []string
	uniqueWords := make(map[string]struct{})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		// Filename is the language tag ("en.txt" -> "en")
		languages = append(languages, strings.TrimSuffix(entry.Name(), ".txt"))

		data, err := l.fs.ReadFile(path + "/" + entry.Name())
		if err != nil {
			return nil, err
		}

		// A scanner handles both \n and \r\n line endings
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				uniqueWords[line] = struct{}{}
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	if len(uniqueWords) == 0 {
		return nil, errors.ErrEmptyWords
	}

	words := make([]string, 0, len(uniqueWords))
	for w := range uniqueWords {
		words = append(words, w)
	}
	return &BlacklistData{Words: words, Languages: languages}, nil
}
