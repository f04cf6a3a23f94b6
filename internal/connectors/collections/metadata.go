package collections

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// speakerLine matches the "Speaker 1: HON. ..." lines the scrapers
// write into companion metadata files.
var speakerLine = regexp.MustCompile(`(?i)^speaker\s*\d*\s*:\s*(.+)$`)

// loadCompanionMetadata reads the "<name>_metadata.txt" file next to a
// transcript, if one exists. Speaker lines collect into a "speakers"
// list; other "Key: Value" lines become lowercased metadata keys. A
// missing or malformed companion yields empty metadata, never an error.
func loadCompanionMetadata(path string) map[string]any {
	metadata := make(map[string]any)

	f, err := os.Open(companionPath(path))
	if err != nil {
		return metadata
	}
	defer f.Close()

	var speakers []string
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if m := speakerLine.FindStringSubmatch(line); m != nil {
			name := strings.TrimSpace(m[1])
			if _, dup := seen[name]; name != "" && !dup {
				seen[name] = struct{}{}
				speakers = append(speakers, name)
			}
			continue
		}

		if key, value, ok := strings.Cut(line, ":"); ok {
			key = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), " ", "_"))
			if value = strings.TrimSpace(value); key != "" && value != "" {
				metadata[key] = value
			}
		}
	}

	if len(speakers) > 0 {
		metadata["speakers"] = speakers
	}
	return metadata
}

// companionPath derives the metadata file path for a transcript:
// "part3_questions.html" pairs with "part3_questions_metadata.txt".
func companionPath(path string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return base + metadataSuffix
}
