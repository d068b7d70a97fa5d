package survey

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxFileSize bounds the size of a survey file read by Load.
const MaxFileSize = 1 << 20

// Ext is the extension of survey definition files.
const Ext = ".survey"

// Parse decodes a survey record from r and validates it.
func Parse(r io.Reader) (*Geometry, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading survey: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("survey too large (max %d bytes)", MaxFileSize)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding survey: %w", err)
	}
	return rec.Geometry()
}

// Load reads and validates the survey file at path. When the record carries
// no name, the file's base name (or its directory's, for a bare ".survey"
// file) is used.
func Load(path string) (*Geometry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening survey %s: %w", path, err)
	}
	defer f.Close()

	g, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("survey %s: %w", path, err)
	}
	if g.Name == "" {
		g.Name = nameFromPath(path)
	}
	return g, nil
}

// FindSurveyFile looks for a survey definition inside dir. A hidden
// ".survey" file (the project layout) wins over "<name>.survey".
func FindSurveyFile(dir string) string {
	p := filepath.Join(dir, Ext)
	if _, err := os.Stat(p); err == nil {
		return p
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if !e.IsDir() && IsSurveyFile(e.Name()) {
			return filepath.Join(dir, e.Name())
		}
	}
	return ""
}

// IsSurveyFile reports whether name has the survey extension.
func IsSurveyFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), Ext)
}

func nameFromPath(path string) string {
	base := filepath.Base(path)
	if base == Ext {
		return filepath.Base(filepath.Dir(path))
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
