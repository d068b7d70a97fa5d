package batch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pspoerri/surveygrid/internal/survey"
)

// Collect resolves input paths to survey files. A directory contributes the
// survey files it holds and the survey file of each immediate subdirectory,
// which is how survey projects are laid out on disk. Files without the
// survey extension are skipped.
func Collect(paths []string) ([]string, error) {
	var result []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			result = append(result, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			if survey.IsSurveyFile(p) {
				add(p)
			}
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("readdir %s: %w", p, err)
		}
		for _, e := range entries {
			full := filepath.Join(p, e.Name())
			switch {
			case !e.IsDir() && survey.IsSurveyFile(e.Name()):
				add(full)
			case e.IsDir():
				if f := survey.FindSurveyFile(full); f != "" {
					add(f)
				}
			}
		}
	}
	return result, nil
}
