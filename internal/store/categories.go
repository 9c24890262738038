package store

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// DefaultCategories seeds the form's category options when no seed file
// is present.
var DefaultCategories = []string{"food", "transport", "entertainment", "shopping", "utilities", "other"}

// LoadCategories reads category options from seed_categories.txt under
// base, falling back to DefaultCategories. Blank lines and # comments are
// skipped; duplicates collapse; input order is preserved.
func LoadCategories(base string) []string {
	cats := readLines(filepath.Join(base, "seed_categories.txt"))
	if len(cats) == 0 {
		cats = append([]string(nil), DefaultCategories...)
	}
	return cats
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return dedupe(out)
}

func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
