package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"librarian/catalog"
	"librarian/lending"
)

// seedCatalog loads books from a seed file, one per line:
//
//	kind|title|author|isbn|pages-or-words
//
// Lines starting with # are comments. Returns the number of books
// added.
func seedCatalog(coord *lending.Coordinator, path string) (int, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	added := 0
	sc := bufio.NewScanner(f)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Split(text, "|")
		if len(fields) != 5 {
			return added, fmt.Errorf("line %d: want 5 fields, got %d", line, len(fields))
		}

		size := 0
		if _, err := fmt.Sscanf(strings.TrimSpace(fields[4]), "%d", &size); err != nil {
			return added, fmt.Errorf("line %d: bad size %q", line, fields[4])
		}

		attrs, err := seedAttrs(strings.TrimSpace(fields[0]), size)
		if err != nil {
			return added, fmt.Errorf("line %d: %w", line, err)
		}

		book, err := catalog.NewBook(strings.TrimSpace(fields[1]), strings.TrimSpace(fields[2]), strings.TrimSpace(fields[3]), attrs)
		if err != nil {
			return added, fmt.Errorf("line %d: %w", line, err)
		}
		if _, err := coord.AddBook(book); err != nil {
			return added, fmt.Errorf("line %d: %w", line, err)
		}
		added++
	}
	return added, sc.Err()
}

func seedAttrs(kind string, size int) (catalog.Attrs, error) {
	switch kind {
	case "fiction":
		return catalog.FictionAttrs{Pages: size}, nil
	case "nonfiction":
		return catalog.NonFictionAttrs{Pages: size}, nil
	case "ebook":
		return catalog.EBookAttrs{Format: catalog.FormatEPUB, WordCount: size}, nil
	case "printed":
		return catalog.PrintedAttrs{Pages: size}, nil
	case "fantasy":
		return catalog.FantasyAttrs{FictionAttrs: catalog.FictionAttrs{Pages: size}}, nil
	case "textbook":
		return catalog.TextbookAttrs{NonFictionAttrs: catalog.NonFictionAttrs{Pages: size}}, nil
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
}
