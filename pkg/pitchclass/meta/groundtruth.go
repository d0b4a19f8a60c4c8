package meta

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Load reads the ground-truth CSV into a filename -> gender map. The file
// must have a header row naming a "filename" and a "gender" column (any
// column order); gender values are trimmed and lowercased. A file with no
// entry for some recording is handled downstream, but an unreadable or
// headerless CSV is a fatal setup error.
func Load(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening metadata file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading metadata header: %w", err)
	}

	fileCol, genderCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "filename":
			fileCol = i
		case "gender":
			genderCol = i
		}
	}
	if fileCol < 0 || genderCol < 0 {
		return nil, fmt.Errorf("metadata header missing filename/gender columns: %v", header)
	}

	truth := make(map[string]string)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading metadata row: %w", err)
		}
		if fileCol >= len(row) || genderCol >= len(row) {
			continue
		}
		fname := strings.TrimSpace(row[fileCol])
		if fname == "" {
			continue
		}
		truth[fname] = strings.ToLower(strings.TrimSpace(row[genderCol]))
	}
	return truth, nil
}
