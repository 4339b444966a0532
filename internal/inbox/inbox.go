// Package inbox finds attendance exports in the downloads directory.
package inbox

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Tiliavir/class-attendance/internal/attendance"
)

// File is an eligible attendance export.
type File struct {
	Path string
	Name string
	Kind attendance.Kind
}

// Markers configures which file names are eligible.
type Markers struct {
	List      string
	Report    string
	Extension string
}

// DefaultMarkers matches the names Teams gives its downloads.
func DefaultMarkers() Markers {
	return Markers{
		List:      "meetingAttendanceList",
		Report:    "meetingAttendanceReport",
		Extension: ".csv",
	}
}

// Classify returns the export kind a file name denotes, or 0 when the
// file is not an attendance export.
func (m Markers) Classify(name string) attendance.Kind {
	if !strings.HasSuffix(strings.ToLower(name), strings.ToLower(m.Extension)) {
		return 0
	}
	switch {
	case m.List != "" && strings.Contains(name, m.List):
		return attendance.KindList
	case m.Report != "" && strings.Contains(name, m.Report):
		return attendance.KindReport
	}
	return 0
}

// Scan lists the eligible exports in the top level of dir, sorted by name.
func Scan(dir string, m Markers) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []File
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		kind := m.Classify(name)
		if kind == 0 {
			continue
		}
		files = append(files, File{
			Path: filepath.Join(dir, name),
			Name: name,
			Kind: kind,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}
