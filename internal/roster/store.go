package roster

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Tiliavir/class-attendance/internal/model"
)

const fileExt = ".csv"

// Store keeps one roster file per group in Dir.
type Store struct {
	Dir        string
	NameHeader string
	Sorter     Sorter
}

// NewCollator returns a collator for the given BCP 47 or POSIX locale name
// such as "pl", "pl-PL" or "pl_PL.UTF-8". Unknown names fall back to the
// root collation order.
func NewCollator(locale string) *collate.Collator {
	name := locale
	if i := strings.IndexAny(name, ".@"); i >= 0 {
		name = name[:i]
	}
	name = strings.ReplaceAll(name, "_", "-")
	tag, err := language.Parse(name)
	if err != nil || name == "" || name == "C" || name == "POSIX" {
		tag = language.Und
	}
	return collate.New(tag)
}

// Path returns the roster file of group.
func (s *Store) Path(group string) string {
	return filepath.Join(s.Dir, group+fileExt)
}

// Load reads the roster of group. A missing file yields an empty roster.
func (s *Store) Load(group string) (*Roster, error) {
	r, _, err := s.load(group)
	return r, err
}

// load returns the parsed roster and the file contents it was read from.
func (s *Store) load(group string) (*Roster, []byte, error) {
	path := s.Path(group)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(s.NameHeader), nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("storage error reading %s: %w", path, err)
	}
	r, err := Read(bytes.NewReader(data), s.NameHeader)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, data, nil
}

// Save rewrites the roster of group in full.
func (s *Store) Save(group string, r *Roster) error {
	data, err := s.encode(group, r)
	if err != nil {
		return err
	}
	return s.write(group, data)
}

func (s *Store) encode(group string, r *Roster) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, r); err != nil {
		return nil, fmt.Errorf("storage error encoding %s: %w", s.Path(group), err)
	}
	return buf.Bytes(), nil
}

func (s *Store) write(group string, data []byte) error {
	path := s.Path(group)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// Mark merges participants into column of the group's roster and saves it.
// It returns the merged roster and whether its contents differ from the
// stored one. The file is left untouched only when its bytes already match
// the encoded result, so rows folded or padded on load are written back.
func (s *Store) Mark(group, column string, participants []string) (*Roster, bool, error) {
	r, raw, err := s.load(group)
	if err != nil {
		return nil, false, err
	}
	merged := Merge(r, column, participants, s.Sorter)
	changed := !merged.Equal(r)

	data, err := s.encode(group, merged)
	if err != nil {
		return nil, false, err
	}
	if !changed && raw != nil && bytes.Equal(data, raw) {
		return merged, false, nil
	}
	if err := s.write(group, data); err != nil {
		return nil, false, err
	}
	return merged, changed, nil
}

// Groups lists the groups that have a roster file in Dir.
func (s *Store) Groups() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage error listing %s: %w", s.Dir, err)
	}
	var groups []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		group := strings.TrimSuffix(name, fileExt)
		if group == model.ReservedGroup {
			continue
		}
		groups = append(groups, group)
	}
	sort.Strings(groups)
	return groups, nil
}
