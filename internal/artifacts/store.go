package artifacts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const timestampLayout = "20060102_150405"

// Store persists upload and processed-record artifacts on the local
// filesystem. Records are append-only; reprocessing a file adds a new
// timestamped record instead of replacing the old one.
type Store struct {
	uploadDir    string
	processedDir string
	now          func() time.Time
}

// Record is one processed artifact read back from disk.
type Record struct {
	Name    string
	ModTime time.Time
	Data    json.RawMessage
}

// NewStore creates both artifact directories if needed.
func NewStore(uploadDir, processedDir string) (*Store, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.MkdirAll(processedDir, 0o755); err != nil {
		return nil, fmt.Errorf("create processed dir: %w", err)
	}
	return &Store{uploadDir: uploadDir, processedDir: processedDir, now: time.Now}, nil
}

// WithClock overrides the timestamp source, for tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// SaveUpload writes the upload under a timestamp-prefixed sanitized name and
// returns the absolute path and the stored filename. Two uploads with the
// same name in the same second get distinct stored names; nothing already on
// disk is ever replaced.
func (s *Store) SaveUpload(name string, r io.Reader) (path string, stored string, err error) {
	sanitized := SanitizeFilename(name)
	ext := filepath.Ext(sanitized)
	base := s.now().Format(timestampLayout) + "_" + strings.TrimSuffix(sanitized, ext)

	f, stored, err := createUnique(s.uploadDir, base, ext)
	if err != nil {
		return "", "", fmt.Errorf("save upload: %w", err)
	}
	defer f.Close()

	path = filepath.Join(s.uploadDir, stored)
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", "", fmt.Errorf("save upload: %w", err)
	}
	return path, stored, nil
}

// SaveRecord marshals the record with indentation and writes it as
// <base>_<timestamp>.json in the processed directory. sourceFile is the
// stored upload filename the record derives from. Records are never
// overwritten; a second record for the same source in the same second gets
// a counter suffix.
func (s *Store) SaveRecord(sourceFile string, record any) (string, error) {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("save record: %w", err)
	}

	base := strings.TrimSuffix(sourceFile, filepath.Ext(sourceFile))
	f, name, err := createUnique(s.processedDir, base+"_"+s.now().Format(timestampLayout), ".json")
	if err != nil {
		return "", fmt.Errorf("save record: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		os.Remove(filepath.Join(s.processedDir, name))
		return "", fmt.Errorf("save record: %w", err)
	}
	return name, nil
}

// createUnique opens <base><ext> for exclusive creation, falling back to
// <base>_2<ext>, <base>_3<ext> and so on when the name is taken.
func createUnique(dir, base, ext string) (*os.File, string, error) {
	for n := 1; ; n++ {
		name := base + ext
		if n > 1 {
			name = fmt.Sprintf("%s_%d%s", base, n, ext)
		}
		f, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, name, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", err
		}
	}
}

// ListRecords returns all processed records, newest first by modification
// time. Unreadable or non-JSON files are skipped.
func (s *Store) ListRecords() ([]Record, error) {
	entries, err := os.ReadDir(s.processedDir)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	var records []Record
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.processedDir, entry.Name()))
		if err != nil || !json.Valid(data) {
			continue
		}
		records = append(records, Record{Name: entry.Name(), ModTime: info.ModTime(), Data: data})
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].ModTime.Equal(records[j].ModTime) {
			return records[i].Name > records[j].Name
		}
		return records[i].ModTime.After(records[j].ModTime)
	})
	return records, nil
}

// Latest returns the most recent record, if any.
func (s *Store) Latest() (Record, bool, error) {
	records, err := s.ListRecords()
	if err != nil {
		return Record{}, false, err
	}
	if len(records) == 0 {
		return Record{}, false, nil
	}
	return records[0], true, nil
}

// FindBySource returns the newest record whose filename contains the given
// fragment.
func (s *Store) FindBySource(fragment string) (Record, bool, error) {
	records, err := s.ListRecords()
	if err != nil {
		return Record{}, false, err
	}
	for _, rec := range records {
		if strings.Contains(rec.Name, fragment) {
			return rec, true, nil
		}
	}
	return Record{}, false, nil
}

// SanitizeFilename strips path components and replaces characters outside
// [A-Za-z0-9._-] with underscores.
func SanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "upload"
	}

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := b.String()
	if strings.Trim(out, "._") == "" {
		return "upload"
	}
	return out
}
