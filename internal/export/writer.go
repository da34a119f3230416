package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"jobsweep/internal/domain"

	"github.com/gofrs/flock"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want csv or json)", s)
	}
}

// Header is the fixed CSV column order; JSON objects carry the same fields.
var Header = []string{"identifier", "title", "company", "location", "url", "description", "date"}

type Writer struct {
	Path   string
	Format Format
	Log    *slog.Logger
}

// Append adds jobs to the destination file, creating it when missing. CSV
// appends rows (header only on a new or empty file); JSON re-reads the
// existing array and rewrites it extended. A sidecar .lock file guards the
// destination against overlapping runs.
func (w Writer) Append(jobs []domain.JobPosting) error {
	if len(jobs) == 0 {
		return nil
	}
	log := w.Log
	if log == nil {
		log = slog.Default()
	}

	lock := flock.New(w.Path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", w.Path, err)
	}
	defer lock.Unlock()

	log.Info("writing job postings", "count", len(jobs), "path", w.Path, "format", string(w.Format))

	switch w.Format {
	case FormatJSON:
		return w.appendJSON(jobs, log)
	default:
		return w.appendCSV(jobs)
	}
}

func (w Writer) appendCSV(jobs []domain.JobPosting) error {
	f, err := os.OpenFile(w.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", w.Path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := cw.Write(Header); err != nil {
			return err
		}
	}
	for _, j := range jobs {
		if err := cw.Write(record(j)); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv %s: %w", w.Path, err)
	}
	return nil
}

func (w Writer) appendJSON(jobs []domain.JobPosting, log *slog.Logger) error {
	existing, err := readJSON(w.Path)
	if err != nil {
		var jsonErr *invalidJSONError
		if !errors.As(err, &jsonErr) {
			return err
		}
		log.Warn("existing JSON is invalid, starting a new array", "path", w.Path)
		existing = nil
	}

	all := append(existing, jobs...)
	b, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}

	// rewrite through a temp file so a failed write can't corrupt the array
	tmp := w.Path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	return os.Rename(tmp, w.Path)
}

// ReadJSON loads a JSON output file back into postings.
func ReadJSON(path string) ([]domain.JobPosting, error) {
	return readJSON(path)
}

type invalidJSONError struct{ err error }

func (e *invalidJSONError) Error() string { return e.err.Error() }
func (e *invalidJSONError) Unwrap() error { return e.err }

func readJSON(path string) ([]domain.JobPosting, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, nil
	}

	var jobs []domain.JobPosting
	if err := json.Unmarshal(b, &jobs); err != nil {
		return nil, &invalidJSONError{err: err}
	}
	return jobs, nil
}

func record(j domain.JobPosting) []string {
	return []string{j.ID, j.Title, j.Company, j.Location, j.URL, j.Description, j.Date}
}
