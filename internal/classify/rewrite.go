package classify

import (
	"encoding/json"
	"fmt"
	"os"
)

const fieldName = "education_required"

// Summary reports what RewriteFile did: tier counts after standardization,
// how many records changed, and the raw requirement values it could not
// classify (standardized to NotSpecified anyway).
type Summary struct {
	Counts       map[string]int
	Changed      int
	Unclassified []string
}

// RewriteFile standardizes the education_required field of every object in a
// JSON array file, rewriting the file in place.
func RewriteFile(path string) (Summary, error) {
	sum := Summary{Counts: map[string]int{}}

	b, err := os.ReadFile(path)
	if err != nil {
		return sum, fmt.Errorf("read %s: %w", path, err)
	}

	var jobs []map[string]any
	if err := json.Unmarshal(b, &jobs); err != nil {
		return sum, fmt.Errorf("parse %s: %w", path, err)
	}

	for _, job := range jobs {
		raw, _ := job[fieldName].(string)
		std, ok := StandardizeEducation(raw)
		if !ok {
			sum.Unclassified = append(sum.Unclassified, raw)
		}
		if std != raw {
			job[fieldName] = std
			sum.Changed++
		}
		sum.Counts[std]++
	}

	out, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return sum, err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return sum, fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return sum, err
	}
	return sum, nil
}
