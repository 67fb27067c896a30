// Package license identifies the license of a checked-out repository.
package license

import (
	"sort"

	"github.com/go-enry/go-license-detector/v4/licensedb"
	"github.com/go-enry/go-license-detector/v4/licensedb/filer"
)

// DefaultThreshold is the minimum match confidence Detect accepts.
const DefaultThreshold float32 = 0.85

// Match is a candidate license for a directory.
type Match struct {
	SPDX       string
	Confidence float32
}

// Candidates returns every license match at or above threshold, most
// confident first.
func Candidates(dir string, threshold float32) ([]Match, error) {
	f, err := filer.FromDirectory(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	results, err := licensedb.Detect(f)
	if err != nil {
		return nil, err
	}

	var matches []Match
	for id, m := range results {
		if m.Confidence >= threshold {
			matches = append(matches, Match{SPDX: id, Confidence: m.Confidence})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Confidence != matches[j].Confidence {
			return matches[i].Confidence > matches[j].Confidence
		}
		return matches[i].SPDX < matches[j].SPDX
	})
	return matches, nil
}

// Detect returns the SPDX identifier of the most confident match in dir,
// or an empty string when no license file matches.
func Detect(dir string) string {
	matches, err := Candidates(dir, DefaultThreshold)
	if err != nil || len(matches) == 0 {
		return ""
	}
	return matches[0].SPDX
}
