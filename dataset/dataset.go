// Package dataset serves the static constituency/candidate reference data.
// The data ships as a locale pair of JSON files maintained by admins; a
// constituency ID is 1 + the array index, and that convention is trusted, not
// validated.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"charcha-manch-be/nagrik"
)

// Candidate is one entry of the candidates file
type Candidate struct {
	AreaName      string `json:"area_name"`
	CandidateName string `json:"candidate_name"`
	Party         string `json:"party"`
	ImageURL      string `json:"image_url,omitempty"`
	District      string `json:"district,omitempty"`
}

// Store holds both locale variants of the dataset in memory
type Store struct {
	hindi   []Candidate
	english []Candidate
}

// Load reads the Hindi and English candidate files. Both must parse; the
// files are admin-managed and a broken file should fail startup loudly.
func Load(hindiPath, englishPath string) (*Store, error) {
	hindi, err := loadFile(hindiPath)
	if err != nil {
		return nil, err
	}
	english, err := loadFile(englishPath)
	if err != nil {
		return nil, err
	}
	return &Store{hindi: hindi, english: english}, nil
}

func loadFile(path string) ([]Candidate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}
	var candidates []Candidate
	if err := json.Unmarshal(raw, &candidates); err != nil {
		return nil, fmt.Errorf("dataset: parse %s: %w", path, err)
	}
	return candidates, nil
}

func (s *Store) byLocale(locale nagrik.Locale) []Candidate {
	if locale == nagrik.English {
		return s.english
	}
	return s.hindi
}

// Get returns the candidate for a constituency ID (1-based)
func (s *Store) Get(constituencyID int, locale nagrik.Locale) (Candidate, bool) {
	list := s.byLocale(locale)
	if constituencyID < 1 || constituencyID > len(list) {
		return Candidate{}, false
	}
	return list[constituencyID-1], true
}

// All returns the full list for a locale, in constituency-ID order
func (s *Store) All(locale nagrik.Locale) []Candidate {
	return s.byLocale(locale)
}

// Count returns the number of constituencies in the dataset
func (s *Store) Count() int {
	return len(s.hindi)
}

// Valid reports whether an ID addresses a constituency in the dataset
func (s *Store) Valid(constituencyID int) bool {
	return constituencyID >= 1 && constituencyID <= len(s.hindi)
}
