// Package models contains the shared data model for the person authority service
package models

import (
	"strings"
	"time"
)

// Person is an authority record for a real-world individual. Records are
// created and edited by the surrounding archival system; this service reads
// them for similarity search and rewires references on merge.
//
// FoldedFullName and Simhash are derived caches and must always be
// consistent with FirstName/LastName: every write path that changes the
// name fields recomputes both before persisting.
type Person struct {
	ID             int64     `json:"id" db:"id"`
	FirstName      string    `json:"first_name" db:"first_name"`
	LastName       string    `json:"last_name" db:"last_name"`
	WikidataID     *string   `json:"wikidata_id,omitempty" db:"wikidata_id"`
	WikiURL        *string   `json:"wiki_url,omitempty" db:"wiki_url"`
	AuthorityURL   *string   `json:"authority_url,omitempty" db:"authority_url"`
	OtherURL       *string   `json:"other_url,omitempty" db:"other_url"`
	FoldedFullName string    `json:"-" db:"folded_full_name"`
	Simhash        int64     `json:"-" db:"simhash64"` // bit pattern of the uint64 fingerprint
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// FullName returns the display name, "first last" with either side optional.
func (p *Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Fingerprint returns the stored simhash as its unsigned value.
func (p *Person) Fingerprint() uint64 {
	return uint64(p.Simhash)
}

// PersonCandidate is the projected subset of a person row pulled by the
// candidate retriever. Full rows are re-fetched for the survivors at
// ranking time.
type PersonCandidate struct {
	ID             int64   `db:"id"`
	FirstName      string  `db:"first_name"`
	LastName       string  `db:"last_name"`
	WikidataID     *string `db:"wikidata_id"`
	WikiURL        *string `db:"wiki_url"`
	AuthorityURL   *string `db:"authority_url"`
	OtherURL       *string `db:"other_url"`
	FoldedFullName string  `db:"folded_full_name"`
}

// SimilarPerson is a person row with its transient similarity score
// attached. The score is never persisted.
type SimilarPerson struct {
	Person
	SimilarityPercent int `json:"similarity_percent"`
}
