package model

import (
	"strings"
	"time"
)

// EvidenceType names an evidence category.
type EvidenceType string

const (
	EvidenceRentalAd  EvidenceType = "rental_ad"
	EvidenceVehicleAd EvidenceType = "vehicle_ad"
	EvidenceOther     EvidenceType = "other"
)

// EvidenceItem is a stored piece of evidence: a URL and/or attached files.
type EvidenceItem struct {
	ID        string       `json:"id"`
	Type      EvidenceType `json:"type"`
	URL       string       `json:"url,omitempty"`
	FileIDs   []string     `json:"file_ids"`
	CreatedAt time.Time    `json:"created_at"`
}

// Usable reports whether the item carries a non-blank URL or any file.
func (e EvidenceItem) Usable() bool {
	return strings.TrimSpace(e.URL) != "" || len(e.FileIDs) > 0
}

// EvidenceFile is an attached file. Data is kept out of JSON documents.
type EvidenceFile struct {
	ID         string    `json:"id"`
	EvidenceID string    `json:"evidence_id"`
	Filename   string    `json:"filename"`
	MIME       string    `json:"mime"`
	Size       int64     `json:"size"`
	SHA256     string    `json:"sha256"`
	CreatedAt  time.Time `json:"created_at"`
	Data       []byte    `json:"-"`
}
