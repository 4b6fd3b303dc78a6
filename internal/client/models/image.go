package models

import "time"

// UploadDateLayout is the ISO-8601 layout of RestoredImage.UploadDate
// (UTC, millisecond precision).
const UploadDateLayout = "2006-01-02T15:04:05.000Z"

// RestoredImage is one saved restoration. The JSON field names are the
// persisted layout of the gallery blob and must not change.
type RestoredImage struct {
	ID             string `json:"id"`
	OriginalURL    string `json:"originalUrl"`
	RestoredURL    string `json:"restoredUrl"`
	Filename       string `json:"filename"`
	UploadDate     string `json:"uploadDate"`
	UserID         string `json:"userId"`
	ProcessingTime int    `json:"processingTime"`
}

// Key implements records.Identifiable.
func (r RestoredImage) Key() string {
	return r.ID
}

// FormatUploadDate renders t in UploadDateLayout.
func FormatUploadDate(t time.Time) string {
	return t.UTC().Format(UploadDateLayout)
}

// UploadTime parses UploadDate. Any RFC 3339 value is accepted.
func (r RestoredImage) UploadTime() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, r.UploadDate)
}
