package document

import "time"

// DocumentResponse represents an uploaded document
type DocumentResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   *string   `json:"content"`
	FileType  string    `json:"file_type"`
	FileSize  *int64    `json:"file_size"`
	MimeType  string    `json:"mime_type"`
	Tags      []string  `json:"tags"`
	HasFile   bool      `json:"has_file"`
	CreatedAt time.Time `json:"created_at"`
}

// DownloadResponse is a short-lived link to the stored file
type DownloadResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
