package document

import (
	"fmt"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
)

// Accepted reports whether a file passes the upload allow-list: the declared or
// detected MIME type is listed, or the filename ends with a listed extension.
func Accepted(filename, declared string, detected *mimetype.MIME) bool {
	for _, accepted := range AcceptedMIMETypes {
		if declared == accepted {
			return true
		}
		if detected != nil && detected.Is(accepted) {
			return true
		}
	}

	lower := strings.ToLower(filename)
	for _, ext := range AcceptedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// FileType returns the lowercased extension after the last dot, or "unknown"
func FileType(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return "unknown"
	}
	return strings.ToLower(filename[idx+1:])
}

// TitleFromFilename strips the final extension
func TitleFromFilename(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return filename
	}
	return filename[:idx]
}

func baseMIME(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if mediaType, _, err := mime.ParseMediaType(value); err == nil {
		return mediaType
	}
	return strings.ToLower(value)
}

func isTextType(m string) bool {
	return m == "text/plain" || m == "text/markdown"
}

// extractContent keeps the body of plain text and markdown files and a
// placeholder for everything else. Sniffed subtypes such as text/html or
// application/json do not matter once the upload is declared or named as text.
func extractContent(filename, declared string, data []byte) string {
	ft := FileType(filename)
	textual := isTextType(declared) || ft == "txt" || ft == "md"
	if textual && utf8.Valid(data) {
		return string(data)
	}
	return fmt.Sprintf("[%s] - Document uploaded", filename)
}
