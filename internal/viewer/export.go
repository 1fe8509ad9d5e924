// Package viewer renders a single focused entry, exports it as JSON and
// guards its deletion behind a confirmation step.
package viewer

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"diary/internal/entry"
)

// Export is the downloadable form of an entry. ImageBase64 carries the stored
// base64 text verbatim.
type Export struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	Content     string `json:"content"`
	Timestamp   string `json:"timestamp"`
	ImageBase64 string `json:"image_base64,omitempty"`
}

func ToExport(e entry.Entry) Export {
	return Export{
		Date:        e.Date,
		Time:        e.Time(),
		Content:     e.Content,
		Timestamp:   e.Timestamp,
		ImageBase64: e.Image,
	}
}

// ExportJSON is identical whichever screen the download is started from.
func ExportJSON(e entry.Entry) ([]byte, error) {
	b, err := json.MarshalIndent(ToExport(e), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", e.EntryID, err)
	}
	return b, nil
}

// ListFilename names a download started from the day listing, where index is
// the 1-based position of the entry within its day.
func ListFilename(e entry.Entry, index int) string {
	return fmt.Sprintf("diary_%s_%d.json", e.Date, index)
}

// DetailFilename names a download started from the focused entry.
func DetailFilename(e entry.Entry) string {
	return fmt.Sprintf("diary_%s.json", e.Date)
}

// ContentHTML escapes content and turns newlines into <br>.
func ContentHTML(content string) string {
	s := html.EscapeString(content)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "<br>")
}
