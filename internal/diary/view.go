package diary

type ImageInfo struct {
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
	Size     int    `json:"size"`
}

type DraftView struct {
	Text    string     `json:"text"`
	CanSave bool       `json:"can_save"`
	Image   *ImageInfo `json:"image,omitempty"`
}

// EntryItem is one row of the day listing. Index is 1-based within the day.
type EntryItem struct {
	Index          int    `json:"index"`
	EntryID        string `json:"entry_id"`
	Time           string `json:"time"`
	HasImage       bool   `json:"has_image"`
	ExportFilename string `json:"export_filename"`
}

type DayView struct {
	Date    string      `json:"date"`
	Entries []EntryItem `json:"entries"`
}

type EntryView struct {
	EntryID        string `json:"entry_id"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	Timestamp      string `json:"timestamp"`
	Content        string `json:"content"`
	ContentHTML    string `json:"content_html"`
	HasImage       bool   `json:"has_image"`
	ImageType      string `json:"image_type,omitempty"`
	ImageWarning   string `json:"image_warning,omitempty"`
	ExportFilename string `json:"export_filename"`
	PendingDelete  bool   `json:"pending_delete"`
}

// Page is the whole screen, re-derived after every action.
type Page struct {
	User          string     `json:"user"`
	Today         string     `json:"today"`
	Draft         DraftView  `json:"draft"`
	Months        []string   `json:"months"`
	SelectedMonth string     `json:"selected_month"`
	Days          []DayView  `json:"days"`
	Viewing       *EntryView `json:"viewing,omitempty"`
	Notice        string     `json:"notice,omitempty"`
	Error         string     `json:"error,omitempty"`
}
