package diary

import (
	"context"

	"diary/internal/browser"
	"diary/internal/entry"
	"diary/internal/identity"
	"diary/internal/session"
	"diary/internal/viewer"
)

// Page re-derives the whole screen from the current store snapshot. A store
// failure does not fail the page: it is reported in the error banner.
func (a *App) Page(ctx context.Context, sess identity.Session) (Page, error) {
	list, listErr := a.Store.List(ctx, sess.UserKey)
	if listErr != nil {
		a.Log.Error(ctx, "list entries failed", "user_key", sess.UserKey, "err", listErr)
		list = nil
	}
	idx := browser.BuildIndex(list)

	var p Page
	err := a.with(sess, func(st *session.State) error {
		p = Page{
			User:  sess.Email,
			Today: a.now().Format(entry.DateLayout),
			Draft: draftView(st),
		}

		if listErr == nil {
			st.SelectedMonth = browser.ResolveMonth(idx, st.SelectedMonth)
			// the focused entry may have been deleted from another session
			if f := st.Viewer.Focused; f != nil {
				if _, err := entry.Find(list, f.EntryID); err != nil {
					st.Viewer.Close()
				}
			}
		}

		p.Months = idx.MonthsDescending()
		p.SelectedMonth = browser.ResolveMonth(idx, st.SelectedMonth)
		p.Days = dayViews(idx, p.SelectedMonth)
		if f := st.Viewer.Focused; f != nil {
			p.Viewing = entryView(*f, st.Viewer.PendingDelete == f.EntryID)
		}

		p.Notice, p.Error = st.TakeBanners()
		if listErr != nil && p.Error == "" {
			p.Error = errLoadFailed
		}
		return nil
	})
	return p, err
}

func draftView(st *session.State) DraftView {
	d := DraftView{Text: st.Draft.Text, CanSave: st.Draft.CanSave()}
	if img := st.Draft.Image; img != nil {
		d.Image = &ImageInfo{Name: img.Name, MIMEType: img.MIMEType, Size: len(img.Data)}
	}
	return d
}

func dayViews(idx browser.Index, month string) []DayView {
	days := idx.DaysInMonth(month)
	out := make([]DayView, 0, len(days))
	for _, day := range days {
		dv := DayView{Date: day}
		for i, e := range idx.Days[day] {
			dv.Entries = append(dv.Entries, EntryItem{
				Index:          i + 1,
				EntryID:        e.EntryID,
				Time:           e.Time(),
				HasImage:       e.HasImage(),
				ExportFilename: viewer.ListFilename(e, i+1),
			})
		}
		out = append(out, dv)
	}
	return out
}

func entryView(e entry.Entry, pending bool) *EntryView {
	v := &EntryView{
		EntryID:        e.EntryID,
		Date:           e.Date,
		Time:           e.Time(),
		Timestamp:      e.Timestamp,
		Content:        e.Content,
		ContentHTML:    viewer.ContentHTML(e.Content),
		ExportFilename: viewer.DetailFilename(e),
		PendingDelete:  pending,
	}
	if e.HasImage() {
		v.HasImage = true
		v.ImageType = e.ImageType
		if _, err := viewer.DecodeImage(e); err != nil {
			v.ImageWarning = warnNoImage
		}
	}
	return v
}
