package templates

import "pagedrop/app/internal/page"

// SiteName is shown in page titles and the shared header.
const SiteName = "Pagedrop"

// DefaultFooterNote is shown in the shared layout when a view does not supply custom text.
const DefaultFooterNote = "Published with Pagedrop. Anyone with the edit link can change this page."

// ThemeOption describes one entry of the editor's theme picker.
type ThemeOption struct {
	Value    page.Theme
	Label    string
	Selected bool
}

// EditorPageData drives the editor for both new and existing pages.
type EditorPageData struct {
	Draft page.Draft
	// EditSecret is set when editing an existing page; the form then posts back to
	// the edit URL instead of /publish.
	EditSecret  string
	PublicURL   string
	EditURL     string
	PreviewHTML string
	Notice      string
	FieldErrors map[string]string
}

// PublishedPageData lists the links returned after publishing.
type PublishedPageData struct {
	Title     string
	PublicURL string
	EditURL   string
	Slug      string
}

// PageViewData contains the values for a published page.
type PageViewData struct {
	Title        string
	Description  string
	HeroImageURL string
	Theme        page.Theme
	BodyHTML     string
}

// PreviewData is the fragment returned to the editor's live preview.
type PreviewData struct {
	Title        string
	HeroImageURL string
	Theme        page.Theme
	BodyHTML     string
}

// ErrorPageData holds information for rendering an error view.
type ErrorPageData struct {
	StatusLabel string
	Message     string
}

// ThemeOptions builds the picker entries with selected marked.
func ThemeOptions(selected page.Theme) []ThemeOption {
	themes := page.Themes()
	options := make([]ThemeOption, 0, len(themes))
	for _, theme := range themes {
		options = append(options, ThemeOption{
			Value:    theme,
			Label:    theme.Label(),
			Selected: theme == selected,
		})
	}
	return options
}
