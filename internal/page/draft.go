package page

// Draft is the editor's working copy of a page. It is a value: every With method
// returns a new Draft and leaves the receiver untouched.
type Draft struct {
	title        string
	content      string
	heroImageURL string
	theme        Theme
}

// NewDraft returns an empty draft using the default theme.
func NewDraft() Draft {
	return Draft{theme: DefaultTheme}
}

// DraftFromPage seeds a draft with the stored values of p.
func DraftFromPage(p *Page) Draft {
	if p == nil {
		return NewDraft()
	}
	return Draft{
		title:        p.Title,
		content:      p.Content,
		heroImageURL: p.HeroImage(),
		theme:        p.Theme,
	}
}

func (d Draft) Title() string        { return d.title }
func (d Draft) Content() string      { return d.content }
func (d Draft) HeroImageURL() string { return d.heroImageURL }

// Theme returns the selected theme, or DefaultTheme when none was chosen.
func (d Draft) Theme() Theme {
	if d.theme == "" {
		return DefaultTheme
	}
	return d.theme
}

func (d Draft) WithTitle(title string) Draft {
	d.title = title
	return d
}

func (d Draft) WithContent(content string) Draft {
	d.content = content
	return d
}

func (d Draft) WithHeroImageURL(url string) Draft {
	d.heroImageURL = url
	return d
}

func (d Draft) WithTheme(theme Theme) Draft {
	d.theme = theme
	return d
}

// CreateInput converts the draft into a publish request.
func (d Draft) CreateInput() CreateInput {
	input := CreateInput{
		Title:   d.title,
		Content: d.content,
		Theme:   d.Theme(),
	}
	if d.heroImageURL != "" {
		url := d.heroImageURL
		input.HeroImageURL = &url
	}
	return input
}

// UpdateInput converts the draft into a full update. A blank hero image clears the
// stored one because the editor always submits every field.
func (d Draft) UpdateInput(editSecret string) UpdateInput {
	title := d.title
	content := d.content
	theme := d.Theme()

	input := UpdateInput{
		EditSecret: editSecret,
		Title:      &title,
		Content:    &content,
		Theme:      &theme,
	}
	if d.heroImageURL == "" {
		input.HeroImageURL = NullString()
	} else {
		input.HeroImageURL = SomeString(d.heroImageURL)
	}
	return input
}
