package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"pagedrop/app/internal/page"
)

// RawHTML writes already rendered Markdown without escaping. Callers pass only
// output of the markdown package.
func RawHTML(html string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		_, err := io.WriteString(w, html)
		return err
	})
}

func editorTitle(data EditorPageData) string {
	if data.EditSecret != "" {
		return "Edit “" + data.Draft.Title() + "” • " + SiteName
	}
	return "New page • " + SiteName
}

// editorAction is the form target: /publish for a new page, the edit URL otherwise.
func editorAction(editSecret string) string {
	if editSecret != "" {
		return "/edit/" + editSecret
	}
	return "/publish"
}

func editorSubmitLabel(editSecret string) string {
	if editSecret != "" {
		return "Save changes"
	}
	return "Publish"
}

// themeStyle exposes the palette as CSS custom properties read by pagedrop.css.
func themeStyle(theme page.Theme) templ.SafeCSS {
	style := theme.Style()
	return templ.SafeCSS("--page-bg:" + style.Background +
		";--page-text:" + style.Text +
		";--page-accent:" + style.Accent +
		";--page-border:" + style.Border)
}
