package http

import (
	"context"
	"fmt"
	"html"
	stdhttp "net/http"

	"github.com/a-h/templ"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"pagedrop/app/internal/http/templates"
)

type htmlResponse struct {
	Status         int
	ContentType    string `header:"Content-Type"`
	CacheControl   string `header:"Cache-Control"`
	Location       string `header:"Location"`
	ReferrerPolicy string `header:"Referrer-Policy"`
	RobotsTag      string `header:"X-Robots-Tag"`
	Body           []byte
}

// visibility decides which headers guard a rendered view.
type visibility int

const (
	// publicView is safe to share and cache.
	publicView visibility = iota
	// privateView embeds an edit secret.
	privateView
	// errorView must not be cached so a page published later shows up at once.
	errorView
)

const noStore = "no-store"

// renderComponent renders into a pooled buffer and returns a copy of the bytes.
func renderComponent(ctx context.Context, component templ.Component) ([]byte, error) {
	buf := templ.GetBuffer()
	defer templ.ReleaseBuffer(buf)

	if err := component.Render(ctx, buf); err != nil {
		return nil, eris.Wrap(err, "rendering component")
	}

	body := make([]byte, buf.Len())
	copy(body, buf.Bytes())
	return body, nil
}

// renderView renders a full page or fragment and applies the headers for its visibility.
func renderView(ctx context.Context, status int, component templ.Component, vis visibility) (*htmlResponse, error) {
	body, err := renderComponent(ctx, component)
	if err != nil {
		return nil, err
	}
	return newHTMLResponse(status, body, vis), nil
}

func newHTMLResponse(status int, body []byte, vis visibility) *htmlResponse {
	resp := &htmlResponse{
		Status:      status,
		ContentType: htmlContentType,
		Body:        body,
	}

	switch vis {
	case privateView:
		// Browsers must not leak the secret through Referer, and crawlers must not index it.
		resp.CacheControl = noStore
		resp.ReferrerPolicy = "no-referrer"
		resp.RobotsTag = "noindex, nofollow"
	case errorView:
		resp.CacheControl = noStore
		resp.RobotsTag = "noindex"
	}
	return resp
}

func (s *Server) renderErrorResponse(ctx context.Context, status int, message string) (*htmlResponse, error) {
	label := fmt.Sprintf("%d %s", status, stdhttp.StatusText(status))
	resp, err := renderView(ctx, status, templates.ErrorPage(templates.ErrorPageData{
		StatusLabel: label,
		Message:     message,
	}), errorView)
	if err != nil {
		s.recordError(ctx, err, "rendering error page", logrus.Fields{"status": status})
		return newHTMLResponse(status, fallbackErrorBody(label, message), errorView), nil
	}
	return resp, nil
}

func fallbackErrorBody(label, message string) []byte {
	return []byte(fmt.Sprintf("<!doctype html><html><body><h1>%s</h1><p>%s</p></body></html>",
		html.EscapeString(label), html.EscapeString(message)))
}
