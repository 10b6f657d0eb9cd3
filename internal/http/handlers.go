package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"pagedrop/app/internal/db"
	"pagedrop/app/internal/http/templates"
	"pagedrop/app/internal/identity"
	"pagedrop/app/internal/markdown"
	"pagedrop/app/internal/page"
)

const (
	htmlContentType      = "text/html; charset=utf-8"
	summaryLength        = 160
	errorFallbackMessage = "We couldn't process your request right now."
	missingPageMessage   = "There is no page at this address. Check the link or write a new page."
	invalidEditMessage   = "This edit link is not valid. Only the secret link returned when the page was published can change it."
)

type slugInput struct {
	Slug string `path:"slug"`
}

type secretInput struct {
	Secret string `path:"secret"`
}

type formInput struct {
	RawBody []byte
}

type editFormInput struct {
	Secret  string `path:"secret"`
	RawBody []byte
}

type healthResponse struct {
	Status int
	Body   struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}
}

func (s *Server) registerViewRoutes() {
	// "{$}" matches only the bare root; a plain "/" would answer every unmatched path.
	huma.Get(s.api, "/{$}", s.editorHandler, htmlOperation("Blank page editor", stdhttp.StatusInternalServerError), func(op *huma.Operation) {
		op.OperationID = "get-editor"
	})

	huma.Post(s.api, "/publish", s.publishHandler, htmlOperation(
		"Publish a page from the editor form",
		stdhttp.StatusBadRequest,
		stdhttp.StatusInternalServerError,
	))

	huma.Post(s.api, "/preview", s.previewHandler, htmlOperation(
		"Render the editor preview fragment",
		stdhttp.StatusBadRequest,
		stdhttp.StatusInternalServerError,
	))

	huma.Get(s.api, "/{slug}", s.viewHandler, htmlOperation(
		"Public page view",
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))

	huma.Get(s.api, "/edit/{secret}", s.editHandler, htmlOperation(
		"Editor for an existing page",
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))

	huma.Post(s.api, "/edit/{secret}", s.saveHandler, htmlOperation(
		"Save the editor form for an existing page",
		stdhttp.StatusBadRequest,
		stdhttp.StatusForbidden,
		stdhttp.StatusInternalServerError,
	))
}

func (s *Server) registerHealthRoute() {
	huma.Get(s.api, "/healthz", s.healthHandler, func(op *huma.Operation) {
		op.Summary = "Health check"
	})
}

func (s *Server) editorHandler(ctx context.Context, _ *struct{}) (*htmlResponse, error) {
	return s.renderEditor(ctx, stdhttp.StatusOK, templates.EditorPageData{Draft: page.NewDraft()})
}

func (s *Server) publishHandler(ctx context.Context, input *formInput) (*htmlResponse, error) {
	draft, err := draftFromForm(input.RawBody)
	if err != nil {
		return s.renderErrorResponse(ctx, stdhttp.StatusBadRequest, "The form could not be read.")
	}

	published, err := s.pages.Create(ctx, draft.CreateInput())
	if err != nil {
		var validationErr *page.ValidationError
		if errors.As(err, &validationErr) {
			return s.renderEditor(ctx, stdhttp.StatusBadRequest, templates.EditorPageData{
				Draft:       draft,
				FieldErrors: validationErr.Fields(),
			})
		}

		s.recordError(ctx, err, "publishing page", nil)
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, "We couldn't publish your page right now.")
	}

	resp, err := renderView(ctx, stdhttp.StatusCreated, templates.PublishedPage(templates.PublishedPageData{
		Title:     strings.TrimSpace(draft.Title()),
		PublicURL: published.PublicURL,
		EditURL:   published.EditURL,
		Slug:      published.PublicSlug,
	}), privateView)
	if err != nil {
		s.recordError(ctx, err, "rendering published page", logrus.Fields{"public_slug": published.PublicSlug})
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
	}

	return resp, nil
}

func (s *Server) previewHandler(ctx context.Context, input *formInput) (*htmlResponse, error) {
	draft, err := draftFromForm(input.RawBody)
	if err != nil {
		return newHTMLResponse(stdhttp.StatusBadRequest, []byte("<p>The form could not be read.</p>"), errorView), nil
	}

	body, err := s.renderPreview(ctx, draft)
	if err != nil {
		s.recordError(ctx, err, "rendering preview", nil)
		return newHTMLResponse(stdhttp.StatusInternalServerError, []byte("<p>Preview unavailable.</p>"), errorView), nil
	}

	return newHTMLResponse(stdhttp.StatusOK, []byte(body), publicView), nil
}

func (s *Server) viewHandler(ctx context.Context, input *slugInput) (*htmlResponse, error) {
	slug := strings.TrimSpace(input.Slug)
	if !identity.IsWellFormed(slug, identity.PublicSlugLength) {
		return s.renderErrorResponse(ctx, stdhttp.StatusNotFound, missingPageMessage)
	}

	record, err := s.pages.GetBySlug(ctx, slug)
	if err != nil {
		s.recordError(ctx, err, "loading page", logrus.Fields{"public_slug": slug})
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
	}
	if record == nil {
		return s.renderErrorResponse(ctx, stdhttp.StatusNotFound, missingPageMessage)
	}

	resp, err := renderView(ctx, stdhttp.StatusOK, templates.PageView(templates.PageViewData{
		Title:        record.Title,
		Description:  markdown.Summary(record.Content, summaryLength),
		HeroImageURL: record.HeroImage(),
		Theme:        record.Theme,
		BodyHTML:     markdown.RenderPublished(record.Content),
	}), publicView)
	if err != nil {
		s.recordError(ctx, err, "rendering page", logrus.Fields{"public_slug": slug})
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
	}

	return resp, nil
}

func (s *Server) editHandler(ctx context.Context, input *secretInput) (*htmlResponse, error) {
	record, err := s.pages.GetByEditSecret(ctx, input.Secret)
	if err != nil {
		s.recordError(ctx, err, "loading page for editing", nil)
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
	}
	if record == nil {
		return s.renderErrorResponse(ctx, stdhttp.StatusNotFound, invalidEditMessage)
	}

	return s.renderEditor(ctx, stdhttp.StatusOK, s.editorData(record, page.DraftFromPage(record)))
}

func (s *Server) saveHandler(ctx context.Context, input *editFormInput) (*htmlResponse, error) {
	draft, err := draftFromForm(input.RawBody)
	if err != nil {
		return s.renderErrorResponse(ctx, stdhttp.StatusBadRequest, "The form could not be read.")
	}

	updated, err := s.pages.Update(ctx, draft.UpdateInput(input.Secret))
	if err != nil {
		var validationErr *page.ValidationError
		switch {
		case eris.Is(err, page.ErrInvalidEditSecret):
			return s.renderErrorResponse(ctx, stdhttp.StatusForbidden, invalidEditMessage)
		case errors.As(err, &validationErr):
			data := templates.EditorPageData{
				Draft:       draft,
				EditSecret:  strings.TrimSpace(input.Secret),
				FieldErrors: validationErr.Fields(),
			}
			if existing, lookupErr := s.pages.GetByEditSecret(ctx, input.Secret); lookupErr == nil && existing != nil {
				data = s.editorData(existing, draft)
				data.FieldErrors = validationErr.Fields()
			}
			return s.renderEditor(ctx, stdhttp.StatusBadRequest, data)
		default:
			s.recordError(ctx, err, "saving page", nil)
			return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, "We couldn't save your changes right now.")
		}
	}

	data := s.editorData(updated, page.DraftFromPage(updated))
	data.Notice = "Changes saved."
	return s.renderEditor(ctx, stdhttp.StatusOK, data)
}

func (s *Server) healthHandler(ctx context.Context, _ *struct{}) (*healthResponse, error) {
	resp := &healthResponse{}
	resp.Body.Status = "ok"
	resp.Body.Database = "ok"
	resp.Status = stdhttp.StatusOK

	sqlDB, err := db.SQLDB(s.db)
	if err != nil {
		s.recordError(ctx, err, "obtaining sql db", nil)
		resp.Body.Status = "degraded"
		resp.Body.Database = "error"
		resp.Status = stdhttp.StatusServiceUnavailable
	} else if pingErr := sqlDB.PingContext(ctx); pingErr != nil {
		s.recordError(ctx, pingErr, "pinging database", nil)
		resp.Body.Status = "degraded"
		resp.Body.Database = "error"
		resp.Status = stdhttp.StatusServiceUnavailable
	}

	return resp, nil
}

func (s *Server) editorData(record *page.Page, draft page.Draft) templates.EditorPageData {
	base := s.pages.BaseURL()
	return templates.EditorPageData{
		Draft:      draft,
		EditSecret: record.EditSecret,
		PublicURL:  page.PublicURL(base, record.PublicSlug),
		EditURL:    page.EditURL(base, record.EditSecret),
	}
}

func (s *Server) renderEditor(ctx context.Context, status int, data templates.EditorPageData) (*htmlResponse, error) {
	preview, err := s.renderPreview(ctx, data.Draft)
	if err != nil {
		s.recordError(ctx, err, "rendering editor preview", nil)
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
	}
	data.PreviewHTML = preview

	vis := publicView
	if data.EditSecret != "" {
		vis = privateView
	}

	resp, err := renderView(ctx, status, templates.EditorPage(data), vis)
	if err != nil {
		s.recordError(ctx, err, "rendering editor", nil)
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
	}
	return resp, nil
}

func (s *Server) renderPreview(ctx context.Context, draft page.Draft) (string, error) {
	theme, err := page.ParseTheme(string(draft.Theme()))
	if err != nil {
		theme = page.DefaultTheme
	}

	body, err := renderComponent(ctx, templates.Preview(templates.PreviewData{
		Title:        draft.Title(),
		HeroImageURL: draft.HeroImageURL(),
		Theme:        theme,
		BodyHTML:     markdown.Render(draft.Content()),
	}))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// draftFromForm decodes an urlencoded editor submission.
func draftFromForm(raw []byte) (page.Draft, error) {
	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return page.Draft{}, eris.Wrap(err, "parsing form body")
	}

	content := strings.ReplaceAll(values.Get("content"), "\r\n", "\n")

	return page.NewDraft().
		WithTitle(values.Get("title")).
		WithContent(content).
		WithHeroImageURL(strings.TrimSpace(values.Get("hero_image_url"))).
		WithTheme(page.Theme(strings.TrimSpace(values.Get("theme")))), nil
}

func htmlOperation(summary string, statuses ...int) func(op *huma.Operation) {
	return func(op *huma.Operation) {
		if summary != "" {
			op.Summary = summary
		}
		op.Tags = []string{"views"}
		if op.Responses == nil {
			op.Responses = map[string]*huma.Response{}
		}

		statusCodes := append([]int{stdhttp.StatusOK}, statuses...)
		for _, status := range statusCodes {
			code := strconv.Itoa(status)
			op.Responses[code] = &huma.Response{
				Description: stdhttp.StatusText(status),
				Content: map[string]*huma.MediaType{
					htmlContentType: {
						Schema: &huma.Schema{Type: "string"},
					},
				},
			}
		}
	}
}

func (s *Server) recordError(ctx context.Context, err error, message string, fields logrus.Fields) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if fields != nil {
			entry = entry.WithFields(fields)
		}
		if requestID := RequestIDFromContext(ctx); requestID != "" {
			entry = entry.WithField("request_id", requestID)
		}
		entry.Error(message)
	}

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.CaptureException(err)
		return
	}
	if s.sentry != nil {
		s.sentry.CaptureException(err)
	}
}
