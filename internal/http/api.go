package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"
	"sort"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"pagedrop/app/internal/markdown"
	"pagedrop/app/internal/page"
)

// publicPageBody is the read model served to anyone holding the public slug.
type publicPageBody struct {
	ID           uint       `json:"id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	HeroImageURL *string    `json:"hero_image_url" nullable:"true"`
	Theme        page.Theme `json:"theme" enum:"light,dark,mint,corporate,modern"`
	PublicSlug   string     `json:"public_slug"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// editablePageBody is served only to holders of the edit secret.
type editablePageBody struct {
	ID           uint       `json:"id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	HeroImageURL *string    `json:"hero_image_url" nullable:"true"`
	Theme        page.Theme `json:"theme" enum:"light,dark,mint,corporate,modern"`
	PublicSlug   string     `json:"public_slug"`
	EditSecret   string     `json:"edit_secret"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type createPageInput struct {
	Body struct {
		Title        string     `json:"title" doc:"Page title, 1-200 characters after trimming"`
		Content      string     `json:"content" maxLength:"50000" doc:"Markdown source"`
		HeroImageURL *string    `json:"hero_image_url,omitempty" nullable:"true" doc:"Optional http(s) image shown above the title"`
		Theme        page.Theme `json:"theme,omitempty" enum:"light,dark,mint,corporate,modern" doc:"Defaults to light"`
	}
}

type publishedOutput struct {
	Body page.Published
}

type publicPageOutput struct {
	Body publicPageBody
}

type editablePageOutput struct {
	Body editablePageBody
}

// updatePageInput reads the body unparsed so an explicit null hero_image_url can be
// told apart from an omitted one. Schema validation is skipped for the operation;
// decodeUpdateBody does the checking.
type updatePageInput struct {
	Secret  string `path:"secret"`
	RawBody []byte `contentType:"application/json" required:"false"`
}

// maxUpdateBodyBytes bounds a PATCH body: a full content field plus JSON overhead.
const maxUpdateBodyBytes = 256 * 1024

// bufferedBodyContext replays an already read request body.
type bufferedBodyContext struct {
	huma.Context
	body []byte
}

func (c bufferedBodyContext) BodyReader() io.Reader {
	return bytes.NewReader(c.body)
}

type updatePageBody struct {
	Title        *string             `json:"title"`
	Content      *string             `json:"content"`
	HeroImageURL page.OptionalString `json:"hero_image_url"`
	Theme        *page.Theme         `json:"theme"`
}

type previewInput struct {
	Body struct {
		Content string `json:"content" maxLength:"50000"`
	}
}

type previewOutput struct {
	Body struct {
		HTML string `json:"html"`
	}
}

func (s *Server) registerAPIRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "create-page",
		Method:        "POST",
		Path:          "/api/pages",
		Summary:       "Publish a page",
		Tags:          []string{"pages"},
		DefaultStatus: 201,
	}, s.createPageHandler)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-page",
		Method:      "GET",
		Path:        "/api/pages/{slug}",
		Summary:     "Read a published page",
		Tags:        []string{"pages"},
	}, s.getPageHandler)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-editable-page",
		Method:      "GET",
		Path:        "/api/edit/{secret}",
		Summary:     "Read a page through its edit secret",
		Tags:        []string{"pages"},
	}, s.getEditablePageHandler)

	huma.Register(s.api, huma.Operation{
		OperationID:      "update-page",
		Method:           "PATCH",
		Path:             "/api/edit/{secret}",
		Summary:          "Update a page through its edit secret",
		Tags:             []string{"pages"},
		MaxBodyBytes:     maxUpdateBodyBytes,
		SkipValidateBody: true,
		Middlewares:      huma.Middlewares{s.allowEmptyUpdateBody},
	}, s.updatePageHandler)

	huma.Register(s.api, huma.Operation{
		OperationID: "preview-markdown",
		Method:      "POST",
		Path:        "/api/preview",
		Summary:     "Render Markdown the way the editor preview does",
		Tags:        []string{"pages"},
	}, s.previewMarkdownHandler)
}

func (s *Server) createPageHandler(ctx context.Context, input *createPageInput) (*publishedOutput, error) {
	published, err := s.pages.Create(ctx, page.CreateInput{
		Title:        input.Body.Title,
		Content:      input.Body.Content,
		HeroImageURL: input.Body.HeroImageURL,
		Theme:        input.Body.Theme,
	})
	if err != nil {
		return nil, s.apiError(ctx, err, "publishing page")
	}

	return &publishedOutput{Body: *published}, nil
}

func (s *Server) getPageHandler(ctx context.Context, input *slugInput) (*publicPageOutput, error) {
	record, err := s.pages.GetBySlug(ctx, input.Slug)
	if err != nil {
		return nil, s.apiError(ctx, err, "loading page")
	}
	if record == nil {
		return nil, huma.Error404NotFound("page not found")
	}

	return &publicPageOutput{Body: toPublicBody(record)}, nil
}

func (s *Server) getEditablePageHandler(ctx context.Context, input *secretInput) (*editablePageOutput, error) {
	record, err := s.pages.GetByEditSecret(ctx, input.Secret)
	if err != nil {
		return nil, s.apiError(ctx, err, "loading page for editing")
	}
	if record == nil {
		return nil, huma.Error404NotFound("page not found")
	}

	return &editablePageOutput{Body: toEditableBody(record)}, nil
}

func (s *Server) updatePageHandler(ctx context.Context, input *updatePageInput) (*editablePageOutput, error) {
	body, err := decodeUpdateBody(input.RawBody)
	if err != nil {
		return nil, huma.Error400BadRequest("request body is not a valid page update", err)
	}

	updated, err := s.pages.Update(ctx, page.UpdateInput{
		EditSecret:   input.Secret,
		Title:        body.Title,
		Content:      body.Content,
		HeroImageURL: body.HeroImageURL,
		Theme:        body.Theme,
	})
	if err != nil {
		return nil, s.apiError(ctx, err, "updating page")
	}

	return &editablePageOutput{Body: toEditableBody(updated)}, nil
}

func (s *Server) previewMarkdownHandler(_ context.Context, input *previewInput) (*previewOutput, error) {
	out := &previewOutput{}
	out.Body.HTML = markdown.Render(input.Body.Content)
	return out, nil
}

// allowEmptyUpdateBody turns an empty PATCH body into "{}". huma marks a RawBody
// input as required, and an empty update only bumps updated_at.
func (s *Server) allowEmptyUpdateBody(ctx huma.Context, next func(huma.Context)) {
	raw, err := io.ReadAll(io.LimitReader(ctx.BodyReader(), maxUpdateBodyBytes+1))
	if err != nil {
		_ = huma.WriteErr(s.api, ctx, stdhttp.StatusBadRequest, "cannot read request body", err)
		return
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
	}

	next(bufferedBodyContext{Context: ctx, body: raw})
}

// decodeUpdateBody rejects unknown fields so attempts to change the slug, secret or
// timestamps fail loudly instead of being ignored.
func decodeUpdateBody(raw []byte) (updatePageBody, error) {
	var body updatePageBody
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return body, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		return updatePageBody{}, eris.Wrap(err, "decoding update body")
	}
	if decoder.More() {
		return updatePageBody{}, eris.New("decoding update body: trailing data")
	}

	return body, nil
}

func (s *Server) apiError(ctx context.Context, err error, message string) error {
	var validationErr *page.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return huma.Error422UnprocessableEntity("page input is invalid", validationDetails(validationErr)...)
	case eris.Is(err, page.ErrInvalidEditSecret):
		return huma.Error403Forbidden("invalid edit secret")
	default:
		s.recordError(ctx, err, message, logrus.Fields{"surface": "api"})
		return huma.Error500InternalServerError("internal server error")
	}
}

func validationDetails(err *page.ValidationError) []error {
	fields := err.Fields()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	details := make([]error, 0, len(names))
	for _, name := range names {
		details = append(details, &huma.ErrorDetail{
			Location: "body." + name,
			Message:  fields[name],
		})
	}
	return details
}

func toPublicBody(record *page.Page) publicPageBody {
	return publicPageBody{
		ID:           record.ID,
		Title:        record.Title,
		Content:      record.Content,
		HeroImageURL: record.HeroImageURL,
		Theme:        record.Theme,
		PublicSlug:   record.PublicSlug,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}

func toEditableBody(record *page.Page) editablePageBody {
	return editablePageBody{
		ID:           record.ID,
		Title:        record.Title,
		Content:      record.Content,
		HeroImageURL: record.HeroImageURL,
		Theme:        record.Theme,
		PublicSlug:   record.PublicSlug,
		EditSecret:   record.EditSecret,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}
