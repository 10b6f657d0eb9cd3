package page

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	MaxTitleLength   = 200
	MaxContentLength = 50000
)

// CreateInput carries the fields accepted when publishing a new page.
type CreateInput struct {
	Title        string  `json:"title"`
	Content      string  `json:"content"`
	HeroImageURL *string `json:"hero_image_url,omitempty"`
	Theme        Theme   `json:"theme,omitempty"`
}

// Normalize drops a blank hero image and applies the default theme. The title is kept
// as submitted.
func (in CreateInput) Normalize() CreateInput {
	out := in
	out.HeroImageURL = normalizeURL(in.HeroImageURL)
	out.Theme = Theme(strings.ToLower(strings.TrimSpace(string(in.Theme))))
	if out.Theme == "" {
		out.Theme = DefaultTheme
	}
	return out
}

// Validate checks field bounds. Call Normalize first.
func (in CreateInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Title, titleRules()...),
		validation.Field(&in.Content, validation.RuneLength(0, MaxContentLength)),
		validation.Field(&in.HeroImageURL, heroImageRules()...),
		validation.Field(&in.Theme, validation.Required, validation.In(themeValues()...)),
	)
	return asValidationError(err)
}

// UpdateInput carries a partial update. Nil pointers and an unset HeroImageURL leave the
// stored value untouched.
type UpdateInput struct {
	EditSecret   string         `json:"edit_secret"`
	Title        *string        `json:"title,omitempty"`
	Content      *string        `json:"content,omitempty"`
	HeroImageURL OptionalString `json:"hero_image_url"`
	Theme        *Theme         `json:"theme,omitempty"`
}

// Normalize trims the secret and turns a blank hero image into an explicit clear.
func (in UpdateInput) Normalize() UpdateInput {
	out := in
	out.EditSecret = strings.TrimSpace(in.EditSecret)
	if in.HeroImageURL.Set {
		out.HeroImageURL = OptionalString{Set: true, Value: normalizeURL(in.HeroImageURL.Value)}
	}
	if in.Theme != nil {
		theme := Theme(strings.ToLower(strings.TrimSpace(string(*in.Theme))))
		out.Theme = &theme
	}
	return out
}

// Validate checks the fields that are present. Call Normalize first.
func (in UpdateInput) Validate() error {
	heroImage := in.HeroImageURL.Value
	err := validation.Errors{
		"title": validation.Validate(in.Title,
			validation.When(in.Title != nil, titleRules()...)),
		"content": validation.Validate(in.Content, validation.RuneLength(0, MaxContentLength)),
		"hero_image_url": validation.Validate(heroImage, heroImageRules()...),
		"theme": validation.Validate(in.Theme,
			validation.When(in.Theme != nil, validation.Required, validation.In(themeValues()...))),
	}.Filter()
	return asValidationError(err)
}

// IsEmpty reports whether the update changes nothing besides the timestamp.
func (in UpdateInput) IsEmpty() bool {
	return in.Title == nil && in.Content == nil && !in.HeroImageURL.Set && in.Theme == nil
}

// OptionalString distinguishes an absent field from an explicit null when decoding JSON.
type OptionalString struct {
	Set   bool
	Value *string
}

// SomeString returns an OptionalString holding value.
func SomeString(value string) OptionalString {
	return OptionalString{Set: true, Value: &value}
}

// NullString returns an OptionalString that explicitly clears the field.
func NullString() OptionalString {
	return OptionalString{Set: true}
}

// UnmarshalJSON marks the field as present; a JSON null leaves Value nil.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}

	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	o.Value = &value
	return nil
}

// MarshalJSON writes the value or null.
func (o OptionalString) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// titleRules bound the stored title; whitespace alone counts as blank.
func titleRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.By(notBlank),
		validation.RuneLength(1, MaxTitleLength),
	}
}

func notBlank(value any) error {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case *string:
		if v == nil {
			return nil
		}
		raw = *v
	default:
		return nil
	}

	if strings.TrimSpace(raw) == "" {
		return validation.ErrRequired
	}
	return nil
}

func heroImageRules() []validation.Rule {
	return []validation.Rule{
		validation.NilOrNotEmpty,
		is.RequestURL,
		validation.By(httpScheme),
	}
}

func httpScheme(value any) error {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case *string:
		if v == nil {
			return nil
		}
		raw = *v
	default:
		return nil
	}

	if raw == "" {
		return nil
	}

	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return validation.NewError("validation_is_http_url", "must be an http or https URL")
	}
	return nil
}

func normalizeURL(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
