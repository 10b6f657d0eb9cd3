package page

import (
	"context"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"pagedrop/app/internal/identity"
)

// Service defines the publish, read and edit operations over pages.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*Published, error)
	GetBySlug(ctx context.Context, slug string) (*Page, error)
	GetByEditSecret(ctx context.Context, secret string) (*Page, error)
	Update(ctx context.Context, input UpdateInput) (*Page, error)
	BaseURL() string
}

// ServiceOptions configures NewService.
type ServiceOptions struct {
	Store      Store
	Identities identity.Generator
	BaseURL    string
	Logger     *logrus.Logger
	SentryHub  *sentry.Hub
	// Now overrides the clock; defaults to time.Now in UTC.
	Now func() time.Time
}

type service struct {
	store      Store
	identities identity.Generator
	baseURL    string
	logger     *logrus.Logger
	sentryHub  *sentry.Hub
	now        func() time.Time
}

var _ Service = (*service)(nil)

const maxIdentityAttempts = 5

// NewService wires the page service with its dependencies.
func NewService(opts ServiceOptions) (Service, error) {
	if opts.Store == nil {
		return nil, eris.New("page store is required")
	}
	if opts.Identities == nil {
		return nil, eris.New("identity generator is required")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, eris.New("base URL is required")
	}

	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	return &service{
		store:      opts.Store,
		identities: opts.Identities,
		baseURL:    baseURL,
		logger:     opts.Logger,
		sentryHub:  opts.SentryHub,
		now:        now,
	}, nil
}

func (s *service) BaseURL() string {
	return s.baseURL
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Published, error) {
	normalized := input.Normalize()
	if err := normalized.Validate(); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxIdentityAttempts; attempt++ {
		slug, secret, err := s.mintIdentity()
		if err != nil {
			s.recordError(nil, err, "minting page identity")
			return nil, err
		}

		now := s.now()
		record := &Page{
			Title:        normalized.Title,
			Content:      normalized.Content,
			HeroImageURL: normalized.HeroImageURL,
			Theme:        normalized.Theme,
			PublicSlug:   slug,
			EditSecret:   secret,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		err = s.store.Insert(ctx, record)
		if err == nil {
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{
					"page_id":     record.ID,
					"public_slug": slug,
					"theme":       record.Theme,
				}).Info("page published")
			}

			return &Published{
				ID:         record.ID,
				PublicURL:  PublicURL(s.baseURL, slug),
				EditURL:    EditURL(s.baseURL, secret),
				PublicSlug: slug,
				EditSecret: secret,
			}, nil
		}

		if !eris.Is(err, ErrUniqueConstraint) {
			s.recordError(logrus.Fields{"public_slug": slug}, err, "persisting new page")
			return nil, eris.Wrap(err, "persisting new page")
		}

		if s.logger != nil {
			s.logger.WithField("attempt", attempt).Warn("page identity collided, regenerating")
		}
	}

	err := eris.Wrapf(ErrIdentityExhausted, "after %d attempts", maxIdentityAttempts)
	s.recordError(nil, err, "allocating page identity")
	return nil, err
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Page, error) {
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" {
		return nil, nil
	}

	record, err := s.store.FindBySlug(ctx, trimmed)
	if err != nil {
		s.recordError(logrus.Fields{"public_slug": trimmed}, err, "loading page by slug")
		return nil, eris.Wrapf(err, "loading page: %s", trimmed)
	}

	return record, nil
}

func (s *service) GetByEditSecret(ctx context.Context, secret string) (*Page, error) {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return nil, nil
	}

	record, err := s.store.FindByEditSecret(ctx, trimmed)
	if err != nil {
		s.recordError(nil, err, "loading page by edit secret")
		return nil, eris.Wrap(err, "loading page for editing")
	}

	return record, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*Page, error) {
	normalized := input.Normalize()
	if normalized.EditSecret == "" {
		return nil, eris.Wrap(ErrInvalidEditSecret, "edit secret is required")
	}

	if err := normalized.Validate(); err != nil {
		return nil, err
	}
	if normalized.IsEmpty() && s.logger != nil {
		s.logger.Debug("page update carries no field changes, touching updated_at only")
	}

	existing, err := s.store.FindByEditSecret(ctx, normalized.EditSecret)
	if err != nil {
		s.recordError(nil, err, "loading page before update")
		return nil, eris.Wrap(err, "loading page before update")
	}
	if existing == nil {
		return nil, eris.Wrap(ErrInvalidEditSecret, "updating page")
	}

	changes := Changes{
		Title:        normalized.Title,
		Content:      normalized.Content,
		HeroImageURL: normalized.HeroImageURL,
		Theme:        normalized.Theme,
		UpdatedAt:    s.nextUpdatedAt(existing.UpdatedAt),
	}

	updated, err := s.store.UpdateByEditSecret(ctx, normalized.EditSecret, changes)
	if err != nil {
		if eris.Is(err, ErrNotFound) {
			return nil, eris.Wrap(ErrInvalidEditSecret, "updating page")
		}
		s.recordError(logrus.Fields{"page_id": existing.ID}, err, "persisting page update")
		return nil, eris.Wrap(err, "persisting page update")
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"page_id":     updated.ID,
			"public_slug": updated.PublicSlug,
		}).Info("page updated")
	}

	return updated, nil
}

func (s *service) mintIdentity() (string, string, error) {
	slug, err := s.identities.NewPublicSlug()
	if err != nil {
		return "", "", eris.Wrap(err, "minting public slug")
	}

	secret, err := s.identities.NewEditSecret()
	if err != nil {
		return "", "", eris.Wrap(err, "minting edit secret")
	}

	return slug, secret, nil
}

// nextUpdatedAt keeps updated_at strictly increasing even when the clock has not
// moved past the stored value.
func (s *service) nextUpdatedAt(previous time.Time) time.Time {
	now := s.now()
	if !now.After(previous) {
		return previous.Add(time.Microsecond)
	}
	return now
}

func (s *service) recordError(fields logrus.Fields, err error, message string) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if len(fields) > 0 {
			entry = entry.WithFields(fields)
		}
		entry.Error(message)
	}

	if s.sentryHub != nil {
		s.sentryHub.CaptureException(err)
	}
}
