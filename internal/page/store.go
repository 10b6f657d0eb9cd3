package page

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"pagedrop/app/internal/db"
)

// Store defines single-row persistence operations for pages.
type Store interface {
	Insert(ctx context.Context, page *Page) error
	FindBySlug(ctx context.Context, slug string) (*Page, error)
	FindByEditSecret(ctx context.Context, secret string) (*Page, error)
	UpdateByEditSecret(ctx context.Context, secret string, changes Changes) (*Page, error)
}

// Changes is the set of columns an update writes. UpdatedAt is always written.
type Changes struct {
	Title        *string
	Content      *string
	HeroImageURL OptionalString
	Theme        *Theme
	UpdatedAt    time.Time
}

func (c Changes) columns() map[string]any {
	columns := map[string]any{"updated_at": c.UpdatedAt}
	if c.Title != nil {
		columns["title"] = *c.Title
	}
	if c.Content != nil {
		columns["content"] = *c.Content
	}
	if c.HeroImageURL.Set {
		columns["hero_image_url"] = c.HeroImageURL.Value
	}
	if c.Theme != nil {
		columns["theme"] = string(*c.Theme)
	}
	return columns
}

// GormStore persists pages using a Gorm database connection.
type GormStore struct {
	db     *gorm.DB
	logger *logrus.Logger
}

var _ Store = (*GormStore)(nil)

// NewStore constructs a Gorm-backed store implementation.
func NewStore(gormDB *gorm.DB, logger *logrus.Logger) (*GormStore, error) {
	if gormDB == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &GormStore{db: gormDB, logger: logger}, nil
}

// Insert writes a new page and fills in its ID. A slug or secret collision yields
// ErrUniqueConstraint.
func (s *GormStore) Insert(ctx context.Context, page *Page) error {
	if page == nil {
		return eris.New("page is nil")
	}
	if page.PublicSlug == "" || page.EditSecret == "" {
		return eris.New("page identity is required")
	}

	if err := s.db.WithContext(ctx).Create(page).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return eris.Wrapf(ErrUniqueConstraint, "inserting page %s", page.PublicSlug)
		}
		s.logError(logrus.Fields{"public_slug": page.PublicSlug}, err, "inserting page")
		return eris.Wrapf(err, "inserting page: %s", page.PublicSlug)
	}

	return nil
}

// FindBySlug returns the page for the provided slug or nil when not found.
func (s *GormStore) FindBySlug(ctx context.Context, slug string) (*Page, error) {
	return s.findOne(ctx, "public_slug", slug)
}

// FindByEditSecret returns the page owning secret or nil when not found.
func (s *GormStore) FindByEditSecret(ctx context.Context, secret string) (*Page, error) {
	return s.findOne(ctx, "edit_secret", secret)
}

// UpdateByEditSecret applies changes to the page owning secret and returns the stored
// row. ErrNotFound is returned when no page matched.
func (s *GormStore) UpdateByEditSecret(ctx context.Context, secret string, changes Changes) (*Page, error) {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return nil, eris.Wrap(ErrNotFound, "edit secret is required")
	}

	var updated Page
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Page{}).Where("edit_secret = ?", trimmed).Updates(changes.columns())
		if result.Error != nil {
			return eris.Wrap(result.Error, "updating page")
		}
		if result.RowsAffected == 0 {
			return eris.Wrap(ErrNotFound, "updating page")
		}
		if err := tx.First(&updated, "edit_secret = ?", trimmed).Error; err != nil {
			return eris.Wrap(err, "reloading updated page")
		}
		return nil
	})
	if err != nil {
		if !eris.Is(err, ErrNotFound) {
			s.logError(nil, err, "updating page by edit secret")
		}
		return nil, err
	}

	return &updated, nil
}

func (s *GormStore) findOne(ctx context.Context, column, value string) (*Page, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}

	var page Page
	err := s.db.WithContext(ctx).Where(column+" = ?", trimmed).Take(&page).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logError(logrus.Fields{"column": column}, err, "fetching page")
		return nil, eris.Wrapf(err, "fetching page by %s", column)
	}

	return &page, nil
}

func (s *GormStore) logError(fields logrus.Fields, err error, message string) {
	if s.logger == nil {
		return
	}

	entry := s.logger.WithError(err)
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}
