package page

import "time"

// Page is a published document persisted in the database.
type Page struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	HeroImageURL *string   `gorm:"type:text" json:"hero_image_url"`
	Theme        Theme     `gorm:"size:16;not null;default:light" json:"theme"`
	PublicSlug   string    `gorm:"size:12;uniqueIndex:idx_pages_public_slug;not null" json:"public_slug"`
	EditSecret   string    `gorm:"size:32;uniqueIndex:idx_pages_edit_secret;not null" json:"edit_secret"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime:false" json:"updated_at"`
}

// TableName defines the table name for the Page model.
func (Page) TableName() string {
	return "pages"
}

// HeroImage returns the hero image URL or an empty string when none is set.
func (p *Page) HeroImage() string {
	if p == nil || p.HeroImageURL == nil {
		return ""
	}
	return *p.HeroImageURL
}

// Published is returned from Create and carries both shareable links.
type Published struct {
	ID         uint   `json:"id"`
	PublicURL  string `json:"public_url"`
	EditURL    string `json:"edit_url"`
	PublicSlug string `json:"public_slug"`
	EditSecret string `json:"edit_secret"`
}

// PublicURL builds the read-only link for slug under base.
func PublicURL(base, slug string) string {
	return base + "/" + slug
}

// EditURL builds the secret edit link for secret under base.
func EditURL(base, secret string) string {
	return base + "/edit/" + secret
}
