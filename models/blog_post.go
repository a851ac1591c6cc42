package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/beesaferoot/casadf-schema/integrity"
)

const DefaultBlogStatus = "draft"

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// BlogPost is an SEO article. It has no relation to the rest of the domain.
type BlogPost struct {
	Model
	Title   string  `gorm:"column:title;type:varchar(255);not null" json:"title" validate:"required,max=255"`
	Slug    string  `gorm:"column:slug;type:varchar(255);not null;uniqueIndex:blog_posts_slug_idx" json:"slug" validate:"required,max=255,slug"`
	Content string  `gorm:"column:content;type:text;not null" json:"content" validate:"required"`
	Excerpt *string `gorm:"column:excerpt;type:text" json:"excerpt,omitempty"`
	Author  *string `gorm:"column:author;type:varchar(255)" json:"author,omitempty" validate:"omitempty,max=255"`

	MetaDescription *string `gorm:"column:meta_description;type:varchar(160)" json:"metaDescription,omitempty" validate:"omitempty,max=160"`
	MetaKeywords    *string `gorm:"column:meta_keywords;type:varchar(255)" json:"metaKeywords,omitempty" validate:"omitempty,max=255"`

	Status    *string `gorm:"column:status;type:varchar(50);default:draft;index:blog_posts_status_idx" json:"status,omitempty" validate:"omitempty,max=50"`
	Featured  *bool   `gorm:"column:featured;default:false" json:"featured,omitempty"`
	Published *bool   `gorm:"column:published;default:false" json:"published,omitempty"`

	PublishedAt *time.Time `gorm:"column:published_at" json:"publishedAt,omitempty"`
}

func (BlogPost) TableName() string { return integrity.TableBlogPosts }

// NormalizeSlug lower-cases and trims a slug. It does not repair invalid characters.
func NormalizeSlug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidSlug reports whether s is lower-case words joined by single hyphens.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

func (b *BlogPost) Normalize() {
	trim(&b.Title)
	b.Slug = NormalizeSlug(b.Slug)
	trimOptional(&b.Author)
	trimOptional(&b.MetaDescription)
	trimOptional(&b.MetaKeywords)
	trimOptional(&b.Status)
}

func (b *BlogPost) ApplyDefaults() {
	if b.Status == nil {
		b.Status = stringPtr(DefaultBlogStatus)
	}
	if b.Featured == nil {
		b.Featured = boolPtr(false)
	}
	if b.Published == nil {
		b.Published = boolPtr(false)
	}
}

func (b *BlogPost) UniqueKeys() []UniqueKey {
	return []UniqueKey{{Column: "slug", Field: "slug", Value: b.Slug}}
}

func (b *BlogPost) References() []Reference { return nil }
