package post

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	postModel "narration-desk/models/post"
	"narration-desk/services/lifecycle"

	"gorm.io/gorm"
)

// Service manages blog posts.
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// Input is the editable part of a post.
type Input struct {
	Title     string
	Slug      string
	Excerpt   string
	Body      string
	CoverURL  *string
	Published bool
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and joins its words with hyphens.
func Slugify(s string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// Create stores a post. The slug defaults to the title and gets a numeric
// suffix when already taken.
func (s *Service) Create(ctx context.Context, actor string, in Input) (*postModel.Post, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", lifecycle.ErrValidation)
	}
	base := Slugify(in.Slug)
	if base == "" {
		base = Slugify(in.Title)
	}
	if base == "" {
		return nil, fmt.Errorf("%w: title has no usable characters for a slug", lifecycle.ErrValidation)
	}

	p := postModel.Post{
		Title:     strings.TrimSpace(in.Title),
		Excerpt:   strings.TrimSpace(in.Excerpt),
		Body:      in.Body,
		CoverURL:  in.CoverURL,
		Published: in.Published,
		CreatedBy: actor,
	}
	if p.Published {
		at := s.now()
		p.PublishedAt = &at
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slug, err := uniqueSlug(tx, base, 0)
		if err != nil {
			return err
		}
		p.Slug = slug
		if err := tx.Create(&p).Error; err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update replaces the editable fields of a post.
func (s *Service) Update(ctx context.Context, id uint, in Input) (*postModel.Post, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", lifecycle.ErrValidation)
	}

	var p postModel.Post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, id).Error; err != nil {
			return missing(err, id)
		}
		if slug := Slugify(in.Slug); slug != "" && slug != p.Slug {
			unique, err := uniqueSlug(tx, slug, id)
			if err != nil {
				return err
			}
			p.Slug = unique
		}
		p.Title = strings.TrimSpace(in.Title)
		p.Excerpt = strings.TrimSpace(in.Excerpt)
		p.Body = in.Body
		p.CoverURL = in.CoverURL
		if in.Published && !p.Published {
			at := s.now()
			p.PublishedAt = &at
		}
		if !in.Published {
			p.PublishedAt = nil
		}
		p.Published = in.Published
		if err := tx.Save(&p).Error; err != nil {
			return fmt.Errorf("update post %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Get loads any post by id.
func (s *Service) Get(ctx context.Context, id uint) (*postModel.Post, error) {
	var p postModel.Post
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, missing(err, id)
	}
	return &p, nil
}

// List returns posts newest first; publishedOnly hides drafts.
func (s *Service) List(ctx context.Context, publishedOnly bool) ([]postModel.Post, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	var out []postModel.Post
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return out, nil
}

// PublishedBySlug loads a published post for the public site.
func (s *Service) PublishedBySlug(ctx context.Context, slug string) (*postModel.Post, error) {
	var p postModel.Post
	err := s.db.WithContext(ctx).Where("slug = ? AND published = ?", slug, true).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %q", lifecycle.ErrNotFound, slug)
		}
		return nil, fmt.Errorf("load post %q: %w", slug, err)
	}
	return &p, nil
}

// uniqueSlug appends -2, -3, ... until no other post uses the slug.
func uniqueSlug(tx *gorm.DB, base string, selfID uint) (string, error) {
	slug := base
	for i := 2; ; i++ {
		var n int64
		q := tx.Model(&postModel.Post{}).Where("slug = ?", slug)
		if selfID != 0 {
			q = q.Where("id <> ?", selfID)
		}
		if err := q.Count(&n).Error; err != nil {
			return "", fmt.Errorf("check slug %q: %w", slug, err)
		}
		if n == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func missing(err error, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: post %d", lifecycle.ErrNotFound, id)
	}
	return fmt.Errorf("load post %d: %w", id, err)
}
