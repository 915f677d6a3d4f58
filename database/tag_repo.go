package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rpupo63/quickdialer/errs"
	"github.com/rpupo63/quickdialer/models"
	"github.com/rpupo63/quickdialer/reqcache"
	"gorm.io/gorm"
)

// TagPage is one page of a filtered tag listing.
type TagPage struct {
	Tags      []models.Tag
	Total     int64
	PageCount int
}

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *TagRepo) GetDB() *gorm.DB {
	return r.db
}

// ListAll returns every tag with its contact count, newest first.
func (r *TagRepo) ListAll(ctx context.Context) ([]models.TagSummary, error) {
	return reqcache.Do(ctx, "tags.ListAll", nil, func() ([]models.TagSummary, error) {
		summaries := []models.TagSummary{}
		err := r.db.WithContext(ctx).
			Model(&models.Tag{}).
			Select("tags.id, tags.slug, tags.color, tags.created_at, COUNT(contact_tags.contact_id) AS count").
			Joins("LEFT JOIN contact_tags ON contact_tags.tag_id = tags.id").
			Group("tags.id, tags.slug, tags.color, tags.created_at").
			Order("tags.created_at DESC").
			Order("tags.id DESC").
			Scan(&summaries).Error
		if err != nil {
			return nil, fmt.Errorf("list tags: %w", err)
		}
		return summaries, nil
	})
}

// List returns the tags whose slug contains query, newest first. An empty
// query matches all.
func (r *TagRepo) List(ctx context.Context, query string, pageIndex, pageSize int) (TagPage, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return reqcache.Do(ctx, "tags.List", []any{query, pageIndex, pageSize}, func() (TagPage, error) {
		db := r.db.WithContext(ctx)

		var total int64
		if err := containsAny(db.Model(&models.Tag{}), query, "slug").Count(&total).Error; err != nil {
			return TagPage{}, fmt.Errorf("count tags: %w", err)
		}

		tags := []models.Tag{}
		offset, ok := pageOffset(pageIndex, pageSize)
		if !ok {
			return TagPage{Tags: tags, Total: total, PageCount: PageCount(total, pageSize)}, nil
		}

		err := paginate(containsAny(db, query, "slug"), offset, pageSize).
			Order("created_at DESC").
			Order("id DESC").
			Find(&tags).Error
		if err != nil {
			return TagPage{}, fmt.Errorf("find tags: %w", err)
		}

		return TagPage{
			Tags:      tags,
			Total:     total,
			PageCount: PageCount(total, pageSize),
		}, nil
	})
}

// Create inserts a tag. Any store rejection, a duplicate slug included, is
// reported as errs.ErrNotCreated.
func (r *TagRepo) Create(ctx context.Context, slug, color string) (*models.Tag, error) {
	tag := &models.Tag{Slug: slug, Color: color}
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		return nil, fmt.Errorf("create tag: %w: %w", errs.ErrNotCreated, translateError(err))
	}
	return tag, nil
}

// UpdateByID sets the slug and color of the tag identified by id.
func (r *TagRepo) UpdateByID(ctx context.Context, id uuid.UUID, slug, color string) (*models.Tag, error) {
	var tag models.Tag

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tag, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("tag %s: %w", id, errs.ErrNotFound)
			}
			return err
		}

		err := tx.Model(&tag).Updates(map[string]any{
			"slug":  slug,
			"color": color,
		}).Error
		if err != nil {
			return translateError(err)
		}

		tag.Slug = slug
		tag.Color = color
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// DeleteByID detaches the tag from every contact and deletes it, all in one
// transaction. A missing tag yields errs.ErrNotFound; any other failure rolls
// back and yields errs.ErrTransactionFailed.
func (r *TagRepo) DeleteByID(ctx context.Context, id uuid.UUID) (detached int, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag models.Tag
		if err := tx.Preload("Contacts").First(&tag, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("tag %s: %w", id, errs.ErrNotFound)
			}
			return err
		}

		for i := range tag.Contacts {
			if err := tx.Model(&tag.Contacts[i]).Association("Tags").Delete(&tag); err != nil {
				return fmt.Errorf("detach contact %s: %w", tag.Contacts[i].ID, err)
			}
			detached++
		}

		return tx.Delete(&tag).Error
	})
	if err != nil {
		detached = 0
		if errors.Is(err, errs.ErrNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("delete tag %s: %w: %w", id, errs.ErrTransactionFailed, err)
	}
	return detached, nil
}
