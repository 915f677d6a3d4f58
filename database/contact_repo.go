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

// ContactPage is one page of a filtered contact listing.
type ContactPage struct {
	Contacts  []models.Contact
	Total     int64
	PageCount int
}

type ContactRepo struct {
	db *gorm.DB
}

func NewContactRepo(db *gorm.DB) *ContactRepo {
	return &ContactRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *ContactRepo) GetDB() *gorm.DB {
	return r.db
}

// List returns the contacts whose name or contact contains query, newest
// first, with their tags ordered oldest first. An empty query matches all.
func (r *ContactRepo) List(ctx context.Context, query string, pageIndex, pageSize int) (ContactPage, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return reqcache.Do(ctx, "contacts.List", []any{query, pageIndex, pageSize}, func() (ContactPage, error) {
		db := r.db.WithContext(ctx)

		var total int64
		if err := containsAny(db.Model(&models.Contact{}), query, "name", "contact").Count(&total).Error; err != nil {
			return ContactPage{}, fmt.Errorf("count contacts: %w", err)
		}

		contacts := []models.Contact{}
		offset, ok := pageOffset(pageIndex, pageSize)
		if !ok {
			return ContactPage{Contacts: contacts, Total: total, PageCount: PageCount(total, pageSize)}, nil
		}

		err := paginate(containsAny(db, query, "name", "contact"), offset, pageSize).
			Preload("Tags", func(tx *gorm.DB) *gorm.DB {
				return tx.Order("tags.created_at ASC")
			}).
			Order("created_at DESC").
			Order("id DESC").
			Find(&contacts).Error
		if err != nil {
			return ContactPage{}, fmt.Errorf("find contacts: %w", err)
		}

		return ContactPage{
			Contacts:  contacts,
			Total:     total,
			PageCount: PageCount(total, pageSize),
		}, nil
	})
}

// FindByID returns a contact with its tags.
func (r *ContactRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	var contact models.Contact
	err := r.db.WithContext(ctx).Preload("Tags").First(&contact, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("contact %s: %w", id, errs.ErrNotFound)
		}
		return nil, err
	}
	return &contact, nil
}

// Create inserts a contact attached to the existing tags named by tagSlugs.
// Any failure, an unknown slug included, is reported as errs.ErrNotCreated.
// Unlike UpdateByID, an unknown slug is a failed create, not a missing tag.
func (r *ContactRepo) Create(ctx context.Context, name, contact string, tagSlugs []string) (*models.Contact, error) {
	row := &models.Contact{Name: name, Contact: contact}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := findTagsBySlug(tx, tagSlugs)
		if err != nil {
			return err
		}
		row.Tags = tags
		return translateError(tx.Omit("Tags.*").Create(row).Error)
	})
	if err != nil {
		return nil, fmt.Errorf("create contact: %w: %w", errs.ErrNotCreated, err)
	}
	return row, nil
}

// UpdateByID overwrites name and contact and attaches the given tags.
// Previously attached tags are kept.
func (r *ContactRepo) UpdateByID(ctx context.Context, id uuid.UUID, name, contact string, tagSlugs []string) (*models.Contact, error) {
	var row models.Contact

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("contact %s: %w", id, errs.ErrNotFound)
			}
			return err
		}

		tags, err := findTagsBySlug(tx, tagSlugs)
		if err != nil {
			return err
		}

		err = tx.Model(&row).Updates(map[string]any{
			"name":    name,
			"contact": contact,
		}).Error
		if err != nil {
			return translateError(err)
		}

		if len(tags) > 0 {
			if err := tx.Model(&row).Association("Tags").Append(tags); err != nil {
				return translateError(err)
			}
		}

		return tx.Preload("Tags").First(&row, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// DeleteByID removes the contact and its join rows. Tags are untouched.
func (r *ContactRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.Contact
		if err := tx.Select("id").First(&row, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("contact %s: %w", id, errs.ErrNotFound)
			}
			return err
		}

		if err := tx.Model(&row).Association("Tags").Clear(); err != nil {
			return err
		}

		return tx.Delete(&row).Error
	})
}

// findTagsBySlug loads the tags named by slugs, failing with ErrUnknownTag
// when any slug does not exist. Create wraps that failure in
// errs.ErrNotCreated; UpdateByID returns it as is.
func findTagsBySlug(tx *gorm.DB, slugs []string) ([]models.Tag, error) {
	unique := make([]string, 0, len(slugs))
	seen := make(map[string]bool, len(slugs))
	for _, slug := range slugs {
		if !seen[slug] {
			seen[slug] = true
			unique = append(unique, slug)
		}
	}
	if len(unique) == 0 {
		return nil, nil
	}

	var tags []models.Tag
	if err := tx.Where("slug IN ?", unique).Find(&tags).Error; err != nil {
		return nil, err
	}

	if len(tags) != len(unique) {
		found := make(map[string]bool, len(tags))
		for _, tag := range tags {
			found[tag.Slug] = true
		}
		for _, slug := range unique {
			if !found[slug] {
				return nil, fmt.Errorf("%w: %q", ErrUnknownTag, slug)
			}
		}
	}

	return tags, nil
}
