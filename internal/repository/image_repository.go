package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"seungpyo.lee/Speceal/internal/domain"
)

// sortColumns is the allowlist mapping API sort keys to columns. Anything
// outside it falls back to created_at.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
	"category":  "category",
	"views":     "views",
	"downloads": "downloads",
	"fileSize":  "file_size",
}

// imageRepository implements domain.ImageRepository using GORM.
type imageRepository struct {
	db *gorm.DB
}

// NewImageRepository creates a new ImageRepository with the given GORM DB instance.
func NewImageRepository(db *gorm.DB) domain.ImageRepository {
	return &imageRepository{db: db}
}

// Create inserts a new image, resolving tag names against the shared tags
// table first so duplicates reuse the existing row.
func (r *imageRepository) Create(image *domain.Image) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range image.Tags {
			if err := tx.Where("name = ?", image.Tags[i].Name).
				FirstOrCreate(&image.Tags[i], domain.Tag{Name: image.Tags[i].Name}).Error; err != nil {
				return fmt.Errorf("failed to resolve tag: %w", err)
			}
		}
		if err := tx.Create(image).Error; err != nil {
			return fmt.Errorf("failed to create image: %w", err)
		}
		return nil
	})
}

// FindByID retrieves an image with its uploader, tags and likers resolved.
func (r *imageRepository) FindByID(id uint) (*domain.Image, error) {
	var image domain.Image
	err := r.db.Preload("Uploader").
		Preload("Tags").
		Preload("Likes").
		Preload("Likes.User").
		First(&image, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrImageNotFound
		}
		return nil, fmt.Errorf("failed to get image: %w", err)
	}
	return &image, nil
}

func (r *imageRepository) applyFilter(q *gorm.DB, f domain.ImageFilter) *gorm.DB {
	if f.PublicOnly {
		q = q.Where("images.is_public = ?", true)
	}
	if f.Category != "" {
		q = q.Where("images.category = ?", f.Category)
	}
	if len(f.Tags) > 0 {
		q = q.Where("images.id IN (?)", r.db.Table("image_tags").
			Select("image_tags.image_id").
			Joins("JOIN tags ON tags.id = image_tags.tag_id").
			Where("tags.name IN ?", f.Tags))
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where(
			"images.title ILIKE ? OR images.description ILIKE ? OR images.id IN (?)",
			like, like,
			r.db.Table("image_tags").
				Select("image_tags.image_id").
				Joins("JOIN tags ON tags.id = image_tags.tag_id").
				Where("tags.name ILIKE ?", like),
		)
	}
	if f.OwnerID != nil {
		q = q.Where("images.uploaded_by = ?", *f.OwnerID)
	}
	return q
}

// Search returns the filtered, sorted page of images plus the total count
// of all matches.
func (r *imageRepository) Search(f domain.ImageFilter) ([]*domain.Image, int64, error) {
	var total int64
	if err := r.applyFilter(r.db.Model(&domain.Image{}), f).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count images: %w", err)
	}

	column, ok := sortColumns[f.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if f.SortDesc {
		direction = "DESC"
	}

	var images []*domain.Image
	err := r.applyFilter(r.db.Model(&domain.Image{}), f).
		Preload("Uploader").
		Preload("Tags").
		Preload("Likes").
		Order(fmt.Sprintf("images.%s %s", column, direction)).
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&images).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list images: %w", err)
	}
	return images, total, nil
}

// UpdateFields patches the given columns on one image row.
func (r *imageRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	result := r.db.Model(&domain.Image{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update image: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrImageNotFound
	}
	return nil
}

// ReplaceTags swaps the image's tag set for the given names.
func (r *imageRepository) ReplaceTags(imageID uint, names []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		tags := make([]domain.Tag, len(names))
		for i, name := range names {
			if err := tx.Where("name = ?", name).
				FirstOrCreate(&tags[i], domain.Tag{Name: name}).Error; err != nil {
				return fmt.Errorf("failed to resolve tag: %w", err)
			}
		}
		image := domain.Image{ID: imageID}
		if err := tx.Model(&image).Association("Tags").Replace(tags); err != nil {
			return fmt.Errorf("failed to replace tags: %w", err)
		}
		return nil
	})
}

// Delete removes the image row together with its like and tag links.
func (r *imageRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("image_id = ?", id).Delete(&domain.ImageLike{}).Error; err != nil {
			return fmt.Errorf("failed to delete likes: %w", err)
		}
		if err := tx.Exec("DELETE FROM image_tags WHERE image_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete tag links: %w", err)
		}
		result := tx.Delete(&domain.Image{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete image: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrImageNotFound
		}
		return nil
	})
}

// IncrementViews bumps the view counter in a single statement.
func (r *imageRepository) IncrementViews(id uint) error {
	err := r.db.Model(&domain.Image{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}

// IncrementDownloads bumps the download counter in a single statement.
func (r *imageRepository) IncrementDownloads(id uint) error {
	err := r.db.Model(&domain.Image{}).Where("id = ?", id).
		UpdateColumn("downloads", gorm.Expr("downloads + 1")).Error
	if err != nil {
		return fmt.Errorf("failed to increment downloads: %w", err)
	}
	return nil
}

// ToggleLike flips the (image, user) like membership. Delete-then-insert
// keeps the toggle atomic: the composite primary key makes a concurrent
// duplicate like a no-op instead of a second row.
func (r *imageRepository) ToggleLike(imageID, userID uint) (bool, error) {
	result := r.db.Where("image_id = ? AND user_id = ?", imageID, userID).Delete(&domain.ImageLike{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to toggle like: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return false, nil
	}
	err := r.db.Exec(
		"INSERT INTO image_likes (image_id, user_id, liked_at) VALUES (?, ?, ?) ON CONFLICT DO NOTHING",
		imageID, userID, time.Now(),
	).Error
	if err != nil {
		return false, fmt.Errorf("failed to toggle like: %w", err)
	}
	return true, nil
}

// CountLikes returns the current size of the image's like set.
func (r *imageRepository) CountLikes(imageID uint) (int64, error) {
	var count int64
	err := r.db.Model(&domain.ImageLike{}).Where("image_id = ?", imageID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

// GalleryStats aggregates totals over public images.
func (r *imageRepository) GalleryStats() (*domain.GalleryStats, error) {
	var stats domain.GalleryStats
	err := r.db.Model(&domain.Image{}).
		Select("COUNT(*) AS total_images, COALESCE(SUM(downloads), 0) AS total_downloads, COALESCE(SUM(views), 0) AS total_views").
		Where("is_public = ?", true).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stats: %w", err)
	}
	return &stats, nil
}

// Categories returns the distinct categories in use.
func (r *imageRepository) Categories() ([]string, error) {
	var categories []string
	err := r.db.Model(&domain.Image{}).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// TrendingTags returns the top-N tags by usage. Ties break lexicographically
// so the order is deterministic.
func (r *imageRepository) TrendingTags(limit int) ([]domain.TagCount, error) {
	var tags []domain.TagCount
	err := r.db.Table("image_tags").
		Select("tags.name AS name, COUNT(*) AS count").
		Joins("JOIN tags ON tags.id = image_tags.tag_id").
		Group("tags.name").
		Order("count DESC, tags.name ASC").
		Limit(limit).
		Scan(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate tags: %w", err)
	}
	return tags, nil
}

// OwnerAggregates sums a user's catalog footprint: images owned, likes
// received across them, downloads across them.
func (r *imageRepository) OwnerAggregates(ownerID uint) (*domain.OwnerAggregates, error) {
	var agg domain.OwnerAggregates
	err := r.db.Model(&domain.Image{}).
		Select("COUNT(*) AS total_images, COALESCE(SUM(downloads), 0) AS total_downloads").
		Where("uploaded_by = ?", ownerID).
		Scan(&agg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate images: %w", err)
	}
	err = r.db.Table("image_likes").
		Joins("JOIN images ON images.id = image_likes.image_id").
		Where("images.uploaded_by = ?", ownerID).
		Count(&agg.TotalLikes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate likes: %w", err)
	}
	return &agg, nil
}
