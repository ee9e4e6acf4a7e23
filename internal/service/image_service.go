package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"

	"seungpyo.lee/Speceal/internal/adapter"
	"seungpyo.lee/Speceal/internal/domain"
)

const (
	statsCacheKey = "speceal:stats:gallery"
	tagsCacheKey  = "speceal:tags:trending"
	cacheTTL      = time.Minute
)

// imageService implements domain.ImageService. Aggregate reads go through a
// short-TTL redis cache when a client is configured; everything else hits
// the repository directly.
type imageService struct {
	repo      domain.ImageRepository
	media     adapter.MediaStorage
	cache     *redis.Client
	sanitizer *bluemonday.Policy
}

// NewImageService creates a new ImageService. The redis client may be nil;
// aggregates are then computed on every call.
func NewImageService(repo domain.ImageRepository, media adapter.MediaStorage, cache *redis.Client) domain.ImageService {
	return &imageService{
		repo:      repo,
		media:     media,
		cache:     cache,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Create uploads the file to the media host first; nothing is persisted if
// the upload fails. The stored record combines caller metadata with the
// gateway-returned asset descriptor.
func (s *imageService) Create(ctx context.Context, req domain.CreateImageRequest, data []byte, fileSize int64, ownerID uint) (*domain.ImageResponse, error) {
	if !domain.IsValidCategory(req.Category) {
		return nil, domain.ErrInvalidCategory
	}

	asset, err := s.media.Upload(ctx, data)
	if err != nil {
		return nil, domain.ErrUploadFailed
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	image := &domain.Image{
		Title:       s.sanitizer.Sanitize(strings.TrimSpace(req.Title)),
		Description: s.sanitizer.Sanitize(strings.TrimSpace(req.Description)),
		ImageURL:    asset.URL,
		PublicID:    asset.PublicID,
		Category:    req.Category,
		Tags:        tagList(req.Tags),
		UploadedBy:  ownerID,
		IsPublic:    isPublic,
		FileSize:    fileSize,
		Width:       asset.Width,
		Height:      asset.Height,
		Format:      asset.Format,
	}
	if err := s.repo.Create(image); err != nil {
		return nil, err
	}

	created, err := s.repo.FindByID(image.ID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(created, false), nil
}

// FindAll lists public images only; ownership grants no extra visibility on
// this path.
func (s *imageService) FindAll(ctx context.Context, query domain.ImageQuery, userID *uint) (*domain.ImageListResult, error) {
	filter := domain.ImageFilter{
		PublicOnly: true,
		Category:   query.Category,
		Tags:       tagNames(query.Tags),
		Search:     query.Search,
		OwnerID:    query.UserID,
		SortBy:     query.SortBy,
		SortDesc:   query.SortOrder != "asc",
		Page:       normalizePage(query.Page),
		Limit:      normalizeLimit(query.Limit),
	}
	return s.search(filter)
}

// FindOne returns a single image, counting the view. Private images are
// visible to their owner only.
func (s *imageService) FindOne(ctx context.Context, id uint, userID *uint) (*domain.ImageResponse, error) {
	image, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !image.IsPublic && (userID == nil || *userID != image.UploadedBy) {
		return nil, domain.ErrPrivateImage
	}

	if err := s.repo.IncrementViews(id); err != nil {
		return nil, err
	}
	image.Views++

	return s.toResponse(image, true), nil
}

// Update patches an image's metadata. Owner only.
func (s *imageService) Update(ctx context.Context, id uint, req domain.UpdateImageRequest, userID uint) (*domain.ImageResponse, error) {
	image, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if image.UploadedBy != userID {
		return nil, domain.ErrNotImageOwner
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = s.sanitizer.Sanitize(strings.TrimSpace(*req.Title))
	}
	if req.Description != nil {
		fields["description"] = s.sanitizer.Sanitize(strings.TrimSpace(*req.Description))
	}
	if req.Category != nil {
		if !domain.IsValidCategory(*req.Category) {
			return nil, domain.ErrInvalidCategory
		}
		fields["category"] = *req.Category
	}
	if req.IsPublic != nil {
		fields["is_public"] = *req.IsPublic
	}
	if len(fields) > 0 {
		if err := s.repo.UpdateFields(id, fields); err != nil {
			return nil, err
		}
	}
	if req.Tags != nil {
		if err := s.repo.ReplaceTags(id, tagNames(*req.Tags)); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(updated, true), nil
}

// Remove deletes the remote asset first and only then the local record, so
// a failed gateway call leaves the record in place. A remote success
// followed by a local failure can orphan the row; there is no compensation
// step.
func (s *imageService) Remove(ctx context.Context, id uint, userID uint) error {
	image, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if image.UploadedBy != userID {
		return domain.ErrNotImageOwner
	}

	if err := s.media.Delete(ctx, image.PublicID); err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	return s.repo.Delete(id)
}

// LikeImage toggles the caller's like. Repeated calls alternate like/unlike.
func (s *imageService) LikeImage(ctx context.Context, id, userID uint) (*domain.LikeResult, error) {
	if _, err := s.repo.FindByID(id); err != nil {
		return nil, err
	}
	liked, err := s.repo.ToggleLike(id, userID)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountLikes(id)
	if err != nil {
		return nil, err
	}
	return &domain.LikeResult{Liked: liked, LikesCount: count}, nil
}

// DownloadImage counts the download and returns the asset URL. Public
// images only; no auth required.
func (s *imageService) DownloadImage(ctx context.Context, id uint) (string, error) {
	image, err := s.repo.FindByID(id)
	if err != nil {
		return "", err
	}
	if !image.IsPublic {
		return "", domain.ErrPrivateDownload
	}
	if err := s.repo.IncrementDownloads(id); err != nil {
		return "", err
	}
	return image.ImageURL, nil
}

// GetUserImages lists everything a user uploaded, private images included.
func (s *imageService) GetUserImages(ctx context.Context, userID uint, page, limit int) (*domain.ImageListResult, error) {
	filter := domain.ImageFilter{
		OwnerID:  &userID,
		SortBy:   "createdAt",
		SortDesc: true,
		Page:     normalizePage(page),
		Limit:    normalizeLimit(limit),
	}
	return s.search(filter)
}

// GetImageStats returns public-catalog totals, cached for a minute.
func (s *imageService) GetImageStats(ctx context.Context) (*domain.GalleryStats, error) {
	var cached domain.GalleryStats
	if s.cacheGet(ctx, statsCacheKey, &cached) {
		return &cached, nil
	}
	stats, err := s.repo.GalleryStats()
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, statsCacheKey, stats)
	return stats, nil
}

// GetCategories returns the distinct categories in use.
func (s *imageService) GetCategories(ctx context.Context) ([]string, error) {
	return s.repo.Categories()
}

// GetTrendingTags returns the top-N tags by usage count.
func (s *imageService) GetTrendingTags(ctx context.Context, limit int) ([]domain.TagCount, error) {
	if limit <= 0 {
		limit = 10
	}
	key := fmt.Sprintf("%s:%d", tagsCacheKey, limit)
	var cached []domain.TagCount
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}
	tags, err := s.repo.TrendingTags(limit)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, tags)
	return tags, nil
}

func (s *imageService) search(filter domain.ImageFilter) (*domain.ImageListResult, error) {
	images, total, err := s.repo.Search(filter)
	if err != nil {
		return nil, err
	}
	responses := make([]domain.ImageResponse, len(images))
	for i, image := range images {
		responses[i] = *s.toResponse(image, false)
	}
	return &domain.ImageListResult{
		Images: responses,
		Pagination: domain.Pagination{
			Total: total,
			Page:  filter.Page,
			Limit: filter.Limit,
			Pages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		},
	}, nil
}

// toResponse flattens an Image row. Liker identities are resolved only on
// single-image reads.
func (s *imageService) toResponse(image *domain.Image, withLikers bool) *domain.ImageResponse {
	resp := &domain.ImageResponse{
		ID:          image.ID,
		Title:       image.Title,
		Description: image.Description,
		ImageURL:    image.ImageURL,
		PublicID:    image.PublicID,
		Category:    image.Category,
		Tags:        make([]string, len(image.Tags)),
		LikesCount:  len(image.Likes),
		Downloads:   image.Downloads,
		Views:       image.Views,
		IsPublic:    image.IsPublic,
		FileSize:    image.FileSize,
		Width:       image.Width,
		Height:      image.Height,
		Format:      image.Format,
		CreatedAt:   image.CreatedAt,
		UpdatedAt:   image.UpdatedAt,
	}
	for i, tag := range image.Tags {
		resp.Tags[i] = tag.Name
	}
	if image.Uploader != nil {
		summary := image.Uploader.Summary()
		summary.Role = ""
		resp.Uploader = &summary
	}
	if withLikers {
		resp.Likes = make([]domain.LikerInfo, len(image.Likes))
		for i, like := range image.Likes {
			info := domain.LikerInfo{UserID: like.UserID, LikedAt: like.LikedAt}
			if like.User != nil {
				info.Username = like.User.Username
			}
			resp.Likes[i] = info
		}
	}
	return resp
}

func (s *imageService) cacheGet(ctx context.Context, key string, out interface{}) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), out) == nil
}

func (s *imageService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	s.cache.Set(ctx, key, raw, cacheTTL)
}

// tagNames splits a comma-separated tag list into normalized names.
func tagNames(raw string) []string {
	parts := strings.Split(raw, ",")
	seen := make(map[string]bool, len(parts))
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

func tagList(raw string) []domain.Tag {
	names := tagNames(raw)
	tags := make([]domain.Tag, len(names))
	for i, name := range names {
		tags[i] = domain.Tag{Name: name}
	}
	return tags
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizeLimit(limit int) int {
	if limit < 1 {
		return 12
	}
	if limit > 100 {
		return 100
	}
	return limit
}
