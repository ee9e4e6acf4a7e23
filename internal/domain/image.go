package domain

import (
	"context"
	"time"
)

// ImageCategories is the closed category enum.
var ImageCategories = []string{
	"nature", "technology", "people", "architecture",
	"animals", "food", "travel", "art", "other",
}

func IsValidCategory(category string) bool {
	for _, c := range ImageCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Image is a catalog record. ImageURL/PublicID reference the external asset;
// the row and the remote blob share their lifetime except on partial delete
// failure, which can orphan one side.
type Image struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	Title       string      `json:"title" gorm:"size:100;not null"`
	Description string      `json:"description,omitempty" gorm:"size:500"`
	ImageURL    string      `json:"imageUrl" gorm:"not null"`
	PublicID    string      `json:"publicId" gorm:"not null"`
	Category    string      `json:"category" gorm:"size:32;index;not null"`
	Tags        []Tag       `json:"tags" gorm:"many2many:image_tags;"`
	UploadedBy  uint        `json:"uploadedBy" gorm:"index;not null"`
	Uploader    *User       `json:"uploader,omitempty" gorm:"foreignKey:UploadedBy"`
	Likes       []ImageLike `json:"-"`
	Downloads   int64       `json:"downloads" gorm:"default:0"`
	Views       int64       `json:"views" gorm:"default:0"`
	IsPublic    bool        `json:"isPublic" gorm:"default:true"`
	FileSize    int64       `json:"fileSize" gorm:"not null"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	Format      string      `json:"format" gorm:"size:16;not null"`
	CreatedAt   time.Time   `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type Tag struct {
	ID   uint   `json:"-" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;size:64;not null"`
}

// ImageLike records one user's like on one image. The composite primary key
// is what makes the like-toggle race-free: a duplicate like is a no-op
// insert, not a second row.
type ImageLike struct {
	ImageID uint      `json:"-" gorm:"primaryKey;autoIncrement:false"`
	UserID  uint      `json:"userId" gorm:"primaryKey;autoIncrement:false"`
	User    *User     `json:"user,omitempty"`
	LikedAt time.Time `json:"likedAt"`
}

type CreateImageRequest struct {
	Title       string `form:"title" binding:"required,min=1,max=100"`
	Description string `form:"description" binding:"omitempty,max=500"`
	Category    string `form:"category" binding:"required"`
	// Tags is a comma-separated list; normalized to lowercase on persist.
	Tags     string `form:"tags"`
	IsPublic *bool  `form:"isPublic"`
}

type UpdateImageRequest struct {
	Title       *string `json:"title,omitempty" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=500"`
	Category    *string `json:"category,omitempty"`
	Tags        *string `json:"tags,omitempty"`
	IsPublic    *bool   `json:"isPublic,omitempty"`
}

// ImageQuery is the gallery listing query string.
type ImageQuery struct {
	Page      int    `form:"page,default=1" binding:"omitempty,min=1"`
	Limit     int    `form:"limit,default=12" binding:"omitempty,min=1,max=100"`
	Category  string `form:"category"`
	Tags      string `form:"tags"`
	Search    string `form:"search"`
	SortBy    string `form:"sortBy,default=createdAt"`
	SortOrder string `form:"sortOrder,default=desc" binding:"omitempty,oneof=asc desc"`
	UserID    *uint  `form:"userId"`
}

// PageQuery is the bare page/limit query string of the owner listing.
// Defaults apply at bind time, so explicit zero or negative values fail
// validation instead of sliding through.
type PageQuery struct {
	Page  int `form:"page,default=1" binding:"min=1"`
	Limit int `form:"limit,default=12" binding:"min=1,max=100"`
}

type TrendingTagsQuery struct {
	Limit int `form:"limit,default=10" binding:"min=1,max=50"`
}

// ImageFilter is the repository-level view of an ImageQuery.
type ImageFilter struct {
	PublicOnly bool
	Category   string
	Tags       []string
	Search     string
	OwnerID    *uint
	SortBy     string
	SortDesc   bool
	Page       int
	Limit      int
}

// ImageResponse flattens an Image for API output.
type ImageResponse struct {
	ID          uint         `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	ImageURL    string       `json:"imageUrl"`
	PublicID    string       `json:"publicId"`
	Category    string       `json:"category"`
	Tags        []string     `json:"tags"`
	Uploader    *UserSummary `json:"uploadedBy,omitempty"`
	LikesCount  int          `json:"likesCount"`
	Likes       []LikerInfo  `json:"likes,omitempty"`
	Downloads   int64        `json:"downloads"`
	Views       int64        `json:"views"`
	IsPublic    bool         `json:"isPublic"`
	FileSize    int64        `json:"fileSize"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	Format      string       `json:"format"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// LikerInfo resolves one like to the identity of the user behind it.
type LikerInfo struct {
	UserID   uint      `json:"userId"`
	Username string    `json:"username,omitempty"`
	LikedAt  time.Time `json:"likedAt"`
}

type ImageListResult struct {
	Images     []ImageResponse `json:"images"`
	Pagination Pagination      `json:"pagination"`
}

type LikeResult struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likesCount"`
}

type GalleryStats struct {
	TotalImages    int64 `json:"totalImages"`
	TotalDownloads int64 `json:"totalDownloads"`
	TotalViews     int64 `json:"totalViews"`
}

type TagCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// ImageRepository owns Image rows, their tags and their likes. Not-found
// lookups return ErrImageNotFound. Counter and like mutations are single
// SQL statements, never read-modify-write.
type ImageRepository interface {
	Create(image *Image) error
	FindByID(id uint) (*Image, error)
	Search(filter ImageFilter) ([]*Image, int64, error)
	UpdateFields(id uint, fields map[string]interface{}) error
	ReplaceTags(imageID uint, names []string) error
	Delete(id uint) error
	IncrementViews(id uint) error
	IncrementDownloads(id uint) error
	// ToggleLike flips membership of userID in the image's like set and
	// reports the resulting liked state.
	ToggleLike(imageID, userID uint) (bool, error)
	CountLikes(imageID uint) (int64, error)
	GalleryStats() (*GalleryStats, error)
	Categories() ([]string, error)
	TrendingTags(limit int) ([]TagCount, error)
	OwnerAggregates(ownerID uint) (*OwnerAggregates, error)
}

// ImageService carries the request context so cancellation reaches the
// media gateway and cache round trips.
type ImageService interface {
	Create(ctx context.Context, req CreateImageRequest, data []byte, fileSize int64, ownerID uint) (*ImageResponse, error)
	FindAll(ctx context.Context, query ImageQuery, userID *uint) (*ImageListResult, error)
	FindOne(ctx context.Context, id uint, userID *uint) (*ImageResponse, error)
	Update(ctx context.Context, id uint, req UpdateImageRequest, userID uint) (*ImageResponse, error)
	Remove(ctx context.Context, id uint, userID uint) error
	LikeImage(ctx context.Context, id, userID uint) (*LikeResult, error)
	DownloadImage(ctx context.Context, id uint) (string, error)
	GetUserImages(ctx context.Context, userID uint, page, limit int) (*ImageListResult, error)
	GetImageStats(ctx context.Context) (*GalleryStats, error)
	GetCategories(ctx context.Context) ([]string, error)
	GetTrendingTags(ctx context.Context, limit int) ([]TagCount, error)
}
