package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"seungpyo.lee/Speceal/internal/config"
	"seungpyo.lee/Speceal/internal/domain"
	"seungpyo.lee/Speceal/pkg/util"
)

// fakeImageService records listing parameters; everything else is inert.
type fakeImageService struct {
	lastPage      int
	lastLimit     int
	lastTagsLimit int
}

func (f *fakeImageService) Create(ctx context.Context, req domain.CreateImageRequest, data []byte, fileSize int64, ownerID uint) (*domain.ImageResponse, error) {
	return &domain.ImageResponse{}, nil
}

func (f *fakeImageService) FindAll(ctx context.Context, query domain.ImageQuery, userID *uint) (*domain.ImageListResult, error) {
	f.lastPage = query.Page
	f.lastLimit = query.Limit
	return &domain.ImageListResult{}, nil
}

func (f *fakeImageService) FindOne(ctx context.Context, id uint, userID *uint) (*domain.ImageResponse, error) {
	return &domain.ImageResponse{}, nil
}

func (f *fakeImageService) Update(ctx context.Context, id uint, req domain.UpdateImageRequest, userID uint) (*domain.ImageResponse, error) {
	return &domain.ImageResponse{}, nil
}

func (f *fakeImageService) Remove(ctx context.Context, id uint, userID uint) error { return nil }

func (f *fakeImageService) LikeImage(ctx context.Context, id, userID uint) (*domain.LikeResult, error) {
	return &domain.LikeResult{}, nil
}

func (f *fakeImageService) DownloadImage(ctx context.Context, id uint) (string, error) {
	return "", nil
}

func (f *fakeImageService) GetUserImages(ctx context.Context, userID uint, page, limit int) (*domain.ImageListResult, error) {
	f.lastPage = page
	f.lastLimit = limit
	return &domain.ImageListResult{}, nil
}

func (f *fakeImageService) GetImageStats(ctx context.Context) (*domain.GalleryStats, error) {
	return &domain.GalleryStats{}, nil
}

func (f *fakeImageService) GetCategories(ctx context.Context) ([]string, error) { return nil, nil }

func (f *fakeImageService) GetTrendingTags(ctx context.Context, limit int) ([]domain.TagCount, error) {
	f.lastTagsLimit = limit
	return nil, nil
}

func newImageRouter(t *testing.T) (*gin.Engine, *fakeImageService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := &fakeImageService{}
	h := NewImageHandler(svc, &config.Config{Environment: "test"})

	r := gin.New()
	asUser := func(c *gin.Context) { util.SetCurrentUser(c, 7, "alice@example.com", domain.RoleUser) }
	r.GET("/my-images", asUser, h.GetUserImages)
	r.GET("/trending-tags", h.GetTrendingTags)
	return r, svc
}

func doGet(t *testing.T, r *gin.Engine, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	r.ServeHTTP(w, req)
	return w
}

func TestGetUserImages_MalformedPagingIsRejected(t *testing.T) {
	r, _ := newImageRouter(t)

	for _, target := range []string{
		"/my-images?page=abc",
		"/my-images?page=0",
		"/my-images?limit=oops",
		"/my-images?limit=101",
	} {
		w := doGet(t, r, target)
		require.Equal(t, http.StatusBadRequest, w.Code, "target=%s", target)
	}
}

func TestGetUserImages_BindsPagingWithDefaults(t *testing.T) {
	r, svc := newImageRouter(t)

	w := doGet(t, r, "/my-images")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, svc.lastPage)
	require.Equal(t, 12, svc.lastLimit)

	w = doGet(t, r, "/my-images?page=3&limit=5")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 3, svc.lastPage)
	require.Equal(t, 5, svc.lastLimit)
}

func TestGetTrendingTags_BindsLimit(t *testing.T) {
	r, svc := newImageRouter(t)

	w := doGet(t, r, "/trending-tags")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 10, svc.lastTagsLimit)

	w = doGet(t, r, "/trending-tags?limit=nope")
	require.Equal(t, http.StatusBadRequest, w.Code)
}
