package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"seungpyo.lee/Speceal/internal/config"
	"seungpyo.lee/Speceal/internal/domain"
)

// fakeUserService records listing parameters; everything else is inert.
type fakeUserService struct {
	lastPage  int
	lastLimit int
}

func (f *fakeUserService) GetUserProfile(userID uint) (*domain.User, error) {
	return &domain.User{}, nil
}

func (f *fakeUserService) UpdateProfile(userID uint, req domain.UpdateProfileRequest) (*domain.User, error) {
	return &domain.User{}, nil
}

func (f *fakeUserService) GetAllUsers(page, limit int) (*domain.UserListResult, error) {
	f.lastPage = page
	f.lastLimit = limit
	return &domain.UserListResult{}, nil
}

func (f *fakeUserService) DeactivateUser(userID uint) error { return nil }

func (f *fakeUserService) GetUserStats(userID uint) (*domain.UserStatsResponse, error) {
	return &domain.UserStatsResponse{}, nil
}

func newUserRouter(t *testing.T) (*gin.Engine, *fakeUserService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := &fakeUserService{}
	h := NewUserHandler(svc, &config.Config{Environment: "test"})

	r := gin.New()
	r.GET("/users", h.GetAllUsers)
	return r, svc
}

func TestGetAllUsers_MalformedPagingIsRejected(t *testing.T) {
	r, _ := newUserRouter(t)

	for _, target := range []string{
		"/users?page=abc",
		"/users?page=-1",
		"/users?limit=oops",
	} {
		w := doGet(t, r, target)
		require.Equal(t, http.StatusBadRequest, w.Code, "target=%s", target)
	}
}

func TestGetAllUsers_BindsPagingWithDefaults(t *testing.T) {
	r, svc := newUserRouter(t)

	w := doGet(t, r, "/users")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, svc.lastPage)
	require.Equal(t, 10, svc.lastLimit)

	w = doGet(t, r, "/users?page=2&limit=25")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 2, svc.lastPage)
	require.Equal(t, 25, svc.lastLimit)
}
