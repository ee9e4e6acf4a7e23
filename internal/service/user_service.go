package service

import (
	"math"
	"strings"

	"seungpyo.lee/Speceal/internal/domain"
)

// userService implements domain.UserService over the user and image
// repositories. The image repository is only consulted for the cross-entity
// stats aggregation.
type userService struct {
	users  domain.UserRepository
	images domain.ImageRepository
}

// NewUserService creates a new UserService.
func NewUserService(users domain.UserRepository, images domain.ImageRepository) domain.UserService {
	return &userService{users: users, images: images}
}

// GetUserProfile returns the user record; credential and token fields are
// hidden by the model's JSON tags.
func (s *userService) GetUserProfile(userID uint) (*domain.User, error) {
	return s.users.FindByID(userID)
}

// UpdateProfile applies a partial patch of firstName/lastName/avatar.
func (s *userService) UpdateProfile(userID uint, req domain.UpdateProfileRequest) (*domain.User, error) {
	fields := map[string]interface{}{}
	if req.FirstName != nil {
		fields["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		fields["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Avatar != nil {
		fields["avatar"] = *req.Avatar
	}
	if len(fields) > 0 {
		if err := s.users.UpdateFields(userID, fields); err != nil {
			return nil, err
		}
	}
	return s.users.FindByID(userID)
}

// GetAllUsers lists active users newest-first. Admin gating happens at the
// router.
func (s *userService) GetAllUsers(page, limit int) (*domain.UserListResult, error) {
	page = normalizePage(page)
	if limit < 1 {
		limit = 10
	}
	users, total, err := s.users.FindAllActive(page, limit)
	if err != nil {
		return nil, err
	}
	summaries := make([]domain.UserSummary, len(users))
	for i, user := range users {
		summaries[i] = user.Summary()
	}
	return &domain.UserListResult{
		Users: summaries,
		Pagination: domain.Pagination{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

// DeactivateUser soft-deletes: the account is flagged inactive, data stays.
func (s *userService) DeactivateUser(userID uint) error {
	return s.users.UpdateFields(userID, map[string]interface{}{"is_active": false})
}

// GetUserStats returns the public profile projection plus aggregate totals
// over the user's uploaded images.
func (s *userService) GetUserStats(userID uint) (*domain.UserStatsResponse, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	stats, err := s.images.OwnerAggregates(userID)
	if err != nil {
		return nil, err
	}
	return &domain.UserStatsResponse{
		User: domain.UserStatsProfile{
			ID:        user.ID,
			Username:  user.Username,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Avatar:    user.Avatar,
			JoinDate:  user.CreatedAt,
		},
		Stats: *stats,
	}, nil
}
