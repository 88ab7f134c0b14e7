package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"jobace/internal/errors"
	"jobace/internal/model"
)

func strPtr(s string) *string { return &s }

func TestUserService_UpdateProfile(t *testing.T) {
	userID := mustUUID("31111111-1111-1111-1111-111111111111")

	t.Run("patches allow-listed fields only", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, userID).Return(&model.User{
			ID:           userID,
			Name:         "Old Name",
			Email:        "worker@example.com",
			PasswordHash: "hashed",
			Role:         model.RoleWorker,
		}, nil)
		mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Name == "New Name" &&
				u.Phone == "+20123456789" &&
				u.Bio == "Plumber" &&
				u.Email == "worker@example.com" &&
				u.PasswordHash == "hashed" &&
				u.Role == model.RoleWorker
		})).Return(nil)

		service := NewUserService(mockRepo)
		user, err := service.UpdateProfile(context.Background(), workerActor(userID), ProfilePatch{
			Name:   strPtr("New Name"),
			Phone:  strPtr("+20123456789"),
			Bio:    strPtr("Plumber"),
			Skills: []string{"plumbing", "welding"},
		})

		assert.NoError(t, err)
		assert.Equal(t, "New Name", user.Name)
		assert.Equal(t, model.RoleWorker, user.Role)
		assert.Equal(t, "worker@example.com", user.Email)
		assert.Equal(t, "hashed", user.PasswordHash)
		mockRepo.AssertExpectations(t)
	})

	t.Run("nil fields are left untouched", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, userID).Return(&model.User{
			ID:      userID,
			Name:    "Kept Name",
			Address: "Kept Address",
			Role:    model.RoleClient,
		}, nil)
		mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Name == "Kept Name" && u.Address == "Kept Address" && u.Bio == "Only this"
		})).Return(nil)

		service := NewUserService(mockRepo)
		_, err := service.UpdateProfile(context.Background(), clientActor(userID), ProfilePatch{
			Bio: strPtr("Only this"),
		})

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("missing user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

		service := NewUserService(mockRepo)
		_, err := service.UpdateProfile(context.Background(), workerActor(userID), ProfilePatch{Name: strPtr("x")})

		assert.ErrorIs(t, err, errors.ErrUserNotFound)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestUserService_UpdateUser(t *testing.T) {
	targetID := mustUUID("32222222-2222-2222-2222-222222222222")
	strangerID := mustUUID("33333333-3333-3333-3333-333333333333")
	adminID := mustUUID("34444444-4444-4444-4444-444444444444")

	t.Run("admin patches another user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, targetID).Return(&model.User{
			ID:   targetID,
			Name: "Before",
			Role: model.RoleWorker,
		}, nil)
		mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.ID == targetID && u.Name == "After" && u.Role == model.RoleWorker
		})).Return(nil)

		service := NewUserService(mockRepo)
		user, err := service.UpdateUser(context.Background(), adminActor(adminID), targetID, ProfilePatch{
			Name: strPtr("After"),
		})

		assert.NoError(t, err)
		assert.Equal(t, "After", user.Name)
		mockRepo.AssertExpectations(t)
	})

	t.Run("non-admin cannot patch another user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)

		service := NewUserService(mockRepo)
		_, err := service.UpdateUser(context.Background(), workerActor(strangerID), targetID, ProfilePatch{
			Name: strPtr("Nope"),
		})

		assert.ErrorIs(t, err, errors.ErrForbidden)
		mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	targetID := mustUUID("35555555-5555-5555-5555-555555555555")
	strangerID := mustUUID("36666666-6666-6666-6666-666666666666")
	adminID := mustUUID("37777777-7777-7777-7777-777777777777")

	t.Run("user deletes themselves", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, targetID).Return(&model.User{ID: targetID}, nil)
		mockRepo.On("Delete", mock.Anything, targetID).Return(nil)

		service := NewUserService(mockRepo)
		err := service.DeleteUser(context.Background(), workerActor(targetID), targetID)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("admin deletes another user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, targetID).Return(&model.User{ID: targetID}, nil)
		mockRepo.On("Delete", mock.Anything, targetID).Return(nil)

		service := NewUserService(mockRepo)
		err := service.DeleteUser(context.Background(), adminActor(adminID), targetID)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		mockRepo := new(MockUserRepository)

		service := NewUserService(mockRepo)
		err := service.DeleteUser(context.Background(), clientActor(strangerID), targetID)

		assert.ErrorIs(t, err, errors.ErrForbidden)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, targetID).Return(nil, gorm.ErrRecordNotFound)

		service := NewUserService(mockRepo)
		err := service.DeleteUser(context.Background(), adminActor(adminID), targetID)

		assert.ErrorIs(t, err, errors.ErrUserNotFound)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
