package usecase

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserUsecase serves user profiles.
type UserUsecase struct {
	users   domain.UserRepository
	reviews domain.ReviewRepository
	logger  *logger.Logger
}

func NewUserUsecase(users domain.UserRepository, reviews domain.ReviewRepository, log *logger.Logger) *UserUsecase {
	return &UserUsecase{users: users, reviews: reviews, logger: log.Named("UserUsecase")}
}

// Profile returns the user and a live count of their reviews.
func (uc *UserUsecase) Profile(ctx context.Context, id primitive.ObjectID) (*domain.Profile, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.withCount(ctx, user)
}

func (uc *UserUsecase) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd domain.ProfileUpdate) (*domain.Profile, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.ApplyProfile(upd) {
		if err := uc.users.Update(ctx, user); err != nil {
			return nil, err
		}
		uc.logger.Info("Profile updated", zap.String("user_id", id.Hex()))
	}
	return uc.withCount(ctx, user)
}

func (uc *UserUsecase) withCount(ctx context.Context, user *domain.User) (*domain.Profile, error) {
	n, err := uc.reviews.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &domain.Profile{User: user, ReviewCount: n}, nil
}
