package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/auth"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AuthUsecase handles registration, login, logout and request authentication.
type AuthUsecase struct {
	users   domain.UserRepository
	tokens  TokenManager
	revoked TokenRevoker
	events  EventPublisher
	metrics *metrics.MetricsManager
	logger  *logger.Logger
}

func NewAuthUsecase(
	users domain.UserRepository,
	tokens TokenManager,
	revoked TokenRevoker,
	events EventPublisher,
	m *metrics.MetricsManager,
	log *logger.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		users:   users,
		tokens:  tokens,
		revoked: revoked,
		events:  events,
		metrics: m,
		logger:  log.Named("AuthUsecase"),
	}
}

// Register creates a regular user account.
func (uc *AuthUsecase) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if _, err := uc.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, domain.Internal(err)
	}
	user := domain.NewUser(name, email, hash)
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	publish(ctx, uc.events, uc.metrics, uc.logger, SubjectUserRegistered, map[string]interface{}{
		"user_id": user.ID.Hex(),
		"name":    user.Name,
	})
	uc.logger.Info("User registered", zap.String("user_id", user.ID.Hex()))
	return user, nil
}

// Login checks credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (uc *AuthUsecase) Login(ctx context.Context, email, password string) (auth.IssuedToken, *domain.User, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return auth.IssuedToken{}, nil, domain.ErrInvalidCredential
		}
		return auth.IssuedToken{}, nil, err
	}
	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return auth.IssuedToken{}, nil, domain.Internal(err)
	}
	if !ok {
		uc.logger.Info("Login rejected", zap.String("user_id", user.ID.Hex()))
		return auth.IssuedToken{}, nil, domain.ErrInvalidCredential
	}

	token, err := uc.tokens.Issue(user)
	if err != nil {
		return auth.IssuedToken{}, nil, domain.Internal(err)
	}
	uc.logger.Info("User logged in", zap.String("user_id", user.ID.Hex()))
	return token, user, nil
}

// Logout revokes the token the principal authenticated with.
func (uc *AuthUsecase) Logout(ctx context.Context, p domain.Principal) error {
	if p.TokenID == "" {
		return nil
	}
	if err := uc.revoked.Revoke(ctx, p.TokenID, p.ExpiresAt); err != nil {
		return domain.Internal(err)
	}
	uc.logger.Info("User logged out", zap.String("user_id", p.ID.Hex()))
	return nil
}

// Authenticate resolves a bearer token to the current state of its user.
func (uc *AuthUsecase) Authenticate(ctx context.Context, token string) (domain.Principal, error) {
	if token == "" {
		return domain.Principal{}, domain.ErrTokenRequired
	}
	claims, err := uc.tokens.Parse(token)
	if err != nil {
		return domain.Principal{}, err
	}
	if claims.ID != "" {
		revoked, err := uc.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return domain.Principal{}, domain.Internal(fmt.Errorf("check token revocation: %w", err))
		}
		if revoked {
			return domain.Principal{}, domain.ErrInvalidToken
		}
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return domain.Principal{}, domain.ErrInvalidToken.WithCause(err)
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Principal{}, domain.ErrInvalidToken
		}
		return domain.Principal{}, err
	}

	p := domain.Principal{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Avatar:  user.Avatar,
		Role:    user.Role,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p, nil
}
