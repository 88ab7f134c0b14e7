package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"jobace/internal/auth"
	apperrors "jobace/internal/errors"
	"jobace/internal/model"
	"jobace/internal/repository"
)

const bcryptCost = 10

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserAlreadyExists is returned when trying to register an existing user.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidRefreshToken is returned when refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// TokenPair bundles the access and refresh tokens issued at login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, email, password, name string, role model.UserRole) (*model.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, *model.User, error)
	LoginWithGoogle(ctx context.Context, googleID, email, name string) (*TokenPair, *model.User, error)
	LoginWithFacebook(ctx context.Context, facebookID, email, name string) (*TokenPair, *model.User, error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// Register creates a new user with hashed password. The admin role is never
// self-assignable; roles are fixed after this point.
func (s *authService) Register(ctx context.Context, email, password, name string, role model.UserRole) (*model.User, error) {
	if role != model.RoleClient && role != model.RoleWorker {
		return nil, apperrors.ErrInvalidRole
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrUserAlreadyExists
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         name,
		Role:         role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user and returns an access and refresh token pair.
func (s *authService) Login(ctx context.Context, email, password string) (*TokenPair, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if user.PasswordHash == "" {
		// OAuth-only account
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// LoginWithGoogle finds or creates the user matching a verified Google
// profile and issues the same token pair as password login. An existing
// account with the same email is linked rather than duplicated.
func (s *authService) LoginWithGoogle(ctx context.Context, googleID, email, name string) (*TokenPair, *model.User, error) {
	return s.loginWithProvider(ctx, "google", email, name,
		func(ctx context.Context) (*model.User, error) {
			return s.userRepo.FindByGoogleID(ctx, googleID)
		},
		func(u *model.User) { u.GoogleID = googleID },
	)
}

// LoginWithFacebook is the Facebook counterpart of LoginWithGoogle, keyed on
// the Facebook profile id.
func (s *authService) LoginWithFacebook(ctx context.Context, facebookID, email, name string) (*TokenPair, *model.User, error) {
	return s.loginWithProvider(ctx, "facebook", email, name,
		func(ctx context.Context) (*model.User, error) {
			return s.userRepo.FindByFacebookID(ctx, facebookID)
		},
		func(u *model.User) { u.FacebookID = facebookID },
	)
}

// loginWithProvider resolves an OAuth profile to a local user: by provider id
// first, then by email (linking the provider id onto the existing account),
// creating a fresh worker account otherwise.
func (s *authService) loginWithProvider(ctx context.Context, provider, email, name string, findByProviderID func(context.Context) (*model.User, error), link func(*model.User)) (*TokenPair, *model.User, error) {
	user, err := findByProviderID(ctx)
	if err == gorm.ErrRecordNotFound {
		user, err = s.userRepo.FindByEmail(ctx, email)
		if err == nil {
			link(user)
			if err := s.userRepo.Update(ctx, user); err != nil {
				return nil, nil, fmt.Errorf("link %s account: %w", provider, err)
			}
		} else if err == gorm.ErrRecordNotFound {
			user = &model.User{
				Email: email,
				Name:  name,
				Role:  model.RoleWorker,
			}
			link(user)
			if err := s.userRepo.Create(ctx, user); err != nil {
				return nil, nil, fmt.Errorf("create %s user: %w", provider, err)
			}
		} else {
			return nil, nil, fmt.Errorf("find user by email: %w", err)
		}
	} else if err != nil {
		return nil, nil, fmt.Errorf("find user by %s id: %w", provider, err)
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

func (s *authService) issueTokens(ctx context.Context, user *model.User) (*TokenPair, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID, user.Email, user.Role, auth.RefreshTokenExpiry); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	storedUserID, storedEmail, storedRole, err := s.tokenStore.GetRefreshToken(ctx, tokenID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	if storedUserID != claims.UserID || storedEmail != claims.Email || storedRole != claims.Role {
		return "", ErrInvalidRefreshToken
	}

	accessToken, err := s.jwtService.GenerateAccessToken(&model.User{
		ID:    claims.UserID,
		Email: claims.Email,
		Role:  claims.Role,
	})
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}

	return accessToken, nil
}

// Logout invalidates a refresh token.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return ErrInvalidRefreshToken
	}

	return s.tokenStore.DeleteRefreshToken(ctx, tokenID)
}
