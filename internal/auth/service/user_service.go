package service

import (
	"context"

	"github.com/AnthoniusHendriyanto/blog-service/internal/auth/domain"
	"github.com/AnthoniusHendriyanto/blog-service/internal/auth/dto"
	autherror "github.com/AnthoniusHendriyanto/blog-service/internal/errors"
	"github.com/google/uuid"
)

type UserService struct {
	repo         domain.UserRepository
	tokenService TokenGenerator
	hasher       PasswordHasher
	clock        domain.Clock
}

func NewUserService(repo domain.UserRepository, tokenService TokenGenerator, clock domain.Clock) *UserService {
	return &UserService{
		repo:         repo,
		tokenService: tokenService,
		hasher:       NewPasswordHasher(),
		clock:        clock,
	}
}

// Register creates a new identity with the default user role. The pre-insert
// lookup is inherently racy, so the repository's uniqueness constraint is the
// real enforcer; its violation surfaces as the same error.
func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	existingUser, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, autherror.ErrEmailAlreadyInUse
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()

	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         domain.RoleUser,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and issues a token pair. Missing, deleted and
// inactive accounts and a bad password all collapse to ErrInvalidCredentials
// so the response never reveals which check failed.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*domain.TokenPair, error) {
	user, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	if user == nil || user.Deleted || !user.Active || !s.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, autherror.ErrInvalidCredentials
	}

	return s.tokenService.Generate(user.ID)
}

// Refresh exchanges a valid refresh token for a new pair. The old refresh
// token is not invalidated; it stays usable until its natural expiry.
func (s *UserService) Refresh(ctx context.Context, input dto.RefreshInput) (*domain.TokenPair, error) {
	claims, err := s.tokenService.VerifyRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, autherror.ErrInvalidToken
	}

	user, err := s.repo.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	return s.tokenService.Generate(user.ID)
}

// EnsureAdmin seeds the configured admin identity at startup if it does not
// exist yet. A blank email disables seeding.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" {
		return nil
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	admin := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         domain.RoleAdmin,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.repo.Create(ctx, admin)
}

// ListUsers returns all non-deleted identities.
func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

// UpdateUserRole changes an identity's role to one of the closed role set.
func (s *UserService) UpdateUserRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, autherror.ErrInvalidRole
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Deleted {
		return nil, autherror.ErrUserNotFound
	}

	user.Role = role
	user.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// SetUserActive toggles the soft account-state flag. Deactivated users keep
// their row but fail identity resolution and login.
func (s *UserService) SetUserActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Deleted {
		return nil, autherror.ErrUserNotFound
	}

	user.Active = active
	user.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ResolveIdentity is the single trust boundary for authenticated requests: it
// turns a bearer token into a live identity or ErrUnauthorized, without
// revealing which check failed.
func (s *UserService) ResolveIdentity(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := s.tokenService.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, autherror.ErrUnauthorized
	}

	user, err := s.repo.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Deleted || !user.Active {
		return nil, autherror.ErrUnauthorized
	}

	return user, nil
}
