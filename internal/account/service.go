package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/redmonkez12/account-api/internal/auth"
	"github.com/redmonkez12/account-api/internal/logging"
)

type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// UpdateInput carries an Update-Profile request. Empty strings mean absent.
type UpdateInput struct {
	ID                 string
	CurrentPassword    string
	NewName            string
	NewPassword        string
	ConfirmNewPassword string
}

type DeleteInput struct {
	ID       string
	Password string
}

// LoginResult is returned by a successful Login.
type LoginResult struct {
	Token     string
	AccountID string
}

// Service implements the account workflows. Every step that fails returns
// immediately and no later step has side effects.
type Service struct {
	store  Store
	cache  ProfileCache
	hasher auth.PasswordHasher
	tokens auth.TokenService
	logger *logging.Logger
}

func NewService(store Store, cache ProfileCache, hasher auth.PasswordHasher, tokens auth.TokenService, logger *logging.Logger) *Service {
	if cache == nil {
		cache = NoopCache{}
	}
	return &Service{
		store:  store,
		cache:  cache,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// Register creates a new account
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Account, error) {
	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	_, err := s.store.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, ErrEmailInUse
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.store.Insert(ctx, &Account{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		// The unique index wins a race the pre-check lost.
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return created, nil
}

// Login checks the credentials and issues a bearer token for the account.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	acct, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	if err := s.checkPassword(acct, password); err != nil {
		return nil, err
	}

	token, err := s.tokens.CreateToken(acct.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	return &LoginResult{Token: token, AccountID: acct.ID}, nil
}

// GetProfile returns the public profile of any account.
func (s *Service) GetProfile(ctx context.Context, id string) (*Profile, error) {
	if !s.store.ValidID(id) {
		return nil, ErrInvalidID
	}

	cached, err := s.cache.Get(ctx, id)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		s.logger.Warn("profile cache read failed", "account_id", id, "error", err.Error())
	}

	// The version is taken before the read so that a mutation finishing
	// in between makes the fill below a no-op.
	version, verErr := s.cache.Version(ctx, id)
	if verErr != nil {
		s.logger.Warn("profile cache version read failed", "account_id", id, "error", verErr.Error())
	}

	acct, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	profile := acct.Profile()
	if verErr == nil {
		if _, err := s.cache.SetIfVersion(ctx, profile, version); err != nil {
			s.logger.Warn("profile cache write failed", "account_id", id, "error", err.Error())
		}
	}

	return &profile, nil
}

// UpdateProfile changes the name and/or password of the caller's account and
// returns the confirmation message naming what changed.
func (s *Service) UpdateProfile(ctx context.Context, callerID string, in UpdateInput) (string, error) {
	if in.CurrentPassword == "" {
		return "", ErrCurrentPasswordMissing
	}

	id, err := s.resolveID(callerID, in.ID)
	if err != nil {
		return "", err
	}

	acct, err := s.store.FindByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to find account: %w", err)
	}

	if err := s.checkPassword(acct, in.CurrentPassword); err != nil {
		return "", err
	}

	if in.NewName == "" && in.NewPassword == "" {
		return "", ErrNothingToUpdate
	}

	var update Update

	if in.NewPassword != "" {
		if err := validatePassword(in.NewPassword); err != nil {
			return "", err
		}
		if in.ConfirmNewPassword == "" {
			return "", ErrConfirmationMissing
		}
		if in.NewPassword != in.ConfirmNewPassword {
			return "", ErrConfirmationDiffers
		}
		if in.NewPassword == in.CurrentPassword {
			return "", ErrSamePassword
		}

		passwordHash, err := s.hasher.Hash(in.NewPassword)
		if err != nil {
			return "", fmt.Errorf("failed to hash password: %w", err)
		}
		update.PasswordHash = &passwordHash
	}

	if in.NewName != "" {
		if err := validateName(in.NewName); err != nil {
			return "", err
		}
		if in.NewName == acct.Name {
			return "", ErrSameName
		}
		update.Name = &in.NewName
	}

	if err := s.invalidate(ctx, id); err != nil {
		return "", err
	}

	if err := s.store.UpdateFields(ctx, id, update); err != nil {
		return "", fmt.Errorf("failed to update account: %w", err)
	}

	s.invalidateAfterWrite(ctx, id)

	return updatedMessage(update), nil
}

// DeleteAccount removes the caller's account after re-checking its password.
func (s *Service) DeleteAccount(ctx context.Context, callerID string, in DeleteInput) error {
	id, err := s.resolveID(callerID, in.ID)
	if err != nil {
		return err
	}

	acct, err := s.store.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find account: %w", err)
	}

	if in.Password == "" {
		return ErrDeletePasswordMissing
	}

	if err := s.checkPassword(acct, in.Password); err != nil {
		return err
	}

	if err := s.invalidate(ctx, id); err != nil {
		return err
	}

	if err := s.store.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	s.invalidateAfterWrite(ctx, id)

	return nil
}

// resolveID defaults the target to the caller and refuses any other account.
func (s *Service) resolveID(callerID, requested string) (string, error) {
	id := requested
	if id == "" {
		id = callerID
	}
	if id != callerID {
		return "", ErrAccountMismatch
	}
	if !s.store.ValidID(id) {
		return "", ErrInvalidID
	}
	return id, nil
}

func (s *Service) checkPassword(acct *Account, password string) error {
	if acct.PasswordHash == "" {
		return ErrCorruptCredentials
	}

	ok, err := s.hasher.Verify(password, acct.PasswordHash)
	if err != nil {
		if errors.Is(err, auth.ErrMalformedDigest) {
			return fmt.Errorf("%w: %v", ErrCorruptCredentials, err)
		}
		return fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return ErrInvalidCredentials
	}

	return nil
}

// invalidate runs before a mutation. If the cache cannot be cleared the
// mutation is refused, otherwise a stale entry could outlive it for a full TTL.
func (s *Service) invalidate(ctx context.Context, id string) error {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// invalidateAfterWrite drops anything a concurrent reader cached between the
// first invalidation and the write.
func (s *Service) invalidateAfterWrite(ctx context.Context, id string) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("profile cache invalidation failed", "account_id", id, "error", err.Error())
	}
}

func updatedMessage(u Update) string {
	switch {
	case u.Name != nil && u.PasswordHash != nil:
		return "Name and Password updated successfully"
	case u.Name != nil:
		return "Name updated successfully"
	default:
		return "Password updated successfully"
	}
}
