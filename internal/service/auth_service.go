package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/citisolve/complaint-service/internal/domain"
	"github.com/citisolve/complaint-service/internal/session"
	apperrors "github.com/citisolve/complaint-service/pkg/util"
)

// AuthService owns account lifecycle: signup, credential checks, profile
// edits and admin-side user management. Session handling stays in the
// session package; this service only produces the identity snapshot the
// session layer stores.
type AuthService struct {
	users      UserRepositoryPort
	bcryptCost int
	logger     *zap.Logger
}

// UserRepositoryPort is the slice of the user repository this service needs.
type UserRepositoryPort interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByEmailAndRole(ctx context.Context, email string, role domain.Role) (*domain.User, error)
}

// NewAuthService constructs the service.
func NewAuthService(users UserRepositoryPort, bcryptCost int, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, bcryptCost: bcryptCost, logger: logger}
}

// SignupInput carries the registration form.
type SignupInput struct {
	FullName   string
	Email      string
	Password   string
	Role       string
	Ward       string
	Department string
}

// Signup validates the form, enforces the ward/department invariant for the
// chosen role, and creates the account with a hashed password.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.User, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Ward = strings.TrimSpace(input.Ward)
	input.Department = strings.TrimSpace(input.Department)

	if err := validateSignup(input); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewValidationError("email already registered",
			map[string]any{"email": input.Email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewPersistenceError(err)
	}

	hash, err := session.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}

	user := &domain.User{
		FullName:     input.FullName,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         domain.Role(input.Role),
	}
	switch user.Role {
	case domain.RoleCitizen:
		user.Ward = &input.Ward
	case domain.RoleStaff:
		dept := domain.Category(input.Department)
		user.Department = &dept
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	s.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)))
	return user, nil
}

func validateSignup(input SignupInput) error {
	details := map[string]any{}
	if input.FullName == "" {
		details["fullname"] = "required"
	}
	if input.Email == "" {
		details["email"] = "required"
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		details["email"] = "invalid"
	}
	if len(input.Password) < 6 {
		details["password"] = "must be at least 6 characters"
	}

	role := domain.Role(input.Role)
	if !domain.ValidRole(role) {
		details["role"] = "must be citizen, staff or admin"
	}
	switch role {
	case domain.RoleCitizen:
		if input.Ward == "" {
			details["ward"] = "required for citizens"
		}
	case domain.RoleStaff:
		if !domain.ValidCategory(domain.Category(input.Department)) {
			details["department"] = "must be a known department"
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("signup validation failed", details)
	}
	return nil
}

// Login checks the credentials for the requested role. Role is part of the
// lookup so a citizen cannot log into the staff portal with citizen
// credentials.
func (s *AuthService) Login(ctx context.Context, email, password, role string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" || !domain.ValidRole(domain.Role(role)) {
		return nil, apperrors.NewUnauthenticated("invalid credentials")
	}

	user, err := s.users.GetByEmailAndRole(ctx, email, domain.Role(role))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthenticated("invalid credentials")
		}
		return nil, apperrors.NewPersistenceError(err)
	}
	if err := session.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthenticated("invalid credentials")
	}
	return user, nil
}

// ProfileInput carries a self-service profile edit. Empty fields are left
// unchanged; the role is never editable here.
type ProfileInput struct {
	FullName string
	Email    string
	Password string
	Ward     string
}

// UpdateProfile applies a user's own edits to their account.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input ProfileInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapUserLookup(err)
	}

	if name := strings.TrimSpace(input.FullName); name != "" {
		user.FullName = name
	}
	if email := strings.ToLower(strings.TrimSpace(input.Email)); email != "" && email != user.Email {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, apperrors.NewValidationError("invalid email", map[string]any{"email": email})
		}
		if err := s.ensureEmailFree(ctx, email); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if input.Password != "" {
		if len(input.Password) < 6 {
			return nil, apperrors.NewValidationError("password must be at least 6 characters", nil)
		}
		hash, err := session.HashPassword(input.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewPersistenceError(err)
		}
		user.PasswordHash = hash
	}
	if ward := strings.TrimSpace(input.Ward); ward != "" && user.Role == domain.RoleCitizen {
		user.Ward = &ward
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, mapUserLookup(err)
	}
	return user, nil
}

// AdminUserInput carries an administrator's edit of any account.
type AdminUserInput struct {
	FullName   string
	Email      string
	Role       string
	Ward       string
	Department string
}

// AdminEditUser lets an administrator rewrite another account, including a
// role change. A role change re-establishes the ward/department invariant:
// the field for the new role must be supplied, the other one is cleared.
func (s *AuthService) AdminEditUser(ctx context.Context, targetID string, input AdminUserInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, mapUserLookup(err)
	}

	if name := strings.TrimSpace(input.FullName); name != "" {
		user.FullName = name
	}
	if email := strings.ToLower(strings.TrimSpace(input.Email)); email != "" && email != user.Email {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, apperrors.NewValidationError("invalid email", map[string]any{"email": email})
		}
		if err := s.ensureEmailFree(ctx, email); err != nil {
			return nil, err
		}
		user.Email = email
	}

	role := user.Role
	if input.Role != "" {
		role = domain.Role(input.Role)
		if !domain.ValidRole(role) {
			return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
		}
	}

	ward := strings.TrimSpace(input.Ward)
	dept := strings.TrimSpace(input.Department)
	switch role {
	case domain.RoleCitizen:
		if ward == "" && (user.Role != domain.RoleCitizen || user.Ward == nil) {
			return nil, apperrors.NewValidationError("ward required for citizens", nil)
		}
		if ward != "" {
			user.Ward = &ward
		}
		user.Department = nil
	case domain.RoleStaff:
		if dept == "" && (user.Role != domain.RoleStaff || user.Department == nil) {
			return nil, apperrors.NewValidationError("department required for staff", nil)
		}
		if dept != "" {
			category := domain.Category(dept)
			if !domain.ValidCategory(category) {
				return nil, apperrors.NewValidationError("unknown department", map[string]any{"department": dept})
			}
			user.Department = &category
		}
		user.Ward = nil
	case domain.RoleAdmin:
		user.Ward = nil
		user.Department = nil
	}
	user.Role = role

	if err := s.users.Update(ctx, user); err != nil {
		return nil, mapUserLookup(err)
	}
	s.logger.Info("user edited by admin", zap.String("user_id", user.ID))
	return user, nil
}

// AdminDeleteUser removes an account. Administrators cannot remove
// themselves; resolved complaints keep their resolver name snapshot and
// survive the deletion.
func (s *AuthService) AdminDeleteUser(ctx context.Context, adminID, targetID string) error {
	if adminID == targetID {
		return apperrors.NewForbidden("cannot delete your own account")
	}
	if err := s.users.Delete(ctx, targetID); err != nil {
		return mapUserLookup(err)
	}
	s.logger.Info("user deleted by admin", zap.String("user_id", targetID))
	return nil
}

// GetUser loads one account.
func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapUserLookup(err)
	}
	return user, nil
}

func (s *AuthService) ensureEmailFree(ctx context.Context, email string) error {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return apperrors.NewValidationError("email already registered",
			map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewPersistenceError(err)
	}
	return nil
}

func mapUserLookup(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("user", nil)
	}
	return apperrors.NewPersistenceError(err)
}
