package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/citisolve/complaint-service/internal/api/dto"
	"github.com/citisolve/complaint-service/internal/domain"
	"github.com/citisolve/complaint-service/internal/service"
	"github.com/citisolve/complaint-service/internal/session"
	apperrors "github.com/citisolve/complaint-service/pkg/util"
)

// AuthHandler manages registration and the staged-login session flow:
// signup/login stage a pending session, /auth/otp mails the confirmation
// code, /auth/session promotes the pending session to an active one.
type AuthHandler struct {
	auth          *service.AuthService
	sessions      *session.Manager
	notifications *service.NotificationService
	logger        *zap.Logger
}

// NewAuthHandler constructs handler.
func NewAuthHandler(auth *service.AuthService, sessions *session.Manager, notifications *service.NotificationService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, notifications: notifications, logger: logger}
}

// Signup POST /auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.auth.Signup(c.UserContext(), service.SignupInput{
		FullName:   req.FullName,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		Ward:       req.Ward,
		Department: req.Department,
	})
	if err != nil {
		return err
	}

	if err := h.sessions.StagePending(c.UserContext(), c, recordFrom(user)); err != nil {
		return apperrors.NewPersistenceError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data":         userResponse(user),
		"otp_required": true,
	})
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.auth.Login(c.UserContext(), req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}

	if err := h.sessions.StagePending(c.UserContext(), c, recordFrom(user)); err != nil {
		return apperrors.NewPersistenceError(err)
	}
	return c.JSON(fiber.Map{
		"data":         userResponse(user),
		"otp_required": true,
	})
}

// SendOTP POST /auth/otp mails a confirmation code to the staged identity.
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	_, rec, err := h.sessions.PendingRecord(c.UserContext(), c)
	if err != nil {
		return mapSessionError(err)
	}
	code, err := h.sessions.AttachOTP(c.UserContext(), c)
	if err != nil {
		return mapSessionError(err)
	}
	if err := h.notifications.SendLoginCode(rec.Email, code); err != nil {
		h.logger.Error("otp mail delivery failed", zap.Error(err))
		return apperrors.NewPersistenceError(err)
	}
	return c.JSON(fiber.Map{"message": "confirmation code sent"})
}

// ConfirmSession POST /auth/session promotes the staged login.
func (h *AuthHandler) ConfirmSession(c *fiber.Ctx) error {
	var req dto.SessionConfirmRequest
	if err := c.BodyParser(&req); err != nil || req.OTP == "" {
		return apperrors.NewValidationError("otp required", nil)
	}

	rec, err := h.sessions.Promote(c.UserContext(), c, req.OTP)
	if err != nil {
		if errors.Is(err, session.ErrOTPMismatch) {
			return apperrors.NewValidationError("invalid confirmation code", nil)
		}
		return mapSessionError(err)
	}
	return c.JSON(fiber.Map{"data": recordView(rec)})
}

// Logout POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.Destroy(c.UserContext(), c); err != nil {
		return apperrors.NewPersistenceError(err)
	}
	return c.JSON(fiber.Map{"message": "logged out"})
}

// Me GET /auth/me returns the caller's current account row.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := session.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("not authenticated, please login")
	}
	user, err := h.auth.GetUser(c.UserContext(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

func recordFrom(user *domain.User) session.Record {
	return session.Record{
		UserID:     user.ID,
		Role:       user.Role,
		Email:      user.Email,
		FullName:   user.FullName,
		Ward:       user.Ward,
		Department: user.Department,
	}
}

func recordView(rec *session.Record) fiber.Map {
	view := fiber.Map{
		"id":       rec.UserID,
		"fullname": rec.FullName,
		"email":    rec.Email,
		"role":     string(rec.Role),
	}
	if rec.Ward != nil {
		view["ward"] = *rec.Ward
	}
	if rec.Department != nil {
		view["department"] = string(*rec.Department)
	}
	return view
}

func mapSessionError(err error) error {
	if errors.Is(err, session.ErrNotFound) {
		return apperrors.NewUnauthenticated("no login in progress")
	}
	return apperrors.NewPersistenceError(err)
}
