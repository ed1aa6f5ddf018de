package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"math/big"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/citisolve/complaint-service/internal/config"
)

// ErrOTPMismatch signals a wrong confirmation code.
var ErrOTPMismatch = errors.New("otp mismatch")

// Manager owns the session lifecycle: staging a pending identity after the
// credential check, confirming it with a one-time code, and issuing /
// destroying the active session cookie.
type Manager struct {
	store  Store
	tokens *TokenManager
	cfg    config.SessionConfig
}

// NewManager builds a session manager.
func NewManager(store Store, cfg config.SessionConfig) *Manager {
	return &Manager{
		store:  store,
		tokens: NewTokenManager(cfg.TokenSecret),
		cfg:    cfg,
	}
}

// StagePending stores the identity as a pending record and sets the session
// cookie. The caller is not authenticated until Promote succeeds.
func (m *Manager) StagePending(ctx context.Context, c *fiber.Ctx, rec Record) error {
	id := uuid.NewString()
	if err := m.store.SavePending(ctx, id, rec, m.cfg.PendingTTL()); err != nil {
		return err
	}
	return m.setCookie(c, id, m.cfg.PendingTTL())
}

// PendingRecord loads the staged identity for the caller's cookie.
func (m *Manager) PendingRecord(ctx context.Context, c *fiber.Ctx) (string, *Record, error) {
	id, err := m.sessionID(c)
	if err != nil {
		return "", nil, err
	}
	rec, err := m.store.GetPending(ctx, id)
	if err != nil {
		return "", nil, err
	}
	return id, rec, nil
}

// AttachOTP stores the hash of a freshly generated confirmation code on the
// caller's pending record and returns the plaintext code for delivery.
func (m *Manager) AttachOTP(ctx context.Context, c *fiber.Ctx) (string, error) {
	id, rec, err := m.PendingRecord(ctx, c)
	if err != nil {
		return "", err
	}
	code, err := GenerateOTP()
	if err != nil {
		return "", err
	}
	rec.OTPHash = hashOTP(code)
	if err := m.store.SavePending(ctx, id, *rec, m.cfg.PendingTTL()); err != nil {
		return "", err
	}
	return code, nil
}

// Promote verifies the confirmation code and upgrades the pending record to
// an active session under the same ID, extending the cookie to the full TTL.
func (m *Manager) Promote(ctx context.Context, c *fiber.Ctx, otp string) (*Record, error) {
	id, rec, err := m.PendingRecord(ctx, c)
	if err != nil {
		return nil, err
	}
	if rec.OTPHash == "" || subtle.ConstantTimeCompare([]byte(rec.OTPHash), []byte(hashOTP(otp))) != 1 {
		return nil, ErrOTPMismatch
	}
	rec.OTPHash = ""
	if err := m.store.SaveActive(ctx, id, *rec, m.cfg.TTL()); err != nil {
		return nil, err
	}
	_ = m.store.DeletePending(ctx, id)
	if err := m.setCookie(c, id, m.cfg.TTL()); err != nil {
		return nil, err
	}
	return rec, nil
}

// Resolve loads the active identity record for the caller's cookie.
func (m *Manager) Resolve(ctx context.Context, c *fiber.Ctx) (*Record, error) {
	id, err := m.sessionID(c)
	if err != nil {
		return nil, err
	}
	return m.store.GetActive(ctx, id)
}

// Refresh rewrites the caller's active record, used after a profile edit so
// the identity snapshot does not go stale for the rest of the session.
func (m *Manager) Refresh(ctx context.Context, c *fiber.Ctx, rec Record) error {
	id, err := m.sessionID(c)
	if err != nil {
		return err
	}
	return m.store.SaveActive(ctx, id, rec, m.cfg.TTL())
}

// Destroy deletes the caller's session record and clears the cookie.
func (m *Manager) Destroy(ctx context.Context, c *fiber.Ctx) error {
	if id, err := m.sessionID(c); err == nil {
		if err := m.store.Delete(ctx, id); err != nil {
			return err
		}
	}
	c.Cookie(&fiber.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   m.cfg.CookieSecure,
	})
	return nil
}

// sessionID extracts the verified session ID from the caller's cookie.
// A cookie that fails verification reads the same as no cookie at all.
func (m *Manager) sessionID(c *fiber.Ctx) (string, error) {
	cookie := c.Cookies(m.cfg.CookieName)
	if cookie == "" {
		return "", ErrNotFound
	}
	id, err := m.tokens.Verify(cookie)
	if err != nil {
		return "", ErrNotFound
	}
	return id, nil
}

func (m *Manager) setCookie(c *fiber.Ctx, id string, ttl time.Duration) error {
	token, err := m.tokens.Sign(id, ttl)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     m.cfg.CookieName,
		Value:    token,
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   m.cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// GenerateOTP returns a 6-digit confirmation code.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	code := n.Int64() + 100000
	return big.NewInt(code).String(), nil
}

func hashOTP(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
