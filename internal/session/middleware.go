package session

import (
	"github.com/gofiber/fiber/v2"

	"github.com/citisolve/complaint-service/internal/domain"
	apperrors "github.com/citisolve/complaint-service/pkg/util"
)

const principalKey = "session_principal"

// Principal is the verified request-scoped identity injected by the guard.
type Principal struct {
	UserID     string
	Role       domain.Role
	Email      string
	FullName   string
	Ward       *string
	Department *domain.Category
}

// Guard enforces authentication for protected routes: it resolves the
// session cookie into an identity record before any domain logic runs.
func (m *Manager) Guard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rec, err := m.Resolve(c.UserContext(), c)
		if err != nil {
			return apperrors.NewUnauthenticated("not authenticated, please login")
		}
		c.Locals(principalKey, &Principal{
			UserID:     rec.UserID,
			Role:       rec.Role,
			Email:      rec.Email,
			FullName:   rec.FullName,
			Ward:       rec.Ward,
			Department: rec.Department,
		})
		return c.Next()
	}
}

// PrincipalFromContext retrieves the authenticated identity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
