// Package authz expresses route-level authorization as declarative
// {resource, action, scope} capabilities granted per role, replacing
// scattered per-handler role conditionals.
package authz

import (
	"github.com/gofiber/fiber/v2"

	"github.com/citisolve/complaint-service/internal/domain"
	"github.com/citisolve/complaint-service/internal/session"
	apperrors "github.com/citisolve/complaint-service/pkg/util"
)

// Resource names a protected entity class.
type Resource string

const (
	ResourceComplaint Resource = "complaint"
	ResourceUser      Resource = "user"
	ResourceStats     Resource = "stats"
	ResourceSupport   Resource = "support"
)

// Action names an operation on a resource.
type Action string

const (
	ActionCreate   Action = "create"
	ActionRead     Action = "read"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionAllocate Action = "allocate"
)

// Scope bounds which instances the action may touch. ScopeOwn covers rows
// the caller owns, ScopeDepartment rows in the caller's department,
// ScopeAny everything. Ownership and department checks on a concrete row
// stay with the lifecycle service; the scope here decides whether the route
// is reachable at all.
type Scope string

const (
	ScopeOwn        Scope = "own"
	ScopeDepartment Scope = "department"
	ScopeAny        Scope = "any"
)

// Capability is one permitted {resource, action, scope} triple.
type Capability struct {
	Resource Resource
	Action   Action
	Scope    Scope
}

var grants = map[domain.Role][]Capability{
	domain.RoleCitizen: {
		{ResourceComplaint, ActionCreate, ScopeOwn},
		{ResourceComplaint, ActionRead, ScopeOwn},
		{ResourceComplaint, ActionDelete, ScopeOwn},
		{ResourceStats, ActionRead, ScopeOwn},
		{ResourceSupport, ActionCreate, ScopeOwn},
		{ResourceUser, ActionUpdate, ScopeOwn},
	},
	domain.RoleStaff: {
		{ResourceComplaint, ActionRead, ScopeDepartment},
		{ResourceComplaint, ActionUpdate, ScopeDepartment},
		{ResourceStats, ActionRead, ScopeDepartment},
		{ResourceSupport, ActionCreate, ScopeOwn},
	},
	domain.RoleAdmin: {
		{ResourceComplaint, ActionRead, ScopeAny},
		{ResourceComplaint, ActionUpdate, ScopeAny},
		{ResourceComplaint, ActionDelete, ScopeAny},
		{ResourceComplaint, ActionAllocate, ScopeAny},
		{ResourceStats, ActionRead, ScopeAny},
		{ResourceSupport, ActionCreate, ScopeOwn},
		{ResourceUser, ActionRead, ScopeAny},
		{ResourceUser, ActionUpdate, ScopeAny},
		{ResourceUser, ActionDelete, ScopeAny},
	},
}

// scopeCovers reports whether a granted scope satisfies a required one.
// Broader scopes cover narrower requirements.
func scopeCovers(granted, required Scope) bool {
	if granted == required {
		return true
	}
	switch granted {
	case ScopeAny:
		return true
	case ScopeDepartment:
		return required == ScopeOwn
	}
	return false
}

// Allows reports whether the role holds a capability covering the request.
func Allows(role domain.Role, required Capability) bool {
	for _, granted := range grants[role] {
		if granted.Resource == required.Resource && granted.Action == required.Action && scopeCovers(granted.Scope, required.Scope) {
			return true
		}
	}
	return false
}

// Require builds a Fiber middleware evaluating the capability once per
// route. It assumes the session guard already ran.
func Require(required Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := session.PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthenticated("not authenticated, please login")
		}
		if !Allows(principal.Role, required) {
			return apperrors.NewForbidden("insufficient permissions")
		}
		return c.Next()
	}
}
