package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/citisolve/complaint-service/internal/api/http/handlers"
	"github.com/citisolve/complaint-service/internal/authz"
	"github.com/citisolve/complaint-service/internal/session"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Complaints *handlers.ComplaintsHandler
	Staff      *handlers.StaffHandler
	Admin      *handlers.AdminHandler
	Support    *handlers.SupportHandler
	User       *handlers.UserHandler
	Sessions   *session.Manager
}

// RegisterRoutes wires HTTP routes. Every protected group carries the
// session guard plus the capability its handlers need; handlers only do
// instance-level checks on top.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/otp", cfg.Auth.SendOTP)
	authGroup.Post("/session", cfg.Auth.ConfirmSession)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", cfg.Sessions.Guard(), cfg.Auth.Me)

	guard := cfg.Sessions.Guard()

	api.Post("/submit", guard,
		authz.Require(authz.Capability{Resource: authz.ResourceComplaint, Action: authz.ActionCreate, Scope: authz.ScopeOwn}),
		cfg.Complaints.Submit)

	citizen := api.Group("/complaints", guard,
		authz.Require(authz.Capability{Resource: authz.ResourceComplaint, Action: authz.ActionRead, Scope: authz.ScopeOwn}))
	citizen.Get("", cfg.Complaints.Dashboard)
	citizen.Get("/data", cfg.Complaints.List)
	citizen.Post("/delete",
		authz.Require(authz.Capability{Resource: authz.ResourceComplaint, Action: authz.ActionDelete, Scope: authz.ScopeOwn}),
		cfg.Complaints.Delete)

	staff := api.Group("/staff", guard,
		authz.Require(authz.Capability{Resource: authz.ResourceComplaint, Action: authz.ActionRead, Scope: authz.ScopeDepartment}))
	staff.Get("/complaints", cfg.Staff.Queue)
	staff.Put("/complaints/:id",
		authz.Require(authz.Capability{Resource: authz.ResourceComplaint, Action: authz.ActionUpdate, Scope: authz.ScopeDepartment}),
		cfg.Staff.UpdateStatus)

	admin := api.Group("/admin", guard,
		authz.Require(authz.Capability{Resource: authz.ResourceStats, Action: authz.ActionRead, Scope: authz.ScopeAny}))
	admin.Get("/complaints", cfg.Admin.Overview)
	admin.Get("/complaintsallocation", cfg.Admin.AllocationView)
	admin.Post("/complaints/allocate",
		authz.Require(authz.Capability{Resource: authz.ResourceComplaint, Action: authz.ActionAllocate, Scope: authz.ScopeAny}),
		cfg.Admin.Allocate)
	admin.Post("/complaints/edit",
		authz.Require(authz.Capability{Resource: authz.ResourceComplaint, Action: authz.ActionUpdate, Scope: authz.ScopeAny}),
		cfg.Admin.EditComplaint)
	admin.Get("/departments", cfg.Admin.Departments)
	admin.Get("/staff", cfg.Admin.Staff)
	admin.Post("/users/edit",
		authz.Require(authz.Capability{Resource: authz.ResourceUser, Action: authz.ActionUpdate, Scope: authz.ScopeAny}),
		cfg.Admin.EditUser)
	admin.Post("/users/delete",
		authz.Require(authz.Capability{Resource: authz.ResourceUser, Action: authz.ActionDelete, Scope: authz.ScopeAny}),
		cfg.Admin.DeleteUser)

	api.Post("/support", guard,
		authz.Require(authz.Capability{Resource: authz.ResourceSupport, Action: authz.ActionCreate, Scope: authz.ScopeOwn}),
		cfg.Support.Submit)

	api.Post("/user/edit", guard,
		authz.Require(authz.Capability{Resource: authz.ResourceUser, Action: authz.ActionUpdate, Scope: authz.ScopeOwn}),
		cfg.User.UpdateProfile)
}
