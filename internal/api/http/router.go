package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mwhayford/rental-service/internal/api/http/handlers"
	"github.com/mwhayford/rental-service/internal/auth"
	"github.com/mwhayford/rental-service/internal/domain"
	"github.com/mwhayford/rental-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Properties     *handlers.PropertiesHandler
	Leases         *handlers.LeasesHandler
	WorkOrders     *handlers.WorkOrdersHandler
	Applications   *handlers.ApplicationsHandler
	Payments       *handlers.PaymentsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	// Public listing surface.
	app.Get("/properties", cfg.Properties.SearchProperties)
	app.Get("/properties/:id", cfg.Properties.GetProperty)

	authed := app.Group("", cfg.AuthMiddleware.Handle)

	owners := authed.Group("", auth.RequireRole(domain.RolePropertyOwner))
	owners.Post("/properties", cfg.Properties.CreateProperty)
	owners.Get("/properties/mine/all", cfg.Properties.ListOwned)
	owners.Patch("/properties/:id", cfg.Properties.UpdateProperty)
	owners.Post("/properties/:id/images", cfg.Properties.AddImage)
	owners.Delete("/properties/:id/images", cfg.Properties.RemoveImage)

	authed.Get("/settings", auth.RequireRole(domain.RolePropertyOwner), cfg.Properties.GetSettings)
	authed.Put("/settings", auth.RequireRole(domain.RoleAdmin), cfg.Properties.UpdateSettings)

	applications := authed.Group("/applications")
	applications.Post("", auth.RequireRole(domain.RoleResident), cfg.Applications.CreateApplication)
	applications.Get("", cfg.Applications.ListApplications)
	applications.Get("/:id", cfg.Applications.GetApplication)
	applications.Post("/:id/submit", auth.RequireRole(domain.RoleResident), cfg.Applications.SubmitApplication)
	applications.Post("/:id/fee-intent", auth.RequireRole(domain.RoleResident), cfg.Applications.CreateFeeIntent)
	applications.Post("/:id/review", auth.RequireRole(domain.RolePropertyOwner), cfg.Applications.ReviewApplication)
	applications.Post("/:id/approve", auth.RequireRole(domain.RolePropertyOwner), cfg.Applications.ApproveApplication)
	applications.Post("/:id/reject", auth.RequireRole(domain.RolePropertyOwner), cfg.Applications.RejectApplication)
	applications.Post("/:id/withdraw", auth.RequireRole(domain.RoleResident), cfg.Applications.WithdrawApplication)

	leases := authed.Group("/leases")
	leases.Post("", auth.RequireRole(domain.RolePropertyOwner), cfg.Leases.CreateLease)
	leases.Get("", cfg.Leases.ListLeases)
	leases.Get("/:id", cfg.Leases.GetLease)
	leases.Post("/:id/activate", auth.RequireRole(domain.RolePropertyOwner), cfg.Leases.ActivateLease)
	leases.Post("/:id/terminate", auth.RequireRole(domain.RolePropertyOwner), cfg.Leases.TerminateLease)
	leases.Post("/:id/expire", auth.RequireRole(domain.RolePropertyOwner), cfg.Leases.ExpireLease)
	leases.Post("/:id/renew", auth.RequireRole(domain.RolePropertyOwner), cfg.Leases.RenewLease)
	leases.Post("/:id/rent", auth.RequireRole(domain.RolePropertyOwner), cfg.Leases.UpdateRent)

	workorders := authed.Group("/workorders")
	workorders.Post("", auth.RequireRole(domain.RoleResident, domain.RolePropertyOwner), cfg.WorkOrders.CreateWorkOrder)
	workorders.Get("", cfg.WorkOrders.ListWorkOrders)
	workorders.Get("/:id", cfg.WorkOrders.GetWorkOrder)
	workorders.Post("/:id/approve", auth.RequireRole(domain.RolePropertyOwner), cfg.WorkOrders.ApproveWorkOrder)
	workorders.Post("/:id/reject", auth.RequireRole(domain.RolePropertyOwner), cfg.WorkOrders.RejectWorkOrder)
	workorders.Post("/:id/assign", auth.RequireRole(domain.RolePropertyOwner), cfg.WorkOrders.AssignWorkOrder)
	workorders.Post("/:id/estimate", auth.RequireRole(domain.RolePropertyOwner), cfg.WorkOrders.UpdateEstimatedCost)
	workorders.Post("/:id/start", auth.RequireRole(domain.RoleContractor), cfg.WorkOrders.StartWorkOrder)
	workorders.Post("/:id/complete", auth.RequireRole(domain.RoleContractor), cfg.WorkOrders.CompleteWorkOrder)
	workorders.Post("/:id/cancel", auth.RequireAuthenticated(), cfg.WorkOrders.CancelWorkOrder)
	workorders.Post("/:id/images", auth.RequireAuthenticated(), cfg.WorkOrders.AddImage)

	payments := authed.Group("/payments")
	payments.Post("/confirm", cfg.Payments.ConfirmPayment)
	payments.Get("", cfg.Payments.ListPayments)
	payments.Get("/:id", cfg.Payments.GetPayment)
	payments.Post("/:id/cancel", cfg.Payments.CancelPayment)
	payments.Post("/:id/refund", auth.RequireRole(domain.RoleAdmin), cfg.Payments.RefundPayment)

	subscriptions := authed.Group("/subscriptions")
	subscriptions.Post("", cfg.Payments.CreateSubscription)
	subscriptions.Get("", cfg.Payments.ListSubscriptions)
	subscriptions.Post("/:id/pause", cfg.Payments.PauseSubscription)
	subscriptions.Post("/:id/cancel", cfg.Payments.CancelSubscription)
}
