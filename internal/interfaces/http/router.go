package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/auth"
	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/usecase"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WorkspaceUC *usecase.WorkspaceUseCase
	InvoiceUC   *billing.InvoiceUseCase
	LifecycleUC *billing.LifecycleUseCase
	PaymentUC   *billing.PaymentUseCase
	RenderUC    *billing.RenderUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Reparto de roles:
//   - admin y gestor emiten, editan y envían facturas.
//   - contador (además de los anteriores) registra pagos y evalúa "pay".
//   - cualquier usuario autenticado del workspace lee.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	workspaceHandler := NewWorkspaceHandler(deps.WorkspaceUC)
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.LifecycleUC, deps.RenderUC)
	paymentHandler := NewPaymentHandler(deps.PaymentUC)

	// Alta de workspace (público: es el bootstrap de un tenant nuevo)
	api.Post("/workspaces", workspaceHandler.Create)

	// Rutas protegidas, siempre bajo el workspace del token
	ws := api.Group("/workspaces/:workspaceId", AuthMiddleware(deps.JWTSecret))
	ws.Get("/", workspaceHandler.GetByID)

	// Contratos
	ws.Post("/contracts", RequireRole(entity.RoleAdmin, entity.RoleGestor), workspaceHandler.CreateContract)
	ws.Get("/contracts", workspaceHandler.ListContracts)

	// Facturas
	manage := RequireRole(entity.RoleAdmin, entity.RoleGestor)
	ws.Post("/invoices", manage, invoiceHandler.Create)
	ws.Get("/invoices", invoiceHandler.List)
	ws.Get("/invoices/:id", invoiceHandler.GetByID)
	ws.Put("/invoices/:id", manage, invoiceHandler.Update)
	ws.Delete("/invoices/:id", manage, invoiceHandler.Delete)
	ws.Get("/invoices/:id/download", invoiceHandler.Download)

	// Ciclo de vida
	ws.Post("/invoices/:id/send", manage, invoiceHandler.Send)
	ws.Post("/invoices/:id/resend", manage, invoiceHandler.Resend)

	// Pagos y conciliación
	reconcile := RequireRole(entity.RoleAdmin, entity.RoleGestor, entity.RoleContador)
	ws.Post("/invoices/:id/pay", reconcile, invoiceHandler.Pay)
	ws.Post("/invoices/:id/payments", reconcile, paymentHandler.Record)
	ws.Get("/invoices/:id/payments", paymentHandler.List)
	ws.Put("/invoices/:id/payments/:paymentId", reconcile, paymentHandler.Update)
	ws.Delete("/invoices/:id/payments/:paymentId", reconcile, paymentHandler.Delete)
}
