package http

import (
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/erp-service/internal/api/http/handlers"
	"github.com/spec-kit/erp-service/internal/auth"
	"github.com/spec-kit/erp-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	HR             *handlers.HRHandler
	Leave          *handlers.LeaveHandler
	Inventory      *handlers.InventoryHandler
	Sales          *handlers.SalesHandler
	Warehouse      *handlers.WarehouseHandler
	Procurement    *handlers.ProcurementHandler
	Surveys        *handlers.SurveyHandler
	Reports        *handlers.ReportHandler
	AuthMiddleware *auth.AuthMiddleware
	Authorizer     *auth.Authorizer
	Metrics        *observability.Metrics
	Logger         *zap.Logger
}

// NewApp builds the fiber application with the service JSON codec and error envelope.
func NewApp(appName string, bodyLimit int, logger *zap.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               appName,
		BodyLimit:             bodyLimit,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		StrictRouting:         false,
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          60 * time.Second,
		ErrorHandler:          ErrorHandler(logger),
	})
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics.Handler())
	}

	can := func(object, action string) fiber.Handler {
		return auth.RequirePermission(cfg.Authorizer, cfg.Logger, object, action)
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	session := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	session.Post("/logout", cfg.Auth.Logout)
	session.Get("/me", cfg.Auth.Me)
	session.Post("/password/change", cfg.Auth.ChangePassword)

	users := app.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/", can(auth.ObjectUsers, auth.ActionRead), cfg.Auth.ListUsers)
	users.Post("/", can(auth.ObjectUsers, auth.ActionWrite), cfg.Auth.CreateUser)
	users.Get("/:id", can(auth.ObjectUsers, auth.ActionRead), cfg.Auth.GetUser)
	users.Put("/:id", can(auth.ObjectUsers, auth.ActionWrite), cfg.Auth.UpdateUser)

	hr := app.Group("/hr", cfg.AuthMiddleware.Handle)
	hr.Get("/departments", can(auth.ObjectHR, auth.ActionRead), cfg.HR.ListDepartments)
	hr.Post("/departments", can(auth.ObjectHR, auth.ActionWrite), cfg.HR.CreateDepartment)
	hr.Get("/departments/:id", can(auth.ObjectHR, auth.ActionRead), cfg.HR.GetDepartment)
	hr.Put("/departments/:id", can(auth.ObjectHR, auth.ActionWrite), cfg.HR.UpdateDepartment)

	hr.Get("/employees", can(auth.ObjectHR, auth.ActionRead), cfg.HR.ListEmployees)
	hr.Post("/employees", can(auth.ObjectHR, auth.ActionWrite), cfg.HR.CreateEmployee)
	hr.Get("/employees/:id", can(auth.ObjectHR, auth.ActionRead), cfg.HR.GetEmployee)
	hr.Put("/employees/:id", can(auth.ObjectHR, auth.ActionWrite), cfg.HR.UpdateEmployee)
	hr.Delete("/employees/:id", can(auth.ObjectHR, auth.ActionWrite), cfg.HR.TerminateEmployee)

	hr.Get("/onboarding", can(auth.ObjectHR, auth.ActionRead), cfg.HR.ListOnboarding)
	hr.Post("/onboarding", can(auth.ObjectHR, auth.ActionWrite), cfg.HR.StartOnboarding)
	hr.Get("/onboarding/:id", can(auth.ObjectHR, auth.ActionRead), cfg.HR.GetOnboarding)
	hr.Post("/onboarding/:id/tasks/:task_id/complete", can(auth.ObjectHR, auth.ActionWrite), cfg.HR.CompleteOnboardingTask)

	hr.Post("/leave-requests/calculate", can(auth.ObjectLeave, auth.ActionRead), cfg.Leave.Calculate)
	hr.Get("/leave-requests", can(auth.ObjectLeave, auth.ActionRead), cfg.Leave.ListRequests)
	hr.Post("/leave-requests", can(auth.ObjectLeave, auth.ActionWrite), cfg.Leave.CreateRequest)
	hr.Get("/leave-requests/:id", can(auth.ObjectLeave, auth.ActionRead), cfg.Leave.GetRequest)
	hr.Post("/leave-requests/:id/approve", can(auth.ObjectLeave, auth.ActionApprove), cfg.Leave.Approve)
	hr.Post("/leave-requests/:id/reject", can(auth.ObjectLeave, auth.ActionApprove), cfg.Leave.Reject)
	hr.Post("/leave-requests/:id/cancel", can(auth.ObjectLeave, auth.ActionWrite), cfg.Leave.Cancel)
	hr.Get("/leave-balances", can(auth.ObjectLeave, auth.ActionRead), cfg.Leave.Balances)
	hr.Put("/leave-balances", can(auth.ObjectLeave, auth.ActionManage), cfg.Leave.SetBalance)

	products := app.Group("/inventory/products", cfg.AuthMiddleware.Handle)
	products.Get("/", can(auth.ObjectInventory, auth.ActionRead), cfg.Inventory.ListProducts)
	products.Post("/", can(auth.ObjectInventory, auth.ActionWrite), cfg.Inventory.CreateProduct)
	products.Get("/low-stock", can(auth.ObjectInventory, auth.ActionRead), cfg.Inventory.LowStock)
	products.Get("/:id", can(auth.ObjectInventory, auth.ActionRead), cfg.Inventory.GetProduct)
	products.Put("/:id", can(auth.ObjectInventory, auth.ActionWrite), cfg.Inventory.UpdateProduct)

	sales := app.Group("/sales", cfg.AuthMiddleware.Handle)
	sales.Get("/", can(auth.ObjectSales, auth.ActionRead), cfg.Sales.ListSales)
	sales.Post("/", can(auth.ObjectSales, auth.ActionWrite), cfg.Sales.CreateSale)
	sales.Get("/:id", can(auth.ObjectSales, auth.ActionRead), cfg.Sales.GetSale)
	sales.Post("/:id/confirm", can(auth.ObjectSales, auth.ActionWrite), cfg.Sales.ConfirmSale)
	sales.Post("/:id/cancel", can(auth.ObjectSales, auth.ActionWrite), cfg.Sales.CancelSale)

	wh := app.Group("/warehouse", cfg.AuthMiddleware.Handle)
	wh.Get("/warehouses", can(auth.ObjectWarehouse, auth.ActionRead), cfg.Warehouse.ListWarehouses)
	wh.Post("/warehouses", can(auth.ObjectWarehouse, auth.ActionWrite), cfg.Warehouse.CreateWarehouse)
	wh.Get("/warehouses/:id", can(auth.ObjectWarehouse, auth.ActionRead), cfg.Warehouse.GetWarehouse)
	wh.Put("/warehouses/:id", can(auth.ObjectWarehouse, auth.ActionWrite), cfg.Warehouse.UpdateWarehouse)
	wh.Get("/warehouses/:id/stock", can(auth.ObjectWarehouse, auth.ActionRead), cfg.Warehouse.Stock)
	wh.Get("/movements", can(auth.ObjectWarehouse, auth.ActionRead), cfg.Warehouse.ListMovements)
	wh.Post("/movements", can(auth.ObjectWarehouse, auth.ActionWrite), cfg.Warehouse.RecordMovement)

	po := app.Group("/procurement/purchase-orders", cfg.AuthMiddleware.Handle)
	po.Get("/", can(auth.ObjectProcurement, auth.ActionRead), cfg.Procurement.ListPurchaseOrders)
	po.Post("/", can(auth.ObjectProcurement, auth.ActionWrite), cfg.Procurement.CreatePurchaseOrder)
	po.Get("/:id", can(auth.ObjectProcurement, auth.ActionRead), cfg.Procurement.GetPurchaseOrder)
	po.Post("/:id/submit", can(auth.ObjectProcurement, auth.ActionWrite), cfg.Procurement.Submit)
	po.Post("/:id/approve", can(auth.ObjectProcurement, auth.ActionApprove), cfg.Procurement.Approve)
	po.Post("/:id/receive", can(auth.ObjectProcurement, auth.ActionWrite), cfg.Procurement.Receive)
	po.Post("/:id/cancel", can(auth.ObjectProcurement, auth.ActionWrite), cfg.Procurement.Cancel)

	surveys := app.Group("/surveys", cfg.AuthMiddleware.Handle)
	surveys.Get("/", can(auth.ObjectSurveys, auth.ActionRead), cfg.Surveys.ListSurveys)
	surveys.Post("/", can(auth.ObjectSurveys, auth.ActionWrite), cfg.Surveys.CreateSurvey)
	surveys.Get("/:id", can(auth.ObjectSurveys, auth.ActionRead), cfg.Surveys.GetSurvey)
	surveys.Post("/:id/open", can(auth.ObjectSurveys, auth.ActionWrite), cfg.Surveys.Open)
	surveys.Post("/:id/close", can(auth.ObjectSurveys, auth.ActionWrite), cfg.Surveys.Close)
	surveys.Post("/:id/responses", can(auth.ObjectSurveys, auth.ActionRespond), cfg.Surveys.Respond)
	surveys.Get("/:id/results", can(auth.ObjectSurveys, auth.ActionManage), cfg.Surveys.Results)

	reports := app.Group("/reports", cfg.AuthMiddleware.Handle)
	reports.Get("/dashboard", can(auth.ObjectReports, auth.ActionRead), cfg.Reports.Dashboard)
	reports.Get("/sales/export", can(auth.ObjectReports, auth.ActionRead), cfg.Sales.Export)
}
