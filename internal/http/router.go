package http

import (
	"net/http"

	"nxq-backend/internal/events"
	"nxq-backend/internal/handlers"
	"nxq-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	customerHandler *handlers.CustomerHandler,
	schemeHandler *handlers.SchemeHandler,
	paymentHandler *handlers.PaymentHandler,
	winnerHandler *handlers.WinnerHandler,
	adminHandler *handlers.AdminHandler,
	healthHandler *handlers.HealthHandler,
	hub *events.Hub,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.PanicRecovery, middleware.RequestLogger, middleware.MetricsMiddleware)

	// Public API routes - Authentication
	authAPI := r.PathPrefix("/api/auth").Subrouter()
	authAPI.HandleFunc("/login", authHandler.Login).Methods("POST")
	authAPI.HandleFunc("/validate", authHandler.ValidateSession).Methods("POST")
	authAPI.HandleFunc("/logout", authHandler.Logout).Methods("POST")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/customers", customerHandler.ListCustomers).Methods("GET")
	api.HandleFunc("/customers", customerHandler.CreateCustomer).Methods("POST")
	api.HandleFunc("/customers/next-code", customerHandler.NextCode).Methods("GET")
	api.HandleFunc("/customers/check-code", customerHandler.CheckCode).Methods("GET")
	api.HandleFunc("/customers/validate-code", customerHandler.ValidateCode).Methods("GET")
	api.HandleFunc("/customers/{id:[0-9]+}", customerHandler.GetCustomer).Methods("GET")
	api.HandleFunc("/customers/{id:[0-9]+}/payments", customerHandler.ListPayments).Methods("GET")

	api.HandleFunc("/payments", paymentHandler.ListPayments).Methods("GET")
	api.HandleFunc("/payments", paymentHandler.CreatePayment).Methods("POST")
	api.HandleFunc("/transactions", paymentHandler.TransactionsByDate).Methods("GET")
	api.HandleFunc("/transactions/range", paymentHandler.TransactionsByRange).Methods("GET")
	api.HandleFunc("/transactions/report", paymentHandler.TransactionsReport).Methods("GET")

	api.HandleFunc("/schemes", schemeHandler.ListSchemes).Methods("GET")
	api.HandleFunc("/schemes", schemeHandler.CreateScheme).Methods("POST")
	api.HandleFunc("/schemes/{id:[0-9]+}", schemeHandler.GetScheme).Methods("GET")
	api.HandleFunc("/schemes/{id:[0-9]+}", schemeHandler.UpdateScheme).Methods("PUT")
	api.HandleFunc("/schemes/{id:[0-9]+}", schemeHandler.DeleteScheme).Methods("DELETE")
	api.HandleFunc("/schemes/{id:[0-9]+}/available-months", schemeHandler.AvailableMonths).Methods("GET")

	api.HandleFunc("/winners", winnerHandler.ListWinners).Methods("GET")
	api.HandleFunc("/winners", winnerHandler.CreateWinner).Methods("POST")
	api.HandleFunc("/winners/{id:[0-9]+}", winnerHandler.GetWinner).Methods("GET")
	api.HandleFunc("/winners/{id:[0-9]+}/deliveries", winnerHandler.ListDeliveries).Methods("GET")
	api.HandleFunc("/deliveries", winnerHandler.AddDelivery).Methods("POST")

	api.HandleFunc("/dashboard/stats", adminHandler.DashboardStats).Methods("GET")
	api.HandleFunc("/settings/default-start-date", adminHandler.DefaultStartDate).Methods("GET")
	api.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Admin-only routes
	adminAPI := api.PathPrefix("/admin").Subrouter()
	adminAPI.Use(authMiddleware.RequireAdmin)
	adminAPI.HandleFunc("/clear-data", adminHandler.ClearData).Methods("POST")
	adminAPI.HandleFunc("/backup", adminHandler.Backup).Methods("POST")
	adminAPI.HandleFunc("/backups", adminHandler.ListBackups).Methods("GET")

	// Live refresh for open dashboards
	r.Handle("/ws/events", authMiddleware.AuthenticateQuery(http.HandlerFunc(hub.ServeWS))).Methods("GET")

	// Health checks
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
