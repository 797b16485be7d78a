package handler

import (
	"core-banking-ledger/internal/adapter/http/middleware"
	"core-banking-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	ClientSvc      ports.ClientService
	AccountSvc     ports.AccountService
	CardSvc        ports.CardService
	JournalSvc     ports.JournalService
	AuditSvc       ports.AuditQueryService
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.ActorTag())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis when wired)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	v1 := r.Group("/api/v1")

	clientHandler := NewClientHandler(deps.ClientSvc, deps.AccountSvc)
	clients := v1.Group("/clients")
	{
		clients.POST("", clientHandler.Create)
		clients.GET("", clientHandler.List)
		clients.GET("/:id", clientHandler.Get)
		clients.PUT("/:id", clientHandler.Update)
		clients.DELETE("/:id", clientHandler.Deactivate)
		clients.POST("/:id/restore", clientHandler.Restore)
		clients.GET("/:id/accounts", clientHandler.Accounts)
	}

	accountHandler := NewAccountHandler(deps.AccountSvc, deps.CardSvc, deps.JournalSvc)
	accounts := v1.Group("/accounts")
	{
		accounts.POST("", accountHandler.Open)
		accounts.GET("", accountHandler.List)
		accounts.GET("/:id", accountHandler.Get)
		accounts.POST("/:id/suspend", accountHandler.Suspend)
		accounts.POST("/:id/reactivate", accountHandler.Reactivate)
		accounts.DELETE("/:id", accountHandler.Close)
		accounts.POST("/:id/restore", accountHandler.Restore)
		accounts.GET("/:id/transactions", accountHandler.Transactions)
		accounts.GET("/:id/cards", accountHandler.Cards)
	}

	cardHandler := NewCardHandler(deps.CardSvc)
	cards := v1.Group("/cards")
	{
		cards.POST("", cardHandler.Issue)
		cards.GET("/:id", cardHandler.Get)
		cards.POST("/:id/block", cardHandler.Block)
		cards.POST("/:id/activate", cardHandler.Activate)
		cards.DELETE("/:id", cardHandler.Delete)
		cards.POST("/:id/restore", cardHandler.Restore)
	}

	ledgerHandler := NewLedgerHandler(deps.JournalSvc)
	operations := v1.Group("/operations")
	{
		operations.POST("/deposit", ledgerHandler.Deposit)
		operations.POST("/withdraw", ledgerHandler.Withdraw)
		operations.POST("/service-payment", ledgerHandler.ServicePayment)
		operations.POST("/transfer", ledgerHandler.Transfer)
	}

	transactions := v1.Group("/transactions")
	{
		transactions.GET("/:id", ledgerHandler.GetTransaction)
		transactions.POST("/:id/reverse", ledgerHandler.Reverse)
	}

	auditHandler := NewAuditHandler(deps.AuditSvc)
	audit := v1.Group("/audit")
	{
		audit.GET("", auditHandler.Search)
		audit.GET("/records/:id", auditHandler.Get)
		audit.GET("/history/:kind/:id", auditHandler.History)
	}

	return r
}
