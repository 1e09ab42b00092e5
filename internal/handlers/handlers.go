package handlers

import (
	"net/http"

	_ "github.com/GlebRadaev/autosave/docs"
	authhandlers "github.com/GlebRadaev/autosave/internal/handlers/auth"
	ruleshandlers "github.com/GlebRadaev/autosave/internal/handlers/rules"
	verificationhandlers "github.com/GlebRadaev/autosave/internal/handlers/verification"
	wallethandlers "github.com/GlebRadaev/autosave/internal/handlers/wallet"
	"github.com/GlebRadaev/autosave/internal/service"
	"github.com/GlebRadaev/autosave/pkg/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type WalletHandler interface {
	GetWallet(w http.ResponseWriter, r *http.Request)
	Deposit(w http.ResponseWriter, r *http.Request)
	Withdraw(w http.ResponseWriter, r *http.Request)
	GetTransactions(w http.ResponseWriter, r *http.Request)
}

type RulesHandler interface {
	CreateRule(w http.ResponseWriter, r *http.Request)
	UpdateRule(w http.ResponseWriter, r *http.Request)
	DeleteRule(w http.ResponseWriter, r *http.Request)
	EnableRule(w http.ResponseWriter, r *http.Request)
	DisableRule(w http.ResponseWriter, r *http.Request)
	GetRules(w http.ResponseWriter, r *http.Request)
	Execute(w http.ResponseWriter, r *http.Request)
	ExecuteBatch(w http.ResponseWriter, r *http.Request)
}

type VerificationHandler interface {
	GenerateCode(w http.ResponseWriter, r *http.Request)
	VerifyCode(w http.ResponseWriter, r *http.Request)
	RecordFailedAttempt(w http.ResponseWriter, r *http.Request)
	IsLocked(w http.ResponseWriter, r *http.Request)
	ClearFailedAttempts(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler         AuthHandler
	WalletHandler       WalletHandler
	RulesHandler        RulesHandler
	VerificationHandler VerificationHandler

	metricsHandler http.Handler
}

func New(s *service.Services, dispatcher ruleshandlers.Dispatcher, metricsHandler http.Handler) *Handlers {
	return &Handlers{
		AuthHandler:         authhandlers.New(s.AuthService, s.LockoutService),
		WalletHandler:       wallethandlers.New(s.WalletService),
		RulesHandler:        ruleshandlers.New(s.RuleService, dispatcher),
		VerificationHandler: verificationhandlers.New(s.CodeService, s.LockoutService),
		metricsHandler:      metricsHandler,
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	if h.metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", h.metricsHandler)
	}

	r.Route("/api/verification", func(r chi.Router) {
		r.Post("/codes", h.VerificationHandler.GenerateCode)
		r.Post("/codes/verify", h.VerificationHandler.VerifyCode)
	})

	r.Post("/api/autoinvest/execute-batch", h.RulesHandler.ExecuteBatch)

	r.Route("/api/user", func(r chi.Router) {
		r.Post("/register", h.AuthHandler.Register)
		r.Post("/login", h.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware)
			r.Route("/wallet", func(r chi.Router) {
				r.Get("/", h.WalletHandler.GetWallet)
				r.Post("/deposit", h.WalletHandler.Deposit)
				r.Post("/withdraw", h.WalletHandler.Withdraw)
				r.Get("/transactions", h.WalletHandler.GetTransactions)
			})
			r.Route("/autoinvest/rules", func(r chi.Router) {
				r.Post("/", h.RulesHandler.CreateRule)
				r.Get("/", h.RulesHandler.GetRules)
				r.Put("/{id}", h.RulesHandler.UpdateRule)
				r.Delete("/{id}", h.RulesHandler.DeleteRule)
				r.Post("/{id}/enable", h.RulesHandler.EnableRule)
				r.Post("/{id}/disable", h.RulesHandler.DisableRule)
				r.Post("/execute", h.RulesHandler.Execute)
			})
			r.Route("/pin", func(r chi.Router) {
				r.Post("/attempts", h.VerificationHandler.RecordFailedAttempt)
				r.Post("/attempts/clear", h.VerificationHandler.ClearFailedAttempts)
				r.Get("/lock", h.VerificationHandler.IsLocked)
			})
		})
	})

	return r
}
