package service

import (
	"github.com/GlebRadaev/autosave/internal/handlers/auth"
	"github.com/GlebRadaev/autosave/internal/handlers/rules"
	"github.com/GlebRadaev/autosave/internal/handlers/verification"
	"github.com/GlebRadaev/autosave/internal/handlers/wallet"

	pkgauth "github.com/GlebRadaev/autosave/pkg/auth"

	"github.com/GlebRadaev/autosave/internal/pg"
	"github.com/GlebRadaev/autosave/internal/repo"
	authservice "github.com/GlebRadaev/autosave/internal/service/authservice"
	autoinvest "github.com/GlebRadaev/autosave/internal/service/autoinvest"
	"github.com/GlebRadaev/autosave/internal/service/lockout"
	otpservice "github.com/GlebRadaev/autosave/internal/service/otpservice"
	walletservice "github.com/GlebRadaev/autosave/internal/service/walletservice"
)

// Ext carries the out-of-process dependencies the services need: the
// transaction event publisher, the product catalog client, the notification
// delivery client and the redis-backed cache for lockout state.
type Ext struct {
	Publisher walletservice.Publisher
	Products  autoinvest.ProductClient
	Notifier  otpservice.Notifier
	Cache     lockout.Cache
}

type Services struct {
	AuthService    auth.Service
	WalletService  wallet.Service
	RuleService    rules.Service
	CodeService    verification.CodeService
	LockoutService *lockout.Service
}

func New(repo *repo.Repositories, txManager pg.TXManager, ext *Ext) *Services {
	walletService := walletservice.New(repo.WalletRepo, repo.TransactionRepo, txManager, ext.Publisher)
	ruleService := autoinvest.New(repo.RuleRepo, walletService, ext.Products)
	codeService := otpservice.New(repo.OTPRepo, ext.Notifier)
	lockoutService := lockout.New(ext.Cache)
	authService := authservice.New(repo.UserRepo, walletService, codeService, &pkgauth.HashService{}, &pkgauth.JWTService{})

	return &Services{
		AuthService:    authService,
		WalletService:  walletService,
		RuleService:    ruleService,
		CodeService:    codeService,
		LockoutService: lockoutService,
	}
}
