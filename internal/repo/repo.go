package repo

import (
	"github.com/GlebRadaev/autosave/internal/pg"
	otprepo "github.com/GlebRadaev/autosave/internal/repo/otp-repo"
	rulerepo "github.com/GlebRadaev/autosave/internal/repo/rule-repo"
	transactionrepo "github.com/GlebRadaev/autosave/internal/repo/transaction-repo"
	userrepo "github.com/GlebRadaev/autosave/internal/repo/user-repo"
	walletrepo "github.com/GlebRadaev/autosave/internal/repo/wallet-repo"
	"github.com/GlebRadaev/autosave/internal/service/authservice"
	"github.com/GlebRadaev/autosave/internal/service/autoinvest"
	"github.com/GlebRadaev/autosave/internal/service/otpservice"
	"github.com/GlebRadaev/autosave/internal/service/walletservice"
)

type Repositories struct {
	UserRepo        authservice.Repo
	WalletRepo      walletservice.WalletRepo
	TransactionRepo walletservice.TransactionRepo
	RuleRepo        autoinvest.RuleRepo
	OTPRepo         otpservice.Repo
}

func New(conn pg.Database) *Repositories {
	return &Repositories{
		UserRepo:        userrepo.New(conn),
		WalletRepo:      walletrepo.New(conn),
		TransactionRepo: transactionrepo.New(conn),
		RuleRepo:        rulerepo.New(conn),
		OTPRepo:         otprepo.New(conn),
	}
}
