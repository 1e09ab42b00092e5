package repo

import (
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"

	otprepo "github.com/GlebRadaev/autosave/internal/repo/otp-repo"
	rulerepo "github.com/GlebRadaev/autosave/internal/repo/rule-repo"
	transactionrepo "github.com/GlebRadaev/autosave/internal/repo/transaction-repo"
	userrepo "github.com/GlebRadaev/autosave/internal/repo/user-repo"
	walletrepo "github.com/GlebRadaev/autosave/internal/repo/wallet-repo"
)

func NewMock(t *testing.T) (*Repositories, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestNew(t *testing.T) {
	repo, mock := NewMock(t)

	assert.NotNil(t, repo.UserRepo)
	assert.NotNil(t, repo.WalletRepo)
	assert.NotNil(t, repo.TransactionRepo)
	assert.NotNil(t, repo.RuleRepo)
	assert.NotNil(t, repo.OTPRepo)

	assert.IsType(t, &userrepo.Repository{}, repo.UserRepo)
	assert.IsType(t, &walletrepo.Repository{}, repo.WalletRepo)
	assert.IsType(t, &transactionrepo.Repository{}, repo.TransactionRepo)
	assert.IsType(t, &rulerepo.Repository{}, repo.RuleRepo)
	assert.IsType(t, &otprepo.Repository{}, repo.OTPRepo)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unmet expectations: %v", err)
	}
}
