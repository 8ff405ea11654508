package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

type accountRepository struct {
	*store
}

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

func (r *accountRepository) FindAccountByID(ctx context.Context, organizationID, accountID string) (*domain.Account, error) {
	var found *domain.Account
	err := r.read(func(st *state) error {
		acc, ok := st.accounts[key{organizationID, accountID}]
		if !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		found = &acc
		return nil
	})
	return found, err
}

func (r *accountRepository) FindAccountsByIDs(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error) {
	result := make(map[string]domain.Account, len(accountIDs))
	err := r.read(func(st *state) error {
		for _, id := range accountIDs {
			if acc, ok := st.accounts[key{organizationID, id}]; ok {
				result[id] = acc
			}
		}
		return nil
	})
	return result, err
}

func (r *accountRepository) ListAccounts(ctx context.Context, organizationID string) ([]domain.Account, error) {
	var accounts []domain.Account
	err := r.read(func(st *state) error {
		for k, acc := range st.accounts {
			if k.org == organizationID {
				accounts = append(accounts, acc)
			}
		}
		return nil
	})
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts, err
}

func (r *accountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	return r.write(func(st *state) error {
		k := key{account.OrganizationID, account.AccountID}
		if _, exists := st.accounts[k]; exists {
			return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
		}
		for other, acc := range st.accounts {
			if other.org == account.OrganizationID && acc.Code == account.Code {
				return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
			}
		}
		st.accounts[k] = account
		return nil
	})
}

func (r *accountRepository) LockAccountsForUpdate(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error) {
	result := make(map[string]domain.Account, len(accountIDs))
	err := r.read(func(st *state) error {
		for _, id := range accountIDs {
			acc, ok := st.accounts[key{organizationID, id}]
			if !ok {
				return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
			}
			result[id] = acc
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *accountRepository) UpdateCurrentBalance(ctx context.Context, organizationID, accountID string, balance decimal.Decimal, expectedVersion int64) error {
	return r.write(func(st *state) error {
		k := key{organizationID, accountID}
		acc, ok := st.accounts[k]
		if !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		if acc.Version != expectedVersion {
			return apperrors.NewStaleReadError(accountID)
		}
		acc.CurrentBalance = balance
		acc.Version++
		st.accounts[k] = acc
		return nil
	})
}
