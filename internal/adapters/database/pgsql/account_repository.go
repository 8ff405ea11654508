package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

type accountRepository struct {
	q querier
}

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

const accountColumns = `
	organization_id, account_id, code, name, account_type, normal_balance,
	current_balance, version, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.OrganizationID,
		&a.AccountID,
		&a.Code,
		&a.Name,
		&a.AccountType,
		&a.NormalBalance,
		&a.CurrentBalance,
		&a.Version,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.LastUpdatedAt,
		&a.LastUpdatedBy,
	)
	return a, err
}

func collectAccounts(rows pgx.Rows) (map[string]domain.Account, error) {
	defer rows.Close()
	accounts := make(map[string]domain.Account)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts[a.AccountID] = a
	}
	return accounts, rows.Err()
}

func (r *accountRepository) FindAccountByID(ctx context.Context, organizationID, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE organization_id = $1 AND account_id = $2;`
	account, err := scanAccount(r.q.QueryRow(ctx, query, organizationID, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, internalError("failed to find account "+accountID, err)
	}
	return &account, nil
}

func (r *accountRepository) FindAccountsByIDs(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE organization_id = $1 AND account_id = ANY($2);`
	rows, err := r.q.Query(ctx, query, organizationID, accountIDs)
	if err != nil {
		return nil, internalError("failed to query accounts by ids", err)
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, internalError("failed to scan account rows", err)
	}
	return accounts, nil
}

func (r *accountRepository) ListAccounts(ctx context.Context, organizationID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE organization_id = $1 ORDER BY code;`
	rows, err := r.q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, internalError("failed to list accounts for organization "+organizationID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, internalError("failed to scan account row", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, internalError("error iterating account rows", err)
	}
	return accounts, nil
}

func (r *accountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.q.Exec(ctx, query,
		account.OrganizationID,
		account.AccountID,
		account.Code,
		account.Name,
		account.AccountType,
		account.NormalBalance,
		account.CurrentBalance,
		account.Version,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		if _, ok := uniqueViolationOn(err); ok {
			return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
		}
		return internalError("failed to save account "+account.AccountID, err)
	}
	return nil
}

// LockAccountsForUpdate takes row locks in account id order so concurrent posters never deadlock on each other.
func (r *accountRepository) LockAccountsForUpdate(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE organization_id = $1 AND account_id = ANY($2)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := r.q.Query(ctx, query, organizationID, accountIDs)
	if err != nil {
		return nil, internalError("failed to lock accounts for update", err)
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, internalError("failed to scan locked account rows", err)
	}
	for _, id := range accountIDs {
		if _, ok := accounts[id]; !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return accounts, nil
}

func (r *accountRepository) UpdateCurrentBalance(ctx context.Context, organizationID, accountID string, balance decimal.Decimal, expectedVersion int64) error {
	query := `
		UPDATE accounts
		SET current_balance = $3, version = version + 1
		WHERE organization_id = $1 AND account_id = $2 AND version = $4;
	`
	tag, err := r.q.Exec(ctx, query, organizationID, accountID, balance, expectedVersion)
	if err != nil {
		return internalError("failed to update balance of account "+accountID, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	if _, err := r.FindAccountByID(ctx, organizationID, accountID); err != nil {
		return err
	}
	return apperrors.NewStaleReadError(accountID)
}
