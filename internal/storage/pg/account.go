package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/reachout-dev/reachout/internal/domain"
	internal_errors "github.com/reachout-dev/reachout/internal/errors"
)

// =========================================================================
// Public Methods (satisfy the service.AuthStorage interface)
// =========================================================================

// SaveAccount inserts a new account, generating its id. A duplicate email
// maps to a 409.
func (s *Storage) SaveAccount(account domain.Account) (domain.Account, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var saved domain.Account
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		saved, err = s.saveAccount(tx, account)
		return err
	})
	return saved, err
}

func (s *Storage) AccountByEmail(email string) (domain.Account, error) {
	return s.account(s.db, "email = $1", email)
}

func (s *Storage) AccountByID(id string) (domain.Account, error) {
	return s.account(s.db, "id = $1", id)
}

func (s *Storage) UpdateRefreshHash(accountId, refreshHash string) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updateRefreshHash(tx, accountId, refreshHash)
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func (s *Storage) saveAccount(q Querier, account domain.Account) (domain.Account, error) {
	account.Id = uuid.NewString()
	err := q.QueryRow(`
        INSERT INTO accounts(id, name, email, password_hash)
        VALUES($1, $2, $3, $4)
        RETURNING created_at`,
		account.Id, account.Name, account.Email, account.PassHash,
	).Scan(&account.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Account{}, internal_errors.Conflict("An account with this email already exists")
		}
		return domain.Account{}, fmt.Errorf("failed to insert account: %w", err)
	}
	return account, nil
}

func (s *Storage) account(q Querier, where string, arg interface{}) (domain.Account, error) {
	var account domain.Account
	var refreshHash sql.NullString
	err := q.QueryRow(`
        SELECT id, name, email, password_hash, refresh_token_hash, created_at
        FROM accounts WHERE `+where, arg,
	).Scan(&account.Id, &account.Name, &account.Email, &account.PassHash, &refreshHash, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, internal_errors.NotFound("Account not found")
		}
		return domain.Account{}, fmt.Errorf("failed to query account: %w", err)
	}
	account.RefreshHash = refreshHash.String
	return account, nil
}

func (s *Storage) updateRefreshHash(q Querier, accountId, refreshHash string) error {
	result, err := q.Exec("UPDATE accounts SET refresh_token_hash = $1 WHERE id = $2", refreshHash, accountId)
	if err != nil {
		return fmt.Errorf("failed to update refresh token hash: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for refresh token update: %w", err)
	}
	if rowsAffected == 0 {
		return internal_errors.NotFound("Account not found")
	}
	return nil
}
