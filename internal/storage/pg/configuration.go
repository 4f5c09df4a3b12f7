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
// Public Methods (satisfy the service.ConfigurationStorage interface)
// =========================================================================

// SaveConfiguration inserts the account's email configuration. Each account
// holds at most one; a second insert maps to a 409.
func (s *Storage) SaveConfiguration(cfg domain.Configuration) (domain.Configuration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var saved domain.Configuration
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		saved, err = s.saveConfiguration(tx, cfg)
		return err
	})
	return saved, err
}

func (s *Storage) Configuration(accountId string) (domain.Configuration, error) {
	return s.configuration(s.db, accountId)
}

func (s *Storage) UpdateConfiguration(cfg domain.Configuration) (domain.Configuration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var updated domain.Configuration
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		updated, err = s.updateConfiguration(tx, cfg)
		return err
	})
	return updated, err
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func (s *Storage) saveConfiguration(q Querier, cfg domain.Configuration) (domain.Configuration, error) {
	cfg.Id = uuid.NewString()
	err := q.QueryRow(`
        INSERT INTO configurations(id, account_id, smtp_host, smtp_port, smtp_user, smtp_pass, email_from, email_subject, rate_limit)
        VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING updated_at`,
		cfg.Id, cfg.AccountId, cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass,
		cfg.EmailFrom, cfg.EmailSubject, cfg.RateLimit,
	).Scan(&cfg.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Configuration{}, internal_errors.Conflict("Configuration already exists")
		}
		return domain.Configuration{}, fmt.Errorf("failed to insert configuration: %w", err)
	}
	return cfg, nil
}

func (s *Storage) configuration(q Querier, accountId string) (domain.Configuration, error) {
	var cfg domain.Configuration
	err := q.QueryRow(`
        SELECT id, account_id, smtp_host, smtp_port, smtp_user, smtp_pass, email_from, email_subject, rate_limit, updated_at
        FROM configurations WHERE account_id = $1`, accountId,
	).Scan(&cfg.Id, &cfg.AccountId, &cfg.SMTPHost, &cfg.SMTPPort, &cfg.SMTPUser, &cfg.SMTPPass,
		&cfg.EmailFrom, &cfg.EmailSubject, &cfg.RateLimit, &cfg.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Configuration{}, internal_errors.NotFound("Configuration not found")
		}
		return domain.Configuration{}, fmt.Errorf("failed to query configuration: %w", err)
	}
	return cfg, nil
}

func (s *Storage) updateConfiguration(q Querier, cfg domain.Configuration) (domain.Configuration, error) {
	err := q.QueryRow(`
        UPDATE configurations SET
            smtp_host = $1,
            smtp_port = $2,
            smtp_user = $3,
            smtp_pass = $4,
            email_from = $5,
            email_subject = $6,
            rate_limit = $7,
            updated_at = now()
        WHERE account_id = $8
        RETURNING id, updated_at`,
		cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass,
		cfg.EmailFrom, cfg.EmailSubject, cfg.RateLimit, cfg.AccountId,
	).Scan(&cfg.Id, &cfg.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Configuration{}, internal_errors.NotFound("Configuration not found")
		}
		return domain.Configuration{}, fmt.Errorf("failed to update configuration: %w", err)
	}
	return cfg, nil
}
