package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/reachout-dev/reachout/internal/domain"
	internal_errors "github.com/reachout-dev/reachout/internal/errors"
)

// =========================================================================
// Public Methods (satisfy the service.RecruiterStorage interface)
// =========================================================================

func (s *Storage) SaveRecruiter(recruiter domain.Recruiter) (domain.Recruiter, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var saved domain.Recruiter
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		saved, err = s.saveRecruiter(tx, recruiter)
		return err
	})
	return saved, err
}

// SaveRecruiters inserts the whole batch in one transaction, so a failing
// row rolls back everything already inserted.
func (s *Storage) SaveRecruiters(recruiters []domain.Recruiter) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var inserted int
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, recruiter := range recruiters {
			if _, err := s.saveRecruiter(tx, recruiter); err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func (s *Storage) Recruiters(accountId string) ([]domain.Recruiter, error) {
	rows, err := s.db.Query(`
        SELECT id, account_id, name, company, email, reach_out_count, last_contact_at, created_at
        FROM recruiters WHERE account_id = $1
        ORDER BY created_at, id`, accountId)
	if err != nil {
		return nil, fmt.Errorf("failed to query recruiters: %w", err)
	}
	defer rows.Close()

	recruiters := []domain.Recruiter{}
	for rows.Next() {
		recruiter, err := scanRecruiter(rows.Scan)
		if err != nil {
			return nil, err
		}
		recruiters = append(recruiters, recruiter)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recruiters: %w", err)
	}
	return recruiters, nil
}

func (s *Storage) Recruiter(accountId, recruiterId string) (domain.Recruiter, error) {
	return s.recruiter(s.db, accountId, recruiterId)
}

func (s *Storage) UpdateRecruiter(recruiter domain.Recruiter) (domain.Recruiter, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var updated domain.Recruiter
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		updated, err = s.updateRecruiter(tx, recruiter)
		return err
	})
	return updated, err
}

func (s *Storage) DeleteRecruiter(accountId, recruiterId string) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.deleteRecruiter(tx, accountId, recruiterId)
	})
}

// MarkContacted advances the reach-out counter and stamps the contact time
// in a single update.
func (s *Storage) MarkContacted(accountId, recruiterId string, at time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(`
            UPDATE recruiters SET
                reach_out_count = reach_out_count + 1,
                last_contact_at = $1
            WHERE id = $2 AND account_id = $3`,
			at, recruiterId, accountId)
		if err != nil {
			return fmt.Errorf("failed to mark recruiter contacted: %w", err)
		}
		return requireRowAffected(result)
	})
}

// MarkFailed only verifies the recruiter exists; a failed attempt is not
// persisted here, the per-run summary carries it.
func (s *Storage) MarkFailed(accountId, recruiterId string) error {
	_, err := s.recruiter(s.db, accountId, recruiterId)
	return err
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func (s *Storage) saveRecruiter(q Querier, recruiter domain.Recruiter) (domain.Recruiter, error) {
	recruiter.Id = uuid.NewString()
	err := q.QueryRow(`
        INSERT INTO recruiters(id, account_id, name, company, email, reach_out_count)
        VALUES($1, $2, $3, $4, $5, $6)
        RETURNING created_at`,
		recruiter.Id, recruiter.AccountId, recruiter.Name, recruiter.Company,
		recruiter.Email, recruiter.ReachOutCount,
	).Scan(&recruiter.CreatedAt)
	if err != nil {
		return domain.Recruiter{}, fmt.Errorf("failed to insert recruiter: %w", err)
	}
	recruiter.Status = statusFor(recruiter.ReachOutCount)
	return recruiter, nil
}

func (s *Storage) recruiter(q Querier, accountId, recruiterId string) (domain.Recruiter, error) {
	row := q.QueryRow(`
        SELECT id, account_id, name, company, email, reach_out_count, last_contact_at, created_at
        FROM recruiters WHERE id = $1 AND account_id = $2`,
		recruiterId, accountId)
	recruiter, err := scanRecruiter(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Recruiter{}, internal_errors.NotFound("Recruiter not found")
		}
		return domain.Recruiter{}, err
	}
	return recruiter, nil
}

func (s *Storage) updateRecruiter(q Querier, recruiter domain.Recruiter) (domain.Recruiter, error) {
	err := q.QueryRow(`
        UPDATE recruiters SET
            name = $1,
            company = $2,
            email = $3
        WHERE id = $4 AND account_id = $5
        RETURNING reach_out_count, last_contact_at, created_at`,
		recruiter.Name, recruiter.Company, recruiter.Email, recruiter.Id, recruiter.AccountId,
	).Scan(&recruiter.ReachOutCount, &recruiter.LastContactAt, &recruiter.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Recruiter{}, internal_errors.NotFound("Recruiter not found")
		}
		return domain.Recruiter{}, fmt.Errorf("failed to update recruiter: %w", err)
	}
	recruiter.Status = statusFor(recruiter.ReachOutCount)
	return recruiter, nil
}

func (s *Storage) deleteRecruiter(q Querier, accountId, recruiterId string) error {
	result, err := q.Exec("DELETE FROM recruiters WHERE id = $1 AND account_id = $2", recruiterId, accountId)
	if err != nil {
		return fmt.Errorf("failed to delete recruiter: %w", err)
	}
	return requireRowAffected(result)
}

func scanRecruiter(scan func(...interface{}) error) (domain.Recruiter, error) {
	var recruiter domain.Recruiter
	var lastContact sql.NullTime
	err := scan(&recruiter.Id, &recruiter.AccountId, &recruiter.Name, &recruiter.Company,
		&recruiter.Email, &recruiter.ReachOutCount, &lastContact, &recruiter.CreatedAt)
	if err != nil {
		return domain.Recruiter{}, err
	}
	if lastContact.Valid {
		t := lastContact.Time
		recruiter.LastContactAt = &t
	}
	recruiter.Status = statusFor(recruiter.ReachOutCount)
	return recruiter, nil
}

// statusFor derives the display status; this store keeps no status column.
func statusFor(reachOutCount int) domain.RecruiterStatus {
	if reachOutCount > 0 {
		return domain.StatusSent
	}
	return domain.StatusPending
}

func requireRowAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return internal_errors.NotFound("Recruiter not found")
	}
	return nil
}
