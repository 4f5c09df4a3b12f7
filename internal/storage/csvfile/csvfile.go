// Package csvfile implements the recruiter storage interface on a single CSV
// file. It exists for the spreadsheet-import workflow that predates the
// database: the whole file is loaded at startup and rewritten on every
// mutation, so it only suits small contact lists.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reachout-dev/reachout/internal/domain"
	internal_errors "github.com/reachout-dev/reachout/internal/errors"
	"github.com/reachout-dev/reachout/internal/service"
)

var header = []string{"id", "account_id", "name", "company", "email", "reach_out_count", "last_contact_at", "created_at", "status"}

type Store struct {
	path string

	mu         sync.Mutex
	recruiters []domain.Recruiter
}

// Ensure Store implements the interface at compile time.
var _ service.RecruiterStorage = (*Store)(nil)

func New(path string) (*Store, error) {
	path = filepath.Clean(path)
	s := &Store{path: path}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.flush(); err != nil {
			return nil, err
		}
		return s, nil
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// =========================================================================
// service.RecruiterStorage
// =========================================================================

func (s *Store) SaveRecruiter(recruiter domain.Recruiter) (domain.Recruiter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recruiter.Id = uuid.NewString()
	recruiter.CreatedAt = time.Now().UTC()
	if recruiter.Status == "" {
		recruiter.Status = domain.StatusPending
	}
	s.recruiters = append(s.recruiters, recruiter)

	if err := s.flush(); err != nil {
		s.recruiters = s.recruiters[:len(s.recruiters)-1]
		return domain.Recruiter{}, err
	}
	return recruiter, nil
}

func (s *Store) SaveRecruiters(recruiters []domain.Recruiter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.recruiters)
	now := time.Now().UTC()
	for _, recruiter := range recruiters {
		recruiter.Id = uuid.NewString()
		recruiter.CreatedAt = now
		if recruiter.Status == "" {
			recruiter.Status = domain.StatusPending
		}
		s.recruiters = append(s.recruiters, recruiter)
	}

	if err := s.flush(); err != nil {
		s.recruiters = s.recruiters[:before]
		return 0, err
	}
	return len(recruiters), nil
}

func (s *Store) Recruiters(accountId string) ([]domain.Recruiter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []domain.Recruiter{}
	for _, recruiter := range s.recruiters {
		if recruiter.AccountId == accountId {
			result = append(result, recruiter)
		}
	}
	return result, nil
}

func (s *Store) Recruiter(accountId, recruiterId string) (domain.Recruiter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(accountId, recruiterId)
	if i < 0 {
		return domain.Recruiter{}, internal_errors.NotFound("Recruiter not found")
	}
	return s.recruiters[i], nil
}

func (s *Store) UpdateRecruiter(recruiter domain.Recruiter) (domain.Recruiter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(recruiter.AccountId, recruiter.Id)
	if i < 0 {
		return domain.Recruiter{}, internal_errors.NotFound("Recruiter not found")
	}

	// contact fields only; the counter and timestamps stay
	updated := s.recruiters[i]
	updated.Name = recruiter.Name
	updated.Company = recruiter.Company
	updated.Email = recruiter.Email
	s.recruiters[i] = updated

	if err := s.flush(); err != nil {
		return domain.Recruiter{}, err
	}
	return updated, nil
}

func (s *Store) DeleteRecruiter(accountId, recruiterId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(accountId, recruiterId)
	if i < 0 {
		return internal_errors.NotFound("Recruiter not found")
	}
	s.recruiters = append(s.recruiters[:i], s.recruiters[i+1:]...)
	return s.flush()
}

func (s *Store) MarkContacted(accountId, recruiterId string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(accountId, recruiterId)
	if i < 0 {
		return internal_errors.NotFound("Recruiter not found")
	}
	at = at.UTC()
	s.recruiters[i].ReachOutCount++
	s.recruiters[i].LastContactAt = &at
	s.recruiters[i].Status = domain.StatusSent
	return s.flush()
}

func (s *Store) MarkFailed(accountId, recruiterId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(accountId, recruiterId)
	if i < 0 {
		return internal_errors.NotFound("Recruiter not found")
	}
	s.recruiters[i].Status = domain.StatusFailed
	return s.flush()
}

// =========================================================================
// File handling
// =========================================================================

// index must be called with the lock held.
func (s *Store) index(accountId, recruiterId string) int {
	for i, recruiter := range s.recruiters {
		if recruiter.Id == recruiterId && recruiter.AccountId == accountId {
			return i
		}
	}
	return -1
}

func (s *Store) load() error {
	file, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("failed to open csv store: %w", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read csv store: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	recruiters := make([]domain.Recruiter, 0, len(rows)-1)
	for _, row := range rows[1:] { // skip header
		recruiter, err := parseRow(row)
		if err != nil {
			return fmt.Errorf("failed to parse csv row: %w", err)
		}
		recruiters = append(recruiters, recruiter)
	}
	s.recruiters = recruiters
	return nil
}

// flush rewrites the whole file through a temp file and rename, so a crash
// mid-write never truncates the store. Must be called with the lock held.
func (s *Store) flush() error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".recruiters-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp csv file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, recruiter := range s.recruiters {
		if err := w.Write(formatRow(recruiter)); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush csv store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp csv file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace csv store: %w", err)
	}
	return nil
}

func formatRow(recruiter domain.Recruiter) []string {
	lastContact := ""
	if recruiter.LastContactAt != nil {
		lastContact = recruiter.LastContactAt.Format(time.RFC3339)
	}
	return []string{
		recruiter.Id,
		recruiter.AccountId,
		recruiter.Name,
		recruiter.Company,
		recruiter.Email,
		strconv.Itoa(recruiter.ReachOutCount),
		lastContact,
		recruiter.CreatedAt.Format(time.RFC3339),
		string(recruiter.Status),
	}
}

func parseRow(row []string) (domain.Recruiter, error) {
	if len(row) != len(header) {
		return domain.Recruiter{}, fmt.Errorf("expected %d columns, got %d", len(header), len(row))
	}

	reachOuts, err := strconv.Atoi(row[5])
	if err != nil {
		return domain.Recruiter{}, fmt.Errorf("invalid reach_out_count %q: %w", row[5], err)
	}

	recruiter := domain.Recruiter{
		Id:            row[0],
		AccountId:     row[1],
		Name:          row[2],
		Company:       row[3],
		Email:         row[4],
		ReachOutCount: reachOuts,
		Status:        domain.RecruiterStatus(row[8]),
	}
	if row[6] != "" {
		t, err := time.Parse(time.RFC3339, row[6])
		if err != nil {
			return domain.Recruiter{}, fmt.Errorf("invalid last_contact_at %q: %w", row[6], err)
		}
		recruiter.LastContactAt = &t
	}
	if row[7] != "" {
		t, err := time.Parse(time.RFC3339, row[7])
		if err != nil {
			return domain.Recruiter{}, fmt.Errorf("invalid created_at %q: %w", row[7], err)
		}
		recruiter.CreatedAt = t
	}
	if recruiter.Status == "" {
		recruiter.Status = domain.StatusPending
	}
	return recruiter, nil
}
