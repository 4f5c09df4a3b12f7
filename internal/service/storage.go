package service

import (
	"time"

	"github.com/reachout-dev/reachout/internal/domain"
)

// Storage interfaces are defined on the consumer side; internal/storage/pg
// and internal/storage/csvfile provide the implementations. Every operation
// is scoped by account id so cross-account access fails at the data layer.

type AuthStorage interface {
	SaveAccount(account domain.Account) (domain.Account, error) // Conflict on duplicate email
	AccountByEmail(email string) (domain.Account, error)
	AccountByID(id string) (domain.Account, error)
	UpdateRefreshHash(accountId, refreshHash string) error
}

type ConfigurationStorage interface {
	SaveConfiguration(cfg domain.Configuration) (domain.Configuration, error)   // Conflict if one exists
	Configuration(accountId string) (domain.Configuration, error)               // NotFound if absent
	UpdateConfiguration(cfg domain.Configuration) (domain.Configuration, error) // NotFound if absent
}

type RecruiterStorage interface {
	SaveRecruiter(recruiter domain.Recruiter) (domain.Recruiter, error)
	SaveRecruiters(recruiters []domain.Recruiter) (int, error)
	Recruiters(accountId string) ([]domain.Recruiter, error)
	Recruiter(accountId, recruiterId string) (domain.Recruiter, error)
	UpdateRecruiter(recruiter domain.Recruiter) (domain.Recruiter, error)
	DeleteRecruiter(accountId, recruiterId string) error
	// MarkContacted increments the reach-out counter and stamps the last
	// contact time in one update. MarkFailed records a failed attempt; only
	// the legacy csv store persists it.
	MarkContacted(accountId, recruiterId string, at time.Time) error
	MarkFailed(accountId, recruiterId string) error
}
