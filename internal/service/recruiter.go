package service

import (
	"fmt"

	"github.com/reachout-dev/reachout/internal/domain"
	"github.com/reachout-dev/reachout/internal/errors"
	"github.com/reachout-dev/reachout/internal/mailer"
)

type RecruiterService interface {
	Add(recruiter domain.Recruiter) (domain.Recruiter, error)
	AddMany(accountId string, recruiters []domain.Recruiter) (int, error)
	List(accountId string) ([]domain.Recruiter, error)
	Update(recruiter domain.Recruiter) (domain.Recruiter, error)
	Delete(accountId, recruiterId string) error
}

type Recruiters struct {
	storage RecruiterStorage
}

func NewRecruiters(storage RecruiterStorage) *Recruiters {
	return &Recruiters{storage: storage}
}

func (r *Recruiters) Add(recruiter domain.Recruiter) (domain.Recruiter, error) {
	if err := validateRecruiter(recruiter); err != nil {
		return domain.Recruiter{}, err
	}
	return r.storage.SaveRecruiter(recruiter)
}

// AddMany validates the whole batch before inserting anything, so a single
// bad row rejects the upload instead of partially applying it.
func (r *Recruiters) AddMany(accountId string, recruiters []domain.Recruiter) (int, error) {
	if len(recruiters) == 0 {
		return 0, errors.Validation("No recruiters provided")
	}
	for i := range recruiters {
		recruiters[i].AccountId = accountId
		if err := validateRecruiter(recruiters[i]); err != nil {
			return 0, errors.Validation(fmt.Sprintf("Recruiter %d: %s", i+1, err.Error()))
		}
	}
	return r.storage.SaveRecruiters(recruiters)
}

func (r *Recruiters) List(accountId string) ([]domain.Recruiter, error) {
	return r.storage.Recruiters(accountId)
}

func (r *Recruiters) Update(recruiter domain.Recruiter) (domain.Recruiter, error) {
	if err := validateRecruiter(recruiter); err != nil {
		return domain.Recruiter{}, err
	}
	return r.storage.UpdateRecruiter(recruiter)
}

func (r *Recruiters) Delete(accountId, recruiterId string) error {
	return r.storage.DeleteRecruiter(accountId, recruiterId)
}

func validateRecruiter(recruiter domain.Recruiter) error {
	if recruiter.Name == "" {
		return errors.Validation("Name is required")
	}
	if recruiter.Company == "" {
		return errors.Validation("Company is required")
	}
	return mailer.ValidateAddress(recruiter.Email)
}
