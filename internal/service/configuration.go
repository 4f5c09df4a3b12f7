package service

import (
	"github.com/reachout-dev/reachout/internal/domain"
	"github.com/reachout-dev/reachout/internal/errors"
	"github.com/reachout-dev/reachout/internal/mailer"
)

type ConfigurationService interface {
	Save(cfg domain.Configuration) (domain.Configuration, error)
	Get(accountId string) (domain.Configuration, error)
	Update(cfg domain.Configuration) (domain.Configuration, error)
}

type Configurations struct {
	storage ConfigurationStorage
}

func NewConfigurations(storage ConfigurationStorage) *Configurations {
	return &Configurations{storage: storage}
}

func (c *Configurations) Save(cfg domain.Configuration) (domain.Configuration, error) {
	if err := validateConfiguration(cfg); err != nil {
		return domain.Configuration{}, err
	}
	return c.storage.SaveConfiguration(cfg)
}

func (c *Configurations) Get(accountId string) (domain.Configuration, error) {
	return c.storage.Configuration(accountId)
}

func (c *Configurations) Update(cfg domain.Configuration) (domain.Configuration, error) {
	if err := validateConfiguration(cfg); err != nil {
		return domain.Configuration{}, err
	}
	return c.storage.UpdateConfiguration(cfg)
}

func validateConfiguration(cfg domain.Configuration) error {
	if !cfg.Complete() {
		return errors.Validation("All configuration fields are required")
	}
	return mailer.ValidateAddress(cfg.EmailFrom)
}
