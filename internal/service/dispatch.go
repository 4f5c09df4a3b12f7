package service

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/reachout-dev/reachout/internal/bodygen"
	"github.com/reachout-dev/reachout/internal/domain"
	"github.com/reachout-dev/reachout/internal/errors"
	"github.com/reachout-dev/reachout/internal/logger"
)

var (
	emailsSentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "outreach_emails_sent_total",
			Help: "Total number of outreach emails delivered",
		},
	)

	emailsFailedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "outreach_emails_failed_total",
			Help: "Total number of outreach emails that failed to send",
		},
	)

	sendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "outreach_send_duration_seconds",
			Help:    "SMTP send duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)
)

// Transport sends one message; a fresh handle is built per dispatch from the
// caller's current configuration.
type Transport interface {
	Send(to, subject, htmlBody string) error
}

// TransportFactory builds a Transport from a configuration. Returns a
// validation error when the configuration is incomplete.
type TransportFactory func(cfg domain.Configuration) (Transport, error)

// Bodies resolves the tagged body choice: static first-contact/follow-up
// templates or an AI-generated message.
type Bodies interface {
	Static(data bodygen.TemplateData, followUp bool) (string, error)
	Generated(ctx context.Context, senderName, senderEmail string) (string, error)
}

// accountGate serializes sends for one account and remembers when its last
// email went out. Gates are keyed per account so one account's traffic never
// delays another's (the rate limit belongs to the account's SMTP provider).
type accountGate struct {
	mu       sync.Mutex
	lastSent time.Time
	hasSent  bool
}

type Dispatcher struct {
	accounts   AuthStorage
	configs    ConfigurationStorage
	recruiters RecruiterStorage
	transports TransportFactory
	bodies     Bodies

	mu    sync.Mutex
	gates map[string]*accountGate

	// injectable for deterministic rate-gate tests
	now   func() time.Time
	sleep func(time.Duration)
}

func NewDispatcher(accounts AuthStorage, configs ConfigurationStorage, recruiters RecruiterStorage, transports TransportFactory, bodies Bodies) *Dispatcher {
	return &Dispatcher{
		accounts:   accounts,
		configs:    configs,
		recruiters: recruiters,
		transports: transports,
		bodies:     bodies,
		gates:      make(map[string]*accountGate),
		now:        time.Now,
		sleep:      time.Sleep,
	}
}

// SendOne dispatches a single outreach email. The send is attempted first;
// the recruiter's counter and last-contact timestamp are only updated when
// the transport reports success, so a failed send leaves the row untouched.
func (d *Dispatcher) SendOne(ctx context.Context, accountId, recruiterId string, useAI bool) (domain.SendOutcome, error) {
	recruiter, err := d.recruiters.Recruiter(accountId, recruiterId)
	if err != nil {
		return domain.SendOutcome{}, err
	}

	cfg, err := d.configs.Configuration(accountId)
	if err != nil {
		if errors.IsNotFound(err) {
			return domain.SendOutcome{}, errors.NotFound("Email configuration not found")
		}
		return domain.SendOutcome{}, err
	}

	transport, err := d.transports(cfg)
	if err != nil {
		return domain.SendOutcome{}, err
	}

	account, err := d.accounts.AccountByID(accountId)
	if err != nil {
		return domain.SendOutcome{}, err
	}

	body, err := d.buildBody(ctx, account, cfg, recruiter, useAI)
	if err != nil {
		return domain.SendOutcome{}, err
	}

	if err := d.deliver(accountId, cfg, transport, recruiter, body); err != nil {
		return domain.SendOutcome{}, err
	}

	return domain.SendOutcome{Email: recruiter.Email, AIGenerated: useAI}, nil
}

// SendBatch dispatches to every recruiter of the account, strictly
// sequential, absorbing per-recruiter failures so the rest of the batch
// proceeds. The configuration is checked before anything is sent.
func (d *Dispatcher) SendBatch(ctx context.Context, accountId string) (domain.BatchSummary, error) {
	summary := domain.BatchSummary{Errors: []domain.SendError{}}

	cfg, err := d.configs.Configuration(accountId)
	if err != nil {
		if errors.IsNotFound(err) {
			return summary, errors.NotFound("Email configuration not found")
		}
		return summary, err
	}

	transport, err := d.transports(cfg)
	if err != nil {
		return summary, err
	}

	account, err := d.accounts.AccountByID(accountId)
	if err != nil {
		return summary, err
	}

	recruiters, err := d.recruiters.Recruiters(accountId)
	if err != nil {
		return summary, err
	}
	logger.Log.Info("processing batch", "account_id", accountId, "recruiters", len(recruiters))

	seen := make(map[string]struct{}, len(recruiters))
	for _, recruiter := range recruiters {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		// idempotent within this run only
		if _, ok := seen[recruiter.Id]; ok {
			continue
		}
		seen[recruiter.Id] = struct{}{}

		body, err := d.bodies.Static(d.templateData(account, recruiter), recruiter.ReachOutCount > 0)
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, domain.SendError{Email: recruiter.Email, Error: err.Error()})
			continue
		}

		if err := d.deliver(accountId, cfg, transport, recruiter, body); err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, domain.SendError{Email: recruiter.Email, Error: err.Error()})
			continue
		}
		summary.Sent++
	}

	return summary, nil
}

// deliver applies the rate gate, sends, and updates recruiter state on
// success. The gate is held for the whole send so concurrent single sends
// for the same account stay serialized.
func (d *Dispatcher) deliver(accountId string, cfg domain.Configuration, transport Transport, recruiter domain.Recruiter, body string) error {
	gate := d.gate(accountId)
	gate.mu.Lock()
	defer gate.mu.Unlock()

	if gate.hasSent {
		if wait := cfg.MinDelay() - d.now().Sub(gate.lastSent); wait > 0 {
			d.sleep(wait)
		}
	}

	start := d.now()
	err := transport.Send(recruiter.Email, cfg.EmailSubject, body)
	sendDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		emailsFailedTotal.Inc()
		logger.Log.Error("failed to send email", "recipient", recruiter.Email, "error", err)
		if markErr := d.recruiters.MarkFailed(accountId, recruiter.Id); markErr != nil {
			logger.Log.Error("failed to record failed send", "recruiter_id", recruiter.Id, "error", markErr)
		}
		return err
	}

	gate.lastSent = d.now()
	gate.hasSent = true
	emailsSentTotal.Inc()
	logger.Log.Info("email sent", "recipient", recruiter.Email)

	return d.recruiters.MarkContacted(accountId, recruiter.Id, gate.lastSent)
}

// buildBody resolves the body choice for a single send. An AI failure never
// aborts the send; it only downgrades the content to the static template.
func (d *Dispatcher) buildBody(ctx context.Context, account domain.Account, cfg domain.Configuration, recruiter domain.Recruiter, useAI bool) (string, error) {
	if useAI {
		body, err := d.bodies.Generated(ctx, account.Name, cfg.EmailFrom)
		if err == nil {
			return body, nil
		}
		logger.Log.Warn("ai body generation failed, using static template", "recruiter_id", recruiter.Id, "error", err)
	}
	return d.bodies.Static(d.templateData(account, recruiter), recruiter.ReachOutCount > 0)
}

func (d *Dispatcher) templateData(account domain.Account, recruiter domain.Recruiter) bodygen.TemplateData {
	return bodygen.TemplateData{
		RecruiterName: recruiter.Name,
		Company:       recruiter.Company,
		SenderName:    account.Name,
		SenderEmail:   account.Email,
	}
}

func (d *Dispatcher) gate(accountId string) *accountGate {
	d.mu.Lock()
	defer d.mu.Unlock()
	g, ok := d.gates[accountId]
	if !ok {
		g = &accountGate{}
		d.gates[accountId] = g
	}
	return g
}
