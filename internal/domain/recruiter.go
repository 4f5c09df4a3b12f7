package domain

import "time"

type RecruiterStatus string

const (
	StatusPending RecruiterStatus = "Pending"
	StatusSent    RecruiterStatus = "Sent"
	StatusFailed  RecruiterStatus = "Failed"
)

type Recruiter struct {
	Id            string
	AccountId     string
	Name          string
	Company       string
	Email         string
	ReachOutCount int
	LastContactAt *time.Time
	CreatedAt     time.Time
	// Status is persisted by the legacy csv-backed store; the relational
	// store derives it from the reach-out counter on read.
	Status RecruiterStatus
}
