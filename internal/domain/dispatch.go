package domain

// SendOutcome is the result of a single outreach dispatch.
// AIGenerated reports whether AI generation was attempted, not whether the
// generated body was actually used (generation failures fall back silently).
type SendOutcome struct {
	Email       string
	AIGenerated bool
}

type SendError struct {
	Email string `json:"email"`
	Error string `json:"error"`
}

// BatchSummary aggregates the per-recruiter results of one SendBatch run.
// It only exists for the duration of the call; nothing here is persisted.
type BatchSummary struct {
	Sent   int         `json:"sent"`
	Failed int         `json:"failed"`
	Errors []SendError `json:"errors"`
}
