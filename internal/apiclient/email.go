package apiclient

import (
	"fmt"
	"sync"
)

// batchSize is how many concurrent single sends the dashboard fires per
// group before awaiting the group.
const batchSize = 5

// SendResult mirrors the backend's single-send response.
type SendResult struct {
	Message       string `json:"message"`
	IsAiGenerated bool   `json:"isAiGenerated"`
}

// BatchDetails mirrors the backend's batch summary.
type BatchDetails struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
	Errors []struct {
		Email string `json:"email"`
		Error string `json:"error"`
	} `json:"errors"`
}

// SendSummary aggregates the per-recruiter results of a client-driven run.
type SendSummary struct {
	Sent   int
	Failed int
	Errors map[string]string // recruiter email -> error message
}

func (c *APIClient) SendOne(recruiterId string, useAI bool) (SendResult, error) {
	resp, err := c.do("POST", fmt.Sprintf("/v1/emails/%s", recruiterId), map[string]bool{"useAI": useAI})
	if err != nil {
		return SendResult{}, err
	}
	var result SendResult
	if err := decode(resp, &result); err != nil {
		return SendResult{}, err
	}
	return result, nil
}

func (c *APIClient) SendBatch() (BatchDetails, error) {
	resp, err := c.do("POST", "/v1/emails/send", nil)
	if err != nil {
		return BatchDetails{}, err
	}
	var result struct {
		Details BatchDetails `json:"details"`
	}
	if err := decode(resp, &result); err != nil {
		return BatchDetails{}, err
	}
	return result.Details, nil
}

// EmailStatus fetches the recruiter snapshot the dashboard polls during a run.
func (c *APIClient) EmailStatus() ([]Recruiter, error) {
	resp, err := c.do("GET", "/v1/emails/status", nil)
	if err != nil {
		return nil, err
	}
	var result recruiterListResponse
	if err := decode(resp, &result); err != nil {
		return nil, err
	}
	return result.Recruiters, nil
}

// SendAllIdle drives the dashboard's client-side batching: recruiters not
// yet marked Sent are chunked into groups of batchSize, each group's sends
// run concurrently, and the next group starts only after the previous one
// finished. Per-recruiter failures are collected, never fatal.
func (c *APIClient) SendAllIdle(useAI bool) (SendSummary, error) {
	recruiters, err := c.Recruiters()
	if err != nil {
		return SendSummary{}, err
	}

	idle := make([]Recruiter, 0, len(recruiters))
	for _, recruiter := range recruiters {
		if recruiter.Status != "Sent" {
			idle = append(idle, recruiter)
		}
	}

	summary := SendSummary{Errors: map[string]string{}}
	var mu sync.Mutex

	for start := 0; start < len(idle); start += batchSize {
		end := start + batchSize
		if end > len(idle) {
			end = len(idle)
		}

		var wg sync.WaitGroup
		for _, recruiter := range idle[start:end] {
			wg.Add(1)
			go func(recruiter Recruiter) {
				defer wg.Done()
				_, err := c.SendOne(recruiter.Id, useAI)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					summary.Failed++
					summary.Errors[recruiter.Email] = err.Error()
					return
				}
				summary.Sent++
			}(recruiter)
		}
		wg.Wait()
	}

	return summary, nil
}
