package apiclient

import (
	"fmt"
	"time"
)

// Recruiter mirrors the backend's recruiter response.
type Recruiter struct {
	Id            string     `json:"id"`
	Name          string     `json:"name"`
	Company       string     `json:"company"`
	Email         string     `json:"email"`
	ReachOutCount int        `json:"reachOutCount"`
	LastContactAt *time.Time `json:"lastContactAt"`
	CreatedAt     time.Time  `json:"createdAt"`
	Status        string     `json:"status"`
}

// RecruiterRequest carries the editable contact fields.
type RecruiterRequest struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email"`
}

type recruiterListResponse struct {
	Recruiters []Recruiter `json:"recruiters"`
}

func (c *APIClient) Recruiters() ([]Recruiter, error) {
	resp, err := c.do("GET", "/v1/recruiters", nil)
	if err != nil {
		return nil, err
	}
	var result recruiterListResponse
	if err := decode(resp, &result); err != nil {
		return nil, err
	}
	return result.Recruiters, nil
}

func (c *APIClient) AddRecruiter(req RecruiterRequest) (Recruiter, error) {
	resp, err := c.do("POST", "/v1/recruiters", req)
	if err != nil {
		return Recruiter{}, err
	}
	var result struct {
		Recruiter Recruiter `json:"recruiter"`
	}
	if err := decode(resp, &result); err != nil {
		return Recruiter{}, err
	}
	return result.Recruiter, nil
}

// AddRecruitersBulk uploads a whole contact list; the backend rejects the
// entire batch if any row is invalid.
func (c *APIClient) AddRecruitersBulk(reqs []RecruiterRequest) (int, error) {
	resp, err := c.do("POST", "/v1/recruiters/bulk", reqs)
	if err != nil {
		return 0, err
	}
	var result struct {
		Count int `json:"count"`
	}
	if err := decode(resp, &result); err != nil {
		return 0, err
	}
	return result.Count, nil
}

func (c *APIClient) UpdateRecruiter(recruiterId string, req RecruiterRequest) (Recruiter, error) {
	resp, err := c.do("PUT", fmt.Sprintf("/v1/recruiters/%s", recruiterId), req)
	if err != nil {
		return Recruiter{}, err
	}
	var result struct {
		Recruiter Recruiter `json:"recruiter"`
	}
	if err := decode(resp, &result); err != nil {
		return Recruiter{}, err
	}
	return result.Recruiter, nil
}

func (c *APIClient) DeleteRecruiter(recruiterId string) error {
	resp, err := c.do("DELETE", fmt.Sprintf("/v1/recruiters/%s", recruiterId), nil)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}
