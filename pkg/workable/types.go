package workable

import (
	"net/http"

	"golang.org/x/time/rate"
)

// Config defines Workable API client settings
type Config struct {
	Subdomain  string
	BaseURL    string
	HTTPClient *http.Client
	// RequestsPerSecond throttles outgoing calls; zero means the default.
	RequestsPerSecond float64
}

// Client creates candidates and comments through the Workable SPI v3 API
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Candidate is the payload for POST /jobs/{shortcode}/candidates
type Candidate struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Headline  string `json:"headline,omitempty"`
	ResumeURL string `json:"resume_url,omitempty"`
	Domain    string `json:"domain,omitempty"`
	Stage     string `json:"stage,omitempty"`
	Sourced   bool   `json:"sourced"`
}

// Comment is the payload for POST /candidates/{id}/comments
type Comment struct {
	Comment  string `json:"comment"`
	MemberID string `json:"member_id"`
}

// CreatedCandidate is the subset of the create response the caller needs
type CreatedCandidate struct {
	ID string `json:"id"`
}

type candidateResponse struct {
	Candidate *CreatedCandidate `json:"candidate"`
	ID        string            `json:"id"`
}
