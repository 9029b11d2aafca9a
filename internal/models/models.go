package models

import (
	"strings"
	"time"
)

type DocType string

const (
	DocTypeJobDescription     DocType = "job_description"
	DocTypeOfferLetter        DocType = "offer_letter"
	DocTypeInterviewQuestions DocType = "interview_questions"
	DocTypeOnboardingPlan     DocType = "onboarding_plan"
	DocTypePerformanceReview  DocType = "performance_review"
)

func AllDocTypes() []DocType {
	return []DocType{
		DocTypeJobDescription,
		DocTypeOfferLetter,
		DocTypeInterviewQuestions,
		DocTypeOnboardingPlan,
		DocTypePerformanceReview,
	}
}

func (d DocType) Valid() bool {
	switch d {
	case DocTypeJobDescription, DocTypeOfferLetter, DocTypeInterviewQuestions,
		DocTypeOnboardingPlan, DocTypePerformanceReview:
		return true
	}
	return false
}

// DisplayTitle turns "performance_review" into "Performance Review".
func (d DocType) DisplayTitle() string {
	parts := strings.Split(string(d), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

type CompanyProfile struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Industry    string    `json:"industry,omitempty"`
	Size        string    `json:"size,omitempty"`
	Location    string    `json:"location,omitempty"`
	Website     string    `json:"website,omitempty"`
	Description string    `json:"description,omitempty"`
	Values      string    `json:"values,omitempty"`
	LogoURL     string    `json:"logo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BrandingContext is the immutable slice of a company profile consumed by the
// prompt builder and the document renderer. Every call gets a fresh snapshot,
// never a live view of the profile.
type BrandingContext struct {
	Name        string `json:"name"`
	Industry    string `json:"industry,omitempty"`
	Size        string `json:"size,omitempty"`
	Location    string `json:"location,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
	Values      string `json:"values,omitempty"`
}

// Branding snapshots the profile for prompt building and rendering. A nil
// profile yields nil, which both consumers treat as "no branding".
func (p *CompanyProfile) Branding() *BrandingContext {
	if p == nil {
		return nil
	}
	return &BrandingContext{
		Name:        p.Name,
		Industry:    p.Industry,
		Size:        p.Size,
		Location:    p.Location,
		Website:     p.Website,
		Description: p.Description,
		Values:      p.Values,
	}
}

type GeneratedDocument struct {
	ID             int64     `json:"id"`
	DocType        DocType   `json:"doc_type"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	ModelUsed      string    `json:"model_used"`
	GenerationTime float64   `json:"generation_time"`
	CompanyID      *int64    `json:"company_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
