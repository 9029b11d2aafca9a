package api

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"hrcraft/internal/fault"
	"hrcraft/internal/models"
)

// generateRequest is the common surface of the five typed generation bodies:
// validation, the data map fed to the prompt builder, and the stored title.
type generateRequest interface {
	validate() error
	promptData() map[string]any
	title() string
	choice() string
}

type baseRequest struct {
	ModelChoice string `json:"model_choice"`
}

func (b *baseRequest) choice() string {
	if b.ModelChoice == "" {
		return "hrcraft_mini"
	}
	return b.ModelChoice
}

func decodeGenerateRequest(docType models.DocType, body io.Reader) (generateRequest, error) {
	var req generateRequest
	switch docType {
	case models.DocTypeJobDescription:
		req = &generateJDRequest{}
	case models.DocTypeOfferLetter:
		req = &generateOfferRequest{}
	case models.DocTypeInterviewQuestions:
		req = &generateInterviewRequest{}
	case models.DocTypeOnboardingPlan:
		req = &generateOnboardingRequest{}
	case models.DocTypePerformanceReview:
		req = &generateReviewRequest{}
	default:
		return nil, fault.Validation("unsupported document type %q", docType)
	}
	if err := json.NewDecoder(body).Decode(req); err != nil {
		return nil, fault.Validation("invalid request body: %v", err)
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	return req, nil
}

func requireText(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n < min {
		if min <= 1 {
			return fault.Validation("%s is required", field)
		}
		return fault.Validation("%s must be at least %d characters", field, min)
	}
	if max > 0 && n > max {
		return fault.Validation("%s must be at most %d characters", field, max)
	}
	return nil
}

func requireList(field string, items []string) error {
	if len(items) == 0 {
		return fault.Validation("%s must contain at least one entry", field)
	}
	return nil
}

func trimAll(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

func bulleted(items []string) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, "- "+it)
	}
	return strings.Join(lines, "\n")
}

func yesNo(v *bool) string {
	if v == nil || *v {
		return "Yes"
	}
	return "No"
}

type generateJDRequest struct {
	baseRequest
	JobTitle      string   `json:"job_title"`
	Department    string   `json:"department"`
	ExpLevel      int      `json:"exp_level"`
	Qualification string   `json:"qualification"`
	ReqSkills     []string `json:"req_skills"`
	Role          string   `json:"role"`
	Salary        string   `json:"salary"`
	Location      string   `json:"location"`
}

func (r *generateJDRequest) validate() error {
	trimAll(&r.JobTitle, &r.Department, &r.Qualification, &r.Role, &r.Salary, &r.Location)
	if err := requireText("job_title", r.JobTitle, 2, 100); err != nil {
		return err
	}
	if err := requireText("department", r.Department, 2, 100); err != nil {
		return err
	}
	if r.ExpLevel < 0 || r.ExpLevel > 50 {
		return fault.Validation("exp_level must be between 0 and 50")
	}
	if err := requireText("qualification", r.Qualification, 2, 0); err != nil {
		return err
	}
	if err := requireList("req_skills", r.ReqSkills); err != nil {
		return err
	}
	if err := requireText("role", r.Role, 2, 0); err != nil {
		return err
	}
	if err := requireText("salary", r.Salary, 1, 0); err != nil {
		return err
	}
	return requireText("location", r.Location, 1, 0)
}

func (r *generateJDRequest) promptData() map[string]any {
	return map[string]any{
		"job_title":       r.JobTitle,
		"department":      r.Department,
		"exp_level":       r.ExpLevel,
		"qualification":   r.Qualification,
		"req_skills":      strings.Join(r.ReqSkills, ", "),
		"req_skills_list": r.ReqSkills,
		"role":            r.Role,
		"salary":          r.Salary,
		"location":        r.Location,
	}
}

func (r *generateJDRequest) title() string {
	return fmt.Sprintf("Job Description: %s - %s", r.JobTitle, r.Department)
}

type generateOfferRequest struct {
	baseRequest
	Name         string `json:"name"`
	Position     string `json:"position"`
	Department   string `json:"department"`
	Salary       string `json:"salary"`
	StartDate    string `json:"start_date"`
	Location     string `json:"location"`
	ReportingTo  string `json:"reporting_to"`
	Benefits     string `json:"benefits"`
	SpecialTerms string `json:"special_terms"`
}

func (r *generateOfferRequest) validate() error {
	trimAll(&r.Name, &r.Position, &r.Department, &r.Salary, &r.StartDate, &r.Location, &r.ReportingTo, &r.Benefits, &r.SpecialTerms)
	for _, f := range []struct {
		name  string
		value string
	}{
		{"name", r.Name},
		{"position", r.Position},
		{"department", r.Department},
		{"salary", r.Salary},
		{"start_date", r.StartDate},
		{"location", r.Location},
	} {
		if err := requireText(f.name, f.value, 2, 0); err != nil {
			return err
		}
	}
	return nil
}

func (r *generateOfferRequest) promptData() map[string]any {
	return map[string]any{
		"name":          r.Name,
		"position":      r.Position,
		"department":    r.Department,
		"salary":        r.Salary,
		"start_date":    r.StartDate,
		"location":      r.Location,
		"reporting_to":  r.ReportingTo,
		"benefits":      r.Benefits,
		"special_terms": r.SpecialTerms,
	}
}

func (r *generateOfferRequest) title() string {
	return fmt.Sprintf("Offer Letter: %s - %s", r.Position, r.Name)
}

type generateInterviewRequest struct {
	baseRequest
	Role            string   `json:"role"`
	FocusArea       string   `json:"focus_area"`
	ExperienceLevel int      `json:"experience_level"`
	TechnicalSkills []string `json:"technical_skills"`
	SoftSkills      []string `json:"soft_skills"`
}

func (r *generateInterviewRequest) validate() error {
	trimAll(&r.Role, &r.FocusArea)
	if err := requireText("role", r.Role, 2, 0); err != nil {
		return err
	}
	if err := requireText("focus_area", r.FocusArea, 2, 0); err != nil {
		return err
	}
	if r.ExperienceLevel < 0 || r.ExperienceLevel > 50 {
		return fault.Validation("experience_level must be between 0 and 50")
	}
	if err := requireList("technical_skills", r.TechnicalSkills); err != nil {
		return err
	}
	return requireList("soft_skills", r.SoftSkills)
}

func (r *generateInterviewRequest) promptData() map[string]any {
	return map[string]any{
		"role":             r.Role,
		"focus_area":       r.FocusArea,
		"experience_level": r.ExperienceLevel,
		"technical_skills": strings.Join(r.TechnicalSkills, ", "),
		"soft_skills":      strings.Join(r.SoftSkills, ", "),
	}
}

func (r *generateInterviewRequest) title() string {
	return fmt.Sprintf("Interview Questions: %s - %s", r.Role, r.FocusArea)
}

type generateOnboardingRequest struct {
	baseRequest
	Position          string   `json:"position"`
	Department        string   `json:"department"`
	Duration          int      `json:"duration"`
	Arrangement       string   `json:"arrangement"`
	Skills            []string `json:"skills"`
	Tools             []string `json:"tools"`
	IncludeCulture    *bool    `json:"include_culture"`
	IncludeMentorship *bool    `json:"include_mentorship"`
}

func (r *generateOnboardingRequest) validate() error {
	trimAll(&r.Position, &r.Department, &r.Arrangement)
	if err := requireText("position", r.Position, 2, 0); err != nil {
		return err
	}
	if err := requireText("department", r.Department, 2, 0); err != nil {
		return err
	}
	if r.Duration < 1 {
		return fault.Validation("duration must be at least 1 day")
	}
	if err := requireText("arrangement", r.Arrangement, 2, 0); err != nil {
		return err
	}
	if err := requireList("skills", r.Skills); err != nil {
		return err
	}
	return requireList("tools", r.Tools)
}

func (r *generateOnboardingRequest) promptData() map[string]any {
	return map[string]any{
		"position":           r.Position,
		"department":         r.Department,
		"duration":           r.Duration,
		"arrangement":        r.Arrangement,
		"skills":             strings.Join(r.Skills, ", "),
		"tools":              strings.Join(r.Tools, ", "),
		"include_culture":    yesNo(r.IncludeCulture),
		"include_mentorship": yesNo(r.IncludeMentorship),
	}
}

func (r *generateOnboardingRequest) title() string {
	return fmt.Sprintf("Onboarding Plan: %s - %d days", r.Position, r.Duration)
}

type generateReviewRequest struct {
	baseRequest
	EmployeeName string   `json:"employee_name"`
	Position     string   `json:"position"`
	ReviewPeriod string   `json:"review_period"`
	Achievements []string `json:"achievements"`
	Skills       []string `json:"skills"`
	Goals        []string `json:"goals"`
	Rating       float64  `json:"rating"`
}

func (r *generateReviewRequest) validate() error {
	trimAll(&r.EmployeeName, &r.Position, &r.ReviewPeriod)
	if err := requireText("employee_name", r.EmployeeName, 2, 0); err != nil {
		return err
	}
	if err := requireText("position", r.Position, 2, 0); err != nil {
		return err
	}
	if err := requireText("review_period", r.ReviewPeriod, 2, 0); err != nil {
		return err
	}
	if err := requireList("achievements", r.Achievements); err != nil {
		return err
	}
	if err := requireList("skills", r.Skills); err != nil {
		return err
	}
	if err := requireList("goals", r.Goals); err != nil {
		return err
	}
	if r.Rating < 0 || r.Rating > 10 {
		return fault.Validation("rating must be between 0 and 10")
	}
	return nil
}

func (r *generateReviewRequest) promptData() map[string]any {
	return map[string]any{
		"employee_name": r.EmployeeName,
		"position":      r.Position,
		"review_period": r.ReviewPeriod,
		"achievements":  bulleted(r.Achievements),
		"skills":        strings.Join(r.Skills, ", "),
		"goals":         bulleted(r.Goals),
		"rating":        r.Rating,
	}
}

func (r *generateReviewRequest) title() string {
	return fmt.Sprintf("Performance Review: %s - %s", r.EmployeeName, r.ReviewPeriod)
}

// companyProfileRequest is the create body; all-pointer updateRequest below
// distinguishes absent fields from explicit blanks.
type companyProfileRequest struct {
	Name        string `json:"name"`
	Industry    string `json:"industry"`
	Size        string `json:"size"`
	Location    string `json:"location"`
	Website     string `json:"website"`
	Description string `json:"description"`
	Values      string `json:"values"`
	LogoURL     string `json:"logo_url"`
}

func (r *companyProfileRequest) validate() error {
	trimAll(&r.Name, &r.Industry, &r.Size, &r.Location, &r.Website, &r.LogoURL)
	if err := requireText("name", r.Name, 1, 200); err != nil {
		return err
	}
	for _, f := range []struct {
		name  string
		value string
		max   int
	}{
		{"industry", r.Industry, 100},
		{"size", r.Size, 50},
		{"location", r.Location, 200},
		{"website", r.Website, 500},
		{"logo_url", r.LogoURL, 500},
	} {
		if err := requireText(f.name, f.value, 0, f.max); err != nil {
			return err
		}
	}
	return nil
}

type companyProfileUpdateRequest struct {
	Name        *string `json:"name"`
	Industry    *string `json:"industry"`
	Size        *string `json:"size"`
	Location    *string `json:"location"`
	Website     *string `json:"website"`
	Description *string `json:"description"`
	Values      *string `json:"values"`
	LogoURL     *string `json:"logo_url"`
}

func (r *companyProfileUpdateRequest) validate() error {
	check := func(field string, v *string, min, max int) error {
		if v == nil {
			return nil
		}
		*v = strings.TrimSpace(*v)
		return requireText(field, *v, min, max)
	}
	if err := check("name", r.Name, 1, 200); err != nil {
		return err
	}
	if err := check("industry", r.Industry, 0, 100); err != nil {
		return err
	}
	if err := check("size", r.Size, 0, 50); err != nil {
		return err
	}
	if err := check("location", r.Location, 0, 200); err != nil {
		return err
	}
	if err := check("website", r.Website, 0, 500); err != nil {
		return err
	}
	return check("logo_url", r.LogoURL, 0, 500)
}

type documentCreateRequest struct {
	DocType        models.DocType `json:"doc_type"`
	Title          string         `json:"title"`
	Content        string         `json:"content"`
	ModelUsed      string         `json:"model_used"`
	GenerationTime float64        `json:"generation_time"`
	CompanyID      *int64         `json:"company_id"`
}

func (r *documentCreateRequest) validate() error {
	trimAll(&r.Title, &r.ModelUsed)
	if !r.DocType.Valid() {
		return fault.Validation("unsupported document type %q", r.DocType)
	}
	if err := requireText("title", r.Title, 1, 300); err != nil {
		return err
	}
	if err := requireText("content", r.Content, 1, 0); err != nil {
		return err
	}
	return requireText("model_used", r.ModelUsed, 1, 100)
}

type documentUpdateRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (r *documentUpdateRequest) validate() error {
	if r.Title != nil {
		*r.Title = strings.TrimSpace(*r.Title)
		if err := requireText("title", *r.Title, 1, 300); err != nil {
			return err
		}
	}
	if r.Content != nil {
		if err := requireText("content", *r.Content, 1, 0); err != nil {
			return err
		}
	}
	return nil
}
