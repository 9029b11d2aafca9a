package workflows

import "hrcraft/internal/models"

type GenerationItem struct {
	DocType                models.DocType `json:"doc_type"`
	Title                  string         `json:"title"`
	PromptData             map[string]any `json:"prompt_data"`
	ModelChoice            string         `json:"model_choice"`
	PreferredProviderIndex int            `json:"preferred_provider_index"`
}

type DocumentBatchInput struct {
	BatchID         string           `json:"batch_id"`
	CompanyID       *int64           `json:"company_id,omitempty"`
	Formats         []string         `json:"formats"`
	Items           []GenerationItem `json:"items"`
	ProviderCount   int              `json:"provider_count"`
	StrictProvider  bool             `json:"strict_provider,omitempty"`
	CooldownSeconds int              `json:"cooldown_seconds"`
	MaxConcurrent   int              `json:"max_concurrent"`
}

type GenerateDocumentInput struct {
	BatchID                string         `json:"batch_id"`
	DocType                models.DocType `json:"doc_type"`
	Title                  string         `json:"title"`
	PromptData             map[string]any `json:"prompt_data"`
	ModelChoice            string         `json:"model_choice"`
	CompanyID              *int64         `json:"company_id,omitempty"`
	Formats                []string       `json:"formats"`
	PreferredProviderIndex int            `json:"preferred_provider_index"`
	ProviderCount          int            `json:"provider_count"`
	StrictProvider         bool           `json:"strict_provider,omitempty"`
	CooldownSeconds        int            `json:"cooldown_seconds"`
}

type GenerateDocumentResult struct {
	DocumentID int64    `json:"document_id"`
	Status     string   `json:"status"`
	Provider   string   `json:"provider"`
	Model      string   `json:"model"`
	Artifacts  []string `json:"artifacts,omitempty"`
}

type ExportDocumentInput struct {
	DocumentID int64    `json:"document_id"`
	Formats    []string `json:"formats"`
}

type ItemStatus struct {
	BatchID     string            `json:"batch_id,omitempty"`
	DocType     models.DocType    `json:"doc_type"`
	Title       string            `json:"title"`
	DocumentID  int64             `json:"document_id,omitempty"`
	CurrentStep string            `json:"current_step"`
	Status      string            `json:"status"`
	FailReason  string            `json:"fail_reason,omitempty"`
	Providers   []string          `json:"providers_used"`
	RetryCounts map[string]int    `json:"retry_counts"`
	Steps       map[string]string `json:"steps"`
}

type BatchProgress struct {
	BatchID       string            `json:"batch_id"`
	Total         int               `json:"total"`
	Done          int               `json:"done"`
	Failed        int               `json:"failed"`
	PerItem       map[string]string `json:"per_item_status"`
	ChildWorkflow map[string]string `json:"child_workflow_ids,omitempty"`
}
