package activities

import "hrcraft/internal/models"

type BuildPromptInput struct {
	DocType    models.DocType `json:"doc_type"`
	PromptData map[string]any `json:"prompt_data"`
	CompanyID  *int64         `json:"company_id,omitempty"`
}

type BuildPromptOutput struct {
	Prompt       string `json:"prompt"`
	PromptSHA256 string `json:"prompt_sha256"`
}

type GenerateContentInput struct {
	Prompt        string `json:"prompt"`
	ProviderIndex int    `json:"provider_index"`
}

type GenerateContentOutput struct {
	Content        string  `json:"content"`
	ProviderName   string  `json:"provider_name"`
	Model          string  `json:"model"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

type SaveDocumentInput struct {
	DocType        models.DocType `json:"doc_type"`
	Title          string         `json:"title"`
	Content        string         `json:"content"`
	ModelUsed      string         `json:"model_used"`
	GenerationTime float64        `json:"generation_time"`
	CompanyID      *int64         `json:"company_id,omitempty"`
}

type SaveDocumentOutput struct {
	DocumentID int64 `json:"document_id"`
}

type WriteMarkdownSourceInput struct {
	DocumentID int64  `json:"document_id"`
	BatchID    string `json:"batch_id"`
}

type WriteMarkdownSourceOutput struct {
	Path string `json:"path"`
}

type RenderExportInput struct {
	DocumentID int64  `json:"document_id"`
	Format     string `json:"format"`
	BatchID    string `json:"batch_id,omitempty"`
}

type RenderExportOutput struct {
	Path   string `json:"path"`
	Title  string `json:"title"`
	SHA256 string `json:"sha256"`
	Bytes  int    `json:"bytes"`
}

type LogGenerationInput struct {
	CallID         string  `json:"call_id,omitempty"`
	DocType        string  `json:"doc_type"`
	ModelChoice    string  `json:"model_choice"`
	ProviderName   string  `json:"provider_name"`
	Model          string  `json:"model"`
	Status         string  `json:"status"`
	ErrorCode      string  `json:"error_code,omitempty"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	PromptSHA256   string  `json:"prompt_sha256"`
}

type WriteBatchManifestInput struct {
	BatchID  string         `json:"batch_id"`
	Manifest map[string]any `json:"manifest"`
}

type WriteBatchManifestOutput struct {
	Path string `json:"path"`
}

type WriteDocumentManifestInput struct {
	DocumentID int64          `json:"document_id"`
	Manifest   map[string]any `json:"manifest"`
}

type WriteDocumentManifestOutput struct {
	Path string `json:"path"`
}
