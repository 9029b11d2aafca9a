package storage

import (
	"context"
	"fmt"
)

// GenerationRecord is one audit row per gateway call, success or failure.
// PromptSHA256 stands in for the prompt text so the audit trail never stores
// candidate or employee details.
type GenerationRecord struct {
	CallID         string
	DocType        string
	ModelChoice    string
	ProviderName   string
	Model          string
	Status         string
	ErrorCode      string
	ElapsedSeconds float64
	PromptSHA256   string
}

type AuditRepo struct {
	db *DB
}

func NewAuditRepo(db *DB) *AuditRepo {
	return &AuditRepo{db: db}
}

func (r *AuditRepo) Insert(ctx context.Context, rec GenerationRecord) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO llm_calls(call_id, doc_type, model_choice, provider_name, model, status, error_code, elapsed_seconds, prompt_sha256)
VALUES (COALESCE(NULLIF($1,'')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, NULLIF($7,''), $8, $9)`,
		rec.CallID, rec.DocType, rec.ModelChoice, rec.ProviderName, rec.Model, rec.Status, rec.ErrorCode, rec.ElapsedSeconds, rec.PromptSHA256)
	if err != nil {
		return fmt.Errorf("insert llm call: %w", err)
	}
	return nil
}
