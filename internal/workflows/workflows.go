package workflows

import (
	"fmt"
	"strings"
	"time"

	"hrcraft/internal/activities"
	"hrcraft/internal/fault"
	"hrcraft/internal/models"
	"hrcraft/internal/providers"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	QueryGetBatchProgress = "GetBatchProgress"
	QueryGetItemStatus    = "GetItemStatus"
)

type providerState struct {
	disabledUntil map[int]time.Time
	retries       map[string]int
}

func newProviderState() providerState {
	return providerState{disabledUntil: map[int]time.Time{}, retries: map[string]int{}}
}

func DocumentBatchWorkflow(ctx workflow.Context, input DocumentBatchInput) (string, error) {
	progress := BatchProgress{
		BatchID:       input.BatchID,
		Total:         len(input.Items),
		PerItem:       map[string]string{},
		ChildWorkflow: map[string]string{},
	}
	if err := workflow.SetQueryHandler(ctx, QueryGetBatchProgress, func() (BatchProgress, error) {
		return progress, nil
	}); err != nil {
		return "", err
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	maxChildren := input.MaxConcurrent
	if maxChildren <= 0 {
		maxChildren = 3
	}
	outcomes := make([]map[string]any, 0, len(input.Items))

	for i := 0; i < len(input.Items); i += maxChildren {
		end := i + maxChildren
		if end > len(input.Items) {
			end = len(input.Items)
		}
		futures := make([]workflow.ChildWorkflowFuture, 0, end-i)
		keys := make([]string, 0, end-i)
		for j, item := range input.Items[i:end] {
			pos := i + j + 1
			key := itemKey(pos, item.DocType)
			progress.PerItem[key] = "processing"
			workflowID := fmt.Sprintf("batch-item-%s-%02d", sanitizeID(input.BatchID), pos)
			cwo := workflow.ChildWorkflowOptions{WorkflowID: workflowID}
			childCtx := workflow.WithChildOptions(ctx, cwo)
			f := workflow.ExecuteChildWorkflow(childCtx, GenerateDocumentWorkflow, GenerateDocumentInput{
				BatchID:                input.BatchID,
				DocType:                item.DocType,
				Title:                  item.Title,
				PromptData:             item.PromptData,
				ModelChoice:            item.ModelChoice,
				CompanyID:              input.CompanyID,
				Formats:                input.Formats,
				PreferredProviderIndex: item.PreferredProviderIndex,
				ProviderCount:          defaultCount(input.ProviderCount),
				StrictProvider:         input.StrictProvider,
				CooldownSeconds:        input.CooldownSeconds,
			})
			futures = append(futures, f)
			keys = append(keys, key)
			progress.ChildWorkflow[key] = workflowID
		}

		for idx, f := range futures {
			var res GenerateDocumentResult
			err := f.Get(ctx, &res)
			key := keys[idx]
			if err != nil {
				progress.Failed++
				progress.PerItem[key] = "failed"
				continue
			}
			if res.Status == "failed" {
				progress.Failed++
			}
			progress.Done++
			progress.PerItem[key] = res.Status
			outcomes = append(outcomes, map[string]any{
				"item":        key,
				"document_id": res.DocumentID,
				"status":      res.Status,
				"provider":    res.Provider,
				"model":       res.Model,
				"artifacts":   res.Artifacts,
			})
		}
	}

	_ = workflow.ExecuteActivity(ctx, "WriteBatchManifestActivity", activities.WriteBatchManifestInput{
		BatchID: input.BatchID,
		Manifest: map[string]any{
			"batch_id":        input.BatchID,
			"total":           progress.Total,
			"done":            progress.Done,
			"failed":          progress.Failed,
			"per_item_status": progress.PerItem,
			"formats":         input.Formats,
			"documents":       outcomes,
			"generated_at":    workflow.Now(ctx),
		},
	}).Get(ctx, nil)

	return "completed", nil
}

func GenerateDocumentWorkflow(ctx workflow.Context, input GenerateDocumentInput) (GenerateDocumentResult, error) {
	status := ItemStatus{
		BatchID:     input.BatchID,
		DocType:     input.DocType,
		Title:       input.Title,
		CurrentStep: "init",
		Status:      "processing",
		RetryCounts: map[string]int{},
		Steps:       map[string]string{},
	}
	if err := workflow.SetQueryHandler(ctx, QueryGetItemStatus, func() (ItemStatus, error) {
		return status, nil
	}); err != nil {
		return GenerateDocumentResult{}, err
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    2,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)
	state := newProviderState()

	status.CurrentStep = "build_prompt"
	status.Steps[status.CurrentStep] = "processing"
	var promptOut activities.BuildPromptOutput
	if err := workflow.ExecuteActivity(ctx, "BuildPromptActivity", activities.BuildPromptInput{
		DocType:    input.DocType,
		PromptData: input.PromptData,
		CompanyID:  input.CompanyID,
	}).Get(ctx, &promptOut); err != nil {
		return GenerateDocumentResult{}, err
	}
	status.Steps[status.CurrentStep] = "done"

	status.CurrentStep = "generate"
	status.Steps[status.CurrentStep] = "processing"
	genOut, errKind, err := callGenerateWithFailover(ctx, &state, input, promptOut, status.RetryCounts)
	if err != nil {
		if errKind == string(fault.KindValidation) {
			status.Status = "failed"
			status.FailReason = "generation rejected the request: " + err.Error()
			status.Steps[status.CurrentStep] = "failed"
			return GenerateDocumentResult{Status: status.Status}, nil
		}
		return GenerateDocumentResult{}, err
	}
	status.Providers = append(status.Providers, genOut.ProviderName)
	status.Steps[status.CurrentStep] = "done"

	status.CurrentStep = "save_document"
	status.Steps[status.CurrentStep] = "processing"
	var saveOut activities.SaveDocumentOutput
	if err := workflow.ExecuteActivity(ctx, "SaveDocumentActivity", activities.SaveDocumentInput{
		DocType:        input.DocType,
		Title:          input.Title,
		Content:        genOut.Content,
		ModelUsed:      genOut.Model,
		GenerationTime: genOut.ElapsedSeconds,
		CompanyID:      input.CompanyID,
	}).Get(ctx, &saveOut); err != nil {
		return GenerateDocumentResult{}, err
	}
	status.DocumentID = saveOut.DocumentID
	status.Steps[status.CurrentStep] = "done"

	status.CurrentStep = "write_source"
	status.Steps[status.CurrentStep] = "processing"
	var srcOut activities.WriteMarkdownSourceOutput
	if err := workflow.ExecuteActivity(ctx, "WriteMarkdownSourceActivity", activities.WriteMarkdownSourceInput{
		DocumentID: saveOut.DocumentID,
		BatchID:    input.BatchID,
	}).Get(ctx, &srcOut); err != nil {
		return GenerateDocumentResult{}, err
	}
	status.Steps[status.CurrentStep] = "done"

	artifacts := make([]string, 0, len(input.Formats)+1)
	artifacts = append(artifacts, srcOut.Path)
	for _, format := range input.Formats {
		step := "export_" + format
		status.CurrentStep = step
		status.Steps[step] = "processing"
		var renderOut activities.RenderExportOutput
		if err := workflow.ExecuteActivity(ctx, "RenderExportActivity", activities.RenderExportInput{
			DocumentID: saveOut.DocumentID,
			Format:     format,
			BatchID:    input.BatchID,
		}).Get(ctx, &renderOut); err != nil {
			return GenerateDocumentResult{}, err
		}
		artifacts = append(artifacts, renderOut.Path)
		status.Steps[step] = "done"
	}

	status.CurrentStep = "done"
	status.Status = "generated"
	return GenerateDocumentResult{
		DocumentID: saveOut.DocumentID,
		Status:     status.Status,
		Provider:   genOut.ProviderName,
		Model:      genOut.Model,
		Artifacts:  artifacts,
	}, nil
}

func ExportDocumentWorkflow(ctx workflow.Context, input ExportDocumentInput) (string, error) {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	formats := input.Formats
	if len(formats) == 0 {
		formats = []string{"docx", "pdf"}
	}
	artifacts := make([]map[string]any, 0, len(formats))
	title := ""
	for _, format := range formats {
		var out activities.RenderExportOutput
		if err := workflow.ExecuteActivity(ctx, "RenderExportActivity", activities.RenderExportInput{
			DocumentID: input.DocumentID,
			Format:     format,
		}).Get(ctx, &out); err != nil {
			return "", err
		}
		title = out.Title
		artifacts = append(artifacts, map[string]any{
			"format": format,
			"path":   out.Path,
			"sha256": out.SHA256,
			"bytes":  out.Bytes,
		})
	}

	var mout activities.WriteDocumentManifestOutput
	if err := workflow.ExecuteActivity(ctx, "WriteDocumentManifestActivity", activities.WriteDocumentManifestInput{
		DocumentID: input.DocumentID,
		Manifest: map[string]any{
			"document_id":  input.DocumentID,
			"title":        title,
			"artifacts":    artifacts,
			"generated_at": workflow.Now(ctx),
		},
	}).Get(ctx, &mout); err != nil {
		return "", err
	}
	return mout.Path, nil
}

// callGenerateWithFailover walks the configured backends starting from the
// item's preferred one. Rate limits and transport blips earn short sleeps and
// another try, auth failures park the backend for the cooldown window, and
// validation-class rejections are terminal because no backend will accept the
// same request.
func callGenerateWithFailover(ctx workflow.Context, state *providerState, input GenerateDocumentInput, prompt activities.BuildPromptOutput, retryCounts map[string]int) (activities.GenerateContentOutput, string, error) {
	if retryCounts == nil {
		retryCounts = map[string]int{}
	}
	providerCount := defaultCount(input.ProviderCount)
	cooldown := durationOrDefault(input.CooldownSeconds, 300)
	preferred := input.PreferredProviderIndex
	var lastErr error
	maxAttempts := providerCount * 4
	if maxAttempts <= 0 {
		maxAttempts = 4
	}
	if input.StrictProvider && preferred >= 0 {
		maxAttempts = 4
	}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		idx := 0
		if input.StrictProvider && preferred >= 0 {
			idx = preferred
		} else if preferred >= 0 {
			idx = (preferred + attempt) % providerCount
		} else {
			idx = attempt % providerCount
		}
		if isProviderDisabled(ctx, state, idx) {
			continue
		}
		var out activities.GenerateContentOutput
		err := workflow.ExecuteActivity(ctx, "GenerateContentActivity", activities.GenerateContentInput{
			Prompt:        prompt.Prompt,
			ProviderIndex: idx,
		}).Get(ctx, &out)
		if err == nil {
			_ = workflow.ExecuteActivity(ctx, "LogGenerationActivity", activities.LogGenerationInput{
				DocType:        string(input.DocType),
				ModelChoice:    input.ModelChoice,
				ProviderName:   out.ProviderName,
				Model:          out.Model,
				Status:         "succeeded",
				ElapsedSeconds: out.ElapsedSeconds,
				PromptSHA256:   prompt.PromptSHA256,
			}).Get(ctx, nil)
			return out, "", nil
		}
		lastErr = err
		kind := providers.ClassifyError(err)
		_ = workflow.ExecuteActivity(ctx, "LogGenerationActivity", activities.LogGenerationInput{
			DocType:      string(input.DocType),
			ModelChoice:  input.ModelChoice,
			ProviderName: fmt.Sprintf("backend-%d", idx),
			Status:       "failed",
			ErrorCode:    strings.ToUpper(string(kind)),
			PromptSHA256: prompt.PromptSHA256,
		}).Get(ctx, nil)
		key := fmt.Sprintf("generate-%d", idx)
		retryCounts[key]++
		switch kind {
		case fault.KindAuth:
			disableProviderUntil(ctx, state, idx, cooldown)
		case fault.KindRateLimit:
			if retryCounts[key] <= 2 {
				workflow.Sleep(ctx, time.Duration(retryCounts[key]*2)*time.Second)
				if !input.StrictProvider {
					attempt--
				}
			} else {
				disableProviderUntil(ctx, state, idx, 2*time.Minute)
			}
		case fault.KindConnectivity, fault.KindTimeout:
			if retryCounts[key] <= 2 {
				workflow.Sleep(ctx, time.Duration(retryCounts[key])*time.Second)
				if !input.StrictProvider {
					attempt--
				}
			}
		case fault.KindValidation:
			return activities.GenerateContentOutput{}, string(fault.KindValidation), err
		default:
			disableProviderUntil(ctx, state, idx, time.Minute)
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("all generation backends exhausted")
	}
	return activities.GenerateContentOutput{}, string(providers.ClassifyError(lastErr)), lastErr
}

func isProviderDisabled(ctx workflow.Context, state *providerState, idx int) bool {
	until, ok := state.disabledUntil[idx]
	if !ok {
		return false
	}
	return workflow.Now(ctx).Before(until)
}

func disableProviderUntil(ctx workflow.Context, state *providerState, idx int, d time.Duration) {
	state.disabledUntil[idx] = workflow.Now(ctx).Add(d)
}

func itemKey(pos int, docType models.DocType) string {
	return fmt.Sprintf("%02d-%s", pos, docType)
}

func sanitizeID(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, ".", "-")
	s = strings.ReplaceAll(s, "/", "-")
	return s
}

func durationOrDefault(seconds int, fallback int) time.Duration {
	if seconds <= 0 {
		seconds = fallback
	}
	return time.Duration(seconds) * time.Second
}

func defaultCount(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}
