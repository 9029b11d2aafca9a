package workflows

import (
	"context"
	"errors"
	"testing"

	"hrcraft/internal/activities"
	"hrcraft/internal/models"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
)

func registerActivityName[T any](env *testsuite.TestWorkflowEnvironment, name string, fn T) {
	env.RegisterActivityWithOptions(fn, activity.RegisterOptions{Name: name})
}

func registerGenerateActivities(env *testsuite.TestWorkflowEnvironment) {
	registerActivityName(env, "BuildPromptActivity", func(context.Context, activities.BuildPromptInput) (activities.BuildPromptOutput, error) {
		return activities.BuildPromptOutput{}, nil
	})
	registerActivityName(env, "GenerateContentActivity", func(context.Context, activities.GenerateContentInput) (activities.GenerateContentOutput, error) {
		return activities.GenerateContentOutput{}, nil
	})
	registerActivityName(env, "SaveDocumentActivity", func(context.Context, activities.SaveDocumentInput) (activities.SaveDocumentOutput, error) {
		return activities.SaveDocumentOutput{}, nil
	})
	registerActivityName(env, "WriteMarkdownSourceActivity", func(context.Context, activities.WriteMarkdownSourceInput) (activities.WriteMarkdownSourceOutput, error) {
		return activities.WriteMarkdownSourceOutput{}, nil
	})
	registerActivityName(env, "RenderExportActivity", func(context.Context, activities.RenderExportInput) (activities.RenderExportOutput, error) {
		return activities.RenderExportOutput{}, nil
	})
	registerActivityName(env, "LogGenerationActivity", func(context.Context, activities.LogGenerationInput) error { return nil })
}

func TestGenerateDocumentWorkflowSuccess(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(GenerateDocumentWorkflow)
	registerGenerateActivities(env)

	env.OnActivity("BuildPromptActivity", mock.Anything, mock.Anything).Return(activities.BuildPromptOutput{Prompt: "Write a job description.", PromptSHA256: "abc123"}, nil)
	env.OnActivity("GenerateContentActivity", mock.Anything, activities.GenerateContentInput{Prompt: "Write a job description.", ProviderIndex: 0}).Return(activities.GenerateContentOutput{Content: "# Backend Engineer", ProviderName: "ollama", Model: "deepseek-r1:8b", ElapsedSeconds: 1.4}, nil)
	env.OnActivity("SaveDocumentActivity", mock.Anything, mock.Anything).Return(activities.SaveDocumentOutput{DocumentID: 7}, nil)
	env.OnActivity("WriteMarkdownSourceActivity", mock.Anything, activities.WriteMarkdownSourceInput{DocumentID: 7, BatchID: "b1"}).Return(activities.WriteMarkdownSourceOutput{Path: "data/exports/batches/b1/job_description-7.md"}, nil)
	env.OnActivity("RenderExportActivity", mock.Anything, activities.RenderExportInput{DocumentID: 7, Format: "docx", BatchID: "b1"}).Return(activities.RenderExportOutput{Path: "data/exports/batches/b1/job_description-7.docx"}, nil)
	env.OnActivity("RenderExportActivity", mock.Anything, activities.RenderExportInput{DocumentID: 7, Format: "pdf", BatchID: "b1"}).Return(activities.RenderExportOutput{Path: "data/exports/batches/b1/job_description-7.pdf"}, nil)
	env.OnActivity("LogGenerationActivity", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(GenerateDocumentWorkflow, GenerateDocumentInput{
		BatchID:       "b1",
		DocType:       models.DocTypeJobDescription,
		Title:         "Job Description: Backend Engineer - Platform",
		ModelChoice:   "hrcraft_mini",
		Formats:       []string{"docx", "pdf"},
		ProviderCount: 1,
	})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var res GenerateDocumentResult
	require.NoError(t, env.GetWorkflowResult(&res))
	require.Equal(t, "generated", res.Status)
	require.Equal(t, int64(7), res.DocumentID)
	require.Equal(t, "ollama", res.Provider)
	require.Equal(t, []string{
		"data/exports/batches/b1/job_description-7.md",
		"data/exports/batches/b1/job_description-7.docx",
		"data/exports/batches/b1/job_description-7.pdf",
	}, res.Artifacts)
}

func TestGenerateDocumentWorkflowFailsOverOnRateLimit(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(GenerateDocumentWorkflow)
	registerGenerateActivities(env)

	env.OnActivity("BuildPromptActivity", mock.Anything, mock.Anything).Return(activities.BuildPromptOutput{Prompt: "p", PromptSHA256: "s"}, nil)
	env.OnActivity("GenerateContentActivity", mock.Anything, activities.GenerateContentInput{Prompt: "p", ProviderIndex: 0}).Return(activities.GenerateContentOutput{}, errors.New("Groq rate limit exceeded, please wait before retrying"))
	env.OnActivity("GenerateContentActivity", mock.Anything, activities.GenerateContentInput{Prompt: "p", ProviderIndex: 1}).Return(activities.GenerateContentOutput{Content: "text", ProviderName: "groq", Model: "llama-3.3-70b-versatile", ElapsedSeconds: 0.8}, nil)
	env.OnActivity("SaveDocumentActivity", mock.Anything, mock.Anything).Return(activities.SaveDocumentOutput{DocumentID: 3}, nil)
	env.OnActivity("WriteMarkdownSourceActivity", mock.Anything, mock.Anything).Return(activities.WriteMarkdownSourceOutput{Path: "data/exports/batches/b2/offer_letter-3.md"}, nil)
	env.OnActivity("RenderExportActivity", mock.Anything, mock.Anything).Return(activities.RenderExportOutput{Path: "data/exports/batches/b2/offer_letter-3.docx"}, nil)
	env.OnActivity("LogGenerationActivity", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(GenerateDocumentWorkflow, GenerateDocumentInput{
		BatchID:         "b2",
		DocType:         models.DocTypeOfferLetter,
		Title:           "Offer Letter: Engineer - Casey",
		ModelChoice:     "hrcraft_pro",
		Formats:         []string{"docx"},
		ProviderCount:   2,
		CooldownSeconds: 60,
	})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var res GenerateDocumentResult
	require.NoError(t, env.GetWorkflowResult(&res))
	require.Equal(t, "generated", res.Status)
	require.Equal(t, "groq", res.Provider)
	require.Equal(t, int64(3), res.DocumentID)
}

func TestGenerateDocumentWorkflowBadRequestFailsGracefully(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(GenerateDocumentWorkflow)
	registerGenerateActivities(env)

	env.OnActivity("BuildPromptActivity", mock.Anything, mock.Anything).Return(activities.BuildPromptOutput{Prompt: "p", PromptSHA256: "s"}, nil)
	env.OnActivity("GenerateContentActivity", mock.Anything, mock.Anything).Return(activities.GenerateContentOutput{}, errors.New("invalid model choice 'gpt4', must be 'hrcraft_mini' or 'hrcraft_pro'"))
	env.OnActivity("LogGenerationActivity", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(GenerateDocumentWorkflow, GenerateDocumentInput{
		DocType:       models.DocTypeInterviewQuestions,
		Title:         "Interview Questions: Engineer - Systems",
		ModelChoice:   "gpt4",
		Formats:       []string{"docx"},
		ProviderCount: 1,
	})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var res GenerateDocumentResult
	require.NoError(t, env.GetWorkflowResult(&res))
	require.Equal(t, "failed", res.Status)
	require.Zero(t, res.DocumentID)
}

func TestExportDocumentWorkflowWritesManifest(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(ExportDocumentWorkflow)
	registerActivityName(env, "RenderExportActivity", func(context.Context, activities.RenderExportInput) (activities.RenderExportOutput, error) {
		return activities.RenderExportOutput{}, nil
	})
	registerActivityName(env, "WriteDocumentManifestActivity", func(context.Context, activities.WriteDocumentManifestInput) (activities.WriteDocumentManifestOutput, error) {
		return activities.WriteDocumentManifestOutput{}, nil
	})

	env.OnActivity("RenderExportActivity", mock.Anything, activities.RenderExportInput{DocumentID: 12, Format: "pdf"}).Return(activities.RenderExportOutput{Path: "data/exports/documents/12/performance_review-12.pdf", Title: "Performance Review: Jordan - Q2", SHA256: "deadbeef", Bytes: 2048}, nil)
	env.OnActivity("WriteDocumentManifestActivity", mock.Anything, mock.Anything).Return(activities.WriteDocumentManifestOutput{Path: "data/exports/documents/12/manifest.json"}, nil)

	env.ExecuteWorkflow(ExportDocumentWorkflow, ExportDocumentInput{DocumentID: 12, Formats: []string{"pdf"}})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "data/exports/documents/12/manifest.json", out)
}
