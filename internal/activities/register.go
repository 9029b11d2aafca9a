package activities

import "go.temporal.io/sdk/worker"

func Register(w worker.Worker, a *Activities) {
	w.RegisterActivity(a.BuildPromptActivity)
	w.RegisterActivity(a.GenerateContentActivity)
	w.RegisterActivity(a.SaveDocumentActivity)
	w.RegisterActivity(a.WriteMarkdownSourceActivity)
	w.RegisterActivity(a.RenderExportActivity)
	w.RegisterActivity(a.LogGenerationActivity)
	w.RegisterActivity(a.WriteBatchManifestActivity)
	w.RegisterActivity(a.WriteDocumentManifestActivity)
}
