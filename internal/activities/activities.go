package activities

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"hrcraft/internal/config"
	"hrcraft/internal/models"
	"hrcraft/internal/prompt"
	"hrcraft/internal/providers"
	"hrcraft/internal/render"
	"hrcraft/internal/storage"
	"hrcraft/internal/util"

	"github.com/ledongthuc/pdf"
)

type Activities struct {
	cfg       config.Config
	companies *storage.CompanyRepo
	documents *storage.DocumentRepo
	audit     *storage.AuditRepo
	prompts   *prompt.Builder
	renderer  *render.Renderer
	providers *providers.Manager
}

func New(cfg config.Config, db *storage.DB) (*Activities, error) {
	pm, err := providers.NewManager(cfg)
	if err != nil {
		return nil, err
	}
	prompts, err := prompt.NewBuilder(cfg.PromptDir)
	if err != nil {
		return nil, err
	}
	return &Activities{
		cfg:       cfg,
		companies: storage.NewCompanyRepo(db),
		documents: storage.NewDocumentRepo(db),
		audit:     storage.NewAuditRepo(db),
		prompts:   prompts,
		renderer:  render.NewRenderer(cfg.TemplateDir, render.DefaultEngines(cfg.WkhtmltopdfPath)...),
		providers: pm,
	}, nil
}

func (a *Activities) BuildPromptActivity(ctx context.Context, in BuildPromptInput) (BuildPromptOutput, error) {
	var profile *models.CompanyProfile
	var err error
	if in.CompanyID != nil {
		profile, err = a.companies.GetByID(ctx, *in.CompanyID)
	} else {
		profile, err = a.companies.GetIfExists(ctx)
	}
	if err != nil {
		return BuildPromptOutput{}, err
	}
	text, err := a.prompts.Build(in.DocType, in.PromptData, profile.Branding())
	if err != nil {
		return BuildPromptOutput{}, err
	}
	return BuildPromptOutput{Prompt: text, PromptSHA256: util.SHA256Hex([]byte(text))}, nil
}

func (a *Activities) GenerateContentActivity(ctx context.Context, in GenerateContentInput) (GenerateContentOutput, error) {
	backend, ref := a.providers.ByIndex(in.ProviderIndex)
	start := time.Now()
	content, err := backend.Generate(ctx, in.Prompt)
	if err != nil {
		return GenerateContentOutput{}, fmt.Errorf("generate via %s failed: %w", ref.Raw, err)
	}
	content = util.SanitizeText(content)
	if strings.TrimSpace(content) == "" {
		return GenerateContentOutput{}, fmt.Errorf("backend %s returned empty content", ref.Raw)
	}
	desc := backend.Describe()
	return GenerateContentOutput{
		Content:        content,
		ProviderName:   desc.Provider,
		Model:          desc.Model,
		ElapsedSeconds: math.Round(time.Since(start).Seconds()*100) / 100,
	}, nil
}

func (a *Activities) SaveDocumentActivity(ctx context.Context, in SaveDocumentInput) (SaveDocumentOutput, error) {
	doc, err := a.documents.Insert(ctx, models.GeneratedDocument{
		DocType:        in.DocType,
		Title:          in.Title,
		Content:        in.Content,
		ModelUsed:      in.ModelUsed,
		GenerationTime: in.GenerationTime,
		CompanyID:      in.CompanyID,
	})
	if err != nil {
		return SaveDocumentOutput{}, err
	}
	return SaveDocumentOutput{DocumentID: doc.ID}, nil
}

// WriteMarkdownSourceActivity writes the stored markdown next to the rendered
// artifacts so the batch directory carries the source of what was exported.
func (a *Activities) WriteMarkdownSourceActivity(ctx context.Context, in WriteMarkdownSourceInput) (WriteMarkdownSourceOutput, error) {
	doc, err := a.documents.GetByID(ctx, in.DocumentID)
	if err != nil {
		return WriteMarkdownSourceOutput{}, err
	}
	path := filepath.Join(a.batchDir(in.BatchID), fmt.Sprintf("%s-%d.md", doc.DocType, doc.ID))
	if err := util.WriteTextAtomic(path, doc.Content); err != nil {
		return WriteMarkdownSourceOutput{}, err
	}
	return WriteMarkdownSourceOutput{Path: path}, nil
}

// RenderExportActivity renders one stored document into the requested format,
// verifies the bytes actually open, and writes them under the export root.
// Batch items land in batches/{batch_id}/, single exports in documents/{id}/.
func (a *Activities) RenderExportActivity(ctx context.Context, in RenderExportInput) (RenderExportOutput, error) {
	doc, err := a.documents.GetByID(ctx, in.DocumentID)
	if err != nil {
		return RenderExportOutput{}, err
	}
	var company *models.CompanyProfile
	if doc.CompanyID != nil {
		company, err = a.companies.GetByID(ctx, *doc.CompanyID)
		if err != nil {
			return RenderExportOutput{}, err
		}
	}
	meta := render.Metadata{
		Title:     doc.Title,
		Date:      doc.CreatedAt.Format("2006-01-02"),
		Reference: fmt.Sprintf("DOC-%05d", doc.ID),
	}

	var body []byte
	switch in.Format {
	case "docx":
		body, err = a.renderer.DOCX(doc.Content, doc.DocType, meta, company.Branding())
		if err != nil {
			return RenderExportOutput{}, err
		}
		if err := verifyDOCX(body); err != nil {
			return RenderExportOutput{}, fmt.Errorf("verify docx: %w", err)
		}
	case "pdf":
		body, _, err = a.renderer.PDF(doc.Content, doc.DocType, meta, company.Branding())
		if err != nil {
			return RenderExportOutput{}, err
		}
		if err := verifyPDF(body); err != nil {
			return RenderExportOutput{}, fmt.Errorf("verify pdf: %w", err)
		}
	default:
		return RenderExportOutput{}, fmt.Errorf("unsupported export format: %s", in.Format)
	}

	path := a.exportPath(in.BatchID, doc, in.Format)
	if err := util.WriteBinaryAtomic(path, body); err != nil {
		return RenderExportOutput{}, err
	}
	return RenderExportOutput{
		Path:   path,
		Title:  doc.Title,
		SHA256: util.SHA256Hex(body),
		Bytes:  len(body),
	}, nil
}

func (a *Activities) LogGenerationActivity(ctx context.Context, in LogGenerationInput) error {
	return a.audit.Insert(ctx, storage.GenerationRecord{
		CallID:         in.CallID,
		DocType:        in.DocType,
		ModelChoice:    in.ModelChoice,
		ProviderName:   in.ProviderName,
		Model:          in.Model,
		Status:         in.Status,
		ErrorCode:      in.ErrorCode,
		ElapsedSeconds: in.ElapsedSeconds,
		PromptSHA256:   in.PromptSHA256,
	})
}

func (a *Activities) WriteBatchManifestActivity(ctx context.Context, in WriteBatchManifestInput) (WriteBatchManifestOutput, error) {
	_ = ctx
	path := filepath.Join(a.batchDir(in.BatchID), "manifest.json")
	if err := util.WriteJSONAtomic(path, in.Manifest); err != nil {
		return WriteBatchManifestOutput{}, err
	}
	return WriteBatchManifestOutput{Path: path}, nil
}

func (a *Activities) WriteDocumentManifestActivity(ctx context.Context, in WriteDocumentManifestInput) (WriteDocumentManifestOutput, error) {
	_ = ctx
	path := filepath.Join(a.documentDir(in.DocumentID), "manifest.json")
	if err := util.WriteJSONAtomic(path, in.Manifest); err != nil {
		return WriteDocumentManifestOutput{}, err
	}
	return WriteDocumentManifestOutput{Path: path}, nil
}

// batchDir resolves the export directory for a batch, keeping the id to a
// single path component.
func (a *Activities) batchDir(batchID string) string {
	return util.SafeJoin(filepath.Join(a.cfg.ExportRoot, "batches"), batchID)
}

func (a *Activities) documentDir(id int64) string {
	return filepath.Join(a.cfg.ExportRoot, "documents", fmt.Sprintf("%d", id))
}

func (a *Activities) exportPath(batchID string, doc models.GeneratedDocument, format string) string {
	name := fmt.Sprintf("%s-%d.%s", doc.DocType, doc.ID, format)
	if batchID != "" {
		return filepath.Join(a.batchDir(batchID), name)
	}
	return filepath.Join(a.documentDir(doc.ID), name)
}

func verifyDOCX(b []byte) error {
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return err
	}
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			return nil
		}
	}
	return fmt.Errorf("archive is missing word/document.xml")
}

func verifyPDF(b []byte) error {
	_, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	return err
}
