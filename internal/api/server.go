package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hrcraft/internal/config"
	"hrcraft/internal/fault"
	"hrcraft/internal/gateway"
	"hrcraft/internal/models"
	"hrcraft/internal/prompt"
	"hrcraft/internal/providers"
	"hrcraft/internal/render"
	"hrcraft/internal/storage"
	"hrcraft/internal/util"
	"hrcraft/internal/workflows"

	"github.com/google/uuid"
	enumspb "go.temporal.io/api/enums/v1"
	tclient "go.temporal.io/sdk/client"
)

type companyStore interface {
	Get(ctx context.Context) (models.CompanyProfile, error)
	GetIfExists(ctx context.Context) (*models.CompanyProfile, error)
	GetByID(ctx context.Context, id int64) (*models.CompanyProfile, error)
	Create(ctx context.Context, p models.CompanyProfile) (models.CompanyProfile, error)
	Update(ctx context.Context, upd storage.CompanyProfileUpdate) (models.CompanyProfile, error)
	Delete(ctx context.Context) error
}

type documentStore interface {
	Insert(ctx context.Context, doc models.GeneratedDocument) (models.GeneratedDocument, error)
	GetByID(ctx context.Context, id int64) (models.GeneratedDocument, error)
	List(ctx context.Context, f storage.DocumentFilter) ([]models.GeneratedDocument, error)
	Update(ctx context.Context, id int64, upd storage.DocumentUpdate) (models.GeneratedDocument, error)
	Delete(ctx context.Context, id int64) error
}

type auditStore interface {
	Insert(ctx context.Context, rec storage.GenerationRecord) error
}

type generator interface {
	Generate(ctx context.Context, choice, prompt string) (gateway.GenerationResult, error)
}

type Server struct {
	cfg       config.Config
	db        *storage.DB
	companies companyStore
	documents documentStore
	audit     auditStore
	prompts   *prompt.Builder
	renderer  *render.Renderer
	gateway   generator
	providers *providers.Manager
	temporal  tclient.Client
}

func NewServer(cfg config.Config) *Server {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		panic(err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		panic(err)
	}
	pm, err := providers.NewManager(cfg)
	if err != nil {
		panic(err)
	}
	prompts, err := prompt.NewBuilder(cfg.PromptDir)
	if err != nil {
		panic(err)
	}
	tc, err := tclient.Dial(tclient.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		panic(err)
	}
	return &Server{
		cfg:       cfg,
		db:        db,
		companies: storage.NewCompanyRepo(db),
		documents: storage.NewDocumentRepo(db),
		audit:     storage.NewAuditRepo(db),
		prompts:   prompts,
		renderer:  render.NewRenderer(cfg.TemplateDir, render.DefaultEngines(cfg.WkhtmltopdfPath)...),
		gateway:   gateway.New(pm),
		providers: pm,
		temporal:  tc,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/models", s.handleModels)
	mux.HandleFunc("/api/v1/generate/", s.handleGenerate)
	mux.HandleFunc("/api/v1/company-profile", s.handleCompanyProfile)
	mux.HandleFunc("/api/v1/documents", s.handleDocuments)
	mux.HandleFunc("/api/v1/documents/", s.handleDocumentScoped)
	mux.HandleFunc("/api/v1/export/", s.handleExport)
	mux.HandleFunc("/api/v1/batches", s.handleBatches)
	mux.HandleFunc("/api/v1/batches/", s.handleBatchScoped)
	return withCORS(mux)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.writeErr(w, errRouteNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to HRCraft!",
		"version": s.cfg.Version,
		"health":  "/health",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ollamaUp := false
	if b, _, ok := s.providers.ByChoice("local"); ok {
		ollamaUp = b.Healthy(ctx)
	}
	groqUp := false
	if b, _, ok := s.providers.ByChoice("cloud"); ok {
		groqUp = b.Healthy(ctx)
	}

	status := "healthy"
	if !ollamaUp && !groqUp {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      status,
		"version":     s.cfg.Version,
		"environment": s.cfg.Environment,
		"services": map[string]any{
			"ollama": map[string]any{"available": ollamaUp, "model": s.cfg.OllamaModel, "url": s.cfg.OllamaBaseURL},
			"groq":   map[string]any{"available": groqUp, "model": s.cfg.GroqModel},
		},
		"timestamp": time.Now().UTC(),
	})
}

type modelInfo struct {
	Provider    string  `json:"provider"`
	Model       string  `json:"model"`
	Type        string  `json:"type"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Available   bool    `json:"available"`
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErr(w, errMethodNotAllowed)
		return
	}
	out := make([]modelInfo, 0, s.providers.Count())
	for _, i := range s.providers.PreferredOrder() {
		b, _ := s.providers.ByIndex(i)
		desc := b.Describe()
		out = append(out, modelInfo{
			Provider:    desc.Provider,
			Model:       desc.Model,
			Type:        string(desc.Mode),
			Temperature: desc.Temperature,
			MaxTokens:   desc.MaxTokens,
			Available:   b.Healthy(r.Context()),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": out})
}

type generatedContentResponse struct {
	Content        string    `json:"content"`
	ModelUsed      string    `json:"model_used"`
	GenerationTime float64   `json:"generation_time"`
	Timestamp      time.Time `json:"timestamp"`
	ID             *int64    `json:"id,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeErr(w, errMethodNotAllowed)
		return
	}
	raw := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/generate/"), "/")
	docType := models.DocType(raw)
	if raw == "" || strings.Contains(raw, "/") || !docType.Valid() {
		s.writeErr(w, fault.Validation("unsupported document type %q", raw))
		return
	}
	req, err := decodeGenerateRequest(docType, r.Body)
	if err != nil {
		s.writeErr(w, err)
		return
	}

	save := false
	if v := r.URL.Query().Get("save"); v != "" {
		save, err = strconv.ParseBool(v)
		if err != nil {
			s.writeErr(w, fault.Validation("save must be a boolean"))
			return
		}
	}
	var companyID *int64
	if v := r.URL.Query().Get("company_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.writeErr(w, fault.Validation("company_id must be an integer"))
			return
		}
		companyID = &id
	}

	ctx := r.Context()
	profile, err := s.companies.GetIfExists(ctx)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	promptText, err := s.prompts.Build(docType, req.promptData(), profile.Branding())
	if err != nil {
		s.writeErr(w, err)
		return
	}

	rec := storage.GenerationRecord{
		CallID:       uuid.NewString(),
		DocType:      string(docType),
		ModelChoice:  req.choice(),
		PromptSHA256: util.SHA256Hex([]byte(promptText)),
	}
	result, err := s.gateway.Generate(ctx, req.choice(), promptText)
	if err != nil {
		rec.Status = "failed"
		if f, ok := fault.As(err); ok {
			rec.ErrorCode = f.Code
		}
		s.writeAudit(ctx, rec)
		s.writeErr(w, err)
		return
	}
	rec.Status = "succeeded"
	rec.ProviderName = result.Model.Provider
	rec.Model = result.Model.Model
	rec.ElapsedSeconds = result.ElapsedSeconds
	s.writeAudit(ctx, rec)

	content := util.SanitizeText(result.Content)
	resp := generatedContentResponse{
		Content:        content,
		ModelUsed:      result.Model.Model,
		GenerationTime: result.ElapsedSeconds,
		Timestamp:      time.Now().UTC(),
	}
	if save {
		doc, err := s.documents.Insert(ctx, models.GeneratedDocument{
			DocType:        docType,
			Title:          req.title(),
			Content:        content,
			ModelUsed:      result.Model.Model,
			GenerationTime: result.ElapsedSeconds,
			CompanyID:      companyID,
		})
		if err != nil {
			s.writeErr(w, err)
			return
		}
		resp.ID = &doc.ID
	}
	log.Printf("api: generated %s model=%s elapsed=%.2fs saved=%t", docType, result.Model.Model, result.ElapsedSeconds, save)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCompanyProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		profile, err := s.companies.Get(ctx)
		if err != nil {
			s.writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	case http.MethodPost:
		var req companyProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeErr(w, fault.Validation("invalid request body: %v", err))
			return
		}
		if err := req.validate(); err != nil {
			s.writeErr(w, err)
			return
		}
		created, err := s.companies.Create(ctx, models.CompanyProfile{
			Name:        req.Name,
			Industry:    req.Industry,
			Size:        req.Size,
			Location:    req.Location,
			Website:     req.Website,
			Description: req.Description,
			Values:      req.Values,
			LogoURL:     req.LogoURL,
		})
		if err != nil {
			s.writeErr(w, err)
			return
		}
		log.Printf("api: created company profile id=%d name=%q", created.ID, created.Name)
		writeJSON(w, http.StatusCreated, created)
	case http.MethodPut:
		var req companyProfileUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeErr(w, fault.Validation("invalid request body: %v", err))
			return
		}
		if err := req.validate(); err != nil {
			s.writeErr(w, err)
			return
		}
		updated, err := s.companies.Update(ctx, storage.CompanyProfileUpdate{
			Name:        req.Name,
			Industry:    req.Industry,
			Size:        req.Size,
			Location:    req.Location,
			Website:     req.Website,
			Description: req.Description,
			Values:      req.Values,
			LogoURL:     req.LogoURL,
		})
		if err != nil {
			s.writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := s.companies.Delete(ctx); err != nil {
			s.writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		s.writeErr(w, errMethodNotAllowed)
	}
}

type documentSummary struct {
	ID             int64          `json:"id"`
	DocType        models.DocType `json:"doc_type"`
	Title          string         `json:"title"`
	Preview        string         `json:"preview"`
	ModelUsed      string         `json:"model_used"`
	GenerationTime float64        `json:"generation_time"`
	CompanyID      *int64         `json:"company_id,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		filter := storage.DocumentFilter{Limit: 100}
		q := r.URL.Query()
		if v := q.Get("doc_type"); v != "" {
			dt := models.DocType(v)
			if !dt.Valid() {
				s.writeErr(w, fault.Validation("unsupported document type %q", v))
				return
			}
			filter.DocType = dt
		}
		if v := q.Get("company_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				s.writeErr(w, fault.Validation("company_id must be an integer"))
				return
			}
			filter.CompanyID = &id
		}
		if v := q.Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > 1000 {
				s.writeErr(w, fault.Validation("limit must be between 1 and 1000"))
				return
			}
			filter.Limit = n
		}
		if v := q.Get("offset"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				s.writeErr(w, fault.Validation("offset must be zero or greater"))
				return
			}
			filter.Offset = n
		}
		docs, err := s.documents.List(ctx, filter)
		if err != nil {
			s.writeErr(w, err)
			return
		}
		out := make([]documentSummary, 0, len(docs))
		for _, d := range docs {
			out = append(out, documentSummary{
				ID:             d.ID,
				DocType:        d.DocType,
				Title:          d.Title,
				Preview:        util.DisplaySnippet(d.Content, 280),
				ModelUsed:      d.ModelUsed,
				GenerationTime: d.GenerationTime,
				CompanyID:      d.CompanyID,
				CreatedAt:      d.CreatedAt,
				UpdatedAt:      d.UpdatedAt,
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"documents": out})
	case http.MethodPost:
		var req documentCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeErr(w, fault.Validation("invalid request body: %v", err))
			return
		}
		if err := req.validate(); err != nil {
			s.writeErr(w, err)
			return
		}
		doc, err := s.documents.Insert(ctx, models.GeneratedDocument{
			DocType:        req.DocType,
			Title:          req.Title,
			Content:        util.SanitizeText(req.Content),
			ModelUsed:      req.ModelUsed,
			GenerationTime: req.GenerationTime,
			CompanyID:      req.CompanyID,
		})
		if err != nil {
			s.writeErr(w, err)
			return
		}
		log.Printf("api: saved document id=%d type=%s title=%q", doc.ID, doc.DocType, doc.Title)
		writeJSON(w, http.StatusCreated, doc)
	default:
		s.writeErr(w, errMethodNotAllowed)
	}
}

func (s *Server) handleDocumentScoped(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/documents/"), "/"), "/")
	if len(parts) < 1 || parts[0] == "" {
		s.writeErr(w, errRouteNotFound)
		return
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		s.writeErr(w, fault.Validation("document id must be an integer"))
		return
	}

	if len(parts) == 2 && parts[1] == "export" {
		if r.Method != http.MethodPost {
			s.writeErr(w, errMethodNotAllowed)
			return
		}
		s.handleExportWorkflow(w, r, id)
		return
	}
	if len(parts) != 1 {
		s.writeErr(w, errRouteNotFound)
		return
	}

	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		doc, err := s.documents.GetByID(ctx, id)
		if err != nil {
			s.writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	case http.MethodPut:
		var req documentUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeErr(w, fault.Validation("invalid request body: %v", err))
			return
		}
		if err := req.validate(); err != nil {
			s.writeErr(w, err)
			return
		}
		doc, err := s.documents.Update(ctx, id, storage.DocumentUpdate{Title: req.Title, Content: req.Content})
		if err != nil {
			s.writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	case http.MethodDelete:
		if err := s.documents.Delete(ctx, id); err != nil {
			s.writeErr(w, err)
			return
		}
		log.Printf("api: deleted document id=%d", id)
		w.WriteHeader(http.StatusNoContent)
	default:
		s.writeErr(w, errMethodNotAllowed)
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErr(w, errMethodNotAllowed)
		return
	}
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/export/"), "/"), "/")
	if len(parts) != 2 {
		s.writeErr(w, errRouteNotFound)
		return
	}
	format := parts[0]
	if format != "docx" && format != "pdf" {
		s.writeErr(w, fault.Validation("unsupported export format %q", format))
		return
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		s.writeErr(w, fault.Validation("document id must be an integer"))
		return
	}

	ctx := r.Context()
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	var company *models.CompanyProfile
	if doc.CompanyID != nil {
		company, err = s.companies.GetByID(ctx, *doc.CompanyID)
		if err != nil {
			s.writeErr(w, err)
			return
		}
	}
	meta := render.Metadata{
		Title:     doc.Title,
		Date:      doc.CreatedAt.Format("2006-01-02"),
		Reference: fmt.Sprintf("DOC-%05d", doc.ID),
	}

	switch format {
	case "docx":
		b, err := s.renderer.DOCX(doc.Content, doc.DocType, meta, company.Branding())
		if err != nil {
			s.writeErr(w, err)
			return
		}
		sendAttachment(w, b, util.ExportFilename(doc.Title, ".docx"),
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	case "pdf":
		b, engine, err := s.renderer.PDF(doc.Content, doc.DocType, meta, company.Branding())
		if err != nil {
			s.writeErr(w, err)
			return
		}
		log.Printf("api: exported document id=%d as pdf engine=%s", doc.ID, engine)
		sendAttachment(w, b, util.ExportFilename(doc.Title, ".pdf"), "application/pdf")
	}
}

func sendAttachment(w http.ResponseWriter, body []byte, filename, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	_, _ = w.Write(body)
}

type batchItemRequest struct {
	DocType models.DocType  `json:"doc_type"`
	Fields  json.RawMessage `json:"fields"`
}

type batchRequest struct {
	CompanyID       *int64             `json:"company_id"`
	Formats         []string           `json:"formats"`
	Items           []batchItemRequest `json:"items"`
	StrictProvider  bool               `json:"strict_provider"`
	CooldownSeconds int                `json:"cooldown_seconds"`
	MaxConcurrent   int                `json:"max_concurrent"`
}

func normalizeFormats(formats []string) ([]string, error) {
	if len(formats) == 0 {
		return []string{"docx", "pdf"}, nil
	}
	for _, f := range formats {
		if f != "docx" && f != "pdf" {
			return nil, fault.Validation("unsupported export format %q", f)
		}
	}
	return formats, nil
}

func (s *Server) handleBatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeErr(w, errMethodNotAllowed)
		return
	}
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErr(w, fault.Validation("invalid request body: %v", err))
		return
	}
	if len(req.Items) == 0 {
		s.writeErr(w, fault.Validation("items must contain at least one entry"))
		return
	}
	formats, err := normalizeFormats(req.Formats)
	if err != nil {
		s.writeErr(w, err)
		return
	}

	items := make([]workflows.GenerationItem, 0, len(req.Items))
	for i, it := range req.Items {
		if !it.DocType.Valid() {
			s.writeErr(w, fault.Validation("item %d: unsupported document type %q", i+1, it.DocType))
			return
		}
		gr, err := decodeGenerateRequest(it.DocType, bytes.NewReader(it.Fields))
		if err != nil {
			if f, ok := fault.As(err); ok {
				s.writeErr(w, fault.Validation("item %d: %s", i+1, f.Message))
			} else {
				s.writeErr(w, err)
			}
			return
		}
		idx := s.providers.IndexForChoice(gr.choice())
		if idx < 0 {
			s.writeErr(w, fault.Validation("item %d: model choice %q is not configured", i+1, gr.choice()))
			return
		}
		items = append(items, workflows.GenerationItem{
			DocType:                it.DocType,
			Title:                  gr.title(),
			PromptData:             gr.promptData(),
			ModelChoice:            gr.choice(),
			PreferredProviderIndex: idx,
		})
	}

	batchID := uuid.NewString()
	we, err := s.temporal.ExecuteWorkflow(r.Context(), tclient.StartWorkflowOptions{
		ID:        "batch-" + batchID,
		TaskQueue: s.cfg.TemporalTaskQueue,
	}, workflows.DocumentBatchWorkflow, workflows.DocumentBatchInput{
		BatchID:         batchID,
		CompanyID:       req.CompanyID,
		Formats:         formats,
		Items:           items,
		ProviderCount:   s.providers.Count(),
		StrictProvider:  req.StrictProvider,
		CooldownSeconds: req.CooldownSeconds,
		MaxConcurrent:   req.MaxConcurrent,
	})
	if err != nil {
		s.writeErr(w, &fault.Fault{
			Kind:    fault.KindInternal,
			Code:    "WORKFLOW_CONFLICT",
			Message: "Operation conflicts with current state. Retry after checking status.",
			Status:  http.StatusConflict,
			Err:     err,
		})
		return
	}
	log.Printf("api: started batch workflow batch_id=%s items=%d formats=%v", batchID, len(items), formats)
	writeJSON(w, http.StatusAccepted, map[string]any{
		"batch_id":    batchID,
		"workflow_id": we.GetID(),
		"run_id":      we.GetRunID(),
	})
}

func (s *Server) handleBatchScoped(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/batches/"), "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "progress" {
		s.writeErr(w, errRouteNotFound)
		return
	}
	if r.Method != http.MethodGet {
		s.writeErr(w, errMethodNotAllowed)
		return
	}
	batchID := parts[0]
	resp, err := s.temporal.QueryWorkflow(r.Context(), "batch-"+batchID, "", workflows.QueryGetBatchProgress)
	if err != nil {
		s.writeErr(w, fault.NotFound("Batch", batchID))
		return
	}
	var prog workflows.BatchProgress
	if err := resp.Get(&prog); err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prog)
}

func (s *Server) handleExportWorkflow(w http.ResponseWriter, r *http.Request, id int64) {
	var req struct {
		Formats []string `json:"formats"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeErr(w, fault.Validation("invalid request body: %v", err))
		return
	}
	formats, err := normalizeFormats(req.Formats)
	if err != nil {
		s.writeErr(w, err)
		return
	}

	ctx := r.Context()
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	we, err := s.temporal.ExecuteWorkflow(ctx, tclient.StartWorkflowOptions{
		ID:                                       fmt.Sprintf("export-doc-%d", doc.ID),
		TaskQueue:                                s.cfg.TemporalTaskQueue,
		WorkflowIDReusePolicy:                    enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}, workflows.ExportDocumentWorkflow, workflows.ExportDocumentInput{
		DocumentID: doc.ID,
		Formats:    formats,
	})
	if err != nil {
		s.writeErr(w, &fault.Fault{
			Kind:    fault.KindInternal,
			Code:    "WORKFLOW_CONFLICT",
			Message: "Operation conflicts with current state. Retry after checking status.",
			Status:  http.StatusConflict,
			Err:     err,
		})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"workflow_id": we.GetID(),
		"run_id":      we.GetRunID(),
	})
}

func (s *Server) writeAudit(ctx context.Context, rec storage.GenerationRecord) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Insert(ctx, rec); err != nil {
		log.Printf("api: audit insert failed: %v", err)
	}
}

var (
	errMethodNotAllowed = &fault.Fault{
		Kind:    fault.KindValidation,
		Code:    "METHOD_NOT_ALLOWED",
		Message: "This endpoint does not support the requested method.",
		Status:  http.StatusMethodNotAllowed,
	}
	errRouteNotFound = &fault.Fault{
		Kind:    fault.KindNotFound,
		Code:    fault.CodeNotFound,
		Message: "Requested resource was not found.",
		Status:  http.StatusNotFound,
	}
)

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type errorResponse struct {
	Error     errorDetail `json:"error"`
	TraceID   string      `json:"trace_id"`
	Timestamp time.Time   `json:"timestamp"`
}

// writeErr maps any error onto the wire error envelope. Faults keep their
// status, code and user-safe message; everything else is masked as a generic
// internal error with details only in debug mode.
func (s *Server) writeErr(w http.ResponseWriter, err error) {
	f, ok := fault.As(err)
	if !ok {
		msg := "An unexpected error occurred. Please try again later."
		if s.cfg.Debug {
			msg = fmt.Sprintf("%s Details: %v", msg, err)
		}
		f = &fault.Fault{Kind: fault.KindInternal, Code: fault.CodeInternal, Message: msg, Status: http.StatusInternalServerError}
	}
	status := f.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	traceID := uuid.NewString()
	log.Printf("api: error code=%s status=%d trace_id=%s err=%v", f.Code, status, traceID, err)
	if f.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(f.RetryAfter))
	}
	writeJSON(w, status, errorResponse{
		Error:     errorDetail{Code: f.Code, Message: f.Message},
		TraceID:   traceID,
		Timestamp: time.Now().UTC(),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
