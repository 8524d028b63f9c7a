package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/umutak/deskmate/internal/blob"
	"github.com/umutak/deskmate/internal/database"
	"github.com/umutak/deskmate/internal/models"
	"github.com/umutak/deskmate/internal/validation"
)

const (
	// MaxPlanTitleLength is the maximum length for plan titles
	MaxPlanTitleLength = 500
	// MaxPlanContentLength is the maximum length for plan content
	MaxPlanContentLength = 100000
	// MaxAttachmentSize is the maximum size for a single uploaded attachment
	MaxAttachmentSize = 10 << 20 // 10 MB
)

// PlanHandler handles plan and plan attachment requests
type PlanHandler struct {
	planRepo       database.PlanRepositoryInterface
	attachmentRepo database.AttachmentRepositoryInterface
	blobStore      blob.Store
	logger         *zap.Logger
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(planRepo database.PlanRepositoryInterface, attachmentRepo database.AttachmentRepositoryInterface, blobStore blob.Store, logger *zap.Logger) *PlanHandler {
	return &PlanHandler{
		planRepo:       planRepo,
		attachmentRepo: attachmentRepo,
		blobStore:      blobStore,
		logger:         logger,
	}
}

// RegisterRoutes registers plan routes on the given router.
// The router should already have the /plans prefix.
func (h *PlanHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListPlans).Methods("GET")
	r.HandleFunc("", h.CreatePlan).Methods("POST")
	r.HandleFunc("/{id}", h.GetPlan).Methods("GET")
	r.HandleFunc("/{id}", h.UpdatePlan).Methods("PUT")
	r.HandleFunc("/{id}", h.DeletePlan).Methods("DELETE")
	r.HandleFunc("/{id}/attachments", h.ListAttachments).Methods("GET")
	r.HandleFunc("/{id}/attachments", h.UploadAttachment).Methods("POST")
	r.HandleFunc("/{id}/attachments/{attachmentID}", h.DeleteAttachment).Methods("DELETE")
}

// CreatePlanRequest represents a create plan request
type CreatePlanRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=500"`
	Content string `json:"content" validate:"max=100000"`
}

// UpdatePlanRequest represents an update plan request
type UpdatePlanRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// PlanResponse bundles a plan with its attachments for the detail endpoint
type PlanResponse struct {
	Plan        *models.Plan         `json:"plan"`
	Attachments []*models.Attachment `json:"attachments"`
}

// ListPlans lists all plans, most recently updated first
func (h *PlanHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.planRepo.List(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve plans")
		return
	}

	respondJSON(w, http.StatusOK, plans)
}

// CreatePlan creates a new plan
func (h *PlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range validationErrors {
				respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Validation failed: %s", fieldError.Error()))
				return
			}
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return
	}

	req.Title = validation.SanitizeText(req.Title)
	if req.Title == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Title is required and cannot be empty after sanitization")
		return
	}

	now := time.Now().UTC()
	plan := &models.Plan{
		ID:        uuid.New(),
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.planRepo.Create(r.Context(), plan); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create plan")
		return
	}

	respondJSON(w, http.StatusCreated, plan)
}

// GetPlan retrieves a plan with its attachments
func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid plan ID")
		return
	}

	ctx := r.Context()
	plan, err := h.planRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Plan not found")
		return
	}

	attachments, err := h.attachmentRepo.ListByPlan(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve attachments")
		return
	}
	if attachments == nil {
		attachments = []*models.Attachment{}
	}

	respondJSON(w, http.StatusOK, PlanResponse{Plan: plan, Attachments: attachments})
}

// UpdatePlan updates a plan's title and content
func (h *PlanHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid plan ID")
		return
	}

	ctx := r.Context()
	plan, err := h.planRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Plan not found")
		return
	}

	var req UpdatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if req.Title != nil {
		sanitized := validation.SanitizeText(*req.Title)
		if sanitized == "" {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Title cannot be empty after sanitization")
			return
		}
		if len(sanitized) > MaxPlanTitleLength {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Title exceeds maximum length of %d characters", MaxPlanTitleLength))
			return
		}
		plan.Title = sanitized
	}
	if req.Content != nil {
		if len(*req.Content) > MaxPlanContentLength {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Content exceeds maximum length of %d characters", MaxPlanContentLength))
			return
		}
		plan.Content = *req.Content
	}

	if err := h.planRepo.Update(ctx, plan); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update plan")
		return
	}

	respondJSON(w, http.StatusOK, plan)
}

// DeletePlan deletes a plan and its attachments. Blob cleanup is best effort:
// a row delete that succeeds with a blob delete that fails leaves an orphan
// file, never a dangling row.
func (h *PlanHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid plan ID")
		return
	}

	ctx := r.Context()
	attachments, err := h.attachmentRepo.ListByPlan(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve attachments")
		return
	}

	if err := h.planRepo.Delete(ctx, id); err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Plan not found")
		return
	}

	for _, a := range attachments {
		if err := h.blobStore.Delete(ctx, a.FileURL); err != nil {
			h.logger.Warn("attachment_blob_cleanup_failed",
				zap.Error(err),
				zap.String("attachment_id", a.ID.String()),
				zap.String("file_url", a.FileURL),
			)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListAttachments lists attachments for a plan
func (h *PlanHandler) ListAttachments(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid plan ID")
		return
	}

	attachments, err := h.attachmentRepo.ListByPlan(r.Context(), id)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve attachments")
		return
	}
	if attachments == nil {
		attachments = []*models.Attachment{}
	}

	respondJSON(w, http.StatusOK, attachments)
}

// UploadAttachment stores an uploaded file and records it against the plan.
// Expects multipart/form-data with the file under the "file" field.
func (h *PlanHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid plan ID")
		return
	}

	ctx := r.Context()
	if _, err := h.planRepo.GetByID(ctx, id); err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Plan not found")
		return
	}

	if err := r.ParseMultipartForm(MaxAttachmentSize); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Missing file field")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	if header.Size > MaxAttachmentSize {
		respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Attachment exceeds maximum size of %d bytes", MaxAttachmentSize))
		return
	}

	obj, err := h.blobStore.Put(ctx, header.Filename, file)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to store attachment")
		return
	}

	attachment := &models.Attachment{
		ID:        uuid.New(),
		PlanID:    id,
		FileName:  validation.SanitizeText(header.Filename),
		FileURL:   obj.URL,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.attachmentRepo.Create(ctx, attachment); err != nil {
		// Roll the blob back so a failed insert leaves nothing behind.
		if delErr := h.blobStore.Delete(ctx, obj.URL); delErr != nil {
			h.logger.Warn("attachment_blob_rollback_failed",
				zap.Error(delErr),
				zap.String("file_url", obj.URL),
			)
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to record attachment")
		return
	}

	respondJSON(w, http.StatusCreated, attachment)
}

// DeleteAttachment removes an attachment row and its blob
func (h *PlanHandler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	planID, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid plan ID")
		return
	}
	attachmentID, err := uuid.Parse(vars["attachmentID"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid attachment ID")
		return
	}

	ctx := r.Context()
	attachment, err := h.attachmentRepo.GetByID(ctx, attachmentID)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Attachment not found")
		return
	}
	if attachment.PlanID != planID {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Attachment does not belong to plan")
		return
	}

	if err := h.attachmentRepo.Delete(ctx, attachmentID); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete attachment")
		return
	}

	if err := h.blobStore.Delete(ctx, attachment.FileURL); err != nil {
		h.logger.Warn("attachment_blob_cleanup_failed",
			zap.Error(err),
			zap.String("attachment_id", attachment.ID.String()),
			zap.String("file_url", attachment.FileURL),
		)
	}

	w.WriteHeader(http.StatusNoContent)
}
