package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskhub/internal/config"
	"github.com/BuzzLyutic/taskhub/internal/model"
	"github.com/BuzzLyutic/taskhub/internal/mutate"
	"github.com/BuzzLyutic/taskhub/internal/query"
	"github.com/BuzzLyutic/taskhub/internal/repo"
	"github.com/BuzzLyutic/taskhub/internal/service"
	"github.com/BuzzLyutic/taskhub/pkg/respond"
)

type TaskHandler struct {
	service  *service.TaskService
	settings *config.SettingsFile
	logger   *zap.Logger
}

func NewTaskHandler(srv *service.TaskService, settings *config.SettingsFile, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service:  srv,
		settings: settings,
		logger:   logger,
	}
}

type ListResponse struct {
	Count        int          `json:"count"`
	ShowFilePath bool         `json:"show_file_path"`
	ScannedAt    time.Time    `json:"scanned_at"`
	Tasks        []model.Task `json:"tasks"`
}

type UpdateRequest struct {
	Document string `json:"document"`
	Line     int    `json:"line"`
	Field    string `json:"field"`
	Value    string `json:"value"`
}

type UpdateResponse struct {
	Document string `json:"document"`
	Line     int    `json:"line"`
	Text     string `json:"text"`
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params, err := query.ParseParams(q.Get("status"), q.Get("priority"), q.Get("quick"), q.Get("sort"))
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	settings, err := h.settings.Load()
	if err != nil {
		h.logger.Warn("failed to load settings, using defaults", zap.Error(err))
	}
	params.DueOnly = settings.ShowDueOnly

	tasks := h.service.Query(params)
	respond.JSON(w, r, http.StatusOK, ListResponse{
		Count:        len(tasks),
		ShowFilePath: settings.ShowFilePath,
		ScannedAt:    h.service.ScannedAt(),
		Tasks:        tasks,
	})
}

func (h *TaskHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ran, err := h.service.Refresh(r.Context())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	code := http.StatusOK
	if !ran {
		code = http.StatusAccepted
	}
	respond.JSON(w, r, code, map[string]int{"count": len(h.service.Tasks())})
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, "empty request body")
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}

	text, err := h.service.ChangeTask(r.Context(), req.Document, req.Line, model.Field(req.Field), req.Value)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, UpdateResponse{
		Document: req.Document,
		Line:     req.Line,
		Text:     text,
	})
}

func (h *TaskHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, mutate.ErrLineMismatch), errors.Is(err, service.ErrStaleTask):
		respond.Error(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, mutate.ErrUnknownField), errors.Is(err, mutate.ErrInvalidValue):
		respond.Error(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrValidation):
		respond.Error(w, r, http.StatusBadRequest, "validation error")
	case errors.Is(err, repo.ErrWrite):
		h.logger.Error("write failed", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "write failed")
	default:
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}
