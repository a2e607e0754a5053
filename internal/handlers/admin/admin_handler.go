package admin

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/msv-stihl/limpeza/internal/middleware"
	"github.com/msv-stihl/limpeza/internal/models"
	"github.com/msv-stihl/limpeza/internal/pkg/response"
	"github.com/msv-stihl/limpeza/internal/services/schedule"
	"github.com/msv-stihl/limpeza/internal/services/status"
)

const maxUploadSize = 32 << 20

type Rebuilder interface {
	Run(ctx context.Context) (models.ShiftReport, error)
}

type ReadingsWriter interface {
	UpsertAll(ctx context.Context, readings []models.ChecklistReading) (int, error)
}

type StatusFunc func(ctx context.Context) status.Report

type AdminHandler struct {
	rebuilder Rebuilder
	readings  ReadingsWriter
	status    StatusFunc
	loc       *time.Location
	logger    *zap.Logger
}

func NewAdminHandler(rebuilder Rebuilder, readings ReadingsWriter, status StatusFunc, loc *time.Location, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		rebuilder: rebuilder,
		readings:  readings,
		status:    status,
		loc:       loc,
		logger:    logger,
	}
}

// RebuildHandler builds and publishes the report now.
func (h *AdminHandler) RebuildHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UsernameFromContext(r.Context())
	report, err := h.rebuilder.Run(r.Context())
	if err != nil {
		h.logger.Error("manual rebuild failed", zap.String("user", user), zap.Error(err))
		response.RespondWithError(w, http.StatusInternalServerError, "Falha ao gerar relatório")
		return
	}
	h.logger.Info("manual rebuild", zap.String("user", user))
	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"shifts": report.Counts(),
	})
}

// UploadReadingsHandler stores the readings of an uploaded checklist export.
func (h *AdminHandler) UploadReadingsHandler(w http.ResponseWriter, r *http.Request) {
	if h.readings == nil {
		response.RespondWithError(w, http.StatusServiceUnavailable, "Banco de dados não configurado")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		response.RespondWithError(w, http.StatusBadRequest, "Arquivo não encontrado")
		return
	}
	defer file.Close()

	readings, err := schedule.ReadExport(file, h.loc)
	if err != nil {
		response.RespondWithError(w, http.StatusBadRequest, "Formato de Excel inválido")
		return
	}
	if len(readings) == 0 {
		response.RespondWithError(w, http.StatusBadRequest, "Planilha sem registros")
		return
	}

	n, err := h.readings.UpsertAll(r.Context(), readings)
	if err != nil {
		h.logger.Error("store readings", zap.Error(err))
		response.RespondWithError(w, http.StatusInternalServerError, "Erro ao salvar registros")
		return
	}
	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"stored": n,
	})
}

func (h *AdminHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	response.RespondWithJSON(w, http.StatusOK, h.status(r.Context()))
}
