package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/ticketagent/marketplace/internal/usecase"
)

type internalJobLeagueRequest struct {
	LeagueID string `json:"league_id" validate:"required"`
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) RunImportLeagueJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunImportLeagueJob")
	defer span.End()

	if h.ingestionService == nil {
		writeError(ctx, w, fmt.Errorf("%w: ingestion service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeInternalJobLeagueRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	counters, err := h.ingestionService.ImportLeague(ctx, req.LeagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "run import league job failed", "league_id", req.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, counters)
}

func (h *Handler) RunSyncLeagueJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncLeagueJob")
	defer span.End()

	if h.fixtureSyncService == nil {
		writeError(ctx, w, fmt.Errorf("%w: fixture sync service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeInternalJobLeagueRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	run, err := h.fixtureSyncService.SyncLeague(ctx, req.LeagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "run sync league job failed", "league_id", req.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, run)
}

func (h *Handler) RunSupplierSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSupplierSyncJob")
	defer span.End()

	if h.supplierSyncService == nil {
		writeError(ctx, w, fmt.Errorf("%w: supplier sync service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	supplierSlug := r.PathValue("supplierSlug")
	run, err := h.supplierSyncService.Sync(ctx, supplierSlug)
	if err != nil {
		h.logger.WarnContext(ctx, "run supplier sync job failed", "supplier_slug", supplierSlug, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, run)
}

func (h *Handler) RunMinPriceJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunMinPriceJob")
	defer span.End()

	if h.minPriceService == nil {
		writeError(ctx, w, fmt.Errorf("%w: min price service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	changed, err := h.minPriceService.RecomputeUpcoming(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run min price job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"changedFixtures": changed})
}

func (h *Handler) RunLeagueMonthsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunLeagueMonthsJob")
	defer span.End()

	if h.leagueMonthsService == nil {
		writeError(ctx, w, fmt.Errorf("%w: league months service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	updated, err := h.leagueMonthsService.RecomputeAll(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run league months job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"updatedLeagues": updated})
}

func decodeInternalJobLeagueRequest(r *http.Request) (internalJobLeagueRequest, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req internalJobLeagueRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return internalJobLeagueRequest{}, nil
		}
		return internalJobLeagueRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}
