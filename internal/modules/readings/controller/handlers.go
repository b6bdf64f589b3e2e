package controller

import (
	"log/slog"
	"net/http"

	"sensorapi/internal/modules/readings/types"
	"sensorapi/internal/utils"
)

const msgNoData = "No data found"

func (c *readingsControllerImpl) handleLatest(w http.ResponseWriter, r *http.Request) {
	latest, err := c.repository.GetLatest(r.Context())
	if err != nil {
		slog.Error("latest: get latest reading failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if latest == nil {
		utils.WriteJSON(w, http.StatusOK, []types.NormalizedReading{})
		return
	}

	normalized, err := c.normalizer.Normalize(*latest)
	if err != nil {
		slog.Error("latest: normalize failed", "reading_id", latest.ID, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, []types.NormalizedReading{normalized})
}

func (c *readingsControllerImpl) handlePastReadings(w http.ResponseWriter, r *http.Request) {
	q, err := parsePastReadingsQuery(r, c.maxLimit)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	readings, err := c.repository.GetRange(r.Context(), q)
	if err != nil {
		slog.Error("past readings: get range failed", "limit", q.Limit, "start_date", q.StartDate, "end_date", q.EndDate, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(readings) == 0 {
		utils.WriteMessage(w, http.StatusOK, msgNoData)
		return
	}

	normalized, err := c.normalizer.NormalizeAll(readings)
	if err != nil {
		slog.Error("past readings: normalize failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, normalized)
}
