package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/abhisek/mathquest/internal/problemgen"
	"github.com/abhisek/mathquest/internal/schema"
	"github.com/abhisek/mathquest/internal/store"
)

const (
	maxBodyBytes         = 64 << 10
	defaultQuestionCount = 10
	defaultBattleLimit   = 20
	maxBattleLimit       = 100
)

func handleHealth(logger *zap.Logger, db Pinger) http.HandlerFunc {
	type result struct {
		Status string `json:"status"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]result{"sqlite": {Status: "ok"}}
		status := http.StatusOK

		if db == nil {
			checks["sqlite"] = result{Status: "disabled"}
		} else {
			ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				logger.Error("health check failed", zap.String("name", "sqlite"), zap.Error(err))
				checks["sqlite"] = result{Status: "error"}
				status = http.StatusServiceUnavailable
			}
		}

		writeJSON(w, status, checks)
	}
}

type generateRequest struct {
	OperandCount  problemgen.OperandCount `json:"operand_count"`
	MinValue      int                     `json:"min_value"`
	MaxValue      int                     `json:"max_value"`
	Operations    []string                `json:"operations"`
	QuestionCount *int                    `json:"question_count"`
}

type generateResponse struct {
	Questions []problemgen.Question `json:"questions"`
	Requested int                   `json:"requested"`
	Exhausted int                   `json:"exhausted"`
}

func handleGenerate(logger *zap.Logger, newGenerator func() *problemgen.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		if err := schema.Validate(schema.QuestionConfig, raw); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		var req generateRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		ops, err := problemgen.ParseOperations(req.Operations)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		qc := problemgen.QuestionConfig{
			OperandCount:  req.OperandCount,
			MinValue:      req.MinValue,
			MaxValue:      req.MaxValue,
			Operations:    ops,
			QuestionCount: defaultQuestionCount,
		}
		if req.QuestionCount != nil {
			qc.QuestionCount = *req.QuestionCount
		}
		if err := qc.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		resp := generateResponse{
			Questions: make([]problemgen.Question, 0, qc.QuestionCount),
			Requested: qc.QuestionCount,
		}
		for _, slot := range newGenerator().GenerateSlots(qc) {
			if slot.Exhausted() {
				resp.Exhausted++
				continue
			}
			resp.Questions = append(resp.Questions, *slot.Question)
		}
		if resp.Exhausted > 0 {
			logger.Debug("question slots exhausted",
				zap.Int("requested", resp.Requested),
				zap.Int("exhausted", resp.Exhausted))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func handleListBattles(repo store.BattleRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			writeError(w, http.StatusServiceUnavailable, "battle history unavailable")
			return
		}

		opts := store.QueryOpts{Limit: defaultBattleLimit}
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > maxBattleLimit {
				writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
				return
			}
			opts.Limit = n
		}
		if s := r.URL.Query().Get("before"); s != "" {
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil || n < 1 {
				writeError(w, http.StatusBadRequest, "before must be a positive sequence number")
				return
			}
			opts.Before = n
		}

		entries, err := repo.Recent(r.Context(), opts)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load battles")
			return
		}
		if entries == nil {
			entries = []store.BattleEntry{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"battles": entries})
	}
}

func handleGetBattle(repo store.BattleRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			writeError(w, http.StatusServiceUnavailable, "battle history unavailable")
			return
		}

		entry, err := repo.Get(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "battle not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load battle")
			return
		}
		writeJSON(w, http.StatusOK, entry)
	}
}

func handleBattleStats(repo store.BattleRepo) http.HandlerFunc {
	type response struct {
		store.BattleStats
		WinRate float64 `json:"win_rate"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			writeError(w, http.StatusServiceUnavailable, "battle history unavailable")
			return
		}

		stats, err := repo.Stats(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load stats")
			return
		}
		writeJSON(w, http.StatusOK, response{BattleStats: stats, WinRate: stats.WinRate()})
	}
}
