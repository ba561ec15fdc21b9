package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/notelab/braindump/pkg/domain/model"
	"github.com/notelab/braindump/pkg/domain/types"
	"github.com/notelab/braindump/pkg/usecase"
	"github.com/notelab/braindump/pkg/utils/errutil"
	"github.com/notelab/braindump/pkg/utils/safe"
)

func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return goerr.Wrap(err, "invalid request body")
	}
	return nil
}

func listEntriesHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries := uc.Entries.Entries()

		if d := r.URL.Query().Get("domain"); d != "" {
			domain := types.Domain(d)
			filtered := entries[:0]
			for _, e := range entries {
				if e.Domain == domain {
					filtered = append(filtered, e)
				}
			}
			entries = filtered
		}

		respondJSON(w, r, http.StatusOK, map[string]any{"entries": entries})
	}
}

func captureHandler(uc *usecase.UseCases) http.HandlerFunc {
	type request struct {
		Text string `json:"text"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Text == "" {
			http.Error(w, "text is required", http.StatusBadRequest)
			return
		}

		entry, err := uc.Entries.Capture(r.Context(), req.Text)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}

		respondJSON(w, r, http.StatusCreated, entry)
	}
}

func getEntryHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		entry, ok := uc.Entries.Get(id)
		if !ok {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(types.ErrNotFound, "entry not found", goerr.V("id", id)))
			return
		}
		respondJSON(w, r, http.StatusOK, entry)
	}
}

func updateEntryHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var entry model.Entry
		if err := decodeBody(r, &entry); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		entry.ID = chi.URLParam(r, "id")

		if err := uc.Entries.Update(r.Context(), &entry); err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}

		updated, _ := uc.Entries.Get(entry.ID)
		respondJSON(w, r, http.StatusOK, updated)
	}
}

func deleteEntryHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := uc.Entries.Remove(r.Context(), id); err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func reviewHandler(uc *usecase.UseCases) http.HandlerFunc {
	type request struct {
		Remembered *bool `json:"remembered"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		// Missing body or field counts as remembered
		remembered := true
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Remembered != nil {
			remembered = *req.Remembered
		}

		id := chi.URLParam(r, "id")
		entry, err := uc.Entries.RecordReview(r.Context(), id, remembered)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}
		respondJSON(w, r, http.StatusOK, entry)
	}
}

func statsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, r, http.StatusOK, uc.Entries.Stats())
	}
}

func syncHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := uc.Entries.Load(r.Context()); err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}
		respondJSON(w, r, http.StatusOK, map[string]any{
			"synced": true,
			"total":  uc.Entries.Stats().Total,
			"at":     uc.Entries.LastSync.Get(),
		})
	}
}

func statusHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := uc.Store().TestConnection(r.Context())
		if err != nil {
			// The status payload still describes the failure
			respondJSON(w, r, errutil.StatusOf(err), status)
			return
		}
		respondJSON(w, r, http.StatusOK, status)
	}
}

func historyHandler(uc *usecase.UseCases) http.HandlerFunc {
	const defaultLimit = 10

	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = n
		}

		commits, err := uc.Store().RecentCommits(r.Context(), limit)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}
		respondJSON(w, r, http.StatusOK, map[string]any{"commits": commits})
	}
}

func classifyHandler(uc *usecase.UseCases) http.HandlerFunc {
	type request struct {
		Text string `json:"text"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Text == "" {
			http.Error(w, "text is required", http.StatusBadRequest)
			return
		}

		respondJSON(w, r, http.StatusOK, uc.Classifier().Classify(r.Context(), req.Text))
	}
}

func hintHandler(uc *usecase.UseCases) http.HandlerFunc {
	type request struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Question == "" {
			http.Error(w, "question is required", http.StatusBadRequest)
			return
		}

		hint := uc.Classifier().Hint(r.Context(), req.Question, req.Answer)
		respondJSON(w, r, http.StatusOK, map[string]string{"hint": hint})
	}
}

func digestHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text, err := uc.Coaching.SendDigest(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}
		respondJSON(w, r, http.StatusOK, map[string]string{"digest": text})
	}
}

func listRegistrationsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, r, http.StatusOK, map[string]any{
			"registrations": uc.Coaching.Registrations(),
		})
	}
}

func registerHandler(uc *usecase.UseCases) http.HandlerFunc {
	type request struct {
		Channel string `json:"channel"`
		Cadence string `json:"cadence"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		reg, err := uc.Coaching.Register(req.Channel, req.Cadence)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		respondJSON(w, r, http.StatusCreated, reg)
	}
}

func unregisterHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := uc.Coaching.Unregister(id); err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
