package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mpetrenko/fieldstore/internal/logger"
	"github.com/mpetrenko/fieldstore/internal/utils"
	"github.com/mpetrenko/fieldstore/models"
)

// defaultChangesLimit bounds a changes-feed response when the client
// does not specify one.
const (
	defaultChangesLimit = 100
	maxChangesLimit     = 1000
)

func (h *Handler) changes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.changes").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	since, err := parseCursor(r.URL.Query().Get("since"))
	if err != nil {
		log.Err(err).Str("func", "*Handler.changes").Msg("invalid since cursor")
		http.Error(w, "invalid since cursor", http.StatusBadRequest)
		return
	}

	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		log.Err(err).Str("func", "*Handler.changes").Msg("invalid limit")
		http.Error(w, "invalid limit", http.StatusBadRequest)
		return
	}

	response, err := h.services.DocumentService.Changes(ctx, userID, since, limit)
	if err != nil {
		log.Err(err).Str("func", "*Handler.changes").Msg("error getting changes feed")
		http.Error(w, "error getting changes feed", statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) push(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.push").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	var pushRequest models.PushRequest
	if err := json.NewDecoder(r.Body).Decode(&pushRequest); err != nil {
		log.Err(err).Str("func", "*Handler.push").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	if len(pushRequest.Entries) == 0 {
		log.Error().Str("func", "*Handler.push").Msg("empty push batch")
		http.Error(w, "empty push batch", http.StatusBadRequest)
		return
	}

	response, err := h.services.DocumentService.Push(ctx, userID, pushRequest)
	if err != nil {
		log.Err(err).Str("func", "*Handler.push").Msg("error applying push batch")
		http.Error(w, "error applying push batch", statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

func parseCursor(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultChangesLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if limit <= 0 || limit > maxChangesLimit {
		limit = defaultChangesLimit
	}
	return limit, nil
}
