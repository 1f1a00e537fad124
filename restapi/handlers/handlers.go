package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/namada-hub/block-hub/logging"
	"github.com/namada-hub/block-hub/models"
	"github.com/namada-hub/block-hub/service"
)

func Error(err error) (int64, string) {
	switch e := err.(type) {
	case service.Err:
		return e.Code, e.Message
	case nil:
		return service.NoErr.Code, service.NoErr.Message
	default:
		return service.ErrStoreFailure.Code, err.Error()
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Logger.Errorf("failed to write response, err=%s", err.Error())
	}
}

func writeError(w http.ResponseWriter, err error) {
	code, message := Error(err)
	if code == service.ErrBlockNotFound.Code {
		// absent block is an explicit empty result, not an error payload
		writeJSON(w, http.StatusNotFound, nil)
		return
	}
	writeJSON(w, int(code), &models.Error{Code: code, Message: message})
}
