package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/namada-hub/block-hub/logging"
	"github.com/namada-hub/block-hub/metrics"
	"github.com/namada-hub/block-hub/service"
	"github.com/namada-hub/block-hub/util"
)

type BlockHandler struct {
	svc service.Block
}

func NewBlockHandler(svc service.Block) *BlockHandler {
	return &BlockHandler{svc: svc}
}

func (h *BlockHandler) Register(router *mux.Router) {
	router.Path("/block/height/{block_height}").Methods(http.MethodGet).HandlerFunc(h.GetBlockByHeight)
	router.Path("/block/hash/{block_hash}").Methods(http.MethodGet).HandlerFunc(h.GetBlockByHash)
	router.Path("/block/last").Methods(http.MethodGet).HandlerFunc(h.GetLastBlock)
}

func (h *BlockHandler) GetBlockByHash(w http.ResponseWriter, r *http.Request) {
	defer observe("block_by_hash", time.Now())
	logging.Logger.Debugf("calling /block/hash/%s", mux.Vars(r)["block_hash"])

	hash, err := util.DecodeHash(mux.Vars(r)["block_hash"])
	if err != nil {
		writeError(w, service.ErrInvalidRequest.Enrich("malformed block hash"))
		return
	}
	block, err := h.svc.GetBlockByHash(r.Context(), hash)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, block)
}

func (h *BlockHandler) GetBlockByHeight(w http.ResponseWriter, r *http.Request) {
	defer observe("block_by_height", time.Now())
	logging.Logger.Debugf("calling /block/height/%s", mux.Vars(r)["block_height"])

	height, err := util.StringToUint64(mux.Vars(r)["block_height"])
	if err != nil {
		writeError(w, service.ErrInvalidRequest.Enrich("malformed block height"))
		return
	}
	block, err := h.svc.GetBlockByHeight(r.Context(), height)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, block)
}

// GetLastBlock serves /block/last. Without a num parameter the response is a
// single enriched block object; with num it is an array, even for num=1.
func (h *BlockHandler) GetLastBlock(w http.ResponseWriter, r *http.Request) {
	defer observe("block_last", time.Now())
	logging.Logger.Debugf("calling /block/last")

	var num, offset *int
	query := r.URL.Query()
	if raw := query.Get("num"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, service.ErrInvalidRequest.Enrich("num must be a positive integer"))
			return
		}
		num = &n
	}
	if raw := query.Get("offset"); raw != "" {
		o, err := strconv.Atoi(raw)
		if err != nil || o < 0 {
			writeError(w, service.ErrInvalidRequest.Enrich("offset must be a non-negative integer"))
			return
		}
		offset = &o
	}

	result, err := h.svc.GetLatestBlocks(r.Context(), num, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func observe(route string, start time.Time) {
	metrics.BlockRequestDurationHistogram.WithLabelValues(route).Observe(time.Since(start).Seconds())
}
