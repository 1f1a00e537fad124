package models

import (
	"encoding/json"
	"time"

	"github.com/namada-hub/block-hub/util"
)

// HexBytes marshals raw hash bytes as a lowercase hex string.
type HexBytes []byte

func (h HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(util.EncodeHash(h))
}

func (h *HexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	bz, err := util.DecodeHash(s)
	if err != nil {
		return err
	}
	*h = bz
	return nil
}

type Header struct {
	ChainID         string    `json:"chain_id"`
	Height          uint64    `json:"height"`
	Time            time.Time `json:"time"`
	ProposerAddress string    `json:"proposer_address"`
	AppHash         HexBytes  `json:"app_hash"`
	DataHash        HexBytes  `json:"data_hash"`
	EvidenceHash    HexBytes  `json:"evidence_hash"`
	LastBlockID     HexBytes  `json:"last_block_id"`
}

type LastCommit struct {
	Hash    HexBytes `json:"hash"`
	Height  uint64   `json:"height"`
	Round   int32    `json:"round"`
	BlockID HexBytes `json:"block_id"`
}

// TxSummary is the classified form of one tx index row.
type TxSummary struct {
	TxType string   `json:"tx_type"`
	HashID HexBytes `json:"hash_id"`
}

type BlockInfo struct {
	BlockID    HexBytes    `json:"block_id"`
	Header     Header      `json:"header"`
	LastCommit *LastCommit `json:"last_commit"`
	TxHashes   []TxSummary `json:"tx_hashes"`
}

type EnrichedBlock struct {
	BlockInfo
	Epoch uint64 `json:"epoch"`
}

// LatestResult is the answer to a latest-blocks query. Exactly one of the
// two fields is set: Single when the caller asked for no count, List when a
// count was supplied (even a count of one). On the wire it serializes to the
// bare object or the bare array, so callers of the JSON API see the same
// shapes the service has always produced.
type LatestResult struct {
	Single *EnrichedBlock
	List   []*EnrichedBlock
}

func (r LatestResult) MarshalJSON() ([]byte, error) {
	if r.Single != nil {
		return json.Marshal(r.Single)
	}
	if r.List == nil {
		return json.Marshal([]*EnrichedBlock{})
	}
	return json.Marshal(r.List)
}

type Error struct {
	Code    int64  `json:"code"`
	Message string `json:"error"`
}
