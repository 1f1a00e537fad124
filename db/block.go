package db

import "time"

type Block struct {
	Id int64

	// BlockID is the content-addressed hash of the block, also the join key
	// into the tx_hashes table.
	BlockID []byte `gorm:"NOT NULL;index:idx_block_block_id;size:32"`
	Height  uint64 `gorm:"NOT NULL;uniqueIndex:idx_block_height"`

	ChainID         string
	Time            time.Time
	ProposerAddress string
	AppHash         []byte
	DataHash        []byte
	EvidenceHash    []byte
	LastBlockID     []byte

	LastCommitHash    []byte
	LastCommitRound   int32
	LastCommitHeight  uint64
	LastCommitBlockID []byte
}

func (*Block) TableName() string {
	return "blocks"
}
