package db

// TxHash is one row of the per-block transaction index. Rows are written in
// block order and read back ordered by Id, which preserves the position of
// each transaction inside its block.
type TxHash struct {
	Id      int64
	BlockID []byte `gorm:"NOT NULL;index:idx_tx_hash_block_id;size:32"`
	Hash    []byte `gorm:"NOT NULL;size:32"`
	TxType  string `gorm:"NOT NULL;size:16"` // raw tag, "Wrapper" or "Decrypted"
}

func (*TxHash) TableName() string {
	return "tx_hashes"
}

// Transaction is the full persisted payload of a decrypted transaction.
// Code holds the hash of the wasm code section, Data the encoded inner
// payload.
type Transaction struct {
	Id         int64
	Hash       []byte `gorm:"NOT NULL;index:idx_transaction_hash;size:32"`
	BlockID    []byte `gorm:"size:32"`
	Code       []byte `gorm:"size:32"`
	Data       []byte
	ReturnCode int32
}

func (*Transaction) TableName() string {
	return "transactions"
}
