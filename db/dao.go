package db

import (
	"errors"

	"gorm.io/gorm"
)

type BlockDao interface {
	BlockDB
	TxDB
}

type BlockSvcDB struct {
	db *gorm.DB
}

func NewBlockSvcDB(db *gorm.DB) BlockDao {
	return &BlockSvcDB{
		db,
	}
}

type BlockDB interface {
	GetBlockByID(blockID []byte) (*Block, error)
	GetBlockByHeight(height uint64) (*Block, error)
	GetLatestBlock() (*Block, error)
	GetLatestBlocks(num int, offset int) ([]*Block, error)
}

// GetBlockByID looks a block up by its content hash. A nil block with a nil
// error means the block is not in the store.
func (d *BlockSvcDB) GetBlockByID(blockID []byte) (*Block, error) {
	block := Block{}
	err := d.db.Model(Block{}).Where("block_id = ?", blockID).Take(&block).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &block, nil
}

func (d *BlockSvcDB) GetBlockByHeight(height uint64) (*Block, error) {
	block := Block{}
	err := d.db.Model(Block{}).Where("height = ?", height).Take(&block).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &block, nil
}

// GetLatestBlock fails with gorm.ErrRecordNotFound when the store is empty.
func (d *BlockSvcDB) GetLatestBlock() (*Block, error) {
	block := Block{}
	err := d.db.Model(Block{}).Order("height desc").Take(&block).Error
	if err != nil {
		return nil, err
	}
	return &block, nil
}

func (d *BlockSvcDB) GetLatestBlocks(num int, offset int) ([]*Block, error) {
	blocks := make([]*Block, 0)
	err := d.db.Model(Block{}).Order("height desc").Limit(num).Offset(offset).Find(&blocks).Error
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

type TxDB interface {
	GetTxHashesByBlockID(blockID []byte) ([]*TxHash, error)
	GetTxByHash(hash []byte) (*Transaction, error)
}

func (d *BlockSvcDB) GetTxHashesByBlockID(blockID []byte) ([]*TxHash, error) {
	txHashes := make([]*TxHash, 0)
	if err := d.db.Where("block_id = ?", blockID).Order("id asc").Find(&txHashes).Error; err != nil {
		return nil, err
	}
	return txHashes, nil
}

func (d *BlockSvcDB) GetTxByHash(hash []byte) (*Transaction, error) {
	tx := Transaction{}
	err := d.db.Model(Transaction{}).Where("hash = ?", hash).Take(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tx, nil
}

func AutoMigrateDB(db *gorm.DB) {
	var err error
	if err = db.AutoMigrate(&Block{}); err != nil {
		panic(err)
	}
	if err = db.AutoMigrate(&TxHash{}); err != nil {
		panic(err)
	}
	if err = db.AutoMigrate(&Transaction{}); err != nil {
		panic(err)
	}
}
