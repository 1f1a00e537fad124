package service

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/namada-hub/block-hub/cache"
	"github.com/namada-hub/block-hub/db"
	"github.com/namada-hub/block-hub/external"
	"github.com/namada-hub/block-hub/logging"
	"github.com/namada-hub/block-hub/metrics"
	"github.com/namada-hub/block-hub/models"
	"github.com/namada-hub/block-hub/txtype"
)

const (
	// per-request fan-out bounds, to avoid overwhelming the store and the
	// node with one expensive request
	classifyFanOut = 8
	enrichFanOut   = 4
)

type Block interface {
	GetBlockByHash(ctx context.Context, hash []byte) (*models.BlockInfo, error)
	GetBlockByHeight(ctx context.Context, height uint64) (*models.BlockInfo, error)
	GetLatestBlocks(ctx context.Context, num, offset *int) (*models.LatestResult, error)
}

type BlockService struct {
	blockDao   db.BlockDao
	nodeClient external.EpochClient
	decoder    txtype.Decoder
	checksums  map[string]string
	epochCache cache.Cache
}

func NewBlockService(blockDao db.BlockDao, nodeClient external.EpochClient, decoder txtype.Decoder,
	checksums map[string]string, epochCache cache.Cache) Block {
	return &BlockService{
		blockDao:   blockDao,
		nodeClient: nodeClient,
		decoder:    decoder,
		checksums:  checksums,
		epochCache: epochCache,
	}
}

// GetBlockByHash returns the classified view of the block with the given
// content hash. No epoch annotation on this path.
func (b *BlockService) GetBlockByHash(ctx context.Context, hash []byte) (*models.BlockInfo, error) {
	row, err := b.blockDao.GetBlockByID(hash)
	if err != nil {
		logging.Logger.Errorf("failed to get block by hash %x, err=%s", hash, err.Error())
		return nil, ErrStoreFailure
	}
	if row == nil {
		return nil, ErrBlockNotFound
	}
	return b.assembleBlock(ctx, row)
}

func (b *BlockService) GetBlockByHeight(ctx context.Context, height uint64) (*models.BlockInfo, error) {
	row, err := b.blockDao.GetBlockByHeight(height)
	if err != nil {
		logging.Logger.Errorf("failed to get block at height %d, err=%s", height, err.Error())
		return nil, ErrStoreFailure
	}
	if row == nil {
		return nil, ErrBlockNotFound
	}
	return b.assembleBlock(ctx, row)
}

// GetLatestBlocks serves the "latest" query. With num unset it returns the
// single most recent block; with num set it returns num blocks starting at
// offset (default 0), most recent first. Every returned block is annotated
// with the epoch active at its height, and an epoch lookup failure fails the
// whole request.
func (b *BlockService) GetLatestBlocks(ctx context.Context, num, offset *int) (*models.LatestResult, error) {
	if num == nil {
		row, err := b.blockDao.GetLatestBlock()
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrBlockNotFound
			}
			logging.Logger.Errorf("failed to get latest block, err=%s", err.Error())
			return nil, ErrStoreFailure
		}
		enriched, err := b.enrichBlock(ctx, row)
		if err != nil {
			return nil, err
		}
		return &models.LatestResult{Single: enriched}, nil
	}

	off := 0
	if offset != nil {
		off = *offset
	}
	rows, err := b.blockDao.GetLatestBlocks(*num, off)
	if err != nil {
		logging.Logger.Errorf("failed to get latest %d blocks at offset %d, err=%s", *num, off, err.Error())
		return nil, ErrStoreFailure
	}

	// enrich concurrently, blocks slotted back by recency index
	blocks := make([]*models.EnrichedBlock, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichFanOut)
	for i, row := range rows {
		i, row := i, row
		g.Go(func() error {
			enriched, err := b.enrichBlock(gctx, row)
			if err != nil {
				return err
			}
			blocks[i] = enriched
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &models.LatestResult{List: blocks}, nil
}

func (b *BlockService) enrichBlock(ctx context.Context, row *db.Block) (*models.EnrichedBlock, error) {
	block, err := b.assembleBlock(ctx, row)
	if err != nil {
		return nil, err
	}
	epoch, err := b.epochAtHeight(ctx, row.Height)
	if err != nil {
		logging.Logger.Errorf("failed to query epoch at height %d, err=%s", row.Height, err.Error())
		return nil, ErrOracleFailure
	}
	return &models.EnrichedBlock{BlockInfo: *block, Epoch: epoch}, nil
}

// assembleBlock builds the full view of one block row: every tx index entry
// classified, in persisted order.
func (b *BlockService) assembleBlock(ctx context.Context, row *db.Block) (*models.BlockInfo, error) {
	entries, err := b.blockDao.GetTxHashesByBlockID(row.BlockID)
	if err != nil {
		logging.Logger.Errorf("failed to get tx hashes of block %x, err=%s", row.BlockID, err.Error())
		return nil, ErrStoreFailure
	}

	// classification of distinct entries is independent, so it runs on a
	// bounded group; each result lands at its original index
	summaries := make([]*models.TxSummary, len(entries))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(classifyFanOut)
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			summary, err := b.classifyTx(entry)
			if err != nil {
				return err
			}
			summaries[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	txHashes := make([]models.TxSummary, 0, len(summaries))
	for _, summary := range summaries {
		if summary != nil {
			txHashes = append(txHashes, *summary)
		}
	}

	block := toBlockInfo(row)
	block.TxHashes = txHashes
	return block, nil
}

// classifyTx resolves the descriptive type of one tx index entry. A nil
// summary with a nil error means the entry refers to a tx record that is not
// persisted yet and is omitted from the block view. Decode failures degrade
// to the generic decrypted label, they never fail the block.
func (b *BlockService) classifyTx(entry *db.TxHash) (*models.TxSummary, error) {
	if entry.TxType != txtype.TypeDecrypted {
		return &models.TxSummary{TxType: txtype.TypeWrapper, HashID: models.HexBytes(entry.Hash)}, nil
	}

	tx, err := b.blockDao.GetTxByHash(entry.Hash)
	if err != nil {
		logging.Logger.Errorf("failed to get tx %x, err=%s", entry.Hash, err.Error())
		return nil, ErrStoreFailure
	}
	if tx == nil {
		// index row written before the tx record, drop the entry
		metrics.TxRecordsMissingCounter.Inc()
		logging.Logger.Debugf("tx record %x missing from store, omitting entry", entry.Hash)
		return nil, nil
	}

	label := txtype.TypeDecrypted
	kind, err := b.decoder.Decode(tx, b.checksums)
	if err != nil {
		metrics.TxDecodeFailuresCounter.Inc()
		logging.Logger.Debugf("failed to decode tx %x, err=%s", entry.Hash, err.Error())
	} else {
		label = txtype.Label(kind)
	}
	return &models.TxSummary{TxType: label, HashID: models.HexBytes(entry.Hash)}, nil
}

func (b *BlockService) epochAtHeight(ctx context.Context, height uint64) (uint64, error) {
	if b.epochCache != nil {
		if epoch, found := b.epochCache.Get(height); found {
			metrics.EpochCacheHitsCounter.Inc()
			return epoch, nil
		}
	}
	epoch, err := b.nodeClient.EpochAtHeight(ctx, height)
	if err != nil {
		return 0, err
	}
	if b.epochCache != nil {
		b.epochCache.Set(height, epoch)
	}
	return epoch, nil
}

func toBlockInfo(row *db.Block) *models.BlockInfo {
	return &models.BlockInfo{
		BlockID: models.HexBytes(row.BlockID),
		Header: models.Header{
			ChainID:         row.ChainID,
			Height:          row.Height,
			Time:            row.Time,
			ProposerAddress: row.ProposerAddress,
			AppHash:         models.HexBytes(row.AppHash),
			DataHash:        models.HexBytes(row.DataHash),
			EvidenceHash:    models.HexBytes(row.EvidenceHash),
			LastBlockID:     models.HexBytes(row.LastBlockID),
		},
		LastCommit: &models.LastCommit{
			Hash:    models.HexBytes(row.LastCommitHash),
			Height:  row.LastCommitHeight,
			Round:   row.LastCommitRound,
			BlockID: models.HexBytes(row.LastCommitBlockID),
		},
	}
}
