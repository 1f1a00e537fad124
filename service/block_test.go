package service

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/namada-hub/block-hub/config"
	"github.com/namada-hub/block-hub/db"
	"github.com/namada-hub/block-hub/logging"
	"github.com/namada-hub/block-hub/txtype"
)

func TestMain(m *testing.M) {
	logging.InitLogger(&config.LogConfig{Level: "ERROR", UseConsoleLogger: true})
	os.Exit(m.Run())
}

type fakeDao struct {
	blocks   []*db.Block // sorted by height asc
	txHashes map[string][]*db.TxHash
	txs      map[string]*db.Transaction

	blockErr error
	txErr    error
}

func (f *fakeDao) GetBlockByID(blockID []byte) (*db.Block, error) {
	if f.blockErr != nil {
		return nil, f.blockErr
	}
	for _, b := range f.blocks {
		if bytes.Equal(b.BlockID, blockID) {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeDao) GetBlockByHeight(height uint64) (*db.Block, error) {
	if f.blockErr != nil {
		return nil, f.blockErr
	}
	for _, b := range f.blocks {
		if b.Height == height {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeDao) GetLatestBlock() (*db.Block, error) {
	if f.blockErr != nil {
		return nil, f.blockErr
	}
	if len(f.blocks) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return f.blocks[len(f.blocks)-1], nil
}

func (f *fakeDao) GetLatestBlocks(num int, offset int) ([]*db.Block, error) {
	if f.blockErr != nil {
		return nil, f.blockErr
	}
	desc := make([]*db.Block, len(f.blocks))
	copy(desc, f.blocks)
	sort.Slice(desc, func(i, j int) bool { return desc[i].Height > desc[j].Height })
	if offset >= len(desc) {
		return nil, nil
	}
	desc = desc[offset:]
	if num < len(desc) {
		desc = desc[:num]
	}
	return desc, nil
}

func (f *fakeDao) GetTxHashesByBlockID(blockID []byte) ([]*db.TxHash, error) {
	return f.txHashes[hex.EncodeToString(blockID)], nil
}

func (f *fakeDao) GetTxByHash(hash []byte) (*db.Transaction, error) {
	if f.txErr != nil {
		return nil, f.txErr
	}
	return f.txs[hex.EncodeToString(hash)], nil
}

type fakeEpochClient struct {
	epochs map[uint64]uint64
	err    error

	// bumped from concurrent enrich goroutines, so it must be atomic
	calls atomic.Int32
}

func (f *fakeEpochClient) EpochAtHeight(_ context.Context, height uint64) (uint64, error) {
	f.calls.Add(1)
	if f.err != nil {
		return 0, f.err
	}
	return f.epochs[height], nil
}

// fakeDecoder resolves kinds by tx hash.
type fakeDecoder struct {
	kinds map[string]txtype.TxKind
}

func (f *fakeDecoder) Decode(tx *db.Transaction, _ map[string]string) (txtype.TxKind, error) {
	kind, ok := f.kinds[hex.EncodeToString(tx.Hash)]
	if !ok {
		return txtype.Unknown, errors.New("undecodable payload")
	}
	return kind, nil
}

type fakeCache struct {
	values map[uint64]uint64
	hits   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[uint64]uint64{}}
}

func (f *fakeCache) Get(height uint64) (uint64, bool) {
	epoch, found := f.values[height]
	if found {
		f.hits++
	}
	return epoch, found
}

func (f *fakeCache) Set(height uint64, epoch uint64) {
	f.values[height] = epoch
}

func blockID(i byte) []byte { return bytes.Repeat([]byte{i}, 32) }
func txHash(i byte) []byte  { return bytes.Repeat([]byte{0xa0 + i}, 32) }

func newFixture() (*fakeDao, *fakeEpochClient, *fakeDecoder) {
	dao := &fakeDao{
		txHashes: map[string][]*db.TxHash{},
		txs:      map[string]*db.Transaction{},
	}
	for h := uint64(1); h <= 5; h++ {
		dao.blocks = append(dao.blocks, &db.Block{
			BlockID: blockID(byte(h)),
			Height:  h,
			ChainID: "test-chain",
		})
	}
	node := &fakeEpochClient{epochs: map[uint64]uint64{1: 0, 2: 0, 3: 1, 4: 1, 5: 2}}
	decoder := &fakeDecoder{kinds: map[string]txtype.TxKind{}}
	return dao, node, decoder
}

func addEntry(dao *fakeDao, block byte, tx byte, txType string) {
	key := hex.EncodeToString(blockID(block))
	dao.txHashes[key] = append(dao.txHashes[key], &db.TxHash{
		BlockID: blockID(block),
		Hash:    txHash(tx),
		TxType:  txType,
	})
}

func addRecord(dao *fakeDao, tx byte) {
	dao.txs[hex.EncodeToString(txHash(tx))] = &db.Transaction{Hash: txHash(tx)}
}

func TestGetBlockByHashOrderAndCount(t *testing.T) {
	dao, node, decoder := newFixture()
	for i := byte(0); i < 6; i++ {
		addEntry(dao, 3, i, txtype.TypeDecrypted)
		addRecord(dao, i)
		decoder.kinds[hex.EncodeToString(txHash(i))] = txtype.Transfer
	}
	svc := NewBlockService(dao, node, decoder, nil, nil)

	block, err := svc.GetBlockByHash(context.Background(), blockID(3))
	require.NoError(t, err)
	require.Len(t, block.TxHashes, 6)
	for i, summary := range block.TxHashes {
		require.Equal(t, txHash(byte(i)), []byte(summary.HashID))
		require.Equal(t, "Transfer", summary.TxType)
	}
	require.EqualValues(t, 0, node.calls.Load(), "by-hash path must not touch the node")
}

func TestClassifyWrapper(t *testing.T) {
	dao, node, decoder := newFixture()
	addEntry(dao, 1, 0, txtype.TypeWrapper)
	svc := NewBlockService(dao, node, decoder, nil, nil)

	block, err := svc.GetBlockByHeight(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, block.TxHashes, 1)
	require.Equal(t, "Wrapper", block.TxHashes[0].TxType)
}

func TestClassifyDecodedKinds(t *testing.T) {
	dao, node, decoder := newFixture()
	addEntry(dao, 1, 0, txtype.TypeDecrypted)
	addRecord(dao, 0)
	decoder.kinds[hex.EncodeToString(txHash(0))] = txtype.Bond

	// undecodable payload falls back to the generic label
	addEntry(dao, 1, 1, txtype.TypeDecrypted)
	addRecord(dao, 1)

	svc := NewBlockService(dao, node, decoder, nil, nil)
	block, err := svc.GetBlockByHeight(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, block.TxHashes, 2)
	require.Equal(t, "Bond", block.TxHashes[0].TxType)
	require.Equal(t, "Decrypted", block.TxHashes[1].TxType)
}

func TestMissingTxRecordOmitsEntry(t *testing.T) {
	dao, node, decoder := newFixture()
	addEntry(dao, 1, 0, txtype.TypeWrapper)
	addEntry(dao, 1, 1, txtype.TypeDecrypted) // no record persisted
	addEntry(dao, 1, 2, txtype.TypeWrapper)
	svc := NewBlockService(dao, node, decoder, nil, nil)

	block, err := svc.GetBlockByHeight(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, block.TxHashes, 2)
	require.Equal(t, txHash(0), []byte(block.TxHashes[0].HashID))
	require.Equal(t, txHash(2), []byte(block.TxHashes[1].HashID))
}

func TestGetBlockByHashNotFound(t *testing.T) {
	dao, node, decoder := newFixture()
	svc := NewBlockService(dao, node, decoder, nil, nil)

	_, err := svc.GetBlockByHash(context.Background(), blockID(0x42))
	require.ErrorIs(t, err, ErrBlockNotFound)
}

func TestStoreFailureIsFatal(t *testing.T) {
	dao, node, decoder := newFixture()
	dao.blockErr = errors.New("connection refused")
	svc := NewBlockService(dao, node, decoder, nil, nil)

	_, err := svc.GetBlockByHeight(context.Background(), 1)
	require.ErrorIs(t, err, ErrStoreFailure)
}

func TestTxFetchFailureIsFatal(t *testing.T) {
	dao, node, decoder := newFixture()
	addEntry(dao, 1, 0, txtype.TypeDecrypted)
	dao.txErr = errors.New("connection reset")
	svc := NewBlockService(dao, node, decoder, nil, nil)

	_, err := svc.GetBlockByHeight(context.Background(), 1)
	require.ErrorIs(t, err, ErrStoreFailure)
}

func TestLatestSingleAndOneElementListMatch(t *testing.T) {
	dao, node, decoder := newFixture()
	svc := NewBlockService(dao, node, decoder, nil, nil)

	single, err := svc.GetLatestBlocks(context.Background(), nil, nil)
	require.NoError(t, err)
	require.NotNil(t, single.Single)
	require.Nil(t, single.List)

	one := 1
	zero := 0
	list, err := svc.GetLatestBlocks(context.Background(), &one, &zero)
	require.NoError(t, err)
	require.Nil(t, list.Single)
	require.Len(t, list.List, 1)

	require.Equal(t, single.Single.BlockID, list.List[0].BlockID)
	require.Equal(t, single.Single.Header, list.List[0].Header)
	require.Equal(t, single.Single.Epoch, list.List[0].Epoch)
	require.Equal(t, uint64(5), single.Single.Header.Height)
	require.Equal(t, uint64(2), single.Single.Epoch)
}

func TestLatestWithOffset(t *testing.T) {
	dao, node, decoder := newFixture()
	svc := NewBlockService(dao, node, decoder, nil, nil)

	num, offset := 3, 2
	result, err := svc.GetLatestBlocks(context.Background(), &num, &offset)
	require.NoError(t, err)
	require.Len(t, result.List, 3)
	// 3rd through 5th most recent, most recent first
	require.Equal(t, uint64(3), result.List[0].Header.Height)
	require.Equal(t, uint64(2), result.List[1].Header.Height)
	require.Equal(t, uint64(1), result.List[2].Header.Height)
	for _, b := range result.List {
		require.Equal(t, node.epochs[b.Header.Height], b.Epoch)
	}
	require.EqualValues(t, 3, node.calls.Load(), "one epoch query per returned block")
}

func TestOracleFailureFailsLatest(t *testing.T) {
	dao, node, decoder := newFixture()
	node.err = errors.New("rpc timeout")
	svc := NewBlockService(dao, node, decoder, nil, nil)

	result, err := svc.GetLatestBlocks(context.Background(), nil, nil)
	require.ErrorIs(t, err, ErrOracleFailure)
	require.Nil(t, result)

	num := 2
	result, err = svc.GetLatestBlocks(context.Background(), &num, nil)
	require.ErrorIs(t, err, ErrOracleFailure)
	require.Nil(t, result)
}

func TestEpochCacheSkipsNode(t *testing.T) {
	dao, node, decoder := newFixture()
	epochCache := newFakeCache()
	svc := NewBlockService(dao, node, decoder, nil, epochCache)

	_, err := svc.GetLatestBlocks(context.Background(), nil, nil)
	require.NoError(t, err)
	require.EqualValues(t, 1, node.calls.Load())

	_, err = svc.GetLatestBlocks(context.Background(), nil, nil)
	require.NoError(t, err)
	require.EqualValues(t, 1, node.calls.Load(), "second lookup should hit the cache")
	require.Equal(t, 1, epochCache.hits)
}

func TestLatestLargeBlockFanOut(t *testing.T) {
	dao, node, decoder := newFixture()
	for i := 0; i < 40; i++ {
		tx := byte(i)
		addEntry(dao, 5, tx, txtype.TypeDecrypted)
		addRecord(dao, tx)
		decoder.kinds[hex.EncodeToString(txHash(tx))] = txtype.Kinds[i%len(txtype.Kinds)]
	}
	svc := NewBlockService(dao, node, decoder, nil, nil)

	result, err := svc.GetLatestBlocks(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, result.Single.TxHashes, 40)
	for i, summary := range result.Single.TxHashes {
		require.Equal(t, txHash(byte(i)), []byte(summary.HashID), fmt.Sprintf("entry %d out of order", i))
		require.Equal(t, txtype.Label(txtype.Kinds[i%len(txtype.Kinds)]), summary.TxType)
	}
}
