package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"ManaLedger/internal/config"
	"ManaLedger/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore 可编排失败序列的存储替身
type fakeStore struct {
	calls    [][]*model.CardData
	errs     []error // 按调用序号返回的错误，超出部分视为成功
	cleared  int
	clearErr error
}

func (f *fakeStore) UpsertBatch(_ context.Context, rows []*model.CardData) error {
	f.calls = append(f.calls, rows)
	idx := len(f.calls) - 1
	if idx < len(f.errs) {
		return f.errs[idx]
	}
	return nil
}

func (f *fakeStore) ClearAllData(_ context.Context) error {
	f.cleared++
	return f.clearErr
}

type fakeCardProvider struct {
	cards []model.RawCardRecord
	err   error
}

func (f *fakeCardProvider) GetName() string { return "FakeCatalog" }

func (f *fakeCardProvider) FetchBulkMetadata(_ context.Context) (*model.BulkDataItem, error) {
	return &model.BulkDataItem{Type: "unique_artwork", DownloadURI: "http://example.test/bulk"}, nil
}

func (f *fakeCardProvider) FetchCards(_ context.Context) ([]model.RawCardRecord, error) {
	return f.cards, f.err
}

type fakePriceProvider struct {
	prices []model.RawPriceRecord
	err    error
}

func (f *fakePriceProvider) GetName() string { return "FakePrices" }

func (f *fakePriceProvider) FetchPrices(_ context.Context) ([]model.RawPriceRecord, error) {
	return f.prices, f.err
}

func testImportConfig() config.ImportConfig {
	// 退避与批间停顿压到1ms，测试不真睡
	return config.ImportConfig{
		BatchSize:     500,
		BatchDelayMs:  1,
		MaxRetries:    3,
		BackoffBaseMs: 1,
	}
}

func newImportService(store *fakeStore, cards *fakeCardProvider, prices *fakePriceProvider) (*ImportService, *RunStatusStore) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	status := NewRunStatusStore()
	return NewImportService(cards, prices, store, status, testImportConfig(), logger), status
}

func makeRows(n int) []*model.CardData {
	rows := make([]*model.CardData, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, &model.CardData{ID: fmt.Sprintf("card-%d", i)})
	}
	return rows
}

var errTimeout = errors.New("canceling statement due to statement timeout")

// N行按批大小B分块：ceil(N/B)次写入，除末批外每批满B行
func TestImportBatchPartitioning(t *testing.T) {
	store := &fakeStore{}
	svc, _ := newImportService(store, &fakeCardProvider{}, &fakePriceProvider{})

	result := svc.ImportInBatches(context.Background(), "card_data", makeRows(1050))

	require.Len(t, store.calls, 3)
	assert.Len(t, store.calls[0], 500)
	assert.Len(t, store.calls[1], 500)
	assert.Len(t, store.calls[2], 50)
	assert.Equal(t, 1050, result.Imported)
	assert.Equal(t, 0, result.Errors)
}

func TestImportEmptyInput(t *testing.T) {
	store := &fakeStore{}
	svc, _ := newImportService(store, &fakeCardProvider{}, &fakePriceProvider{})

	result := svc.ImportInBatches(context.Background(), "card_data", nil)
	assert.Empty(t, store.calls)
	assert.Equal(t, ImportResult{}, result)
}

// 单批永久失败不中止整次加载：后续批次照常处理，失败只进计数器
func TestImportPartialFailureContainment(t *testing.T) {
	store := &fakeStore{errs: []error{nil, errors.New("violates not-null constraint"), nil}}
	svc, _ := newImportService(store, &fakeCardProvider{}, &fakePriceProvider{})

	result := svc.ImportInBatches(context.Background(), "card_data", makeRows(1050))

	require.Len(t, store.calls, 3) // 第2批失败后第3批仍被尝试
	assert.Equal(t, 550, result.Imported)
	assert.Equal(t, 1, result.Errors)
}

// 超时2次第3次成功：计入imported而非errors
func TestImportRetryTimeoutThenSuccess(t *testing.T) {
	store := &fakeStore{errs: []error{errTimeout, errTimeout, nil}}
	svc, _ := newImportService(store, &fakeCardProvider{}, &fakePriceProvider{})

	result := svc.ImportInBatches(context.Background(), "card_data", makeRows(10))

	require.Len(t, store.calls, 3)
	assert.Equal(t, 10, result.Imported)
	assert.Equal(t, 0, result.Errors)
}

// 3次全超时：重试耗尽计入errors，不再有第4次尝试
func TestImportRetriesExhausted(t *testing.T) {
	store := &fakeStore{errs: []error{errTimeout, errTimeout, errTimeout}}
	svc, _ := newImportService(store, &fakeCardProvider{}, &fakePriceProvider{})

	result := svc.ImportInBatches(context.Background(), "card_data", makeRows(10))

	require.Len(t, store.calls, 3)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 1, result.Errors)
}

// 非超时类错误不重试，立即记为该批失败
func TestImportPermanentErrorNoRetry(t *testing.T) {
	store := &fakeStore{errs: []error{errors.New("duplicate key value")}}
	svc, _ := newImportService(store, &fakeCardProvider{}, &fakePriceProvider{})

	result := svc.ImportInBatches(context.Background(), "card_data", makeRows(10))

	require.Len(t, store.calls, 1)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 1, result.Errors)
}

func TestIsTimeoutError(t *testing.T) {
	assert.True(t, isTimeoutError(errTimeout))
	assert.True(t, isTimeoutError(errors.New("timeout")))
	assert.True(t, isTimeoutError(context.DeadlineExceeded))
	assert.False(t, isTimeoutError(errors.New("constraint violation")))
	assert.False(t, isTimeoutError(nil))
}

// 端到端：2张卡+1条价格→卡a挂价、卡b无价，1次upsert，imported=2
func TestSyncEndToEnd(t *testing.T) {
	id1 := int64(1)
	id2 := int64(2)
	avg := 5.0
	cards := &fakeCardProvider{cards: []model.RawCardRecord{
		{ID: "a", CardmarketID: &id1, Name: "Card A", SetType: "core", TypeLine: "Instant"},
		{ID: "b", CardmarketID: &id2, Name: "Card B", SetType: "core", TypeLine: "Sorcery"},
	}}
	prices := &fakePriceProvider{prices: []model.RawPriceRecord{
		{IDProduct: json.Number("1"), Avg: &avg},
	}}
	store := &fakeStore{}
	svc, status := newImportService(store, cards, prices)

	status.Begin("run-1", false)
	result, err := svc.Sync(context.Background(), "run-1", false)
	require.NoError(t, err)

	assert.Equal(t, 2, result.ImportResult.Imported)
	assert.Equal(t, 0, result.ImportResult.Errors)
	assert.Equal(t, 0, result.TotalErrors)
	assert.Equal(t, 0, store.cleared) // clearFirst=false 跳过清表

	require.Len(t, store.calls, 1)
	require.Len(t, store.calls[0], 2)

	var cardA model.CanonicalCard
	require.NoError(t, json.Unmarshal(store.calls[0][0].Data, &cardA))
	require.NotNil(t, cardA.Price)
	require.NotNil(t, cardA.Price.Avg)
	assert.Equal(t, 5.0, *cardA.Price.Avg)

	var cardB model.CanonicalCard
	require.NoError(t, json.Unmarshal(store.calls[0][1].Data, &cardB))
	assert.Nil(t, cardB.Price)

	// 标量列与文档一致
	assert.Equal(t, "a", store.calls[0][0].ID)
	assert.Equal(t, "Card A", store.calls[0][0].Name)
	require.NotNil(t, store.calls[0][0].CardmarketID)
	assert.Equal(t, int64(1), *store.calls[0][0].CardmarketID)

	run, ok := status.Get("run-1")
	require.True(t, ok)
	assert.Equal(t, PhaseLoading, run.Phase) // 终态由触发方标记
	assert.True(t, result.Duration >= 0)
}

func TestSyncClearFirst(t *testing.T) {
	store := &fakeStore{}
	svc, status := newImportService(store, &fakeCardProvider{}, &fakePriceProvider{})

	status.Begin("run-2", true)
	_, err := svc.Sync(context.Background(), "run-2", true)
	require.NoError(t, err)
	assert.Equal(t, 1, store.cleared)
}

// 清表失败是整次同步的致命错误
func TestSyncClearFailureIsFatal(t *testing.T) {
	store := &fakeStore{clearErr: errors.New("permission denied")}
	svc, status := newImportService(store, &fakeCardProvider{}, &fakePriceProvider{})

	status.Begin("run-3", true)
	_, err := svc.Sync(context.Background(), "run-3", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied") // 原始错误信息保留
	assert.Empty(t, store.calls)
}

// 数据源不可达是整次同步的致命错误，原始错误信息向上传播
func TestSyncProviderFailureIsFatal(t *testing.T) {
	store := &fakeStore{}
	cards := &fakeCardProvider{err: errors.New("connection refused")}
	svc, status := newImportService(store, cards, &fakePriceProvider{})

	status.Begin("run-4", false)
	_, err := svc.Sync(context.Background(), "run-4", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Empty(t, store.calls)
}
