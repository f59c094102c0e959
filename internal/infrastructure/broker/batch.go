package broker

import (
	"context"
	"errors"
	"sync"
	"time"

	appingest "main/internal/application/service/ingest"
	market "main/internal/domain/entity/market"

	"github.com/sirupsen/logrus"
)

// BatchConfig controls batching thresholds for graph ingestion.
type BatchConfig struct {
	Size    int
	Timeout time.Duration
}

// BatchWriter buffers incoming updates and flushes them through the ingest
// service, grouped by ticker, when either the size or the timeout threshold
// is reached.
type BatchWriter struct {
	service *appingest.Service

	prices *batchBuffer[PriceUpdate]
	news   *batchBuffer[NewsUpdate]
}

// NewBatchWriter configures a batch writer for both update streams.
func NewBatchWriter(cfg BatchConfig, service *appingest.Service, logger *logrus.Logger) *BatchWriter {
	componentLogger := logger.WithField("component", "batch_writer")
	return &BatchWriter{
		service: service,
		prices: newBatchBuffer(cfg, func(ctx context.Context, batch []PriceUpdate) error {
			return flushPrices(ctx, service, batch)
		}, componentLogger.WithField("entity", "price")),
		news: newBatchBuffer(cfg, func(ctx context.Context, batch []NewsUpdate) error {
			return flushNews(ctx, service, batch)
		}, componentLogger.WithField("entity", "news")),
	}
}

func flushPrices(ctx context.Context, service *appingest.Service, batch []PriceUpdate) error {
	byTicker := make(map[string][]market.PricePoint)
	for _, update := range batch {
		byTicker[update.Ticker] = append(byTicker[update.Ticker], update.Point)
	}
	for ticker, points := range byTicker {
		if err := service.AddPricePoints(ctx, ticker, points); err != nil {
			return err
		}
	}
	return nil
}

func flushNews(ctx context.Context, service *appingest.Service, batch []NewsUpdate) error {
	byTicker := make(map[string][]market.NewsItem)
	for _, update := range batch {
		byTicker[update.Ticker] = append(byTicker[update.Ticker], update.Item)
	}
	for ticker, items := range byTicker {
		if err := service.AddNewsItems(ctx, ticker, items); err != nil {
			return err
		}
	}
	return nil
}

// Run sets the base context for asynchronous flush operations.
func (b *BatchWriter) Run(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	b.prices.setContext(ctx)
	b.news.setContext(ctx)
}

// Stop flushes remaining buffers using the provided context.
func (b *BatchWriter) Stop(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	b.prices.setContext(ctx)
	b.news.setContext(ctx)

	var errs []error
	if err := b.prices.drain(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := b.news.drain(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// AddPrice appends a price update to the price buffer.
func (b *BatchWriter) AddPrice(update *PriceUpdate) error {
	if update == nil {
		return errors.New("price update is nil")
	}
	copyUpdate := *update
	return b.prices.enqueue(copyUpdate)
}

// AddNews appends a news update to the news buffer.
func (b *BatchWriter) AddNews(update *NewsUpdate) error {
	if update == nil {
		return errors.New("news update is nil")
	}
	copyUpdate := *update
	return b.news.enqueue(copyUpdate)
}

type batchBuffer[T any] struct {
	cfg     BatchConfig
	mu      sync.Mutex
	items   []T
	timer   *time.Timer
	flushFn func(context.Context, []T) error
	logger  *logrus.Entry
	ctx     context.Context
}

func newBatchBuffer[T any](cfg BatchConfig, flushFn func(context.Context, []T) error, logger *logrus.Entry) *batchBuffer[T] {
	return &batchBuffer[T]{
		cfg:     cfg,
		flushFn: flushFn,
		logger:  logger,
	}
}

func (bb *batchBuffer[T]) setContext(ctx context.Context) {
	bb.mu.Lock()
	defer bb.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	bb.ctx = ctx
}

func (bb *batchBuffer[T]) enqueue(item T) error {
	bb.mu.Lock()
	ctx := bb.ctx
	if ctx == nil {
		bb.mu.Unlock()
		return errors.New("batch buffer is not running")
	}
	if err := ctx.Err(); err != nil {
		bb.mu.Unlock()
		return err
	}
	bb.items = append(bb.items, item)
	var batch []T
	limit := bb.cfg.Size
	if limit <= 0 {
		limit = 1
	}
	if len(bb.items) >= limit {
		batch = bb.takeBatchLocked()
	} else if bb.timer == nil && bb.cfg.Timeout > 0 {
		bb.startTimerLocked()
	}
	bb.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}
	return bb.flushWithContext(ctx, batch)
}

func (bb *batchBuffer[T]) startTimerLocked() {
	timeout := bb.cfg.Timeout
	if timeout <= 0 {
		return
	}
	bb.timer = time.AfterFunc(timeout, func() {
		batch := bb.takeBatch()
		if len(batch) == 0 {
			return
		}
		if err := bb.flushWithCurrentContext(batch); err != nil && bb.logger != nil {
			bb.logger.WithError(err).Warn("batch flush failed")
		}
	})
}

func (bb *batchBuffer[T]) takeBatch() []T {
	bb.mu.Lock()
	defer bb.mu.Unlock()
	return bb.takeBatchLocked()
}

func (bb *batchBuffer[T]) takeBatchLocked() []T {
	if bb.timer != nil {
		bb.timer.Stop()
		bb.timer = nil
	}
	if len(bb.items) == 0 {
		return nil
	}
	batch := make([]T, len(bb.items))
	copy(batch, bb.items)
	bb.items = bb.items[:0]
	return batch
}

func (bb *batchBuffer[T]) flushWithCurrentContext(batch []T) error {
	bb.mu.Lock()
	ctx := bb.ctx
	bb.mu.Unlock()
	return bb.flushWithContext(ctx, batch)
}

func (bb *batchBuffer[T]) flushWithContext(ctx context.Context, batch []T) error {
	if len(batch) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	if err := bb.flushFn(ctx, batch); err != nil {
		return err
	}
	if bb.logger != nil {
		bb.logger.WithFields(logrus.Fields{
			"size":    len(batch),
			"took_ms": time.Since(start).Milliseconds(),
		}).Debug("flushed batch")
	}
	return nil
}

func (bb *batchBuffer[T]) drain(ctx context.Context) error {
	batch := bb.takeBatch()
	if len(batch) == 0 {
		return nil
	}
	return bb.flushWithContext(ctx, batch)
}
