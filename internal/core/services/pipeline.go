package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
	"github.com/custodia-labs/docvault/internal/core/ports/driving"
	"github.com/custodia-labs/docvault/internal/logger"
	"github.com/custodia-labs/docvault/internal/metrics"
	"github.com/custodia-labs/docvault/internal/postprocessors/chunker"
)

var log = logger.With("pipeline")

// Ensure Pipeline implements the interface.
var _ driving.PipelineService = (*Pipeline)(nil)

// Pipeline is the retrieval-augmented generation orchestrator.
// A single instance is shared by every caller.
type Pipeline struct {
	factory   driven.AIFactory
	openStore driven.StoreOpener
	grounding *Grounding
	now       func() time.Time

	group singleflight.Group
	docs  docLocks

	// mu guards every field below.
	mu          sync.RWMutex
	initialized bool
	settings    domain.AppSettings
	store       driven.VectorStore
	embedder    driven.EmbeddingService
	llm         driven.LLMService
	registry    *Registry
}

// NewPipeline creates an uninitialized pipeline. prompts may be nil.
func NewPipeline(factory driven.AIFactory, openStore driven.StoreOpener, prompts driven.PromptStore) *Pipeline {
	return &Pipeline{
		factory:   factory,
		openStore: openStore,
		grounding: NewGrounding(prompts),
		now:       time.Now,
		registry:  NewRegistry(),
	}
}

// Initialize validates settings, opens the vector store, builds the model
// clients and reconciles the registry. Concurrent calls with the same
// settings share one run. Calling it again with equal settings is a no-op.
func (p *Pipeline) Initialize(ctx context.Context, settings domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	// The shared run outlives any one caller; each caller waits on its own ctx.
	key := fmt.Sprintf("%#v", settings)
	ch := p.group.DoChan(key, func() (any, error) {
		return nil, p.initialize(context.WithoutCancel(ctx), settings)
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

func (p *Pipeline) initialize(ctx context.Context, settings domain.AppSettings) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized && p.settings == settings {
		return nil
	}

	embedder, llm := p.embedder, p.llm
	rebuildClients := !p.initialized || !p.settings.SameAIConfig(settings)
	if rebuildClients {
		var err error
		embedder, err = p.factory.Embedding(settings)
		if err != nil {
			return fmt.Errorf("create embedding client: %w", err)
		}
		llm, err = p.factory.LLM(settings)
		if err != nil {
			_ = embedder.Close()
			return fmt.Errorf("create llm client: %w", err)
		}
	}

	closeNewClients := func() {
		if rebuildClients {
			_ = embedder.Close()
			_ = llm.Close()
		}
	}

	store := p.store
	reopened := store == nil || settings.DataDir != p.settings.DataDir
	if reopened {
		var err error
		store, err = p.openStore(settings.DataDir)
		if err != nil {
			closeNewClients()
			return fmt.Errorf("%w: %v", domain.ErrVectorStoreUnavailable, err)
		}
	}

	records, err := store.ListAll(ctx)
	if err != nil {
		if reopened {
			_ = store.Close()
		}
		closeNewClients()
		return fmt.Errorf("%w: list items: %v", domain.ErrVectorStoreUnavailable, err)
	}

	registry := NewRegistry()
	if skipped := registry.Reconcile(records, p.now()); skipped > 0 {
		log.Warn("skipped %d vector items without a document id", skipped)
	}
	if !reopened {
		registry.Carry(p.registry)
	}

	if reopened && p.store != nil {
		if err := p.store.Close(); err != nil {
			log.Warn("closing previous vector store: %v", err)
		}
	}
	if rebuildClients && p.initialized {
		_ = p.embedder.Close()
		_ = p.llm.Close()
	}

	p.store = store
	p.embedder = embedder
	p.llm = llm
	p.registry = registry
	p.settings = settings
	p.initialized = true
	p.grounding.Reload()

	metrics.DocumentsLoaded.Set(float64(registry.Len()))
	log.Info("initialized: %d documents, %d chunks (provider=%s, embed=%s, llm=%s)",
		registry.Len(), len(records), settings.Provider, settings.EmbedModel, settings.LLMModel)
	return nil
}

// Settings returns the settings of the last successful Initialize.
func (p *Pipeline) Settings() (domain.AppSettings, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings, p.initialized
}

// AddDocument chunks, embeds and indexes a parsed document. Chunks that
// fail to embed or insert are logged and skipped. A document id that is
// already loaded is removed first. Calls for one id run one at a time.
func (p *Pipeline) AddDocument(
	ctx context.Context,
	doc *domain.ParsedDocument,
	settings domain.AppSettings,
) (domain.FileInfo, error) {
	if doc == nil || doc.ID == "" {
		return domain.FileInfo{}, fmt.Errorf("%w: document is required", domain.ErrInvalidInput)
	}
	if err := settings.Validate(); err != nil {
		return domain.FileInfo{}, err
	}

	unlock := p.docs.lock(doc.ID)
	defer unlock()

	p.mu.RLock()
	if !p.initialized {
		p.mu.RUnlock()
		return domain.FileInfo{}, domain.ErrNotInitialized
	}
	store, embedder := p.store, p.embedder
	loaded := p.registry.Has(doc.ID)
	p.mu.RUnlock()

	if loaded {
		if err := p.removeDocument(ctx, doc.ID); err != nil {
			return domain.FileInfo{}, err
		}
	}

	proc := chunker.New(
		chunker.WithChunkSize(settings.ChunkSize),
		chunker.WithOverlap(settings.ChunkOverlap),
	)
	chunks, err := proc.Process(ctx, doc)
	if err != nil {
		return domain.FileInfo{}, err
	}

	items, err := p.embedAndInsert(ctx, store, embedder, chunks, settings)
	if err != nil {
		p.deleteItems(context.WithoutCancel(ctx), store, itemIDs(items))
		return domain.FileInfo{}, err
	}

	if len(items) == 0 && len(chunks) > 0 {
		log.Warn("%s: none of %d chunks could be indexed", doc.FileName, len(chunks))
	}

	info := domain.FileInfo{
		ID:         doc.ID,
		FileName:   doc.FileName,
		FilePath:   doc.FilePath,
		TotalPages: doc.TotalPages,
		WordCount:  doc.WordCount,
		LoadedAt:   doc.LoadedAt,
	}
	if info.LoadedAt.IsZero() {
		info.LoadedAt = p.now()
	}

	p.mu.Lock()
	stale := p.registry.Add(info, items)
	info, _ = p.registry.File(doc.ID)
	count := p.registry.Len()
	p.mu.Unlock()

	if len(stale) > 0 {
		log.Warn("%s: replaced %d items registered meanwhile", doc.FileName, len(stale))
		p.deleteItems(context.WithoutCancel(ctx), store, stale)
	}

	metrics.DocumentsLoaded.Set(float64(count))
	log.Info("added %s: %d/%d chunks indexed", doc.FileName, info.ChunkCount, len(chunks))
	return info, nil
}

// embedAndInsert embeds chunks with bounded concurrency and inserts each
// one under a fresh item id. Per-chunk failures are skipped. The returned
// items keep chunk order. An error is only returned when ctx ends.
func (p *Pipeline) embedAndInsert(
	ctx context.Context,
	store driven.VectorStore,
	embedder driven.EmbeddingService,
	chunks []domain.Chunk,
	settings domain.AppSettings,
) ([]indexedChunk, error) {
	var limiter *rate.Limiter
	if settings.EmbedRatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(settings.EmbedRatePerSecond), 1)
	}

	results := make([]*indexedChunk, len(chunks))

	var g errgroup.Group
	g.SetLimit(max(settings.EmbedConcurrency, 1))

	for i, c := range chunks {
		g.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					return err
				}
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			vec, err := p.embedChunk(ctx, embedder, c.Text, settings.EmbedTimeout)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Warn("skipping chunk %d of %s: %v", c.ChunkIndex, c.FileName, err)
				metrics.ChunkEmbedFailuresTotal.Inc()
				return nil
			}

			itemID := uuid.New().String()
			if err := store.Insert(ctx, itemID, vec, c); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Warn("skipping chunk %d of %s: insert: %v", c.ChunkIndex, c.FileName, err)
				metrics.ChunkEmbedFailuresTotal.Inc()
				return nil
			}

			metrics.ChunksIndexedTotal.Inc()
			results[i] = &indexedChunk{itemID: itemID, chunk: c}
			return nil
		})
	}

	err := g.Wait()

	items := make([]indexedChunk, 0, len(chunks))
	for _, r := range results {
		if r != nil {
			items = append(items, *r)
		}
	}
	return items, err
}

func (p *Pipeline) embedChunk(
	ctx context.Context,
	embedder driven.EmbeddingService,
	text string,
	timeout time.Duration,
) ([]float32, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	vec, err := embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingFailed, err)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("%w: empty vector", domain.ErrEmbeddingFailed)
	}
	return vec, nil
}

// RemoveDocument deletes every item of a document. Delete failures are
// logged and the registry entry is dropped regardless. Unknown ids are a no-op.
func (p *Pipeline) RemoveDocument(ctx context.Context, documentID string) error {
	unlock := p.docs.lock(documentID)
	defer unlock()
	return p.removeDocument(ctx, documentID)
}

// removeDocument is RemoveDocument for callers already holding the id's lock.
func (p *Pipeline) removeDocument(ctx context.Context, documentID string) error {
	p.mu.Lock()
	if !p.initialized {
		p.mu.Unlock()
		return domain.ErrNotInitialized
	}
	store := p.store
	ids, ok := p.registry.Remove(documentID)
	count := p.registry.Len()
	p.mu.Unlock()

	if !ok {
		log.Debug("remove %s: not loaded", documentID)
		return nil
	}

	failed := p.deleteItems(ctx, store, ids)
	metrics.DocumentsLoaded.Set(float64(count))
	log.Info("removed %s: %d items deleted, %d failed", documentID, len(ids)-failed, failed)
	return nil
}

// deleteItems deletes ids best effort and returns the number of failures.
func (p *Pipeline) deleteItems(ctx context.Context, store driven.VectorStore, ids []string) int {
	failed := 0
	for _, id := range ids {
		if err := store.Delete(ctx, id); err != nil {
			log.Warn("delete item %s: %v", id, err)
			metrics.ItemDeleteFailuresTotal.Inc()
			failed++
		}
	}
	return failed
}

// Query answers a question from the indexed documents. Failures wrap
// domain.ErrEmbeddingFailed, domain.ErrVectorStoreIO or
// domain.ErrGenerationFailed; use domain.ErrorResult to render them.
func (p *Pipeline) Query(ctx context.Context, question string, settings domain.AppSettings) (domain.QueryResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.QueryResult{}, fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}
	if err := settings.Validate(); err != nil {
		return domain.QueryResult{}, err
	}

	p.mu.RLock()
	if !p.initialized {
		p.mu.RUnlock()
		return domain.QueryResult{}, domain.ErrNotInitialized
	}
	store, embedder, llm := p.store, p.embedder, p.llm
	p.mu.RUnlock()

	result, err := p.answer(ctx, store, embedder, llm, question, settings)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues(metrics.ResultError).Inc()
		log.Error("query failed: %v", err)
		return domain.QueryResult{}, err
	}

	if result.NotFound {
		metrics.QueriesTotal.WithLabelValues(metrics.ResultNotFound).Inc()
	} else {
		metrics.QueriesTotal.WithLabelValues(metrics.ResultAnswered).Inc()
	}
	return result, nil
}

func (p *Pipeline) answer(
	ctx context.Context,
	store driven.VectorStore,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	question string,
	settings domain.AppSettings,
) (domain.QueryResult, error) {
	retriever := NewRetriever(embedder, store, settings.EmbedTimeout)
	retrieved, err := retriever.Retrieve(ctx, question, settings.TopK)
	if err != nil {
		return domain.QueryResult{}, err
	}

	prompt := p.grounding.BuildPrompt(BuildContext(retrieved), question)
	log.Debug("prompt: %d chars, %d excerpts", len(prompt), len(retrieved))

	genCtx := ctx
	if settings.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, settings.GenerateTimeout)
		defer cancel()
	}

	answer, err := llm.Generate(genCtx, prompt, driven.GenerateOptions{})
	if err != nil {
		if errors.Is(err, domain.ErrGenerationFailed) {
			return domain.QueryResult{}, err
		}
		return domain.QueryResult{}, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	return Classify(answer, retrieved), nil
}

// ListDocuments returns the loaded documents ordered by LoadedAt, then FileName.
func (p *Pipeline) ListDocuments() ([]domain.FileInfo, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.initialized {
		return nil, domain.ErrNotInitialized
	}
	return p.registry.Files(), nil
}

// Document returns the FileInfo of a loaded document.
func (p *Pipeline) Document(documentID string) (domain.FileInfo, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.initialized {
		return domain.FileInfo{}, domain.ErrNotInitialized
	}
	info, ok := p.registry.File(documentID)
	if !ok {
		return domain.FileInfo{}, fmt.Errorf("%w: document %s", domain.ErrNotFound, documentID)
	}
	return info, nil
}

// Close releases the store and model clients. The pipeline returns to the
// uninitialized state.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return nil
	}

	var errs []error
	if err := p.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close vector store: %w", err))
	}
	if err := p.embedder.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close embedding client: %w", err))
	}
	if err := p.llm.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close llm client: %w", err))
	}

	p.store = nil
	p.embedder = nil
	p.llm = nil
	p.registry = NewRegistry()
	p.initialized = false
	return errors.Join(errs...)
}

func itemIDs(items []indexedChunk) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.itemID
	}
	return ids
}
