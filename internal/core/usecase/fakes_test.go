package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/kirillkom/docrouter/internal/core/domain"
	"github.com/kirillkom/docrouter/internal/core/ports"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type lakeObject struct {
	data []byte
	tags map[string]string
}

type lakeFake struct {
	mu      sync.Mutex
	objects map[ports.Tier]map[string]*lakeObject

	copyErr    error
	setTagsErr error
	deleteErr  map[string]error
	listErr    error
}

func newLakeFake() *lakeFake {
	return &lakeFake{objects: map[ports.Tier]map[string]*lakeObject{
		ports.TierLanding:   {},
		ports.TierCanonical: {},
		ports.TierDerived:   {},
	}}
}

func (f *lakeFake) seed(tier ports.Tier, key string, data []byte, tags map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tags == nil {
		tags = map[string]string{}
	}
	f.objects[tier][key] = &lakeObject{data: data, tags: tags}
}

func (f *lakeFake) has(tier ports.Tier, key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[tier][key]
	return ok
}

func (f *lakeFake) tagsOf(tier ports.Tier, key string) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[tier][key]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(obj.tags))
	for k, v := range obj.tags {
		out[k] = v
	}
	return out
}

func (f *lakeFake) Put(_ context.Context, tier ports.Tier, key string, data io.Reader, _ int64, _ string) error {
	buf, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.seed(tier, key, buf, nil)
	return nil
}

func (f *lakeFake) Download(_ context.Context, tier ports.Tier, key, localPath string) error {
	f.mu.Lock()
	obj, ok := f.objects[tier][key]
	f.mu.Unlock()
	if !ok {
		return domain.ErrObjectNotFound
	}
	return os.WriteFile(localPath, obj.data, 0o600)
}

func (f *lakeFake) Copy(_ context.Context, srcTier ports.Tier, srcKey string, dstTier ports.Tier, dstKey string) error {
	if f.copyErr != nil {
		return f.copyErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	src, ok := f.objects[srcTier][srcKey]
	if !ok {
		return domain.ErrObjectNotFound
	}
	f.objects[dstTier][dstKey] = &lakeObject{data: bytes.Clone(src.data), tags: map[string]string{}}
	return nil
}

func (f *lakeFake) Delete(_ context.Context, tier ports.Tier, key string) error {
	if err := f.deleteErr[key]; err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects[tier], key)
	return nil
}

func (f *lakeFake) GetTags(_ context.Context, tier ports.Tier, key string) (map[string]string, error) {
	tags := f.tagsOf(tier, key)
	if tags == nil {
		return nil, domain.ErrObjectNotFound
	}
	return tags, nil
}

func (f *lakeFake) SetTags(_ context.Context, tier ports.Tier, key string, tags map[string]string) error {
	if f.setTagsErr != nil {
		return f.setTagsErr
	}
	// minio-go rejects tag sets above the S3 limit client-side.
	if len(tags) > domain.MaxObjectTags {
		return fmt.Errorf("tags cannot be more than %d", domain.MaxObjectTags)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[tier][key]
	if !ok {
		return domain.ErrObjectNotFound
	}
	obj.tags = tags
	return nil
}

func (f *lakeFake) List(_ context.Context, tier ports.Tier, prefix string) ([]ports.ObjectInfo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ports.ObjectInfo
	for key, obj := range f.objects[tier] {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			out = append(out, ports.ObjectInfo{Key: key, Size: int64(len(obj.data))})
		}
	}
	return out, nil
}

type extractorFake struct {
	text string
	err  error
}

func (f *extractorFake) Extract(context.Context, string, string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type embedderFake struct {
	vector []float32
	err    error
}

func (f *embedderFake) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = append([]float32(nil), f.vector...)
	}
	return out, nil
}

func (f *embedderFake) EmbedQuery(context.Context, string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]float32(nil), f.vector...), nil
}

type modelFake struct {
	name   string
	scores map[string]float64
	err    error
}

func (f *modelFake) Name() string { return f.name }

func (f *modelFake) ScoreCategories(context.Context, string, map[string]string, string) (ports.ModelScores, error) {
	if f.err != nil {
		return ports.ModelScores{}, f.err
	}
	return ports.ModelScores{Model: f.name, Scores: f.scores}, nil
}

type contextStoreFake struct {
	mu         sync.Mutex
	predefined []domain.ContextEntry
	learned    []domain.ContextEntry
	saved      []domain.ContextEntry
	usageCalls [][]int64

	predefinedErr error
	saveErr       error
}

func (f *contextStoreFake) GetPredefined(context.Context) ([]domain.ContextEntry, error) {
	if f.predefinedErr != nil {
		return nil, f.predefinedErr
	}
	return f.predefined, nil
}

func (f *contextStoreFake) GetTopLearned(context.Context, int) ([]domain.ContextEntry, error) {
	return f.learned, nil
}

func (f *contextStoreFake) SaveLearned(_ context.Context, entry domain.ContextEntry) (int64, error) {
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, entry)
	return int64(len(f.saved)), nil
}

func (f *contextStoreFake) SavePredefined(_ context.Context, entry domain.ContextEntry) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.predefined = append(f.predefined, entry)
	return int64(len(f.predefined)), nil
}

func (f *contextStoreFake) IncrementUsage(_ context.Context, ids []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.usageCalls = append(f.usageCalls, ids)
	return nil
}

type decisionStoreFake struct {
	mu        sync.Mutex
	decisions []domain.RoutingDecision
	saveErr   error
	overrides map[int64]string
}

func (f *decisionStoreFake) Save(_ context.Context, d *domain.RoutingDecision) (int64, error) {
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id := int64(len(f.decisions) + 1)
	copyDec := *d
	copyDec.ID = id
	f.decisions = append(f.decisions, copyDec)
	return id, nil
}

func (f *decisionStoreFake) ListByDocumentKey(_ context.Context, key string, _ int) ([]domain.RoutingDecision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.RoutingDecision
	for _, d := range f.decisions {
		if d.DocumentKey == key {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *decisionStoreFake) ListLowConfidence(_ context.Context, threshold float64, _ int) ([]domain.RoutingDecision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.RoutingDecision
	for _, d := range f.decisions {
		if d.Confidence <= threshold {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *decisionStoreFake) ApplyHumanOverride(_ context.Context, id int64, corrected string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.overrides == nil {
		f.overrides = map[int64]string{}
	}
	f.overrides[id] = corrected
	return nil
}

func (f *decisionStoreFake) CategoryStats(context.Context) ([]domain.CategoryStat, error) {
	return nil, nil
}

type centroidStoreFake struct {
	mu        sync.Mutex
	centroids map[string]*domain.CategoryCentroid
	stale     bool
	getErr    error
	saveErr   error
}

func newCentroidStoreFake() *centroidStoreFake {
	return &centroidStoreFake{centroids: map[string]*domain.CategoryCentroid{}}
}

func (f *centroidStoreFake) GetAll(context.Context) (map[string][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string][]float32, len(f.centroids))
	for cat, c := range f.centroids {
		out[cat] = c.Embedding
	}
	return out, nil
}

func (f *centroidStoreFake) Get(_ context.Context, cat string) (*domain.CategoryCentroid, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.centroids[cat]
	if !ok {
		return nil, nil
	}
	copyC := *c
	return &copyC, nil
}

func (f *centroidStoreFake) Save(_ context.Context, c *domain.CategoryCentroid) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	copyC := *c
	f.centroids[c.Category] = &copyC
	return nil
}

func (f *centroidStoreFake) IsStale(context.Context, time.Duration) (bool, error) {
	return f.stale, nil
}

type jobStoreFake struct {
	mu   sync.Mutex
	jobs map[string]*domain.JobRecord
}

func newJobStoreFake() *jobStoreFake {
	return &jobStoreFake{jobs: map[string]*domain.JobRecord{}}
}

func (f *jobStoreFake) Create(_ context.Context, job *domain.JobRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copyJob := *job
	f.jobs[job.JobID] = &copyJob
	return nil
}

func (f *jobStoreFake) Get(_ context.Context, jobID string) (*domain.JobRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[jobID]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	copyJob := *job
	return &copyJob, nil
}

func (f *jobStoreFake) Update(_ context.Context, job *domain.JobRecord) error {
	return f.Create(context.Background(), job)
}

func (f *jobStoreFake) List(context.Context, int) ([]domain.JobRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.JobRecord, 0, len(f.jobs))
	for _, job := range f.jobs {
		out = append(out, *job)
	}
	return out, nil
}

type queueFake struct {
	mu         sync.Mutex
	published  []domain.UploadJob
	publishErr error
}

func (f *queueFake) PublishUploadJob(_ context.Context, job domain.UploadJob) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, job)
	return nil
}

func (f *queueFake) SubscribeUploadJobs(ctx context.Context, handler func(context.Context, domain.UploadJob) error) error {
	f.mu.Lock()
	jobs := append([]domain.UploadJob(nil), f.published...)
	f.mu.Unlock()
	for _, job := range jobs {
		if err := handler(ctx, job); err != nil {
			return err
		}
	}
	return nil
}

// runnerFake satisfies ports.PipelineRunner for coordinator tests.
type runnerFake struct {
	result *domain.PipelineResult
	err    error
	runs   int
}

func (f *runnerFake) Run(context.Context, string, string, string) (*domain.PipelineResult, error) {
	f.runs++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *runnerFake) Relearn(context.Context, string) (*domain.PipelineResult, error) {
	return f.result, f.err
}
