package services

import (
	"context"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/beyondchart/go-study-backend/internal/domain"
	"github.com/beyondchart/go-study-backend/internal/embedder"
)

// ---------- shared test helpers ----------

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := db.AutoMigrate(
		&domain.User{}, &domain.Pdf{}, &domain.Chat{}, &domain.Message{},
		&domain.Citation{}, &domain.QuizAttempt{}, &domain.Idempotency{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// fakeGenerator returns canned output or an error.
type fakeGenerator struct {
	out string
	err error

	prompts []string
}

func (f *fakeGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.out, f.err
}

// fakeRetriever returns canned chunks or an error and captures its args.
type fakeRetriever struct {
	chunks []embedder.Chunk
	err    error

	gotQuestion string
	gotPdfIDs   []string
	gotTopK     int
}

func (f *fakeRetriever) Query(_ context.Context, question string, pdfIDs []string, topK int) ([]embedder.Chunk, error) {
	f.gotQuestion, f.gotPdfIDs, f.gotTopK = question, pdfIDs, topK
	return f.chunks, f.err
}

// fakeSampler returns canned random chunks.
type fakeSampler struct {
	chunks []embedder.Chunk
	err    error
}

func (f *fakeSampler) RandomChunks(_ context.Context, _ string, _ int) ([]embedder.Chunk, error) {
	return f.chunks, f.err
}

// fakeNotifier records chunk_and_embed calls.
type fakeNotifier struct {
	calls chan string
	err   error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{calls: make(chan string, 4)}
}

func (f *fakeNotifier) ChunkAndEmbed(_ context.Context, _ string, docID string, _ bool) error {
	f.calls <- docID
	return f.err
}

func intPtr(i int) *int { return &i }
