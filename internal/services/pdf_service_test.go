package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/beyondchart/go-study-backend/internal/repo"
	"github.com/beyondchart/go-study-backend/internal/storage"
)

func newPdfSvc(t *testing.T, notifier *fakeNotifier) (*PdfService, string) {
	t.Helper()
	db := newTestDB(t)
	u, err := repo.CreateUser(context.Background(), db, "Test", "p@example.com", "x")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return &PdfService{
		DB:            db,
		Store:         store,
		Embedder:      notifier,
		IngestTimeout: time.Second,
	}, u.ID
}

func TestUploadPersistsAndNotifies(t *testing.T) {
	notifier := newFakeNotifier()
	s, uid := newPdfSvc(t, notifier)

	// Not a real PDF: page counting fails and must degrade to zero pages.
	pdf, err := s.Upload(context.Background(), uid, "notes.pdf", "application/pdf", strings.NewReader("not a pdf"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if pdf.Pages != 0 {
		t.Errorf("pages = %d, want 0 for unparseable file", pdf.Pages)
	}
	if pdf.IsDefault || pdf.UploaderID == nil || *pdf.UploaderID != uid {
		t.Errorf("pdf ownership = %+v", pdf)
	}
	if !strings.HasSuffix(pdf.Filename, "_notes.pdf") {
		t.Errorf("filename = %q", pdf.Filename)
	}

	select {
	case docID := <-notifier.calls:
		if docID != pdf.ID {
			t.Errorf("embed notified for %q, want %q", docID, pdf.ID)
		}
	case <-time.After(2 * time.Second):
		t.Error("embed notification never fired")
	}
}

func TestUploadNotifyFailureStillSucceeds(t *testing.T) {
	notifier := newFakeNotifier()
	notifier.err = errors.New("embedder down")
	s, uid := newPdfSvc(t, notifier)

	pdf, err := s.Upload(context.Background(), uid, "notes.pdf", "application/pdf", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	<-notifier.calls

	if _, err := s.Get(context.Background(), uid, pdf.ID); err != nil {
		t.Errorf("Get after failed notify: %v", err)
	}
}

func TestUploadRejectsNonPDF(t *testing.T) {
	s, uid := newPdfSvc(t, newFakeNotifier())
	if _, err := s.Upload(context.Background(), uid, "image.png", "image/png", strings.NewReader("x")); !errors.Is(err, ErrNotPDF) {
		t.Errorf("Upload png = %v, want ErrNotPDF", err)
	}
}

func TestPdfAccessRules(t *testing.T) {
	s, uid := newPdfSvc(t, newFakeNotifier())
	ctx := context.Background()

	def, err := repo.CreatePdf(ctx, s.DB, "d1", "Default.pdf", "/d/d1", nil, 10, true)
	if err != nil {
		t.Fatalf("seed default: %v", err)
	}
	other := "other-user"
	foreign, err := repo.CreatePdf(ctx, s.DB, "d2", "Foreign.pdf", "/d/d2", &other, 5, false)
	if err != nil {
		t.Fatalf("seed foreign: %v", err)
	}
	// Non-default without uploader is inaccessible to everyone.
	orphan, err := repo.CreatePdf(ctx, s.DB, "d3", "Orphan.pdf", "/d/d3", nil, 5, false)
	if err != nil {
		t.Fatalf("seed orphan: %v", err)
	}

	if _, err := s.Get(ctx, uid, def.ID); err != nil {
		t.Errorf("default pdf: %v", err)
	}
	if _, err := s.Get(ctx, uid, foreign.ID); !errors.Is(err, ErrPdfForbidden) {
		t.Errorf("foreign pdf: %v, want ErrPdfForbidden", err)
	}
	if _, err := s.Get(ctx, uid, orphan.ID); !errors.Is(err, ErrPdfForbidden) {
		t.Errorf("orphan pdf: %v, want ErrPdfForbidden", err)
	}
	if _, err := s.Get(ctx, uid, "missing"); !errors.Is(err, ErrPdfNotFound) {
		t.Errorf("missing pdf: %v, want ErrPdfNotFound", err)
	}
}

func TestPdfListSplitsDefaultsAndOwn(t *testing.T) {
	s, uid := newPdfSvc(t, newFakeNotifier())
	ctx := context.Background()

	if _, err := repo.CreatePdf(ctx, s.DB, "d1", "Default.pdf", "/d/d1", nil, 10, true); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := repo.CreatePdf(ctx, s.DB, "d2", "Mine.pdf", "/d/d2", &uid, 5, false); err != nil {
		t.Fatalf("seed: %v", err)
	}
	other := "other"
	if _, err := repo.CreatePdf(ctx, s.DB, "d3", "Foreign.pdf", "/d/d3", &other, 5, false); err != nil {
		t.Fatalf("seed: %v", err)
	}

	defaults, own, err := s.List(ctx, uid)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(defaults) != 1 || defaults[0].OriginalName != "Default.pdf" {
		t.Errorf("defaults = %+v", defaults)
	}
	if len(own) != 1 || own[0].OriginalName != "Mine.pdf" {
		t.Errorf("own = %+v", own)
	}
}
