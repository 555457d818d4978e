package service

import (
	"errors"
	"testing"

	"bayanihan/internal/domain"
	"bayanihan/internal/repository"
)

func newBulletinService(t *testing.T) *BulletinService {
	db := newTestDB(t)
	return NewBulletinService(db, repository.NewBulletinRepository(db))
}

func strptr(s string) *string { return &s }

func TestBulletinEveryMutationWritesAVersion(t *testing.T) {
	svc := newBulletinService(t)

	b, err := svc.Create("Barangay cleanup", "Meet at the plaza on Saturday.")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Update(b.ID, strptr("Barangay cleanup drive"), nil); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := svc.Publish(b.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}

	versions, err := svc.Versions(b.ID)
	if err != nil {
		t.Fatalf("versions: %v", err)
	}
	if len(versions) != 3 {
		t.Fatalf("versions = %d, want 3", len(versions))
	}
	// Listed newest first.
	for i, v := range versions {
		if want := len(versions) - i; v.Version != want {
			t.Fatalf("version[%d] = %d, want %d", i, v.Version, want)
		}
	}
	if versions[2].Title != "Barangay cleanup" {
		t.Fatalf("v1 title = %q", versions[2].Title)
	}
	if versions[0].Status != domain.StatusPublished {
		t.Fatalf("v3 status = %q, want published", versions[0].Status)
	}
}

func TestBulletinPublishIsIdempotent(t *testing.T) {
	svc := newBulletinService(t)

	b, err := svc.Create("Fiesta schedule", "Program starts at 8am.")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Publish(b.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}
	published, err := svc.Publish(b.ID)
	if err != nil {
		t.Fatalf("second publish: %v", err)
	}
	if published.PublishedAt == nil {
		t.Fatal("PublishedAt not set")
	}
	versions, err := svc.Versions(b.ID)
	if err != nil {
		t.Fatalf("versions: %v", err)
	}
	// Create + publish only; the no-op publish must not snapshot.
	if len(versions) != 2 {
		t.Fatalf("versions = %d, want 2", len(versions))
	}
}

func TestBulletinRevertRestoresContentAsNewVersion(t *testing.T) {
	svc := newBulletinService(t)

	b, err := svc.Create("Water advisory", "Interruption on Tuesday.")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Publish(b.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, err := svc.Update(b.ID, nil, strptr("Interruption moved to Wednesday.")); err != nil {
		t.Fatalf("update: %v", err)
	}

	reverted, err := svc.Revert(b.ID, 2)
	if err != nil {
		t.Fatalf("revert: %v", err)
	}
	if reverted.Body != "Interruption on Tuesday." {
		t.Fatalf("body = %q, want body of version 2", reverted.Body)
	}
	if reverted.Status != domain.StatusPublished {
		t.Fatalf("status = %q, want published", reverted.Status)
	}
	if reverted.PublishedAt == nil {
		t.Fatal("PublishedAt lost across revert")
	}

	versions, err := svc.Versions(b.ID)
	if err != nil {
		t.Fatalf("versions: %v", err)
	}
	if len(versions) != 4 {
		t.Fatalf("versions = %d, want 4 (revert appends, never rewrites)", len(versions))
	}
	if versions[0].Version != 4 || versions[0].Body != "Interruption on Tuesday." {
		t.Fatalf("head version = %d %q, want 4 with reverted body", versions[0].Version, versions[0].Body)
	}
}

func TestBulletinRevertToDraftClearsPublishedAt(t *testing.T) {
	svc := newBulletinService(t)

	b, err := svc.Create("Typhoon signal", "Classes suspended.")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Publish(b.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}
	reverted, err := svc.Revert(b.ID, 1)
	if err != nil {
		t.Fatalf("revert: %v", err)
	}
	if reverted.Status != domain.StatusDraft {
		t.Fatalf("status = %q, want draft", reverted.Status)
	}
	if reverted.PublishedAt != nil {
		t.Fatal("PublishedAt should be cleared on revert to draft")
	}
}

func TestBulletinGetHidesDraftsFromMembers(t *testing.T) {
	svc := newBulletinService(t)

	b, err := svc.Create("Draft notice", "Not ready yet.")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Get(b.ID, false); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("member get draft: got %v, want not found", err)
	}
	if _, err := svc.Get(b.ID, true); err != nil {
		t.Fatalf("admin get draft: %v", err)
	}
	if _, err := svc.Publish(b.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, err := svc.Get(b.ID, false); err != nil {
		t.Fatalf("member get published: %v", err)
	}
}

func TestBulletinValidationAndMissing(t *testing.T) {
	svc := newBulletinService(t)

	if _, err := svc.Create("", "body"); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("empty title: got %v, want bad request", err)
	}
	if _, err := svc.Update(42, strptr("x"), nil); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing bulletin: got %v, want not found", err)
	}
	b, err := svc.Create("Has title", "Has body.")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Update(b.ID, strptr(""), nil); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("blank title update: got %v, want bad request", err)
	}
	if _, err := svc.Revert(b.ID, 99); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing version: got %v, want not found", err)
	}
}
