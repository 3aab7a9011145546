package docstore

import (
	"context"
	"strings"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetRoundtrip(t *testing.T) {
	s := testStore(t)

	handle, err := s.Put("consent-form.txt", []byte("Participants will be informed."))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if handle == "" {
		t.Fatal("Put() returned empty handle")
	}

	d, err := s.Get(handle)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if d.Name != "consent-form.txt" {
		t.Errorf("Name = %q, want %q", d.Name, "consent-form.txt")
	}
	if d.MediaType != "text/plain" {
		t.Errorf("MediaType = %q, want text/plain", d.MediaType)
	}
	if d.Text != "Participants will be informed." {
		t.Errorf("Text = %q", d.Text)
	}
	if d.SizeBytes != int64(len("Participants will be informed.")) {
		t.Errorf("SizeBytes = %d", d.SizeBytes)
	}
	if d.SHA256 == "" {
		t.Error("SHA256 is empty")
	}
}

func TestPutRejectsUnsupportedType(t *testing.T) {
	s := testStore(t)

	_, err := s.Put("protocol.docx", []byte("binary"))
	if err == nil {
		t.Fatal("Put() with .docx should fail")
	}
	if !strings.Contains(err.Error(), "unsupported document type") {
		t.Errorf("error = %v, want unsupported document type", err)
	}
}

func TestGetUnknownHandle(t *testing.T) {
	s := testStore(t)

	if _, err := s.Get("no-such-handle"); err == nil {
		t.Fatal("Get() with unknown handle should fail")
	}
}

func TestResolveMatchesStored(t *testing.T) {
	s := testStore(t)

	handle, err := s.Put("notes.md", []byte("# Protocol\nDetails."))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	doc, err := s.Resolve(context.Background(), handle)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if doc.Handle != handle {
		t.Errorf("Handle = %q, want %q", doc.Handle, handle)
	}
	if doc.MediaType != "text/markdown" {
		t.Errorf("MediaType = %q, want text/markdown", doc.MediaType)
	}
	if doc.Text != "# Protocol\nDetails." {
		t.Errorf("Text = %q", doc.Text)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := testStore(t)

	handle, err := s.Put("a.txt", []byte("x"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Delete(handle); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(handle); err != nil {
		t.Fatalf("second Delete() error = %v", err)
	}
	if _, err := s.Get(handle); err == nil {
		t.Fatal("Get() after Delete() should fail")
	}
}

func TestDistinctHandles(t *testing.T) {
	s := testStore(t)

	h1, err := s.Put("a.txt", []byte("same content"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	h2, err := s.Put("a.txt", []byte("same content"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if h1 == h2 {
		t.Error("two Put() calls returned the same handle")
	}
}
