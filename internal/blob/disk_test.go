package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskStore_PutAndDelete(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	obj, err := store.Put(context.Background(), "photo.png", strings.NewReader("fake png bytes"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	if !strings.HasPrefix(obj.URL, URLPrefix) {
		t.Errorf("Expected URL to start with %q, got %q", URLPrefix, obj.URL)
	}
	if !strings.HasSuffix(obj.URL, ".png") {
		t.Errorf("Expected URL to keep the extension, got %q", obj.URL)
	}
	if obj.Size != int64(len("fake png bytes")) {
		t.Errorf("Expected size %d, got %d", len("fake png bytes"), obj.Size)
	}

	stored := filepath.Join(dir, strings.TrimPrefix(obj.URL, URLPrefix))
	data, err := os.ReadFile(stored)
	if err != nil {
		t.Fatalf("Expected blob file on disk: %v", err)
	}
	if string(data) != "fake png bytes" {
		t.Errorf("Stored content mismatch: %q", data)
	}

	if err := store.Delete(context.Background(), obj.URL); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(stored); !os.IsNotExist(err) {
		t.Error("Expected blob file to be removed")
	}
}

func TestDiskStore_PutUniqueNames(t *testing.T) {
	t.Parallel()

	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	a, err := store.Put(context.Background(), "doc.pdf", strings.NewReader("first"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	b, err := store.Put(context.Background(), "doc.pdf", strings.NewReader("second"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	if a.URL == b.URL {
		t.Errorf("Expected distinct URLs for same filename, both got %q", a.URL)
	}
}

func TestDiskStore_DeleteIgnoresForeignURLs(t *testing.T) {
	t.Parallel()

	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	tests := []struct {
		name string
		url  string
	}{
		{name: "external URL", url: "https://example.com/files/x.png"},
		{name: "missing blob", url: URLPrefix + "does-not-exist.png"},
		{name: "empty URL", url: ""},
		{name: "traversal attempt", url: URLPrefix + "../../etc/passwd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := store.Delete(context.Background(), tt.url); err != nil {
				t.Errorf("Delete(%q): %v", tt.url, err)
			}
		})
	}
}

func TestSanitizeExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filename string
		want     string
	}{
		{filename: "photo.PNG", want: ".png"},
		{filename: "archive.tar.gz", want: ".gz"},
		{filename: "noext", want: ""},
		{filename: "weird.p!g", want: ""},
		{filename: ".hidden", want: ""},
		{filename: "trailingdot.", want: ""},
	}

	for _, tt := range tests {
		if got := sanitizeExtension(tt.filename); got != tt.want {
			t.Errorf("sanitizeExtension(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
