package attachments

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestNewKey(t *testing.T) {
	testCases := []struct {
		filename string
		pattern  string
	}{
		{"invoice.PDF", `^assets/[0-9a-f-]{36}\.pdf$`},
		{"scan.tar.gz", `^assets/[0-9a-f-]{36}\.gz$`},
		{"README", `^assets/[0-9a-f-]{36}$`},
		{".hidden", `^assets/[0-9a-f-]{36}$`},
		{"../../etc/passwd.txt", `^assets/[0-9a-f-]{36}\.txt$`},
		{`C:\scans\licence.png`, `^assets/[0-9a-f-]{36}\.png$`},
	}
	for _, tc := range testCases {
		key := NewKey(tc.filename)
		if !regexp.MustCompile(tc.pattern).MatchString(key) {
			t.Errorf("NewKey(%q) = %q, expected to match %s", tc.filename, key, tc.pattern)
		}
	}
	if NewKey("a.txt") == NewKey("a.txt") {
		t.Error("Expected distinct keys for repeated uploads")
	}
}

func TestLocalStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewLocalStore(root)
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}

	key := NewKey("licence.txt")
	if err := store.Put(ctx, key, strings.NewReader("KEY-1234")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "KEY-1234" {
		t.Errorf("Expected stored content, got %q", data)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Open(ctx, key); err == nil {
		t.Error("Expected open after delete to fail")
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Errorf("Expected deleting a missing attachment to succeed, got %v", err)
	}
}

func TestLocalStore_KeysStayInsideRoot(t *testing.T) {
	ctx := context.Background()
	parent := t.TempDir()
	root := filepath.Join(parent, "root")
	store, err := NewLocalStore(root)
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}

	if err := store.Put(ctx, "../escape.txt", strings.NewReader("x")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(parent, "escape.txt")); err == nil {
		t.Error("Expected key to be confined to the store root")
	}
	if _, err := os.Stat(filepath.Join(root, "escape.txt")); err != nil {
		t.Errorf("Expected file to be written inside the root: %v", err)
	}
}
