package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStorageGetBundle(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`{"tests":[{"id":"junit","passed":1}]}`)
	if err := os.WriteFile(filepath.Join(dir, "results.json"), data, 0o644); err != nil {
		t.Fatalf("write bundle: %v", err)
	}
	ctx := context.Background()

	s := NewLocalStorage(dir)
	got, err := s.GetBundle(ctx, "results.json")
	if err != nil {
		t.Fatalf("GetBundle: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("GetBundle = %q, want %q", got, data)
	}

	// Absolute keys ignore the base directory
	abs, err := NewLocalStorage("/nonexistent").GetBundle(ctx, filepath.Join(dir, "results.json"))
	if err != nil {
		t.Fatalf("GetBundle absolute: %v", err)
	}
	if string(abs) != string(data) {
		t.Errorf("GetBundle absolute = %q", abs)
	}
}

func TestLocalStorageGetNotFound(t *testing.T) {
	s := NewLocalStorage(t.TempDir())
	if _, err := s.GetBundle(context.Background(), "nonexistent.json"); err == nil {
		t.Error("expected error for nonexistent bundle")
	}
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		raw     string
		want    Ref
		wantErr bool
	}{
		{raw: "build/results.json", want: Ref{Scheme: SchemeFile, Key: "build/results.json"}},
		{raw: "file:///tmp/results.json", want: Ref{Scheme: SchemeFile, Key: "/tmp/results.json"}},
		{raw: "s3://ci-results/builds/42/results.json.zst", want: Ref{Scheme: SchemeS3, Bucket: "ci-results", Key: "builds/42/results.json.zst"}},
		{raw: "gs://ci-results/42.json", want: Ref{Scheme: SchemeGCS, Bucket: "ci-results", Key: "42.json"}},
		{raw: "", wantErr: true},
		{raw: "s3://bucket-only", wantErr: true},
		{raw: "gs:///key", wantErr: true},
		{raw: "file://", wantErr: true},
		{raw: "ftp://host/file", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseRef(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRef: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseRef(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestRefString(t *testing.T) {
	for _, raw := range []string{"results.json", "s3://b/k/x.json", "gs://b/k.json"} {
		ref, err := ParseRef(raw)
		if err != nil {
			t.Fatalf("ParseRef(%q): %v", raw, err)
		}
		if ref.String() != raw {
			t.Errorf("String() = %q, want %q", ref.String(), raw)
		}
	}
}

func TestOpenLocalAndFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.yaml")
	if err := os.WriteFile(path, []byte("pit:\n  - id: pit\n    detected: 3\n    undetected: 1\n"), 0o644); err != nil {
		t.Fatalf("write bundle: %v", err)
	}
	ctx := context.Background()

	ref, err := ParseRef(path)
	if err != nil {
		t.Fatalf("ParseRef: %v", err)
	}
	if !ref.IsLocal() {
		t.Fatal("expected local ref")
	}
	store, err := Open(ctx, ref, S3Config{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	b, err := Fetch(ctx, store, ref)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(b.Pit) != 1 || b.Pit[0].Detected != 3 {
		t.Errorf("unexpected bundle %+v", b)
	}
}

func TestFetchInvalidBundle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte(`{"tests":[{"passed":1}]}`), 0o644); err != nil {
		t.Fatalf("write bundle: %v", err)
	}
	ref := Ref{Scheme: SchemeFile, Key: path}
	if _, err := Fetch(context.Background(), NewLocalStorage(""), ref); err == nil {
		t.Error("expected decode error for run without id")
	}
}
