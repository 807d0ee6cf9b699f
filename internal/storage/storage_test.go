package storage

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestValidCategory(t *testing.T) {
	for _, c := range []string{CategoryBefore, CategoryProgress, CategoryAfter, CategorySerialScan} {
		if !ValidCategory(c) {
			t.Errorf("ValidCategory(%q) = false", c)
		}
	}
	for _, c := range []string{"", "During", "before ", "serial_scan"} {
		if ValidCategory(c) {
			t.Errorf("ValidCategory(%q) = true", c)
		}
	}
}

func TestObjectKeyShape(t *testing.T) {
	key := ObjectKey("user-42", CategoryBefore, "photo.PNG")

	// {uploader}/{category}/{timestamp}-{random}.{ext}
	re := regexp.MustCompile(`^user-42/before/\d+-[0-9a-f-]{36}\.png$`)
	if !re.MatchString(key) {
		t.Errorf("key %q does not match the partitioned shape", key)
	}
}

func TestObjectKeyDefaultExtension(t *testing.T) {
	key := ObjectKey("user-42", CategoryAfter, "no-extension")
	if !strings.HasSuffix(key, ".jpg") {
		t.Errorf("key %q does not default to .jpg", key)
	}
}

func TestObjectKeyUnique(t *testing.T) {
	a := ObjectKey("u", CategoryProgress, "a.jpg")
	b := ObjectKey("u", CategoryProgress, "a.jpg")
	if a == b {
		t.Error("two keys for the same inputs collided")
	}
}

func TestDiskStoreSave(t *testing.T) {
	dir := t.TempDir()

	store, err := NewDiskStore(dir, "/files")
	if err != nil {
		t.Fatalf("NewDiskStore failed: %v", err)
	}

	url, err := store.Save("uploader-1", CategorySerialScan, "scan.jpg", strings.NewReader("image-bytes"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if !strings.HasPrefix(url, "/files/"+Bucket+"/uploader-1/serial-scan/") {
		t.Errorf("url %q not under the expected prefix", url)
	}

	// The file actually exists on disk under the bucket root.
	rel := strings.TrimPrefix(url, "/files/"+Bucket+"/")
	full := filepath.Join(store.Root(), filepath.FromSlash(rel))
	data, err := os.ReadFile(full)
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Errorf("stored content %q", data)
	}
}

func TestDiskStoreRejectsBadCategory(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/files")
	if err != nil {
		t.Fatalf("NewDiskStore failed: %v", err)
	}

	if _, err := store.Save("uploader-1", "vacation", "x.jpg", strings.NewReader("x")); err != ErrInvalidCategory {
		t.Errorf("got %v, want ErrInvalidCategory", err)
	}
	if _, err := store.Save("", CategoryBefore, "x.jpg", strings.NewReader("x")); err == nil {
		t.Error("empty uploader id accepted")
	}
}
