package provision

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"

	mediastore "github.com/dalemusser/stratacms/internal/app/store/media"
	"github.com/dalemusser/stratacms/internal/domain/schema"
	"github.com/dalemusser/stratacms/internal/testutil"
)

// writeTestPNG writes a width x height PNG into dir under name.
func writeTestPNG(t *testing.T, dir, name string, width, height int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("failed to create test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
}

func newLocalStorage(t *testing.T) storage.Store {
	t.Helper()
	store, err := storage.NewLocal(storage.LocalConfig{
		BasePath: t.TempDir(),
		BaseURL:  "/media",
	})
	if err != nil {
		t.Fatalf("failed to create local storage: %v", err)
	}
	return store
}

func TestMediaProvisioner_UploadAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	media := mediastore.New(db)
	sourceDir := t.TempDir()
	writeTestPNG(t, sourceDir, "hero.png", 640, 480)
	prov := NewMediaProvisioner(media, newLocalStorage(t), sourceDir, testRunLog(t), zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	doc := &schema.Document{
		MediaLibrary: []schema.MediaItem{
			{Filename: "hero.png", Title: "Hero", AltText: "A colorful gradient"},
			// Declared but absent on disk: skipped, never fatal.
			{Filename: "missing.png", Title: "Missing"},
		},
	}

	if err := prov.UploadAll(ctx, doc); err != nil {
		t.Fatalf("UploadAll() error = %v", err)
	}

	asset, err := media.FindByFilename(ctx, "hero.png")
	if err != nil {
		t.Fatalf("FindByFilename() error = %v", err)
	}
	if asset == nil {
		t.Fatal("FindByFilename() = nil, asset was not registered")
	}
	if asset.ContentType != "image/png" {
		t.Errorf("asset ContentType = %q, want %q", asset.ContentType, "image/png")
	}
	if asset.AltText != "A colorful gradient" {
		t.Errorf("asset AltText = %q, want declared alt text", asset.AltText)
	}

	// 640x480 exceeds the thumbnail and medium edges but not large.
	if _, ok := asset.Renditions["thumbnail"]; !ok {
		t.Error("thumbnail rendition missing")
	}
	medium, ok := asset.Renditions["medium"]
	if !ok {
		t.Fatal("medium rendition missing")
	}
	if medium.Width != 300 {
		t.Errorf("medium rendition width = %d, want 300", medium.Width)
	}
	if _, ok := asset.Renditions["large"]; ok {
		t.Error("large rendition present, want skipped (source smaller than 1024)")
	}

	missing, err := media.FindByFilename(ctx, "missing.png")
	if err != nil {
		t.Fatalf("FindByFilename() error = %v", err)
	}
	if missing != nil {
		t.Errorf("FindByFilename(missing.png) = %+v, want nil", missing)
	}
}

func TestMediaProvisioner_UploadIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	media := mediastore.New(db)
	sourceDir := t.TempDir()
	writeTestPNG(t, sourceDir, "logo.png", 100, 100)
	prov := NewMediaProvisioner(media, newLocalStorage(t), sourceDir, testRunLog(t), zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	doc := &schema.Document{
		MediaLibrary: []schema.MediaItem{{Filename: "logo.png", Title: "Logo"}},
	}

	if err := prov.UploadAll(ctx, doc); err != nil {
		t.Fatalf("UploadAll() first pass error = %v", err)
	}
	if err := prov.UploadAll(ctx, doc); err != nil {
		t.Fatalf("UploadAll() second pass error = %v", err)
	}

	count, err := media.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d after two passes, want 1", count)
	}
}

func TestMediaProvisioner_BulkUploadDir(t *testing.T) {
	db := testutil.SetupTestDB(t)
	media := mediastore.New(db)
	sourceDir := t.TempDir()
	writeTestPNG(t, sourceDir, "one.png", 50, 50)
	writeTestPNG(t, sourceDir, "two.png", 50, 50)
	prov := NewMediaProvisioner(media, newLocalStorage(t), sourceDir, testRunLog(t), zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// No declared media: the source directory is scanned instead.
	if err := prov.UploadAll(ctx, &schema.Document{}); err != nil {
		t.Fatalf("UploadAll() error = %v", err)
	}

	count, err := media.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Count() = %d, want 2 (directory scan)", count)
	}

	one, err := media.FindByFilename(ctx, "one.png")
	if err != nil {
		t.Fatalf("FindByFilename() error = %v", err)
	}
	if one == nil || one.Title != "one" {
		t.Errorf("bulk-uploaded asset = %+v, want synthesized title %q", one, "one")
	}
}

func TestMediaProvisioner_MissingSourceDir(t *testing.T) {
	db := testutil.SetupTestDB(t)
	media := mediastore.New(db)
	prov := NewMediaProvisioner(media, newLocalStorage(t), filepath.Join(t.TempDir(), "does-not-exist"), testRunLog(t), zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := prov.UploadAll(ctx, &schema.Document{}); err != nil {
		t.Fatalf("UploadAll() with missing source dir error = %v, want nil", err)
	}
}
