// internal/app/provision/media.go
package provision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/image/draw"

	mediastore "github.com/dalemusser/stratacms/internal/app/store/media"
	"github.com/dalemusser/stratacms/internal/app/system/runlog"
	"github.com/dalemusser/stratacms/internal/domain/schema"
)

// rendition sizes match the store's conventional thumbnail ladder.
var renditionSizes = []struct {
	name    string
	maxEdge int
}{
	{"thumbnail", 150},
	{"medium", 300},
	{"large", 1024},
}

// MediaProvisioner uploads declared media assets into managed storage
// and registers them in the media library. Uploads are idempotent by
// filename: an asset whose stored path or filename already matches is
// skipped.
type MediaProvisioner struct {
	media     *mediastore.Store
	files     storage.Store
	sourceDir string
	log       *runlog.Logger
	logger    *zap.Logger
}

// NewMediaProvisioner creates a media provisioner reading source files
// from sourceDir.
func NewMediaProvisioner(media *mediastore.Store, files storage.Store, sourceDir string, log *runlog.Logger, logger *zap.Logger) *MediaProvisioner {
	return &MediaProvisioner{media: media, files: files, sourceDir: sourceDir, log: log, logger: logger}
}

// UploadAll uploads every declared media item. A source file that does
// not exist is logged and skipped; media is optional and its absence
// never fails a provisioning run. When the document declares no media
// items at all, the source directory is bulk-scanned instead.
func (m *MediaProvisioner) UploadAll(ctx context.Context, doc *schema.Document) error {
	if len(doc.MediaLibrary) == 0 {
		return m.BulkUploadDir(ctx)
	}

	for _, item := range doc.MediaLibrary {
		if item.Filename == "" {
			m.logger.Warn("skipping media item without filename")
			m.log.Append("SKIP media item (missing filename)")
			continue
		}
		// Store rejections are entry-local: log, record, move on.
		if _, err := m.uploadOne(ctx, item); err != nil {
			m.logger.Warn("store rejected media upload",
				zap.String("filename", item.Filename),
				zap.Error(err))
			m.log.Appendf("SKIP media '%s' (store error): %v", item.Filename, err)
		}
	}
	return nil
}

// BulkUploadDir walks the source directory and uploads every file not
// yet registered, synthesizing a title from the filename. Used when the
// schema declares no explicit media list.
func (m *MediaProvisioner) BulkUploadDir(ctx context.Context) error {
	entries, err := os.ReadDir(m.sourceDir)
	if os.IsNotExist(err) {
		m.logger.Info("media source directory missing, nothing to upload",
			zap.String("dir", m.sourceDir))
		return nil
	}
	if err != nil {
		return fmt.Errorf("scan media directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		name := entry.Name()
		title := strings.TrimSuffix(name, filepath.Ext(name))
		item := schema.MediaItem{Filename: name, Title: title}
		if _, err := m.uploadOne(ctx, item); err != nil {
			m.logger.Warn("store rejected media upload",
				zap.String("filename", name),
				zap.Error(err))
			m.log.Appendf("SKIP media '%s' (store error): %v", name, err)
		}
	}
	return nil
}

// uploadOne uploads a single media item unless an asset with the same
// filename is already registered. Returns the asset either way.
func (m *MediaProvisioner) uploadOne(ctx context.Context, item schema.MediaItem) (*mediastore.Asset, error) {
	existing, err := m.media.FindByFilename(ctx, item.Filename)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		m.log.Appendf("EXISTS media '%s'", item.Filename)
		return existing, nil
	}

	srcPath := filepath.Join(m.sourceDir, item.Filename)
	data, err := os.ReadFile(srcPath)
	if os.IsNotExist(err) {
		m.logger.Warn("media source file missing, skipping",
			zap.String("filename", item.Filename),
			zap.String("path", srcPath))
		m.log.Appendf("SKIP media '%s' (source file missing)", item.Filename)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	contentType := mime.TypeByExtension(filepath.Ext(item.Filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// Storage path: media/YYYY/MM/uuid-filename
	now := time.Now().UTC()
	uniqueName := fmt.Sprintf("%s-%s", uuid.New().String()[:8], item.Filename)
	storagePath := fmt.Sprintf("media/%04d/%02d/%s", now.Year(), int(now.Month()), uniqueName)

	opts := &storage.PutOptions{ContentType: contentType}
	if err := m.files.Put(ctx, storagePath, bytes.NewReader(data), opts); err != nil {
		return nil, fmt.Errorf("store media file: %w", err)
	}

	asset, err := m.media.Create(ctx, mediastore.Asset{
		Filename:    item.Filename,
		StoragePath: storagePath,
		Title:       item.Title,
		AltText:     item.AltText,
		Caption:     item.Caption,
		Description: item.Description,
		ContentType: contentType,
		Size:        int64(len(data)),
	})
	if err != nil {
		// Remove the stored file so a retried run does not orphan it.
		_ = m.files.Delete(ctx, storagePath)
		return nil, err
	}
	m.log.Appendf("UPLOADED media '%s' -> %s", item.Filename, storagePath)
	m.logger.Info("uploaded media asset",
		zap.String("filename", item.Filename),
		zap.String("storage_path", storagePath),
		zap.Int64("size", asset.Size))

	// Renditions are best-effort: non-image files and decode failures
	// leave the original as the only representation.
	renditions := m.generateRenditions(ctx, data, storagePath, contentType)
	if len(renditions) > 0 {
		if err := m.media.SetRenditions(ctx, asset.ID, renditions); err != nil {
			m.logger.Warn("failed to record renditions",
				zap.String("filename", item.Filename),
				zap.Error(err))
		}
	}

	return asset, nil
}

// generateRenditions scales the image down to each ladder size and
// stores the results beside the original. Sizes larger than the source
// image are skipped; nothing is ever upscaled.
func (m *MediaProvisioner) generateRenditions(ctx context.Context, data []byte, storagePath, contentType string) map[string]mediastore.Rendition {
	if !strings.HasPrefix(contentType, "image/") {
		return nil
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		m.logger.Debug("media not decodable as image, skipping renditions",
			zap.String("storage_path", storagePath),
			zap.Error(err))
		return nil
	}

	bounds := src.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()

	out := make(map[string]mediastore.Rendition)
	for _, size := range renditionSizes {
		if srcW <= size.maxEdge && srcH <= size.maxEdge {
			continue
		}
		w, h := fitWithin(srcW, srcH, size.maxEdge)

		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

		var buf bytes.Buffer
		var encErr error
		if format == "png" {
			encErr = png.Encode(&buf, dst)
		} else {
			encErr = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85})
		}
		if encErr != nil {
			m.logger.Warn("rendition encode failed",
				zap.String("storage_path", storagePath),
				zap.String("size", size.name),
				zap.Error(encErr))
			continue
		}

		renditionPath := renditionStoragePath(storagePath, size.name)
		opts := &storage.PutOptions{ContentType: contentType}
		if err := m.files.Put(ctx, renditionPath, &buf, opts); err != nil {
			m.logger.Warn("rendition upload failed",
				zap.String("storage_path", renditionPath),
				zap.String("size", size.name),
				zap.Error(err))
			continue
		}
		out[size.name] = mediastore.Rendition{
			StoragePath: renditionPath,
			Width:       w,
			Height:      h,
		}
	}
	return out
}

// fitWithin scales (w, h) proportionally so the longer edge equals maxEdge.
func fitWithin(w, h, maxEdge int) (int, int) {
	if w >= h {
		return maxEdge, int(float64(h) * float64(maxEdge) / float64(w))
	}
	return int(float64(w) * float64(maxEdge) / float64(h)), maxEdge
}

// renditionStoragePath derives "path-size.ext" from "path.ext".
func renditionStoragePath(storagePath, size string) string {
	ext := filepath.Ext(storagePath)
	return strings.TrimSuffix(storagePath, ext) + "-" + size + ext
}
