package handlers

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const uploadFormField = "mediaFile"

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

// UploadHandler ingests a single media file per request and stores it
// under a type-keyed directory. It only returns a reference URL the
// client is expected to follow up with a send_message carrying that URL;
// a file whose second step never happens stays on disk unreferenced.
type UploadHandler struct {
	imagesDir string
	videosDir string
	maxBytes  int64
	log       zerolog.Logger
}

// NewUploadHandler creates the media directories and returns the handler.
func NewUploadHandler(uploadsDir string, maxBytes int64, logger zerolog.Logger) (*UploadHandler, error) {
	imagesDir := filepath.Join(uploadsDir, "images")
	videosDir := filepath.Join(uploadsDir, "videos")
	for _, dir := range []string{imagesDir, videosDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir: %w", err)
		}
	}

	return &UploadHandler{
		imagesDir: imagesDir,
		videosDir: videosDir,
		maxBytes:  maxBytes,
		log:       logger.With().Str("component", "upload_handler").Logger(),
	}, nil
}

// Upload handles POST /api/upload/:chatId. The chat id is contextual
// only and is not validated. The stored message is created later by the
// client through the realtime channel.
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile(uploadFormField)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "no file uploaded"})
		return
	}

	if file.Size > h.maxBytes {
		c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("file exceeds the %d MiB limit", h.maxBytes/(1024*1024))})
		return
	}

	src, err := file.Open()
	if err != nil {
		h.log.Error().Err(err).Msg("open multipart file failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "upload failed"})
		return
	}
	defer src.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(src, h.maxBytes+1)); err != nil {
		h.log.Error().Err(err).Msg("read multipart file failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "upload failed"})
		return
	}
	if int64(buf.Len()) > h.maxBytes {
		c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("file exceeds the %d MiB limit", h.maxBytes/(1024*1024))})
		return
	}

	// Classify from content, not from the declared Content-Type header.
	detected := mimetype.Detect(buf.Bytes())
	var kind, destDir string
	switch {
	case strings.HasPrefix(detected.String(), "image/"):
		kind, destDir = "image", h.imagesDir
	case strings.HasPrefix(detected.String(), "video/"):
		kind, destDir = "video", h.videosDir
	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": "unsupported file type, only images and videos are allowed"})
		return
	}

	stored := storedFilename(file.Filename)
	if err := os.WriteFile(filepath.Join(destDir, stored), buf.Bytes(), 0o644); err != nil {
		h.log.Error().Err(err).Str("filename", stored).Msg("write upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "upload failed"})
		return
	}

	h.log.Info().Str("filename", stored).Str("type", kind).Int("size", buf.Len()).Msg("file uploaded")

	c.JSON(http.StatusCreated, gin.H{
		"message":          "file uploaded successfully",
		"fileUrl":          "/uploads/" + kind + "s/" + stored,
		"filename":         stored,
		"originalFilename": file.Filename,
		"mimetype":         detected.String(),
		"size":             buf.Len(),
		"type":             kind,
	})
}

// storedFilename keeps the original extension, restricts the base name
// to a safe character set and appends a timestamp plus a random
// component so concurrent uploads of the same file never collide.
func storedFilename(original string) string {
	ext := filepath.Ext(original)
	base := strings.TrimSuffix(filepath.Base(original), ext)
	base = unsafeFilenameChars.ReplaceAllString(base, "_")
	if base == "" {
		base = "upload"
	}
	return fmt.Sprintf("%s-%d-%d%s", base, time.Now().UnixMilli(), rand.Intn(1_000_000_000), ext)
}
