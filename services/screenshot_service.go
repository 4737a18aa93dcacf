package services

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog/log"
)

// ScreenshotService captures diagnostic screenshots. Files always land
// in the local screenshot directory; when S3 is configured they are
// additionally uploaded. Screenshots are best-effort artifacts and
// failures here never propagate to the caller.
type ScreenshotService struct {
	dir string
	s3  *S3Service
}

func NewScreenshotService(dir string) *ScreenshotService {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("could not create screenshot directory")
	}

	s3Service, err := NewS3Service()
	if err != nil {
		log.Info().Msg("S3 not configured, screenshots stay local")
		s3Service = nil
	}

	return &ScreenshotService{dir: dir, s3: s3Service}
}

// Capture takes a full-page screenshot keyed by timestamp and returns
// the local path, or "" if the capture failed.
func (s *ScreenshotService) Capture(page playwright.Page, label string) string {
	if page == nil {
		return ""
	}

	timestamp := time.Now().Format("2006-01-02T15-04-05")
	filename := fmt.Sprintf("%s_%s.png", label, timestamp)
	path := filepath.Join(s.dir, filename)

	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		log.Warn().Err(err).Str("label", label).Msg("failed to take screenshot")
		return ""
	}
	log.Info().Str("path", path).Msg("screenshot saved")

	if s.s3 != nil {
		key := "screenshots/" + filename
		if _, err := s.s3.UploadFile(path, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("screenshot upload failed")
		}
	}
	return path
}
