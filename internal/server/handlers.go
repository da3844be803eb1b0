package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"netvisor/internal/capture"
	"netvisor/internal/metrics"
	"netvisor/internal/models"
	"netvisor/internal/zeek"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	msgRunning        = "NetVisor API is running"
	msgNeedZeekLog    = "Please upload a Zeek .log file."
	msgNeedCapture    = "Please upload a .pcap or .pcapng file."
	msgCaptureFailure = "Failed to parse pcap file. Check server logs for details."
)

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": msgRunning})
}

func (s *Server) handleZeekUpload(c *gin.Context) {
	logger := requestLog(c, s.logger)

	header, ok := s.formFile(c, msgNeedZeekLog, ".log")
	if !ok {
		return
	}

	file, err := header.Open()
	if err != nil {
		s.unexpected(c, logger, metrics.FormatZeek, err)
		return
	}
	defer file.Close()
	s.metrics.UploadBytes.Add(float64(header.Size))

	start := time.Now()
	result, err := zeek.ParseConnLog(file, logger)
	switch {
	case errors.Is(err, zeek.ErrSchemaNotFound), errors.Is(err, zeek.ErrMalformedRecord):
		logger.WithField("error", err.Error()).Warn("Rejected Zeek log")
		s.metrics.ObserveParse(metrics.FormatZeek, metrics.OutcomeClientError, 0, time.Since(start).Seconds())
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case err != nil:
		s.unexpected(c, logger, metrics.FormatZeek, err)
	default:
		s.respond(c, metrics.FormatZeek, result, start)
	}
}

func (s *Server) handleCaptureUpload(c *gin.Context) {
	logger := requestLog(c, s.logger)

	header, ok := s.formFile(c, msgNeedCapture, ".pcap", ".pcapng")
	if !ok {
		return
	}

	path, err := s.saveTemp(header)
	if err != nil {
		s.unexpected(c, logger, metrics.FormatCapture, err)
		return
	}
	defer os.Remove(path)
	s.metrics.UploadBytes.Add(float64(header.Size))

	start := time.Now()
	var result *models.ParseResult
	err = s.pool.Do(func() error {
		var parseErr error
		result, parseErr = capture.ParseFile(path, capture.Options{Location: s.location, Logger: logger})
		return parseErr
	})
	switch {
	case errors.Is(err, capture.ErrCaptureOpen):
		logger.WithField("error", err.Error()).Error("Failed to open capture")
		s.metrics.ObserveParse(metrics.FormatCapture, metrics.OutcomeServerError, 0, time.Since(start).Seconds())
		c.JSON(http.StatusInternalServerError, gin.H{"detail": msgCaptureFailure})
	case err != nil:
		s.unexpected(c, logger, metrics.FormatCapture, err)
	default:
		s.respond(c, metrics.FormatCapture, result, start)
	}
}

// formFile fetches the "file" upload and checks its extension. It writes
// the error response itself and reports whether the caller may continue.
func (s *Server) formFile(c *gin.Context, badType string, exts ...string) (*multipart.FileHeader, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadMB<<20)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"detail": fmt.Sprintf("Upload exceeds %d MB.", s.cfg.MaxUploadMB)})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Missing upload field \"file\"."})
		return nil, false
	}

	for _, ext := range exts {
		if strings.HasSuffix(header.Filename, ext) {
			return header, true
		}
	}
	c.JSON(http.StatusBadRequest, gin.H{"detail": badType})
	return nil, false
}

// saveTemp copies an upload to a temp file that keeps its extension.
func (s *Server) saveTemp(header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.CreateTemp(s.cfg.TempDir, "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}

func (s *Server) respond(c *gin.Context, format string, result *models.ParseResult, start time.Time) {
	s.metrics.ObserveParse(format, metrics.OutcomeOK, len(result.DetailedEvents), time.Since(start).Seconds())
	c.JSON(http.StatusOK, result)
}

func (s *Server) unexpected(c *gin.Context, logger log.FieldLogger, format string, err error) {
	logger.WithField("error", err.Error()).Error("Unexpected parse failure")
	s.metrics.ObserveParse(format, metrics.OutcomeServerError, 0, 0)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "An unexpected error occurred: " + err.Error()})
}
