package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumeflow/internal/api/middleware"
	"resumeflow/internal/enhance"
	"resumeflow/internal/errcode"
)

// maxEnhanceUploadBytes 限制增强器上传体积。
const maxEnhanceUploadBytes = 10 << 20

// EnhanceHandler 暴露增强流水线的上传接口。
type EnhanceHandler struct {
	pipeline *enhance.Pipeline
	logger   *slog.Logger
}

// NewEnhanceHandler 构造 EnhanceHandler。
func NewEnhanceHandler(pipeline *enhance.Pipeline, logger *slog.Logger) *EnhanceHandler {
	return &EnhanceHandler{pipeline: pipeline, logger: logger}
}

// Enhance 接收上传文档并执行抽取，返回结构化记录与可下载的纯文本。
// 流水线失败只影响本次请求，客户端可换文件重试。
func (h *EnhanceHandler) Enhance(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "missing file")
		return
	}
	if file.Size > maxEnhanceUploadBytes {
		BadRequest(c, "file too large")
		return
	}

	reader, err := file.Open()
	if err != nil {
		Internal(c, "failed to open file")
		return
	}
	data, err := io.ReadAll(reader)
	reader.Close()
	if err != nil {
		Internal(c, "failed to read file")
		return
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	logger := middleware.LoggerFromContext(c).With(slog.Uint64("user_id", uint64(userID)))

	result, err := h.pipeline.Enhance(c.Request.Context(), userID, file.Filename, enhance.Document{
		Data:     data,
		MIMEType: contentType,
	})
	switch {
	case errors.Is(err, enhance.ErrMaliciousFile):
		logger.Warn("enhancer upload rejected by scanner")
		BadRequest(c, "malicious file detected")
		return
	case errors.Is(err, enhance.ErrMalformedResponse):
		logger.Warn("enhancer extraction returned non-json", slog.Any("error", err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      "extraction service returned malformed content",
			"error_code": errcode.MalformedResponse,
		})
		return
	case err != nil:
		logger.Error("enhancer pipeline failed", slog.Any("error", err))
		Internal(c, "enhance failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"record":   result.Record,
		"text":     result.Text,
		"filename": enhance.ExportFilename,
	})
}
