// Package worker 消费后台任务：渲染简历纯文本导出并通知前端。
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"resumeflow/internal/errcode"
	"resumeflow/internal/render"
	"resumeflow/internal/resume"
	"resumeflow/internal/store"
	"resumeflow/internal/tasks"
)

// 导出状态，写回简历行供列表页展示。
const (
	ExportStatusCompleted = "completed"
	ExportStatusFailed    = "failed"
)

// exportGateway 是导出任务依赖的持久化子集。
type exportGateway interface {
	GetForOwner(ctx context.Context, id string, ownerID uint) (resume.Record, error)
	SetExportResult(ctx context.Context, id string, objectKey, status string) error
}

// exportUploader 是导出任务依赖的对象存储子集。
type exportUploader interface {
	Upload(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error)
}

// notifyPublisher 是导出任务依赖的发布端子集。
type notifyPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// ExportTaskHandler 负责消费导出任务。
type ExportTaskHandler struct {
	gateway   exportGateway
	uploader  exportUploader
	publisher notifyPublisher
	logger    *slog.Logger
}

// NewExportTaskHandler 创建任务处理器。
func NewExportTaskHandler(gateway exportGateway, uploader exportUploader, publisher notifyPublisher, logger *slog.Logger) *ExportTaskHandler {
	return &ExportTaskHandler{
		gateway:   gateway,
		uploader:  uploader,
		publisher: publisher,
		logger:    logger,
	}
}

// ProcessTask 实现 asynq.Handler。
func (h *ExportTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	var payload tasks.ExportGeneratePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.logger.Error("unmarshal task payload failed", slog.Any("error", err))
		return err
	}

	log := h.logger.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.String("resume_id", payload.ResumeID),
		slog.Uint64("owner_id", uint64(payload.OwnerID)),
	)
	log.Info("starting resume export task")

	defer func() {
		if retErr == nil {
			return
		}
		if !isFinalAsynqAttempt(ctx) {
			return
		}

		_ = h.gateway.SetExportResult(ctx, payload.ResumeID, "", ExportStatusFailed)
		notify := ExportNotifyMessage{
			Status:        "error",
			ResumeID:      payload.ResumeID,
			CorrelationID: payload.CorrelationID,
			ErrorCode:     errcode.SystemError,
			ErrorMessage:  strings.TrimSpace(retErr.Error()),
		}
		if err := h.publishNotify(ctx, payload.OwnerID, notify); err != nil {
			log.Error("publish export error notification failed", slog.Any("error", err))
		}
	}()

	rec, err := h.gateway.GetForOwner(ctx, payload.ResumeID, payload.OwnerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			log.Warn("resume not found, skipping task")
			return nil
		}
		log.Error("load resume failed", slog.Any("error", err))
		return err
	}

	text := render.PlainText(rec)
	objectKey := fmt.Sprintf("generated-exports/%d/%s.txt", payload.OwnerID, uuid.NewString())
	if _, err := h.uploader.Upload(ctx, objectKey, strings.NewReader(text), int64(len(text)), "text/plain; charset=utf-8"); err != nil {
		log.Error("upload export failed", slog.Any("error", err))
		return err
	}

	if err := h.gateway.SetExportResult(ctx, payload.ResumeID, objectKey, ExportStatusCompleted); err != nil {
		log.Error("record export result failed", slog.Any("error", err))
		return err
	}

	notify := ExportNotifyMessage{
		Status:        "completed",
		ResumeID:      payload.ResumeID,
		ObjectKey:     objectKey,
		CorrelationID: payload.CorrelationID,
		ErrorCode:     errcode.OK,
	}
	if err := h.publishNotify(ctx, payload.OwnerID, notify); err != nil {
		log.Error("publish export notification failed", slog.Any("error", err))
		return err
	}

	log.Info("resume export task completed")
	return nil
}

func (h *ExportTaskHandler) publishNotify(ctx context.Context, userID uint, notify ExportNotifyMessage) error {
	data, err := json.Marshal(notify)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	channel := fmt.Sprintf("user_notify:%d", userID)
	if err := h.publisher.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish redis notification to %q: %w", channel, err)
	}
	return nil
}

func isFinalAsynqAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}
