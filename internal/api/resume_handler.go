package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"resumeflow/internal/api/middleware"
	"resumeflow/internal/render"
	"resumeflow/internal/store"
	"resumeflow/internal/tasks"
	"resumeflow/internal/worker"
)

// taskEnqueuer 是导出入队的最小接口，便于测试替身。
type taskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// presigner 是导出下载链接依赖的对象存储子集。
type presigner interface {
	PresignedDownloadURL(ctx context.Context, objectKey, filename string, duration time.Duration) (string, error)
}

// ResumeHandler 服务于列表页：列出、查看、删除与导出简历。
type ResumeHandler struct {
	gateway     *store.Gateway
	asynqClient taskEnqueuer
	storage     presigner
}

// NewResumeHandler 构造 ResumeHandler。
func NewResumeHandler(gateway *store.Gateway, asynqClient taskEnqueuer, storageClient presigner) *ResumeHandler {
	return &ResumeHandler{
		gateway:     gateway,
		asynqClient: asynqClient,
		storage:     storageClient,
	}
}

func respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidID):
		BadRequest(c, "invalid resume id")
	case errors.Is(err, store.ErrNotFound):
		NotFound(c, "resume not found")
	case errors.Is(err, store.ErrNotAuthenticated):
		Unauthorized(c)
	default:
		Internal(c, "internal error")
	}
}

type resumeListItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	LastUpdated time.Time `json:"lastUpdated,omitzero"`
}

// ListResumes 列出用户全部简历，按 lastUpdated 倒序。
func (h *ResumeHandler) ListResumes(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	records, err := h.gateway.List(c.Request.Context(), userID)
	if err != nil {
		Internal(c, "failed to list resumes")
		return
	}

	items := make([]resumeListItem, 0, len(records))
	for _, rec := range records {
		items = append(items, resumeListItem{
			ID:          rec.ID,
			Title:       rec.Title,
			LastUpdated: rec.LastUpdated,
		})
	}
	c.JSON(http.StatusOK, items)
}

// GetResume 返回指定简历的完整记录。
func (h *ResumeHandler) GetResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	rec, err := h.gateway.GetForOwner(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// DeleteResume 删除指定简历。重复删除返回 404，列表不受影响。
func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	if err := h.gateway.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportResume 将纯文本导出任务入队并立即返回 202。
func (h *ResumeHandler) ExportResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	rec, err := h.gateway.GetForOwner(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	correlationID := middleware.GetCorrelationID(c)
	task, err := tasks.NewExportGenerateTask(rec.ID, userID, correlationID)
	if err != nil {
		Internal(c, "failed to create task")
		return
	}

	info, err := h.asynqClient.Enqueue(task, asynq.MaxRetry(5))
	if err != nil {
		Internal(c, "failed to enqueue export")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "export request accepted",
		"task_id": info.ID,
	})
}

// GetExportLink 生成已完成导出的预签名下载链接。
func (h *ResumeHandler) GetExportLink(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	rec, err := h.gateway.GetForOwner(ctx, c.Param("id"), userID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	objectKey, status, err := h.gateway.ExportResult(ctx, rec.ID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if status != worker.ExportStatusCompleted || objectKey == "" {
		Conflict(c, "export not ready")
		return
	}

	signedURL, err := h.storage.PresignedDownloadURL(ctx, objectKey, render.Filename(rec), 5*time.Minute)
	if err != nil {
		Internal(c, "failed to generate download link")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": signedURL})
}

// DownloadResume 同步渲染并内联返回 .txt 导出（不经过任务队列）。
func (h *ResumeHandler) DownloadResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	rec, err := h.gateway.GetForOwner(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	text := render.PlainText(rec)
	c.Header("Content-Disposition", `attachment; filename="`+render.Filename(rec)+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}
