// Package store 是 ResumeRecord 与远端文档库之间的持久化网关。
// id、ownerId 与 lastUpdated 只在这里盖章，编辑会话一律只读。
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"resumeflow/internal/database"
	"resumeflow/internal/resume"
)

var (
	// ErrNotAuthenticated 表示缺少有效身份时发起了需要属主的写操作。
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNotFound 表示引用的简历不存在（或不属于调用者）。
	ErrNotFound = errors.New("resume not found")
	// ErrInvalidID 表示简历标识无法解析。
	ErrInvalidID = errors.New("invalid resume id")
)

// Gateway 将 ResumeRecord 映射到 PostgreSQL 的 JSONB 文档。
type Gateway struct {
	db *gorm.DB
}

// NewGateway 构造持久化网关。
func NewGateway(db *gorm.DB) *Gateway {
	return &Gateway{db: db}
}

func parseID(id string) (uint, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return 0, ErrInvalidID
	}
	return uint(n), nil
}

// contentJSON 序列化记录正文，剥掉仅由网关盖章的字段。
func contentJSON(rec resume.Record) (datatypes.JSON, error) {
	body := rec.Clone()
	body.ID = ""
	body.OwnerID = 0
	body.LastUpdated = time.Time{}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal resume content: %w", err)
	}
	return datatypes.JSON(data), nil
}

// decode 将存储行还原为完整的 ResumeRecord。
// 远端内容按“可能缺字段”的部分形状解码，随即 Normalize 补齐。
func decode(row database.Resume) resume.Record {
	var rec resume.Record
	if err := json.Unmarshal(row.Content, &rec); err != nil {
		rec = resume.Record{}
	}
	rec = resume.Normalize(rec)
	rec.ID = strconv.FormatUint(uint64(row.ID), 10)
	rec.Title = row.Title
	rec.OwnerID = row.UserID
	if row.LastUpdated != nil {
		rec.LastUpdated = *row.LastUpdated
	} else {
		rec.LastUpdated = time.Time{}
	}
	return rec
}

// Save 持久化一条记录：无 id 时新建并返回分配的 id，
// 有 id 时按属主定位并做合并式覆盖。两种路径都会盖章 lastUpdated 与 ownerId。
func (g *Gateway) Save(ctx context.Context, rec resume.Record, ownerID uint) (resume.Record, error) {
	if ownerID == 0 {
		return resume.Record{}, ErrNotAuthenticated
	}

	content, err := contentJSON(rec)
	if err != nil {
		return resume.Record{}, err
	}
	now := time.Now().UTC()

	if rec.ID == "" {
		row := database.Resume{
			Title:       rec.Title,
			Content:     content,
			UserID:      ownerID,
			LastUpdated: &now,
		}
		if err := g.db.WithContext(ctx).Create(&row).Error; err != nil {
			return resume.Record{}, fmt.Errorf("create resume: %w", err)
		}
		return decode(row), nil
	}

	id, err := parseID(rec.ID)
	if err != nil {
		return resume.Record{}, err
	}

	updates := map[string]any{
		"title":        rec.Title,
		"content":      content,
		"last_updated": &now,
	}
	res := g.db.WithContext(ctx).
		Model(&database.Resume{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(updates)
	if res.Error != nil {
		return resume.Record{}, fmt.Errorf("update resume: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return resume.Record{}, ErrNotFound
	}

	var row database.Resume
	if err := g.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return resume.Record{}, fmt.Errorf("reload resume: %w", err)
	}
	return decode(row), nil
}

// List 返回属主的全部简历，按 lastUpdated 倒序；缺少时间戳的排在最后。
func (g *Gateway) List(ctx context.Context, ownerID uint) ([]resume.Record, error) {
	var rows []database.Resume
	if err := g.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("last_updated DESC NULLS LAST").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}

	records := make([]resume.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, decode(row))
	}
	return records, nil
}

// Get 按 id 返回完整记录。
func (g *Gateway) Get(ctx context.Context, id string) (resume.Record, error) {
	numericID, err := parseID(id)
	if err != nil {
		return resume.Record{}, err
	}

	var row database.Resume
	if err := g.db.WithContext(ctx).First(&row, numericID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return resume.Record{}, ErrNotFound
		}
		return resume.Record{}, fmt.Errorf("query resume: %w", err)
	}
	return decode(row), nil
}

// GetForOwner 按 id 与属主返回记录，属主不匹配视同不存在。
func (g *Gateway) GetForOwner(ctx context.Context, id string, ownerID uint) (resume.Record, error) {
	numericID, err := parseID(id)
	if err != nil {
		return resume.Record{}, err
	}

	var row database.Resume
	if err := g.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", numericID, ownerID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return resume.Record{}, ErrNotFound
		}
		return resume.Record{}, fmt.Errorf("query resume: %w", err)
	}
	return decode(row), nil
}

// Delete 删除属主的一条简历。删除不存在的 id 返回 ErrNotFound，
// 由调用方决定如何向用户报告；重复删除不会产生副作用。
func (g *Gateway) Delete(ctx context.Context, id string, ownerID uint) error {
	numericID, err := parseID(id)
	if err != nil {
		return ErrInvalidID
	}

	res := g.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", numericID, ownerID).
		Delete(&database.Resume{})
	if res.Error != nil {
		return fmt.Errorf("delete resume: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count 返回属主的简历数量，供创建限额检查。
func (g *Gateway) Count(ctx context.Context, ownerID uint) (int64, error) {
	var count int64
	if err := g.db.WithContext(ctx).
		Model(&database.Resume{}).
		Where("user_id = ?", ownerID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count resumes: %w", err)
	}
	return count, nil
}

// ExportResult 返回导出产物的对象键与状态。
func (g *Gateway) ExportResult(ctx context.Context, id string) (objectKey, status string, err error) {
	numericID, err := parseID(id)
	if err != nil {
		return "", "", ErrInvalidID
	}
	var row database.Resume
	if err := g.db.WithContext(ctx).
		Select("id", "export_object_key", "export_status").
		First(&row, numericID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", ErrNotFound
		}
		return "", "", fmt.Errorf("query export result: %w", err)
	}
	return row.ExportObjectKey, row.ExportStatus, nil
}

// SetExportResult 记录导出产物的对象键与状态，由后台任务回写。
func (g *Gateway) SetExportResult(ctx context.Context, id string, objectKey, status string) error {
	numericID, err := parseID(id)
	if err != nil {
		return ErrInvalidID
	}
	res := g.db.WithContext(ctx).
		Model(&database.Resume{}).
		Where("id = ?", numericID).
		Updates(map[string]any{
			"export_object_key": objectKey,
			"export_status":     status,
		})
	if res.Error != nil {
		return fmt.Errorf("update export result: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
