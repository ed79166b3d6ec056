package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypeExportGenerate = "export:generate"
)

// ExportGeneratePayload 描述生成纯文本导出所需的最小信息。
type ExportGeneratePayload struct {
	ResumeID      string `json:"resume_id"`
	OwnerID       uint   `json:"owner_id"`
	CorrelationID string `json:"correlation_id"`
}

// NewExportGenerateTask 构造一个新的简历导出任务。
func NewExportGenerateTask(resumeID string, ownerID uint, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(ExportGeneratePayload{
		ResumeID:      resumeID,
		OwnerID:       ownerID,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeExportGenerate, payload), nil
}
