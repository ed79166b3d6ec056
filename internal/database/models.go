package database

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User 表示系统中的账号信息。
type User struct {
	gorm.Model
	Username           string   `gorm:"uniqueIndex;size:64"`
	PasswordHash       string   `gorm:"size:255"`
	MustChangePassword bool     `gorm:"default:false"`
	Resumes            []Resume `gorm:"constraint:OnDelete:CASCADE"`
}

// Resume 表示用户保存的简历文档。
// Content 以 JSONB 存储规范化的 ResumeRecord 正文；
// LastUpdated 仅由持久化网关在保存时盖章，编辑会话不得写入。
type Resume struct {
	gorm.Model
	Title           string         `gorm:"size:255"`
	Content         datatypes.JSON `gorm:"type:jsonb"`
	UserID          uint           `gorm:"index"`
	User            User           `gorm:"constraint:OnDelete:CASCADE"`
	LastUpdated     *time.Time     `gorm:"index"`
	ExportObjectKey string         `gorm:"size:512"`
	ExportStatus    string         `gorm:"size:32"`
}
