// Package wizard 实现六步编辑会话。会话持有一份进行中的记录，
// 每次成功的编辑都把完整记录写回草稿槽；远端保存成功后清槽并回到默认记录。
package wizard

import (
	"context"
	"errors"
	"sync"

	"resumeflow/internal/draft"
	"resumeflow/internal/render"
	"resumeflow/internal/resume"
	"resumeflow/internal/store"
)

// ErrInvalidTheme 表示主题取值不在枚举内。
var ErrInvalidTheme = errors.New("invalid theme")

// Gateway 是会话依赖的持久化子集。
type Gateway interface {
	Save(ctx context.Context, rec resume.Record, ownerID uint) (resume.Record, error)
	GetForOwner(ctx context.Context, id string, ownerID uint) (resume.Record, error)
}

// Identity 向会话提供当前用户。未登录时返回 0。
type Identity interface {
	CurrentUserID() uint
}

// IdentityFunc 把函数适配为 Identity。
type IdentityFunc func() uint

// CurrentUserID 实现 Identity。
func (f IdentityFunc) CurrentUserID() uint { return f() }

// Session 是一个用户的编辑会话。所有依赖由构造函数注入，不存在全局状态。
type Session struct {
	mu       sync.Mutex
	record   resume.Record
	step     Step
	drafts   draft.Store
	gateway  Gateway
	identity Identity
}

// NewSession 构造会话，初始为默认记录与第一步。
func NewSession(drafts draft.Store, gateway Gateway, identity Identity) *Session {
	return &Session{
		record:   resume.DefaultRecord(),
		step:     StepBasicInfo,
		drafts:   drafts,
		gateway:  gateway,
		identity: identity,
	}
}

// Bootstrap 装载会话初始记录。给定 resumeID 时走编辑模式：
// 远端记录覆盖任何残留草稿；否则恢复草稿（缺失或损坏时即默认记录）。
// 草稿存储不可用不阻塞编辑，内存记录保持可用。
func (s *Session) Bootstrap(ctx context.Context, resumeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner := s.identity.CurrentUserID()

	if resumeID != "" {
		if owner == 0 {
			return store.ErrNotAuthenticated
		}
		rec, err := s.gateway.GetForOwner(ctx, resumeID, owner)
		if err != nil {
			return err
		}
		s.record = rec
		s.step = StepBasicInfo
		// 让草稿槽跟上远端记录，中途退出可恢复。
		_ = s.drafts.Save(ctx, owner, rec)
		return nil
	}

	rec, err := s.drafts.Load(ctx, owner)
	s.record = rec
	s.step = StepBasicInfo
	if err != nil && !errors.Is(err, draft.ErrUnavailable) {
		return err
	}
	return nil
}

// Record 返回当前记录的深拷贝。
func (s *Session) Record() resume.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Clone()
}

// Step 返回当前步骤。
func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Next 前进一步。步骤切换无条件放行，不做校验门。
func (s *Session) Next() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step < StepTheme {
		s.step++
	}
	return s.step
}

// Prev 后退一步。
func (s *Session) Prev() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step > StepBasicInfo {
		s.step--
	}
	return s.step
}

// GoTo 直接跳到指定步骤。
func (s *Session) GoTo(step Step) error {
	if step < StepBasicInfo || step > StepTheme {
		return errors.New("step out of range")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step = step
	return nil
}

// mutate 在记录的克隆上执行编辑，成功后替换会话记录并写回草稿槽。
// 编辑失败时会话记录保持不变。
func (s *Session) mutate(ctx context.Context, fn func(*resume.Record) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.record.Clone()
	if err := fn(&rec); err != nil {
		return err
	}
	s.record = rec
	return s.drafts.Save(ctx, s.identity.CurrentUserID(), rec)
}

// SetTitle 更新简历标题。
func (s *Session) SetTitle(ctx context.Context, title string) error {
	return s.mutate(ctx, func(r *resume.Record) error {
		r.Title = title
		return nil
	})
}

// SetSummary 更新职业概述。
func (s *Session) SetSummary(ctx context.Context, summary string) error {
	return s.mutate(ctx, func(r *resume.Record) error {
		r.Summary = summary
		return nil
	})
}

// SetTheme 更新预览主题，取值必须在枚举内。
func (s *Session) SetTheme(ctx context.Context, theme resume.Theme) error {
	if !theme.Valid() {
		return ErrInvalidTheme
	}
	return s.mutate(ctx, func(r *resume.Record) error {
		r.Theme = theme
		return nil
	})
}

// SetContactField 更新联系方式的单个字段。
func (s *Session) SetContactField(ctx context.Context, field, value string) error {
	return s.mutate(ctx, func(r *resume.Record) error {
		return r.SetContactField(field, value)
	})
}

// SetAdditionalField 更新附加信息的标量字段。
func (s *Session) SetAdditionalField(ctx context.Context, field, value string) error {
	return s.mutate(ctx, func(r *resume.Record) error {
		return r.SetAdditionalField(field, value)
	})
}

// AddExperience 追加一条空白工作经历。
func (s *Session) AddExperience(ctx context.Context) error {
	return s.mutate(ctx, func(r *resume.Record) error {
		r.AddExperience()
		return nil
	})
}

// RemoveExperience 删除一条工作经历，列表至少保留一条。
func (s *Session) RemoveExperience(ctx context.Context, index int) error {
	return s.mutate(ctx, func(r *resume.Record) error {
		return r.RemoveExperience(index)
	})
}

// SetExperienceField 更新某条工作经历的单个字段。
func (s *Session) SetExperienceField(ctx context.Context, index int, field, value string) error {
	return s.mutate(ctx, func(r *resume.Record) error {
		return r.SetExperienceField(index, field, value)
	})
}

// AddExperienceAchievement 向某条工作经历追加一条空白成就。
func (s *Session) AddExperienceAchievement(ctx context.Context, index int) error {
	return s.mutate(ctx, func(r *resume.Record) error {
		return r.AddExperienceAchievement(index)
	})
}

// RemoveExperienceAchievement 删除某条工作经历的一条成就。
func (s *Session) RemoveExperienceAchievement(ctx context.Context, index, achievement int) error {
	return s.mutate(ctx, func(r *resume.Record) error {
		return r.RemoveExperienceAchievement(index, achievement)
	})
}

// SetExperienceAchievement 更新某条工作经历的一条成就文本。
func (s *Session) SetExperienceAchievement(ctx context.Context, index, achievement int, value string) error {
	return s.mutate(ctx, func(r *resume.Record) error {
		return r.SetExperienceAchievement(index, achievement, value)
	})
}

// AddEducation 追加一条空白教育经历。
func (s *Session) AddEducation(ctx context.Context) error {
	return s.mutate(ctx, func(r *resume.Record) error {
		r.AddEducation()
		return nil
	})
}

// RemoveEducation 删除一条教育经历。
func (s *Session) RemoveEducation(ctx context.Context, index int) error {
	return s.mutate(ctx, func(r *resume.Record) error {
		return r.RemoveEducation(index)
	})
}

// SetEducationField 更新某条教育经历的单个字段。
func (s *Session) SetEducationField(ctx context.Context, index int, field, value string) error {
	return s.mutate(ctx, func(r *resume.Record) error {
		return r.SetEducationField(index, field, value)
	})
}

// AddSkill 追加一条空白技能。
func (s *Session) AddSkill(ctx context.Context) error {
	return s.mutate(ctx, func(r *resume.Record) error {
		r.AddSkill()
		return nil
	})
}

// RemoveSkill 删除一条技能。
func (s *Session) RemoveSkill(ctx context.Context, index int) error {
	return s.mutate(ctx, func(r *resume.Record) error {
		return r.RemoveSkill(index)
	})
}

// SetSkill 更新一条技能文本。
func (s *Session) SetSkill(ctx context.Context, index int, value string) error {
	return s.mutate(ctx, func(r *resume.Record) error {
		return r.SetSkill(index, value)
	})
}

// AddCertification 追加一条空白证书。
func (s *Session) AddCertification(ctx context.Context) error {
	return s.mutate(ctx, func(r *resume.Record) error {
		r.AddCertification()
		return nil
	})
}

// RemoveCertification 删除一条证书。
func (s *Session) RemoveCertification(ctx context.Context, index int) error {
	return s.mutate(ctx, func(r *resume.Record) error {
		return r.RemoveCertification(index)
	})
}

// SetCertificationField 更新某条证书的单个字段。
func (s *Session) SetCertificationField(ctx context.Context, index int, field, value string) error {
	return s.mutate(ctx, func(r *resume.Record) error {
		return r.SetCertificationField(index, field, value)
	})
}

// AddProject 追加一个空白项目。
func (s *Session) AddProject(ctx context.Context) error {
	return s.mutate(ctx, func(r *resume.Record) error {
		r.AddProject()
		return nil
	})
}

// RemoveProject 删除一个项目。
func (s *Session) RemoveProject(ctx context.Context, index int) error {
	return s.mutate(ctx, func(r *resume.Record) error {
		return r.RemoveProject(index)
	})
}

// SetProjectField 更新某个项目的单个字段。
func (s *Session) SetProjectField(ctx context.Context, index int, field, value string) error {
	return s.mutate(ctx, func(r *resume.Record) error {
		return r.SetProjectField(index, field, value)
	})
}

// AddProjectAchievement 向某个项目追加一条空白成就。
func (s *Session) AddProjectAchievement(ctx context.Context, index int) error {
	return s.mutate(ctx, func(r *resume.Record) error {
		return r.AddProjectAchievement(index)
	})
}

// RemoveProjectAchievement 删除某个项目的一条成就。
func (s *Session) RemoveProjectAchievement(ctx context.Context, index, achievement int) error {
	return s.mutate(ctx, func(r *resume.Record) error {
		return r.RemoveProjectAchievement(index, achievement)
	})
}

// SetProjectAchievement 更新某个项目的一条成就文本。
func (s *Session) SetProjectAchievement(ctx context.Context, index, achievement int, value string) error {
	return s.mutate(ctx, func(r *resume.Record) error {
		return r.SetProjectAchievement(index, achievement, value)
	})
}

// AddLanguage 追加一条空白语言。
func (s *Session) AddLanguage(ctx context.Context) error {
	return s.mutate(ctx, func(r *resume.Record) error {
		r.AddLanguage()
		return nil
	})
}

// RemoveLanguage 删除一条语言。
func (s *Session) RemoveLanguage(ctx context.Context, index int) error {
	return s.mutate(ctx, func(r *resume.Record) error {
		return r.RemoveLanguage(index)
	})
}

// SetLanguage 更新一条语言文本。
func (s *Session) SetLanguage(ctx context.Context, index int, value string) error {
	return s.mutate(ctx, func(r *resume.Record) error {
		return r.SetLanguage(index, value)
	})
}

// Save 把当前记录写入远端，成功后清空草稿槽并把会话重置为默认记录。
// 没有登录身份时拒绝写入，会话与草稿均保持原状。
func (s *Session) Save(ctx context.Context) (resume.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner := s.identity.CurrentUserID()
	if owner == 0 {
		return resume.Record{}, store.ErrNotAuthenticated
	}

	saved, err := s.gateway.Save(ctx, s.record, owner)
	if err != nil {
		return resume.Record{}, err
	}

	// 清槽失败不回滚远端保存，下次 Bootstrap 会拿到过期草稿并被覆盖。
	_ = s.drafts.Clear(ctx, owner)
	s.record = resume.DefaultRecord()
	s.step = StepBasicInfo

	return saved, nil
}

// Download 渲染当前记录的纯文本导出，返回文件名与内容。
func (s *Session) Download() (filename, content string) {
	s.mu.Lock()
	rec := s.record.Clone()
	s.mu.Unlock()
	return render.Filename(rec), render.PlainText(rec)
}
