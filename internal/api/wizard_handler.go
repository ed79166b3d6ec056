package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resumeflow/internal/draft"
	"resumeflow/internal/resume"
	"resumeflow/internal/store"
	"resumeflow/internal/wizard"
)

// WizardHandler 暴露六步编辑会话的 HTTP 接口。
type WizardHandler struct {
	sessions   *wizard.Manager
	gateway    *store.Gateway
	maxResumes int
}

// NewWizardHandler 构造 WizardHandler。
func NewWizardHandler(sessions *wizard.Manager, gateway *store.Gateway, maxResumes int) *WizardHandler {
	return &WizardHandler{
		sessions:   sessions,
		gateway:    gateway,
		maxResumes: maxResumes,
	}
}

// respondWizardError 把会话层的哨兵错误映射为 HTTP 状态。
func respondWizardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotAuthenticated):
		Unauthorized(c)
	case errors.Is(err, store.ErrNotFound):
		NotFound(c, "resume not found")
	case errors.Is(err, store.ErrInvalidID):
		BadRequest(c, "invalid resume id")
	case errors.Is(err, resume.ErrLastEntry):
		Conflict(c, "cannot remove the last entry")
	case errors.Is(err, resume.ErrIndexOutOfRange):
		BadRequest(c, "index out of range")
	case errors.Is(err, resume.ErrUnknownField):
		BadRequest(c, "unknown field")
	case errors.Is(err, wizard.ErrInvalidTheme):
		BadRequest(c, "invalid theme")
	case errors.Is(err, draft.ErrUnavailable):
		Error(c, http.StatusServiceUnavailable, "draft storage unavailable")
	default:
		Internal(c, "internal error")
	}
}

type wizardStateResponse struct {
	Step   string        `json:"step"`
	Record resume.Record `json:"record"`
}

func (h *WizardHandler) stateResponse(s *wizard.Session) wizardStateResponse {
	return wizardStateResponse{
		Step:   s.Step().String(),
		Record: s.Record(),
	}
}

func (h *WizardHandler) session(c *gin.Context) (*wizard.Session, bool) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return nil, false
	}
	return h.sessions.Session(userID), true
}

type bootstrapRequest struct {
	ResumeID string `json:"resumeId"`
}

// Bootstrap 装载会话：带 resumeId 时进入编辑模式，否则恢复草稿。
func (h *WizardHandler) Bootstrap(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req bootstrapRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		BadRequest(c, err.Error())
		return
	}

	if err := s.Bootstrap(c.Request.Context(), req.ResumeID); err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.stateResponse(s))
}

// State 返回当前步骤与记录。
func (h *WizardHandler) State(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.stateResponse(s))
}

// NextStep 前进一步。
func (h *WizardHandler) NextStep(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.Next()
	c.JSON(http.StatusOK, h.stateResponse(s))
}

// PrevStep 后退一步。
func (h *WizardHandler) PrevStep(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.Prev()
	c.JSON(http.StatusOK, h.stateResponse(s))
}

type gotoStepRequest struct {
	Step string `json:"step" binding:"required"`
}

// GotoStep 跳转到指定步骤。
func (h *WizardHandler) GotoStep(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req gotoStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	step, err := wizard.ParseStep(req.Step)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := s.GoTo(step); err != nil {
		BadRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, h.stateResponse(s))
}

type valueRequest struct {
	Value string `json:"value"`
}

type fieldValueRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// SetTitle 更新简历标题。
func (h *WizardHandler) SetTitle(c *gin.Context) {
	h.applyValue(c, func(s *wizard.Session, v string) error {
		return s.SetTitle(c.Request.Context(), v)
	})
}

// SetSummary 更新职业概述。
func (h *WizardHandler) SetSummary(c *gin.Context) {
	h.applyValue(c, func(s *wizard.Session, v string) error {
		return s.SetSummary(c.Request.Context(), v)
	})
}

// SetTheme 更新预览主题。
func (h *WizardHandler) SetTheme(c *gin.Context) {
	h.applyValue(c, func(s *wizard.Session, v string) error {
		return s.SetTheme(c.Request.Context(), resume.Theme(v))
	})
}

// SetContactField 更新联系方式的单个字段。
func (h *WizardHandler) SetContactField(c *gin.Context) {
	h.applyFieldValue(c, func(s *wizard.Session, field, value string) error {
		return s.SetContactField(c.Request.Context(), field, value)
	})
}

// SetAdditionalField 更新附加信息的标量字段。
func (h *WizardHandler) SetAdditionalField(c *gin.Context) {
	h.applyFieldValue(c, func(s *wizard.Session, field, value string) error {
		return s.SetAdditionalField(c.Request.Context(), field, value)
	})
}

func (h *WizardHandler) applyValue(c *gin.Context, apply func(*wizard.Session, string) error) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req valueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := apply(s, req.Value); err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.stateResponse(s))
}

func (h *WizardHandler) applyFieldValue(c *gin.Context, apply func(*wizard.Session, string, string) error) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req fieldValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := apply(s, req.Field, req.Value); err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.stateResponse(s))
}

func indexParam(c *gin.Context, name string) (int, bool) {
	index, err := strconv.Atoi(c.Param(name))
	if err != nil || index < 0 {
		BadRequest(c, fmt.Sprintf("invalid %s", name))
		return 0, false
	}
	return index, true
}

// AddEntry 向某个列表小节追加一条空白条目。
func (h *WizardHandler) AddEntry(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var err error
	switch c.Param("section") {
	case "experience":
		err = s.AddExperience(ctx)
	case "education":
		err = s.AddEducation(ctx)
	case "skills":
		err = s.AddSkill(ctx)
	case "certifications":
		err = s.AddCertification(ctx)
	case "projects":
		err = s.AddProject(ctx)
	case "languages":
		err = s.AddLanguage(ctx)
	default:
		BadRequest(c, "unknown section")
		return
	}
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.stateResponse(s))
}

// RemoveEntry 删除某个列表小节的一条条目，每个列表至少保留一条。
func (h *WizardHandler) RemoveEntry(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var err error
	switch c.Param("section") {
	case "experience":
		err = s.RemoveExperience(ctx, index)
	case "education":
		err = s.RemoveEducation(ctx, index)
	case "skills":
		err = s.RemoveSkill(ctx, index)
	case "certifications":
		err = s.RemoveCertification(ctx, index)
	case "projects":
		err = s.RemoveProject(ctx, index)
	case "languages":
		err = s.RemoveLanguage(ctx, index)
	default:
		BadRequest(c, "unknown section")
		return
	}
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.stateResponse(s))
}

// UpdateEntry 更新某条列表条目的一个叶子字段。
// skills 与 languages 是纯文本列表，只接受 value。
func (h *WizardHandler) UpdateEntry(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}

	var req fieldValueRequest
	section := c.Param("section")
	if section == "skills" || section == "languages" {
		var vr valueRequest
		if err := c.ShouldBindJSON(&vr); err != nil {
			BadRequest(c, err.Error())
			return
		}
		req.Value = vr.Value
	} else if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	var err error
	switch section {
	case "experience":
		err = s.SetExperienceField(ctx, index, req.Field, req.Value)
	case "education":
		err = s.SetEducationField(ctx, index, req.Field, req.Value)
	case "skills":
		err = s.SetSkill(ctx, index, req.Value)
	case "certifications":
		err = s.SetCertificationField(ctx, index, req.Field, req.Value)
	case "projects":
		err = s.SetProjectField(ctx, index, req.Field, req.Value)
	case "languages":
		err = s.SetLanguage(ctx, index, req.Value)
	default:
		BadRequest(c, "unknown section")
		return
	}
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.stateResponse(s))
}

// AddAchievement 向工作经历或项目条目追加一条空白成就。
func (h *WizardHandler) AddAchievement(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var err error
	switch c.Param("section") {
	case "experience":
		err = s.AddExperienceAchievement(ctx, index)
	case "projects":
		err = s.AddProjectAchievement(ctx, index)
	default:
		BadRequest(c, "unknown section")
		return
	}
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.stateResponse(s))
}

// RemoveAchievement 删除一条成就，成就列表至少保留一条。
func (h *WizardHandler) RemoveAchievement(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}
	achievement, ok := indexParam(c, "achievement")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var err error
	switch c.Param("section") {
	case "experience":
		err = s.RemoveExperienceAchievement(ctx, index, achievement)
	case "projects":
		err = s.RemoveProjectAchievement(ctx, index, achievement)
	default:
		BadRequest(c, "unknown section")
		return
	}
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.stateResponse(s))
}

// UpdateAchievement 更新一条成就文本。
func (h *WizardHandler) UpdateAchievement(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}
	achievement, ok := indexParam(c, "achievement")
	if !ok {
		return
	}

	var req valueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	var err error
	switch c.Param("section") {
	case "experience":
		err = s.SetExperienceAchievement(ctx, index, achievement, req.Value)
	case "projects":
		err = s.SetProjectAchievement(ctx, index, achievement, req.Value)
	default:
		BadRequest(c, "unknown section")
		return
	}
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.stateResponse(s))
}

// Save 把当前记录写入远端；新建时受简历数量限额约束。
// 保存成功后会话回到默认记录，响应携带已盖章的远端记录。
func (h *WizardHandler) Save(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	s := h.sessions.Session(userID)

	ctx := c.Request.Context()
	if s.Record().ID == "" && h.maxResumes > 0 {
		count, err := h.gateway.Count(ctx, userID)
		if err != nil {
			Internal(c, "failed to count resumes")
			return
		}
		if count >= int64(h.maxResumes) {
			Forbidden(c, "resume limit reached")
			return
		}
	}

	saved, err := s.Save(ctx)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": saved})
}

// Download 内联返回当前记录的 .txt 导出。
func (h *WizardHandler) Download(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	filename, content := s.Download()
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(content))
}
