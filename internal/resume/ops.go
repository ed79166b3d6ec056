package resume

import "errors"

var (
	// ErrLastEntry 表示列表只剩最后一条，删除被拒绝（长度下限为 1）。
	ErrLastEntry = errors.New("cannot remove the last entry")
	// ErrIndexOutOfRange 表示列表下标越界。
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrUnknownField 表示字段名不属于目标条目。
	ErrUnknownField = errors.New("unknown field")
)

// removeAt 从列表移除一项并保持长度 >= 1。
func removeAt[T any](list []T, index int) ([]T, error) {
	if index < 0 || index >= len(list) {
		return nil, ErrIndexOutOfRange
	}
	if len(list) <= 1 {
		return nil, ErrLastEntry
	}
	return append(list[:index:index], list[index+1:]...), nil
}

// AddExperience 追加一条空白工作经历。
func (r *Record) AddExperience() {
	r.WorkExperience = append(r.WorkExperience, blankExperience())
}

// RemoveExperience 删除指定下标的工作经历。
func (r *Record) RemoveExperience(index int) error {
	list, err := removeAt(r.WorkExperience, index)
	if err != nil {
		return err
	}
	r.WorkExperience = list
	return nil
}

// SetExperienceField 更新某条工作经历的单个字段。
func (r *Record) SetExperienceField(index int, field, value string) error {
	if index < 0 || index >= len(r.WorkExperience) {
		return ErrIndexOutOfRange
	}
	exp := &r.WorkExperience[index]
	switch field {
	case "title":
		exp.Title = value
	case "company":
		exp.Company = value
	case "location":
		exp.Location = value
	case "startDate":
		exp.StartDate = value
	case "endDate":
		exp.EndDate = value
	default:
		return ErrUnknownField
	}
	return nil
}

// AddExperienceAchievement 向第 index 条工作经历追加一条空白成就。
func (r *Record) AddExperienceAchievement(index int) error {
	if index < 0 || index >= len(r.WorkExperience) {
		return ErrIndexOutOfRange
	}
	exp := &r.WorkExperience[index]
	exp.Achievements = append(exp.Achievements, "")
	return nil
}

// RemoveExperienceAchievement 删除第 index 条工作经历的一条成就。
func (r *Record) RemoveExperienceAchievement(index, achievement int) error {
	if index < 0 || index >= len(r.WorkExperience) {
		return ErrIndexOutOfRange
	}
	list, err := removeAt(r.WorkExperience[index].Achievements, achievement)
	if err != nil {
		return err
	}
	r.WorkExperience[index].Achievements = list
	return nil
}

// SetExperienceAchievement 更新第 index 条工作经历的一条成就文本。
func (r *Record) SetExperienceAchievement(index, achievement int, value string) error {
	if index < 0 || index >= len(r.WorkExperience) {
		return ErrIndexOutOfRange
	}
	ach := r.WorkExperience[index].Achievements
	if achievement < 0 || achievement >= len(ach) {
		return ErrIndexOutOfRange
	}
	ach[achievement] = value
	return nil
}

// AddEducation 追加一条空白教育经历。
func (r *Record) AddEducation() {
	r.Education = append(r.Education, blankEducation())
}

// RemoveEducation 删除指定下标的教育经历。
func (r *Record) RemoveEducation(index int) error {
	list, err := removeAt(r.Education, index)
	if err != nil {
		return err
	}
	r.Education = list
	return nil
}

// SetEducationField 更新某条教育经历的单个字段。
func (r *Record) SetEducationField(index int, field, value string) error {
	if index < 0 || index >= len(r.Education) {
		return ErrIndexOutOfRange
	}
	edu := &r.Education[index]
	switch field {
	case "degree":
		edu.Degree = value
	case "institution":
		edu.Institution = value
	case "location":
		edu.Location = value
	case "startDate":
		edu.StartDate = value
	case "endDate":
		edu.EndDate = value
	default:
		return ErrUnknownField
	}
	return nil
}

// AddSkill 追加一条空白技能。
func (r *Record) AddSkill() {
	r.Skills = append(r.Skills, "")
}

// RemoveSkill 删除指定下标的技能。
func (r *Record) RemoveSkill(index int) error {
	list, err := removeAt(r.Skills, index)
	if err != nil {
		return err
	}
	r.Skills = list
	return nil
}

// SetSkill 更新指定下标的技能文本。
func (r *Record) SetSkill(index int, value string) error {
	if index < 0 || index >= len(r.Skills) {
		return ErrIndexOutOfRange
	}
	r.Skills[index] = value
	return nil
}

// AddCertification 追加一条空白证书。
func (r *Record) AddCertification() {
	r.Certifications = append(r.Certifications, blankCertification())
}

// RemoveCertification 删除指定下标的证书。
func (r *Record) RemoveCertification(index int) error {
	list, err := removeAt(r.Certifications, index)
	if err != nil {
		return err
	}
	r.Certifications = list
	return nil
}

// SetCertificationField 更新某条证书的单个字段。
func (r *Record) SetCertificationField(index int, field, value string) error {
	if index < 0 || index >= len(r.Certifications) {
		return ErrIndexOutOfRange
	}
	cert := &r.Certifications[index]
	switch field {
	case "name":
		cert.Name = value
	case "organization":
		cert.Organization = value
	case "year":
		cert.Year = value
	default:
		return ErrUnknownField
	}
	return nil
}

// AddProject 追加一条空白项目。
func (r *Record) AddProject() {
	r.Projects = append(r.Projects, blankProject())
}

// RemoveProject 删除指定下标的项目。
func (r *Record) RemoveProject(index int) error {
	list, err := removeAt(r.Projects, index)
	if err != nil {
		return err
	}
	r.Projects = list
	return nil
}

// SetProjectField 更新某个项目的单个字段。
func (r *Record) SetProjectField(index int, field, value string) error {
	if index < 0 || index >= len(r.Projects) {
		return ErrIndexOutOfRange
	}
	proj := &r.Projects[index]
	switch field {
	case "name":
		proj.Name = value
	case "description":
		proj.Description = value
	default:
		return ErrUnknownField
	}
	return nil
}

// AddProjectAchievement 向第 index 个项目追加一条空白成就。
func (r *Record) AddProjectAchievement(index int) error {
	if index < 0 || index >= len(r.Projects) {
		return ErrIndexOutOfRange
	}
	proj := &r.Projects[index]
	proj.Achievements = append(proj.Achievements, "")
	return nil
}

// RemoveProjectAchievement 删除第 index 个项目的一条成就。
func (r *Record) RemoveProjectAchievement(index, achievement int) error {
	if index < 0 || index >= len(r.Projects) {
		return ErrIndexOutOfRange
	}
	list, err := removeAt(r.Projects[index].Achievements, achievement)
	if err != nil {
		return err
	}
	r.Projects[index].Achievements = list
	return nil
}

// SetProjectAchievement 更新第 index 个项目的一条成就文本。
func (r *Record) SetProjectAchievement(index, achievement int, value string) error {
	if index < 0 || index >= len(r.Projects) {
		return ErrIndexOutOfRange
	}
	ach := r.Projects[index].Achievements
	if achievement < 0 || achievement >= len(ach) {
		return ErrIndexOutOfRange
	}
	ach[achievement] = value
	return nil
}

// AddLanguage 追加一条空白语言。
func (r *Record) AddLanguage() {
	r.AdditionalInfo.Languages = append(r.AdditionalInfo.Languages, "")
}

// RemoveLanguage 删除指定下标的语言。
func (r *Record) RemoveLanguage(index int) error {
	list, err := removeAt(r.AdditionalInfo.Languages, index)
	if err != nil {
		return err
	}
	r.AdditionalInfo.Languages = list
	return nil
}

// SetLanguage 更新指定下标的语言文本。
func (r *Record) SetLanguage(index int, value string) error {
	if index < 0 || index >= len(r.AdditionalInfo.Languages) {
		return ErrIndexOutOfRange
	}
	r.AdditionalInfo.Languages[index] = value
	return nil
}

// SetAdditionalField 更新附加信息的单个标量字段。
func (r *Record) SetAdditionalField(field, value string) error {
	switch field {
	case "volunteerExperience":
		r.AdditionalInfo.VolunteerExperience = value
	case "publications":
		r.AdditionalInfo.Publications = value
	default:
		return ErrUnknownField
	}
	return nil
}

// SetContactField 更新联系方式的单个字段。
func (r *Record) SetContactField(field, value string) error {
	switch field {
	case "fullName":
		r.Contact.FullName = value
	case "phoneNumber":
		r.Contact.PhoneNumber = value
	case "email":
		r.Contact.Email = value
	case "linkedIn":
		r.Contact.LinkedIn = value
	case "github":
		r.Contact.GitHub = value
	case "portfolio":
		r.Contact.Portfolio = value
	default:
		return ErrUnknownField
	}
	return nil
}
