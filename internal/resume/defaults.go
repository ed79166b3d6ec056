package resume

// DefaultTitle 是新建简历的默认标题。
const DefaultTitle = "My Professional Resume"

// 占位条目数量沿用前端编辑器的初始行数，仅为渲染方便，不构成约束。
func blankExperience() Experience {
	return Experience{Achievements: []string{"", "", ""}}
}

func blankEducation() Education {
	return Education{}
}

func blankCertification() Certification {
	return Certification{}
}

func blankProject() Project {
	return Project{Achievements: []string{"", ""}}
}

// DefaultRecord 返回一份全新简历：标量为空、枚举取默认值，
// 每个列表至少含一条空白条目以便编辑器渲染首行。
func DefaultRecord() Record {
	return Record{
		Title:          DefaultTitle,
		Contact:        Contact{},
		Summary:        "",
		WorkExperience: []Experience{blankExperience()},
		Skills:         []string{"", "", ""},
		Education:      []Education{blankEducation()},
		Certifications: []Certification{blankCertification()},
		Projects:       []Project{blankProject()},
		AdditionalInfo: AdditionalInfo{Languages: []string{""}},
		Theme:          ThemeLight,
	}
}

// Normalize 将远端或外部服务返回的不完整记录补齐为完整形状：
// 空列表回填一条空白条目，非法主题回退为默认主题。
// 反序列化边界调用它，避免“任意形状”的值流入编辑器。
func Normalize(r Record) Record {
	out := r.Clone()

	if out.Title == "" {
		out.Title = DefaultTitle
	}
	if len(out.WorkExperience) == 0 {
		out.WorkExperience = []Experience{blankExperience()}
	}
	for i := range out.WorkExperience {
		if len(out.WorkExperience[i].Achievements) == 0 {
			out.WorkExperience[i].Achievements = []string{""}
		}
	}
	if len(out.Skills) == 0 {
		out.Skills = []string{""}
	}
	if len(out.Education) == 0 {
		out.Education = []Education{blankEducation()}
	}
	if len(out.Certifications) == 0 {
		out.Certifications = []Certification{blankCertification()}
	}
	if len(out.Projects) == 0 {
		out.Projects = []Project{blankProject()}
	}
	for i := range out.Projects {
		if len(out.Projects[i].Achievements) == 0 {
			out.Projects[i].Achievements = []string{""}
		}
	}
	if len(out.AdditionalInfo.Languages) == 0 {
		out.AdditionalInfo.Languages = []string{""}
	}
	if !out.Theme.Valid() {
		out.Theme = ThemeLight
	}

	return out
}
