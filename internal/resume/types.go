package resume

import "time"

// Theme 枚举简历预览主题。
type Theme string

const (
	ThemeLight   Theme = "light"
	ThemeDark    Theme = "dark"
	ThemeVibrant Theme = "vibrant"
)

// Valid reports whether t is one of the known themes.
func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeVibrant:
		return true
	}
	return false
}

// Contact 表示简历的联系方式。LinkedIn/GitHub/Portfolio 为可选职业链接。
type Contact struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	LinkedIn    string `json:"linkedIn"`
	GitHub      string `json:"github"`
	Portfolio   string `json:"portfolio"`
}

// Experience 表示一段工作经历。
type Experience struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	Achievements []string `json:"achievements"`
}

// Education 表示一段教育经历。
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

// Certification 表示一项证书。
type Certification struct {
	Name         string `json:"name"`
	Organization string `json:"organization"`
	Year         string `json:"year"`
}

// Project 表示一个项目条目。
type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
}

// AdditionalInfo 收纳语言、志愿经历与出版物等附加信息。
type AdditionalInfo struct {
	Languages           []string `json:"languages"`
	VolunteerExperience string   `json:"volunteerExperience"`
	Publications        string   `json:"publications"`
}

// Record 是简历的规范结构。ID、OwnerID 与 LastUpdated 仅由持久化网关写入，
// 编辑器不得直接修改。
type Record struct {
	ID             string          `json:"id,omitempty"`
	Title          string          `json:"title"`
	Contact        Contact         `json:"contact"`
	Summary        string          `json:"summary"`
	WorkExperience []Experience    `json:"workExperience"`
	Skills         []string        `json:"skills"`
	Education      []Education     `json:"education"`
	Certifications []Certification `json:"certifications"`
	Projects       []Project       `json:"projects"`
	AdditionalInfo AdditionalInfo  `json:"additionalInfo"`
	Theme          Theme           `json:"theme"`
	LastUpdated    time.Time       `json:"lastUpdated,omitzero"`
	OwnerID        uint            `json:"ownerId,omitempty"`
}

// Clone 返回记录的深拷贝，列表与嵌套成就互不共享底层数组。
func (r Record) Clone() Record {
	out := r

	out.WorkExperience = make([]Experience, len(r.WorkExperience))
	for i, exp := range r.WorkExperience {
		exp.Achievements = append([]string(nil), exp.Achievements...)
		out.WorkExperience[i] = exp
	}

	out.Skills = append([]string(nil), r.Skills...)
	out.Education = append([]Education(nil), r.Education...)
	out.Certifications = append([]Certification(nil), r.Certifications...)

	out.Projects = make([]Project, len(r.Projects))
	for i, p := range r.Projects {
		p.Achievements = append([]string(nil), p.Achievements...)
		out.Projects[i] = p
	}

	out.AdditionalInfo.Languages = append([]string(nil), r.AdditionalInfo.Languages...)

	return out
}
