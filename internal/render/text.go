// Package render 提供 ResumeRecord 到纯文本的唯一渲染实现。
// 向导下载、列表导出与增强流水线共用同一个函数，避免各处复制格式。
package render

import (
	"fmt"
	"strings"

	"resumeflow/internal/resume"
)

const (
	// FallbackBaseName 在标题为空时充当导出文件名。
	FallbackBaseName = "resume"

	placeholder = "N/A"
)

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

func joinOrNA(items []string) string {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			kept = append(kept, item)
		}
	}
	if len(kept) == 0 {
		return placeholder
	}
	return strings.Join(kept, ", ")
}

func experienceBlank(e resume.Experience) bool {
	return strings.TrimSpace(e.Title) == "" &&
		strings.TrimSpace(e.Company) == "" &&
		strings.TrimSpace(e.Location) == "" &&
		strings.TrimSpace(e.StartDate) == "" &&
		strings.TrimSpace(e.EndDate) == "" &&
		joinOrNA(e.Achievements) == placeholder
}

func educationBlank(e resume.Education) bool {
	return strings.TrimSpace(e.Degree) == "" &&
		strings.TrimSpace(e.Institution) == "" &&
		strings.TrimSpace(e.Location) == "" &&
		strings.TrimSpace(e.StartDate) == "" &&
		strings.TrimSpace(e.EndDate) == ""
}

func certificationBlank(c resume.Certification) bool {
	return strings.TrimSpace(c.Name) == "" &&
		strings.TrimSpace(c.Organization) == "" &&
		strings.TrimSpace(c.Year) == ""
}

func projectBlank(p resume.Project) bool {
	return strings.TrimSpace(p.Name) == "" &&
		strings.TrimSpace(p.Description) == "" &&
		joinOrNA(p.Achievements) == placeholder
}

// PlainText 将简历渲染为人类可读的纯文本。
// 完全空白的列表条目会被过滤；缺失字段以 "N/A" 占位。
func PlainText(r resume.Record) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Resume Title: %s\n", orNA(r.Title))
	fmt.Fprintf(&b, "Full Name: %s\n", orNA(r.Contact.FullName))
	fmt.Fprintf(&b, "Email: %s\n", orNA(r.Contact.Email))
	fmt.Fprintf(&b, "Phone Number: %s\n", orNA(r.Contact.PhoneNumber))
	fmt.Fprintf(&b, "LinkedIn: %s\n", orNA(r.Contact.LinkedIn))
	fmt.Fprintf(&b, "GitHub: %s\n", orNA(r.Contact.GitHub))
	fmt.Fprintf(&b, "Portfolio: %s\n", orNA(r.Contact.Portfolio))

	b.WriteString("\nSummary:\n")
	fmt.Fprintf(&b, "%s\n", orNA(r.Summary))

	b.WriteString("\nWork Experience:\n")
	wroteExperience := false
	for _, exp := range r.WorkExperience {
		if experienceBlank(exp) {
			continue
		}
		wroteExperience = true
		fmt.Fprintf(&b, "- %s at %s (%s - %s)\n",
			orNA(exp.Title), orNA(exp.Company), orNA(exp.StartDate), orNA(exp.EndDate))
		fmt.Fprintf(&b, "  Achievements: %s\n", joinOrNA(exp.Achievements))
	}
	if !wroteExperience {
		b.WriteString(placeholder + "\n")
	}

	b.WriteString("\nSkills:\n")
	fmt.Fprintf(&b, "%s\n", joinOrNA(r.Skills))

	b.WriteString("\nEducation:\n")
	wroteEducation := false
	for _, edu := range r.Education {
		if educationBlank(edu) {
			continue
		}
		wroteEducation = true
		fmt.Fprintf(&b, "- %s from %s (%s - %s)\n",
			orNA(edu.Degree), orNA(edu.Institution), orNA(edu.StartDate), orNA(edu.EndDate))
	}
	if !wroteEducation {
		b.WriteString(placeholder + "\n")
	}

	b.WriteString("\nCertifications:\n")
	wroteCertification := false
	for _, cert := range r.Certifications {
		if certificationBlank(cert) {
			continue
		}
		wroteCertification = true
		fmt.Fprintf(&b, "- %s (%s)\n", orNA(cert.Name), orNA(cert.Year))
	}
	if !wroteCertification {
		b.WriteString(placeholder + "\n")
	}

	b.WriteString("\nProjects:\n")
	wroteProject := false
	for _, proj := range r.Projects {
		if projectBlank(proj) {
			continue
		}
		wroteProject = true
		fmt.Fprintf(&b, "- %s: %s\n", orNA(proj.Name), orNA(proj.Description))
		fmt.Fprintf(&b, "  Achievements: %s\n", joinOrNA(proj.Achievements))
	}
	if !wroteProject {
		b.WriteString(placeholder + "\n")
	}

	b.WriteString("\nAdditional Information:\n")
	fmt.Fprintf(&b, "Languages: %s\n", joinOrNA(r.AdditionalInfo.Languages))
	fmt.Fprintf(&b, "Volunteer Experience: %s\n", orNA(r.AdditionalInfo.VolunteerExperience))
	fmt.Fprintf(&b, "Publications: %s\n", orNA(r.AdditionalInfo.Publications))

	return b.String()
}

// Filename 从标题派生导出文件名，标题为空时回退为固定名称。
func Filename(r resume.Record) string {
	base := strings.TrimSpace(r.Title)
	if base == "" {
		base = FallbackBaseName
	}
	// 标题会出现在 Content-Disposition 与对象键里，剔除路径与引号字符。
	replacer := strings.NewReplacer("/", "-", "\\", "-", "\"", "", "\n", " ", "\r", " ")
	base = strings.TrimSpace(replacer.Replace(base))
	if base == "" {
		base = FallbackBaseName
	}
	return base + ".txt"
}
