package render

import (
	"strings"
	"testing"

	"resumeflow/internal/resume"
)

func TestPlainTextAllBlank(t *testing.T) {
	r := resume.Record{}
	out := PlainText(r)

	if out == "" {
		t.Fatal("empty output for blank record")
	}

	wantLines := []string{
		"Resume Title: N/A",
		"Full Name: N/A",
		"Email: N/A",
		"Phone Number: N/A",
		"LinkedIn: N/A",
		"GitHub: N/A",
		"Portfolio: N/A",
		"Languages: N/A",
		"Volunteer Experience: N/A",
		"Publications: N/A",
	}
	for _, line := range wantLines {
		if !strings.Contains(out, line) {
			t.Fatalf("output missing %q:\n%s", line, out)
		}
	}

	for _, header := range []string{"Summary:", "Work Experience:", "Skills:", "Education:", "Certifications:", "Projects:", "Additional Information:"} {
		if !strings.Contains(out, header+"\n") {
			t.Fatalf("output missing section header %q", header)
		}
	}
}

func TestPlainTextDefaultRecordFiltersPlaceholders(t *testing.T) {
	out := PlainText(resume.DefaultRecord())

	// 默认记录的占位行全部为空白，应被过滤为 N/A 而不是渲染空条目。
	if strings.Contains(out, "-  at") || strings.Contains(out, "- : ") {
		t.Fatalf("blank entries leaked into output:\n%s", out)
	}
	if !strings.Contains(out, "Work Experience:\nN/A") {
		t.Fatalf("blank experience list should render N/A:\n%s", out)
	}
}

func TestPlainTextPopulated(t *testing.T) {
	r := resume.DefaultRecord()
	r.Title = "Backend Resume"
	r.Contact.FullName = "Jane Doe"
	r.Contact.Email = "jane@example.com"
	r.Summary = "Go engineer."
	r.WorkExperience[0] = resume.Experience{
		Title:        "Engineer",
		Company:      "Acme",
		StartDate:    "Jan 2020",
		EndDate:      "Now",
		Achievements: []string{"built the API", "", "cut latency"},
	}
	r.Skills = []string{"Go", "", "SQL"}
	r.Education[0] = resume.Education{Degree: "BSc", Institution: "State U", StartDate: "2014", EndDate: "2018"}
	r.Certifications[0] = resume.Certification{Name: "CKA", Year: "2022"}
	r.Projects[0] = resume.Project{Name: "resumeflow", Description: "builder", Achievements: []string{"shipped"}}

	out := PlainText(r)

	for _, want := range []string{
		"Resume Title: Backend Resume",
		"Full Name: Jane Doe",
		"- Engineer at Acme (Jan 2020 - Now)",
		"  Achievements: built the API, cut latency",
		"Go, SQL",
		"- BSc from State U (2014 - 2018)",
		"- CKA (2022)",
		"- resumeflow: builder",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFilename(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"My Professional Resume", "My Professional Resume.txt"},
		{"", "resume.txt"},
		{"   ", "resume.txt"},
		{`a/b\c"d`, "a-b-cd.txt"},
	}
	for _, tc := range cases {
		r := resume.Record{Title: tc.title}
		if got := Filename(r); got != tc.want {
			t.Errorf("Filename(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}
