package resume

import (
	"reflect"
	"testing"
)

func TestDefaultRecordShape(t *testing.T) {
	r := DefaultRecord()

	if r.Title != DefaultTitle {
		t.Fatalf("title = %q, want %q", r.Title, DefaultTitle)
	}
	if r.Theme != ThemeLight {
		t.Fatalf("theme = %q, want light", r.Theme)
	}
	if len(r.WorkExperience) != 1 || len(r.WorkExperience[0].Achievements) != 3 {
		t.Fatalf("unexpected work experience placeholders: %+v", r.WorkExperience)
	}
	if len(r.Skills) != 3 {
		t.Fatalf("skills = %d, want 3 placeholders", len(r.Skills))
	}
	if len(r.Education) != 1 || len(r.Certifications) != 1 {
		t.Fatalf("education/certifications must have one placeholder row")
	}
	if len(r.Projects) != 1 || len(r.Projects[0].Achievements) != 2 {
		t.Fatalf("unexpected project placeholders: %+v", r.Projects)
	}
	if len(r.AdditionalInfo.Languages) != 1 {
		t.Fatalf("languages = %d, want 1 placeholder", len(r.AdditionalInfo.Languages))
	}
}

func TestCloneIsolation(t *testing.T) {
	r := DefaultRecord()
	c := r.Clone()

	c.WorkExperience[0].Achievements[0] = "changed"
	c.Skills[0] = "changed"
	c.Projects[0].Achievements[0] = "changed"
	c.AdditionalInfo.Languages[0] = "changed"

	if r.WorkExperience[0].Achievements[0] != "" ||
		r.Skills[0] != "" ||
		r.Projects[0].Achievements[0] != "" ||
		r.AdditionalInfo.Languages[0] != "" {
		t.Fatal("mutating the clone leaked into the original record")
	}
}

func TestRemoveLastEntryRejected(t *testing.T) {
	r := DefaultRecord()

	cases := []struct {
		name   string
		remove func() error
		length func() int
	}{
		{"experience", func() error { return r.RemoveExperience(0) }, func() int { return len(r.WorkExperience) }},
		{"education", func() error { return r.RemoveEducation(0) }, func() int { return len(r.Education) }},
		{"certification", func() error { return r.RemoveCertification(0) }, func() int { return len(r.Certifications) }},
		{"project", func() error { return r.RemoveProject(0) }, func() int { return len(r.Projects) }},
		{"language", func() error { return r.RemoveLanguage(0) }, func() int { return len(r.AdditionalInfo.Languages) }},
	}

	for _, tc := range cases {
		before := tc.length()
		if before != 1 {
			t.Fatalf("%s: expected single placeholder, got %d", tc.name, before)
		}
		if err := tc.remove(); err != ErrLastEntry {
			t.Fatalf("%s: err = %v, want ErrLastEntry", tc.name, err)
		}
		if tc.length() != before {
			t.Fatalf("%s: length changed by rejected removal", tc.name)
		}
	}
}

func TestRemoveLastSkillRejected(t *testing.T) {
	r := DefaultRecord()
	if err := r.RemoveSkill(0); err != nil {
		t.Fatalf("remove skill 0: %v", err)
	}
	if err := r.RemoveSkill(0); err != nil {
		t.Fatalf("remove skill 0 again: %v", err)
	}
	if err := r.RemoveSkill(0); err != ErrLastEntry {
		t.Fatalf("err = %v, want ErrLastEntry", err)
	}
	if len(r.Skills) != 1 {
		t.Fatalf("skills = %d, want floor of 1", len(r.Skills))
	}
}

func TestAddThenRemoveRestoresList(t *testing.T) {
	r := DefaultRecord()
	before := r.Clone()

	r.AddExperience()
	if len(r.WorkExperience) != 2 {
		t.Fatalf("experience = %d after add, want 2", len(r.WorkExperience))
	}
	if err := r.RemoveExperience(1); err != nil {
		t.Fatalf("remove appended experience: %v", err)
	}

	if err := r.AddProjectAchievement(0); err != nil {
		t.Fatalf("add project achievement: %v", err)
	}
	if err := r.RemoveProjectAchievement(0, 2); err != nil {
		t.Fatalf("remove appended achievement: %v", err)
	}

	if !reflect.DeepEqual(r, before) {
		t.Fatalf("add+remove did not restore the record:\n got %+v\nwant %+v", r, before)
	}
}

func TestAchievementEditIsScopedToOneEntry(t *testing.T) {
	r := DefaultRecord()
	r.AddExperience()
	r.AddExperience()

	if err := r.SetExperienceAchievement(1, 0, "shipped the thing"); err != nil {
		t.Fatalf("set achievement: %v", err)
	}

	for j, exp := range r.WorkExperience {
		for i, ach := range exp.Achievements {
			if j == 1 && i == 0 {
				if ach != "shipped the thing" {
					t.Fatalf("target achievement not updated: %q", ach)
				}
				continue
			}
			if ach != "" {
				t.Fatalf("achievement (%d,%d) mutated: %q", j, i, ach)
			}
		}
	}

	if err := r.RemoveExperienceAchievement(1, 1); err != nil {
		t.Fatalf("remove achievement: %v", err)
	}
	if len(r.WorkExperience[0].Achievements) != 3 || len(r.WorkExperience[2].Achievements) != 3 {
		t.Fatal("removal leaked into sibling entries")
	}
}

func TestSetFieldUnknownAndOutOfRange(t *testing.T) {
	r := DefaultRecord()

	if err := r.SetExperienceField(0, "salary", "1"); err != ErrUnknownField {
		t.Fatalf("err = %v, want ErrUnknownField", err)
	}
	if err := r.SetExperienceField(5, "title", "x"); err != ErrIndexOutOfRange {
		t.Fatalf("err = %v, want ErrIndexOutOfRange", err)
	}
	if err := r.RemoveEducation(-1); err != ErrIndexOutOfRange {
		t.Fatalf("err = %v, want ErrIndexOutOfRange", err)
	}
	if err := r.SetContactField("fullName", "Jane Doe"); err != nil {
		t.Fatalf("set contact: %v", err)
	}
	if r.Contact.FullName != "Jane Doe" {
		t.Fatalf("fullName = %q", r.Contact.FullName)
	}
}

func TestNormalizeFillsAbsentFields(t *testing.T) {
	partial := Record{
		Contact: Contact{FullName: "Jane Doe"},
		Skills:  []string{"Go"},
		Theme:   Theme("neon"),
	}

	r := Normalize(partial)

	if r.Title != DefaultTitle {
		t.Fatalf("title = %q", r.Title)
	}
	if r.Contact.FullName != "Jane Doe" {
		t.Fatalf("fullName lost in normalization: %q", r.Contact.FullName)
	}
	if len(r.WorkExperience) != 1 || len(r.WorkExperience[0].Achievements) != 1 {
		t.Fatalf("work experience not backfilled: %+v", r.WorkExperience)
	}
	if len(r.Education) != 1 || len(r.Certifications) != 1 || len(r.Projects) != 1 {
		t.Fatal("list fields not backfilled")
	}
	if got := r.Skills; len(got) != 1 || got[0] != "Go" {
		t.Fatalf("skills rewritten: %v", got)
	}
	if r.Theme != ThemeLight {
		t.Fatalf("invalid theme not reset: %q", r.Theme)
	}
	if len(r.AdditionalInfo.Languages) != 1 {
		t.Fatal("languages not backfilled")
	}
}
