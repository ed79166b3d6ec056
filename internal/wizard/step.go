package wizard

import "fmt"

// Step 枚举向导的六个步骤。
type Step int

const (
	StepBasicInfo Step = iota
	StepExperience
	StepEducation
	StepSkills
	StepProjects
	StepTheme
)

var stepNames = [...]string{
	StepBasicInfo:  "basic-info",
	StepExperience: "experience",
	StepEducation:  "education",
	StepSkills:     "skills",
	StepProjects:   "projects",
	StepTheme:      "theme",
}

// String 返回步骤的路由名。
func (s Step) String() string {
	if s < StepBasicInfo || s > StepTheme {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// ParseStep 把路由名还原为步骤。
func ParseStep(name string) (Step, error) {
	for i, n := range stepNames {
		if n == name {
			return Step(i), nil
		}
	}
	return 0, fmt.Errorf("unknown step %q", name)
}
