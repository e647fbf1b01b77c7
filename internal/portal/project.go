package portal

import (
	"errors"
	"strings"
)

// ProjectSection is the section whose records name the applicant's projects.
const ProjectSection = "projects"

// ProjectNames lists the selectable project names: the default followed by
// every project added in this session, without duplicates.
func (s *Session) ProjectNames() []string {
	out := []string{DefaultProject}
	seen := map[string]bool{DefaultProject: true}
	sec, err := s.registry.Section(ProjectSection)
	if err != nil {
		return out
	}
	for _, r := range sec.Records() {
		n := strings.TrimSpace(r.Get("projectName"))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// SetProject selects the project every page submits against.
func (s *Session) SetProject(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("project name is empty")
	}
	for _, n := range s.ProjectNames() {
		if n == name {
			s.project = name
			return nil
		}
	}
	return errors.New("unknown project: " + name)
}
