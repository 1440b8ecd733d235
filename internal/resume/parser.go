package resume

import (
	"strings"
)

type section int

const (
	header section = iota
	education
	experience
	projects
	skills
)

var headings = map[string]section{
	"education":        education,
	"experience":       experience,
	"projects":         projects,
	"technical skills": skills,
}

var degreeMarkers = []string{"Bachelor", "Master"}

type parser struct {
	profile *Profile
	section section

	degree  *Education
	job     *Experience
	project *Project
}

// Parse reads a resume line by line. The lines before the first heading hold
// the contact line ("Name | email | linkedin | github | phone"); headings
// switch the section, and each section recognises its own item shapes.
// Lines that fit nothing are ignored.
func Parse(text string) *Profile {
	p := &parser{profile: &Profile{
		Education:  []*Education{},
		Experience: []*Experience{},
		Projects:   []*Project{},
		Skills:     map[string][]string{},
	}}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if next, ok := headings[strings.ToLower(line)]; ok {
			p.flush()
			p.section = next
			continue
		}

		switch p.section {
		case header:
			p.contact(line)
		case education:
			p.educationLine(line)
		case experience:
			p.experienceLine(line)
		case projects:
			p.projectLine(line)
		case skills:
			p.skillLine(line)
		}
	}
	p.flush()

	return p.profile
}

// flush appends the item under construction to its section.
func (p *parser) flush() {
	if p.degree != nil {
		p.profile.Education = append(p.profile.Education, p.degree)
		p.degree = nil
	}
	if p.job != nil {
		p.profile.Experience = append(p.profile.Experience, p.job)
		p.job = nil
	}
	if p.project != nil {
		p.profile.Projects = append(p.profile.Projects, p.project)
		p.project = nil
	}
}

func (p *parser) contact(line string) {
	if !strings.Contains(line, "|") {
		return
	}

	parts := trimAll(strings.Split(line, "|"))
	info := &p.profile.Personal
	info.Name = parts[0]

	for _, part := range parts[1:] {
		switch {
		case strings.Contains(part, "@"):
			info.Email = part
		case strings.Contains(part, "linkedin.com"):
			info.LinkedIn = part
		case strings.Contains(part, "github.com"):
			info.GitHub = part
		case strings.Contains(part, "+"):
			info.Phone = part
		}
	}
}

func (p *parser) educationLine(line string) {
	switch {
	case isDegree(line):
		p.flush()
		p.degree = &Education{Degree: line}
	case p.degree == nil:
	case strings.Contains(line, dash):
		p.degree.Duration = line
	case p.degree.Duration == "":
		p.degree.Institution = line
	}
}

func isDegree(line string) bool {
	for _, marker := range degreeMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

func (p *parser) experienceLine(line string) {
	switch {
	case !strings.Contains(line, bullet) && strings.Contains(line, dash):
		p.flush()
		title, duration, _ := strings.Cut(line, dash)
		p.job = &Experience{
			Title:    strings.TrimSpace(title),
			Duration: strings.TrimSpace(duration),
		}
	case strings.Contains(line, bullet) && p.job != nil:
		p.job.Description = append(p.job.Description, bulletText(line))
	}
}

func (p *parser) projectLine(line string) {
	switch {
	case !strings.Contains(line, bullet) && strings.Contains(line, "|"):
		p.flush()
		parts := trimAll(strings.Split(line, "|"))
		p.project = &Project{
			Name:         parts[0],
			Technologies: parts[1 : len(parts)-1],
			Link:         parts[len(parts)-1],
		}
	case strings.Contains(line, bullet) && p.project != nil:
		p.project.Description = append(p.project.Description, bulletText(line))
	}
}

func (p *parser) skillLine(line string) {
	category, list, ok := strings.Cut(line, ":")
	if !ok {
		return
	}
	p.profile.Skills[strings.TrimSpace(category)] = trimAll(strings.Split(list, ","))
}

func bulletText(line string) string {
	return strings.TrimSpace(strings.ReplaceAll(line, bullet, ""))
}
