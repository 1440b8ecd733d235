// Package resume splits plain resume text into the structured fields that
// are handed to the summarizer.
package resume

import (
	"encoding/json"
	"strings"
)

const (
	bullet = "•"
	dash   = "–"
)

type Profile struct {
	Personal   PersonalInfo        `json:"personal_info"`
	Education  []*Education        `json:"education"`
	Experience []*Experience       `json:"experience"`
	Projects   []*Project          `json:"projects"`
	Skills     map[string][]string `json:"skills"`
}

type PersonalInfo struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution,omitempty"`
	Duration    string `json:"duration,omitempty"`
}

type Experience struct {
	Title       string   `json:"title"`
	Duration    string   `json:"duration"`
	Description []string `json:"description,omitempty"`
}

type Project struct {
	Name         string   `json:"name"`
	Technologies []string `json:"technologies"`
	Link         string   `json:"link,omitempty"`
	Description  []string `json:"description,omitempty"`
}

// JSON renders the profile for prompts.
func (p *Profile) JSON() (string, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// IsEmpty reports whether parsing recognised nothing at all.
func (p *Profile) IsEmpty() bool {
	return p.Personal == PersonalInfo{} &&
		len(p.Education) == 0 &&
		len(p.Experience) == 0 &&
		len(p.Projects) == 0 &&
		len(p.Skills) == 0
}

func trimAll(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
