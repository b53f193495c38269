package services

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/phuong808/Pathfinity/models/roadmap"
)

// The model response is parsed into these raw shapes first and validated
// field by field; nothing from the response is trusted until it has passed
// through normalization.
type rawRoadmap struct {
	ProgramName  string          `json:"program_name"`
	Institution  string          `json:"institution"`
	TotalCredits json.RawMessage `json:"total_credits"`
	Years        []rawYear       `json:"years"`
}

type rawYear struct {
	Year      json.RawMessage `json:"year"`
	Semesters []rawSemester   `json:"semesters"`
}

type rawSemester struct {
	Term       string          `json:"term"`
	Credits    json.RawMessage `json:"credits"`
	Courses    []rawCourse     `json:"courses"`
	Activities json.RawMessage `json:"activities"`
	Milestones json.RawMessage `json:"milestones"`
}

type rawCourse struct {
	Name      string          `json:"name"`
	Credits   json.RawMessage `json:"credits"`
	IsRelated json.RawMessage `json:"isRelated"`
}

func normalizeYears(raw []rawYear) []roadmap.RoadmapYear {
	if raw == nil {
		return nil
	}
	years := make([]roadmap.RoadmapYear, 0, len(raw))
	for _, y := range raw {
		year := roadmap.RoadmapYear{
			Year:      int(coerceNumber(y.Year)),
			Semesters: make([]roadmap.RoadmapSemester, 0, len(y.Semesters)),
		}
		for _, s := range y.Semesters {
			sem := roadmap.RoadmapSemester{
				Term:       s.Term,
				Credits:    coerceNumber(s.Credits),
				Courses:    make([]roadmap.ResolvedCourse, 0, len(s.Courses)),
				Activities: normalizeEntries(s.Activities),
				Milestones: normalizeEntries(s.Milestones),
			}
			for _, c := range s.Courses {
				sem.Courses = append(sem.Courses, roadmap.ResolvedCourse{
					Name:      strings.TrimSpace(c.Name),
					Credits:   coerceNumber(c.Credits),
					IsRelated: normalizeRelations(c.IsRelated),
				})
			}
			year.Semesters = append(year.Semesters, sem)
		}
		years = append(years, year)
	}
	return years
}

// normalizeEntries coerces an activities/milestones field to trimmed,
// non-empty strings. Entries may be bare strings or objects carrying a
// "text" field; anything else keeps its raw JSON text. A missing or
// unusable field is an empty list, never an error.
func normalizeEntries(raw json.RawMessage) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return out
	}
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			var obj struct {
				Text *string `json:"text"`
			}
			if err := json.Unmarshal(item, &obj); err == nil && obj.Text != nil {
				s = *obj.Text
			} else {
				s = string(item)
			}
		}
		s = strings.TrimSpace(s)
		if s != "" && s != "null" {
			out = append(out, s)
		}
	}
	return out
}

// normalizeRelations validates an isRelated field: null stays null, and only
// entries with a known tag type and a non-empty value survive. An empty or
// unrecognizable array collapses back to null.
func normalizeRelations(raw json.RawMessage) []roadmap.RelationTag {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	var tags []roadmap.RelationTag
	for _, item := range items {
		var tag roadmap.RelationTag
		if err := json.Unmarshal(item, &tag); err != nil {
			continue
		}
		tag.Value = strings.TrimSpace(tag.Value)
		switch tag.Type {
		case "skill", "interest", "career":
		default:
			continue
		}
		if tag.Value == "" {
			continue
		}
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

// coerceNumber accepts a JSON number or a numeric string; anything else is
// zero.
func coerceNumber(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return 0
}
