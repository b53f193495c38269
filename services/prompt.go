package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/phuong808/Pathfinity/models/roadmap"
)

const notSpecified = "not specified"

// PromptProfile is the slice of the student profile that reaches the model.
type PromptProfile struct {
	Program   string
	Career    string
	Interests []string
	Skills    []string
}

// BuildRoadmapPrompt assembles the single synthesis prompt: the student's
// goals, the enriched catalog context, the full pathway template, and the
// resolution contract the response must follow.
func BuildRoadmapPrompt(profile PromptProfile, enriched map[string]CourseInfo, codes []string, tpl *roadmap.Template) string {
	var b strings.Builder

	b.WriteString("You are an academic advisor creating a personalized multi-year degree roadmap.\n\n")

	b.WriteString("STUDENT PROFILE\n")
	fmt.Fprintf(&b, "Program: %s\n", orDefault(profile.Program))
	fmt.Fprintf(&b, "Career goal: %s\n", orDefault(profile.Career))
	fmt.Fprintf(&b, "Interests: %s\n", orDefault(strings.Join(profile.Interests, ", ")))
	fmt.Fprintf(&b, "Skills: %s\n\n", orDefault(strings.Join(profile.Skills, ", ")))

	b.WriteString("COURSE CATALOG CONTEXT\n")
	if len(enriched) == 0 {
		b.WriteString("(no catalog data available)\n")
	}
	// codes is already sorted; keeps the prompt stable between runs.
	for _, code := range codes {
		info, ok := enriched[code]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s: %s", code, info.Title)
		if info.Description != "" {
			fmt.Fprintf(&b, " — %s", info.Description)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("DEGREE PATHWAY TEMPLATE\n")
	tplJSON, err := json.MarshalIndent(tpl, "", "  ")
	if err == nil {
		b.Write(tplJSON)
	}
	b.WriteString("\n\n")

	b.WriteString(`INSTRUCTIONS
Rewrite the pathway template into a roadmap for this student:
1. Keep every year, semester, and course exactly where it is. Never add,
   remove, or reorder years, semesters, or courses.
2. For every course whose name lists alternatives (joined by "or", "and",
   "/", or commas), pick exactly ONE concrete course code that best fits the
   student's career goal, skills, and interests, using the catalog context
   above. The resolved name must be a single code and must not contain the
   words "or" or "and" or the "/" character.
3. Leave electives, general-education codes, and courses that already name a
   single class untouched.
4. Give every course an "isRelated" field: null, or a non-empty array of
   objects {"type": "skill"|"interest"|"career", "value": "<exact text from
   the student profile>"}. Only tag a course when its catalog description
   explicitly mentions the term or the course is clearly relevant by title.
5. Give every semester an "activities" array and a "milestones" array, each
   with at least two entries, specific to that semester's courses and the
   student's career goal.

Respond with a single JSON object and nothing else, in this shape:
{
  "program_name": string,
  "institution": string,
  "total_credits": number,
  "years": [
    {
      "year": number,
      "semesters": [
        {
          "term": "fall"|"spring"|"summer",
          "credits": number,
          "courses": [
            {"name": string, "credits": number, "isRelated": null | [{"type": string, "value": string}]}
          ],
          "activities": [string, string],
          "milestones": [string, string]
        }
      ]
    }
  ]
}`)

	return b.String()
}

func orDefault(v string) string {
	if strings.TrimSpace(v) == "" {
		return notSpecified
	}
	return v
}
