package roadmap

// Template is one institution-authored degree pathway: an ordered tree of
// years, semesters, and course slots. Templates live in static JSON files
// and are immutable within a pipeline run.
type Template struct {
	ProgramName  string  `json:"program_name"`
	Institution  string  `json:"institution"`
	TotalCredits float64 `json:"total_credits"`
	Years        []Year  `json:"years"`
}

type Year struct {
	Year      int        `json:"year"`
	Semesters []Semester `json:"semesters"`
}

type Semester struct {
	Term    string  `json:"term"` // fall | spring | summer
	Credits float64 `json:"credits"`
	Courses []Slot  `json:"courses"`
}

// Slot is one line item in a semester. Name may be a single concrete course
// ("ICS 111"), a gen-ed code ("FW"), an elective marker ("ICS 400+"), or a
// choice ("MATH 215 or 241").
type Slot struct {
	Name    string  `json:"name"`
	Credits float64 `json:"credits"`
}

// Roadmap is the persisted output document: the template tree with every
// choice collapsed to a single course, plus relevance annotations and
// per-semester activities and milestones.
type Roadmap struct {
	ProgramName  string        `json:"program_name"`
	Institution  string        `json:"institution"`
	TotalCredits float64       `json:"total_credits"`
	CareerGoal   string        `json:"career_goal,omitempty"`
	Interests    []string      `json:"interests,omitempty"`
	Skills       []string      `json:"skills,omitempty"`
	Years        []RoadmapYear `json:"years"`
}

type RoadmapYear struct {
	Year      int               `json:"year"`
	Semesters []RoadmapSemester `json:"semesters"`
}

type RoadmapSemester struct {
	Term       string           `json:"term"`
	Credits    float64          `json:"credits"`
	Courses    []ResolvedCourse `json:"courses"`
	Activities []string         `json:"activities"`
	Milestones []string         `json:"milestones"`
}

// ResolvedCourse is a Slot after synthesis. IsRelated is nil (marshals as
// null) or a non-empty list of relation tags.
type ResolvedCourse struct {
	Name      string        `json:"name"`
	Credits   float64       `json:"credits"`
	IsRelated []RelationTag `json:"isRelated"`
}

// RelationTag links a course to a profile attribute it serves. Value is
// verbatim profile text.
type RelationTag struct {
	Type  string `json:"type"` // skill | interest | career
	Value string `json:"value"`
}
