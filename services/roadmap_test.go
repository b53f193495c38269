package services

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/phuong808/Pathfinity/models/campus"
	"github.com/phuong808/Pathfinity/models/courses"
	"github.com/phuong808/Pathfinity/models/roadmap"
	"github.com/phuong808/Pathfinity/models/users"
)

// fakeStore is an in-memory Store for pipeline tests.
type fakeStore struct {
	users      map[uint]*users.User
	campuses   []campus.Campus
	courses    map[string]courses.Course // keyed "PREFIX NUMBER"
	courseErrs map[string]error

	saved     map[uint]datatypes.JSON
	saveCalls int
	saveErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      make(map[uint]*users.User),
		courses:    make(map[string]courses.Course),
		courseErrs: make(map[string]error),
		saved:      make(map[uint]datatypes.JSON),
		campuses: []campus.Campus{
			{ID: 1, Name: "University of Hawaii at Manoa", Aliases: datatypes.NewJSONSlice([]string{"UH Manoa", "Manoa"})},
			{ID: 2, Name: "University of Hawaii at Hilo", Aliases: datatypes.NewJSONSlice([]string{"UH Hilo"})},
		},
	}
}

func (f *fakeStore) GetUser(_ context.Context, id uint) (*users.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return u, nil
}

func (f *fakeStore) GetCampusByID(_ context.Context, id uint) (*campus.Campus, error) {
	for i := range f.campuses {
		if f.campuses[i].ID == id {
			return &f.campuses[i], nil
		}
	}
	return nil, ErrCampusNotFound
}

func (f *fakeStore) ListCampuses(_ context.Context) ([]campus.Campus, error) {
	return f.campuses, nil
}

func (f *fakeStore) FindCourse(_ context.Context, _ uint, prefix, number string) (*courses.Course, error) {
	code := strings.ToUpper(courses.Course{Prefix: prefix, Number: number}.Code())
	if err, ok := f.courseErrs[code]; ok {
		return nil, err
	}
	c, ok := f.courses[code]
	if !ok {
		return nil, ErrCourseNotFound
	}
	return &c, nil
}

func (f *fakeStore) SaveRoadmap(_ context.Context, userID uint, doc datatypes.JSON) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saveCalls++
	f.saved[userID] = doc
	return nil
}

// fakeGenerator returns a canned response and records the prompt.
type fakeGenerator struct {
	response string
	err      error
	calls    int
	prompt   string
}

func (f *fakeGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

const testTemplate = `{
  "program_name": "Computer Science, B.S.",
  "institution": "University of Hawaii at Manoa",
  "total_credits": 120,
  "years": [
    {
      "year": 1,
      "semesters": [
        {
          "term": "fall",
          "credits": 11,
          "courses": [
            {"name": "ICS 111", "credits": 4},
            {"name": "MATH 215 or 241", "credits": 4},
            {"name": "FW", "credits": 3}
          ]
        },
        {
          "term": "spring",
          "credits": 7,
          "courses": [
            {"name": "ICS 211", "credits": 4},
            {"name": "Elective", "credits": 3}
          ]
        }
      ]
    }
  ]
}`

// goodResponse resolves "MATH 215 or 241" to MATH 241 and satisfies the
// activities/milestones contract, wrapped in the prose a model might emit.
const goodResponse = "Here is the roadmap you asked for:\n" + `{
  "program_name": "Computer Science, B.S.",
  "institution": "University of Hawaii at Manoa",
  "total_credits": 120,
  "years": [
    {
      "year": 1,
      "semesters": [
        {
          "term": "fall",
          "credits": 11,
          "courses": [
            {"name": "ICS 111", "credits": 4, "isRelated": [{"type": "skill", "value": "Python"}]},
            {"name": "MATH 241", "credits": 4, "isRelated": null},
            {"name": "FW", "credits": 3, "isRelated": null}
          ],
          "activities": ["Join the ICS student club", {"text": "Set up a GitHub portfolio"}],
          "milestones": ["Pass ICS 111 with a B or better", "Declare the B.S. track"]
        },
        {
          "term": "spring",
          "credits": 7,
          "courses": [
            {"name": "ICS 211", "credits": 4, "isRelated": [{"type": "career", "value": "Software Engineer"}, {"type": "bogus", "value": "dropped"}]},
            {"name": "Elective", "credits": 3, "isRelated": []}
          ],
          "activities": ["Attend the spring career fair", "Start a small personal project"],
          "milestones": [" Apply for a summer internship ", "Finish the core intro sequence", "   "]
        }
      ]
    }
  ]
}` + "\nLet me know if you need anything else."

func newTestService(t *testing.T, store Store, gen TextGenerator) *RoadmapService {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "computer_science_bs.json"), []byte(testTemplate), 0o644))
	return NewRoadmapService(store, gen, zap.NewNop().Sugar(), dir)
}

func seedUser(store *fakeStore, college string) *users.User {
	u := &users.User{
		ID:      7,
		College: college,
		Program: "Computer Science, B.S.",
		Career:  "Software Engineer",
		Skills:  []users.Skill{{Name: "Python"}},
		Interests: []users.Interest{
			{Name: "machine learning"},
		},
	}
	store.users[7] = u
	return u
}

func TestGenerateRoadmapUnsupportedCampus(t *testing.T) {
	store := newFakeStore()
	seedUser(store, "2") // Hilo
	gen := &fakeGenerator{response: goodResponse}
	svc := newTestService(t, store, gen)

	err := svc.GenerateRoadmap(context.Background(), 7)
	require.NoError(t, err)

	// Null roadmap persisted, model never called.
	assert.Equal(t, 1, store.saveCalls)
	saved, ok := store.saved[7]
	require.True(t, ok)
	assert.Nil(t, saved)
	assert.Equal(t, 0, gen.calls)
}

func TestGenerateRoadmapUnmatchedProgram(t *testing.T) {
	store := newFakeStore()
	user := seedUser(store, "1")
	user.Program = "Philosophy, B.A."
	gen := &fakeGenerator{response: goodResponse}
	svc := newTestService(t, store, gen)

	require.NoError(t, svc.GenerateRoadmap(context.Background(), 7))
	assert.Nil(t, store.saved[7])
	assert.Equal(t, 0, gen.calls)
}

func TestGenerateRoadmapFullRun(t *testing.T) {
	store := newFakeStore()
	seedUser(store, "UH Manoa") // alias resolution
	store.courses["ICS 111"] = courses.Course{Prefix: "ICS", Number: "111", Title: "Introduction to Computer Science I", Description: "Problem solving in Python.", Units: 4}
	store.courses["MATH 215"] = courses.Course{Prefix: "MATH", Number: "215", Title: "Applied Calculus I", Units: 4}
	store.courseErrs["ICS 211"] = errors.New("catalog backend unavailable")
	gen := &fakeGenerator{response: goodResponse}
	svc := newTestService(t, store, gen)

	require.NoError(t, svc.GenerateRoadmap(context.Background(), 7))
	require.Equal(t, 1, gen.calls)

	// Prompt carries profile terms, enriched catalog lines, and the template.
	assert.Contains(t, gen.prompt, "Software Engineer")
	assert.Contains(t, gen.prompt, "machine learning")
	assert.Contains(t, gen.prompt, "ICS 111: Introduction to Computer Science I")
	assert.Contains(t, gen.prompt, "Problem solving in Python.")
	assert.Contains(t, gen.prompt, `"MATH 215 or 241"`)

	saved := store.saved[7]
	require.NotNil(t, saved)
	var doc roadmap.Roadmap
	require.NoError(t, json.Unmarshal(saved, &doc))

	assert.Equal(t, "Computer Science, B.S.", doc.ProgramName)
	assert.Equal(t, "University of Hawaii at Manoa", doc.Institution)
	assert.Equal(t, float64(120), doc.TotalCredits)
	assert.Equal(t, "Software Engineer", doc.CareerGoal)
	assert.Equal(t, []string{"machine learning"}, doc.Interests)
	assert.Equal(t, []string{"Python"}, doc.Skills)

	// Tree shape preserved: 1 year, 2 semesters, 3 + 2 courses.
	require.Len(t, doc.Years, 1)
	require.Len(t, doc.Years[0].Semesters, 2)
	fall := doc.Years[0].Semesters[0]
	spring := doc.Years[0].Semesters[1]
	require.Len(t, fall.Courses, 3)
	require.Len(t, spring.Courses, 2)

	// The choice slot collapsed to a single code with no connective.
	assert.Equal(t, "MATH 241", fall.Courses[1].Name)
	for _, sem := range doc.Years[0].Semesters {
		for _, course := range sem.Courses {
			assert.NotContains(t, course.Name, " or ")
			assert.NotContains(t, course.Name, "/")
		}
	}

	// Activities and milestones normalized to >= 2 trimmed strings.
	for _, sem := range doc.Years[0].Semesters {
		assert.GreaterOrEqual(t, len(sem.Activities), 2)
		assert.GreaterOrEqual(t, len(sem.Milestones), 2)
		for _, entry := range append(append([]string{}, sem.Activities...), sem.Milestones...) {
			assert.Equal(t, strings.TrimSpace(entry), entry)
			assert.NotEmpty(t, entry)
		}
	}
	assert.Contains(t, fall.Activities, "Set up a GitHub portfolio")
	assert.Contains(t, spring.Milestones, "Apply for a summer internship")

	// isRelated: null or non-empty with valid tags only.
	require.NotNil(t, fall.Courses[0].IsRelated)
	assert.Equal(t, []roadmap.RelationTag{{Type: "skill", Value: "Python"}}, fall.Courses[0].IsRelated)
	assert.Nil(t, fall.Courses[1].IsRelated)
	require.Len(t, spring.Courses[0].IsRelated, 1)
	assert.Equal(t, "career", spring.Courses[0].IsRelated[0].Type)
	assert.Nil(t, spring.Courses[1].IsRelated)
}

func TestGenerateRoadmapNoJSONInResponse(t *testing.T) {
	store := newFakeStore()
	seedUser(store, "1")
	gen := &fakeGenerator{response: "I cannot produce a roadmap right now."}
	svc := newTestService(t, store, gen)

	err := svc.GenerateRoadmap(context.Background(), 7)
	var parseErr *SynthesisParseError
	require.ErrorAs(t, err, &parseErr)

	// No partial write: the prior roadmap is untouched.
	assert.Equal(t, 0, store.saveCalls)
}

func TestGenerateRoadmapMalformedJSON(t *testing.T) {
	store := newFakeStore()
	seedUser(store, "1")
	gen := &fakeGenerator{response: `{"program_name": 12, "years": "nope"}`}
	svc := newTestService(t, store, gen)

	err := svc.GenerateRoadmap(context.Background(), 7)
	var parseErr *SynthesisParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 0, store.saveCalls)
}

func TestGenerateRoadmapMergeFallbacks(t *testing.T) {
	store := newFakeStore()
	user := seedUser(store, "1")
	user.Career = ""
	user.Skills = nil
	user.Interests = nil
	// Bare object: no top-level fields, no years.
	gen := &fakeGenerator{response: `{"note": "minimal"}`}
	svc := newTestService(t, store, gen)

	require.NoError(t, svc.GenerateRoadmap(context.Background(), 7))
	saved := store.saved[7]
	require.NotNil(t, saved)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(saved, &doc))

	// Template back-fills the authoritative fields.
	assert.Equal(t, "Computer Science, B.S.", doc["program_name"])
	assert.Equal(t, "University of Hawaii at Manoa", doc["institution"])
	assert.Equal(t, float64(120), doc["total_credits"])

	// Empty profile fields stay absent instead of defaulting to empty
	// containers; a missing years tree becomes an empty sequence.
	assert.NotContains(t, doc, "career_goal")
	assert.NotContains(t, doc, "interests")
	assert.NotContains(t, doc, "skills")
	years, ok := doc["years"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, years)
}

func TestGenerateRoadmapInstitutionFallsBackToCampus(t *testing.T) {
	store := newFakeStore()
	seedUser(store, "1")
	gen := &fakeGenerator{response: `{"years": []}`}
	dir := t.TempDir()
	// Template without an institution of its own.
	tpl := `{"program_name": "Computer Science, B.S.", "total_credits": 120, "years": []}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cs.json"), []byte(tpl), 0o644))
	svc := NewRoadmapService(store, gen, zap.NewNop().Sugar(), dir)

	require.NoError(t, svc.GenerateRoadmap(context.Background(), 7))
	var doc roadmap.Roadmap
	require.NoError(t, json.Unmarshal(store.saved[7], &doc))
	assert.Equal(t, "University of Hawaii at Manoa", doc.Institution)
}

func TestGenerateRoadmapProfileNotFound(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, &fakeGenerator{})

	err := svc.GenerateRoadmap(context.Background(), 99)
	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.Equal(t, 0, store.saveCalls)
}

func TestGenerateRoadmapMissingProgram(t *testing.T) {
	store := newFakeStore()
	user := seedUser(store, "1")
	user.Program = "   "
	svc := newTestService(t, store, &fakeGenerator{})

	err := svc.GenerateRoadmap(context.Background(), 7)
	assert.ErrorIs(t, err, ErrMissingProgram)
	assert.Equal(t, 0, store.saveCalls)
}

func TestGenerateRoadmapUnknownCampus(t *testing.T) {
	store := newFakeStore()
	seedUser(store, "University of Nowhere")
	svc := newTestService(t, store, &fakeGenerator{})

	err := svc.GenerateRoadmap(context.Background(), 7)
	assert.ErrorIs(t, err, ErrCampusNotFound)
	assert.Equal(t, 0, store.saveCalls)
}

func TestGenerateRoadmapGeneratorError(t *testing.T) {
	store := newFakeStore()
	seedUser(store, "1")
	gen := &fakeGenerator{err: errors.New("model unavailable")}
	svc := newTestService(t, store, gen)

	err := svc.GenerateRoadmap(context.Background(), 7)
	require.Error(t, err)
	var parseErr *SynthesisParseError
	assert.False(t, errors.As(err, &parseErr))
	assert.Equal(t, 0, store.saveCalls)
}

func TestResolveCampusByNameAndAlias(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, &fakeGenerator{})

	tests := []struct {
		college string
		wantID  uint
	}{
		{"1", 1},
		{"University of Hawaii at Manoa", 1},
		{"university of hawaii at hilo", 2},
		{"uh manoa", 1},
		{"UH Hilo", 2},
	}
	for _, tt := range tests {
		cam, err := svc.resolveCampus(context.Background(), tt.college)
		require.NoError(t, err, tt.college)
		assert.Equal(t, tt.wantID, cam.ID, tt.college)
	}

	_, err := svc.resolveCampus(context.Background(), "999")
	assert.ErrorIs(t, err, ErrCampusNotFound)
}
