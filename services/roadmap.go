package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/phuong808/Pathfinity/models/campus"
	"github.com/phuong808/Pathfinity/models/roadmap"
	"github.com/phuong808/Pathfinity/models/users"
)

// ErrMissingProgram marks a profile that can never be matched against the
// template catalog. Fatal: nothing is written.
var ErrMissingProgram = errors.New("profile has no program")

// SynthesisParseError means the model response contained no usable JSON
// object. Fatal: the previously stored roadmap, if any, is left untouched.
type SynthesisParseError struct {
	Err error
}

func (e *SynthesisParseError) Error() string {
	return "parse synthesis response: " + e.Err.Error()
}

func (e *SynthesisParseError) Unwrap() error { return e.Err }

// RoadmapService runs the roadmap resolution pipeline. It holds no mutable
// state between invocations; callers may generate roadmaps for different
// profiles concurrently.
type RoadmapService struct {
	store        Store
	gen          TextGenerator
	log          *zap.SugaredLogger
	templatesDir string
}

func NewRoadmapService(store Store, gen TextGenerator, log *zap.SugaredLogger, templatesDir string) *RoadmapService {
	return &RoadmapService{store: store, gen: gen, log: log, templatesDir: templatesDir}
}

// GenerateRoadmap recomputes and persists the roadmap for one profile.
//
// Unsupported campuses and unmatched programs are successful null-roadmap
// outcomes, not errors. Every fatal condition returns before anything is
// written.
func (s *RoadmapService) GenerateRoadmap(ctx context.Context, userID uint) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(user.Program) == "" {
		return ErrMissingProgram
	}

	cam, err := s.resolveCampus(ctx, user.College)
	if err != nil {
		return err
	}
	if cam.ID != campus.SupportedCampusID {
		s.log.Infow("campus not supported for synthesis, storing null roadmap",
			"user", userID, "campus", cam.Name)
		return s.store.SaveRoadmap(ctx, userID, nil)
	}

	templates, err := LoadTemplates(s.templatesDir)
	if err != nil {
		return fmt.Errorf("load pathway templates: %w", err)
	}
	tpl := MatchTemplate(user.Program, templates)
	if tpl == nil {
		s.log.Infow("no pathway template matched, storing null roadmap",
			"user", userID, "program", user.Program)
		return s.store.SaveRoadmap(ctx, userID, nil)
	}

	codes := ExtractCourseCodes(tpl)
	enriched := LookupCourses(ctx, s.store, s.log, cam.ID, codes)
	s.log.Debugw("course enrichment complete",
		"user", userID, "extracted", len(codes), "enriched", len(enriched))

	prompt := BuildRoadmapPrompt(promptProfile(user), enriched, codes, tpl)
	text, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		return fmt.Errorf("generate roadmap: %w", err)
	}

	objText, ok := ExtractJSONObject(text)
	if !ok {
		return &SynthesisParseError{Err: errors.New("no JSON object in model response")}
	}
	var raw rawRoadmap
	if err := json.Unmarshal([]byte(objText), &raw); err != nil {
		return &SynthesisParseError{Err: err}
	}

	doc := mergeRoadmap(&raw, tpl, cam, user)
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode roadmap: %w", err)
	}

	if err := s.store.SaveRoadmap(ctx, userID, datatypes.JSON(data)); err != nil {
		return fmt.Errorf("persist roadmap: %w", err)
	}
	s.log.Infow("roadmap generated", "user", userID, "program", tpl.ProgramName)
	return nil
}

// resolveCampus takes the profile's free-text college reference: a numeric
// id is looked up directly, anything else (or an id that misses) falls back
// to a case-insensitive scan over campus names and aliases.
func (s *RoadmapService) resolveCampus(ctx context.Context, college string) (*campus.Campus, error) {
	college = strings.TrimSpace(college)
	if id, err := strconv.ParseUint(college, 10, 32); err == nil {
		cam, err := s.store.GetCampusByID(ctx, uint(id))
		if err == nil {
			return cam, nil
		}
		if !errors.Is(err, ErrCampusNotFound) {
			return nil, err
		}
	}

	all, err := s.store.ListCampuses(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if strings.EqualFold(all[i].Name, college) {
			return &all[i], nil
		}
		for _, alias := range all[i].Aliases {
			if strings.EqualFold(alias, college) {
				return &all[i], nil
			}
		}
	}
	return nil, ErrCampusNotFound
}

func promptProfile(user *users.User) PromptProfile {
	p := PromptProfile{
		Program: user.Program,
		Career:  user.Career,
	}
	for _, sk := range user.Skills {
		p.Skills = append(p.Skills, sk.Name)
	}
	for _, in := range user.Interests {
		p.Interests = append(p.Interests, in.Name)
	}
	return p
}

// mergeRoadmap reconciles the synthesized document with authoritative
// fields: template values back-fill absent top-level fields (institution
// additionally falls back to the campus name), career/interests/skills come
// from the profile and stay absent when the profile leaves them empty, and
// the synthesized years tree is carried through as-is.
func mergeRoadmap(raw *rawRoadmap, tpl *roadmap.Template, cam *campus.Campus, user *users.User) *roadmap.Roadmap {
	doc := &roadmap.Roadmap{
		ProgramName:  strings.TrimSpace(raw.ProgramName),
		Institution:  strings.TrimSpace(raw.Institution),
		TotalCredits: coerceNumber(raw.TotalCredits),
		CareerGoal:   strings.TrimSpace(user.Career),
		Years:        normalizeYears(raw.Years),
	}
	if doc.ProgramName == "" {
		doc.ProgramName = tpl.ProgramName
	}
	if doc.Institution == "" {
		doc.Institution = tpl.Institution
	}
	if doc.Institution == "" {
		doc.Institution = cam.Name
	}
	if doc.TotalCredits == 0 {
		doc.TotalCredits = tpl.TotalCredits
	}
	for _, in := range user.Interests {
		doc.Interests = append(doc.Interests, in.Name)
	}
	for _, sk := range user.Skills {
		doc.Skills = append(doc.Skills, sk.Name)
	}
	if doc.Years == nil {
		doc.Years = []roadmap.RoadmapYear{}
	}
	return doc
}
