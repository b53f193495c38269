package services

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/phuong808/Pathfinity/models/roadmap"
)

// courseCodeRE matches one course code inside a slot name: letter prefix,
// whitespace, number with an optional letter suffix ("ICS 111", "PHYS 151L").
// Applied to a choice slot like "MATH 215 or 241L" it captures each concrete
// alternative that carries its own prefix; bare gen-ed codes ("FW") and
// elective markers don't match the shape and are skipped.
var courseCodeRE = regexp.MustCompile(`[A-Z]+\s+\d+[A-Z]*`)

// ExtractCourseCodes walks every slot name in the template tree and returns
// the deduplicated course codes, normalized to "PREFIX NUMBER" with a single
// space, in sorted order.
func ExtractCourseCodes(tpl *roadmap.Template) []string {
	seen := make(map[string]struct{})
	for _, year := range tpl.Years {
		for _, sem := range year.Semesters {
			for _, slot := range sem.Courses {
				for _, raw := range courseCodeRE.FindAllString(slot.Name, -1) {
					prefix, number, ok := SplitCourseCode(raw)
					if !ok {
						continue
					}
					seen[prefix+" "+number] = struct{}{}
				}
			}
		}
	}
	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// SplitCourseCode splits "ICS 111" into ("ICS", "111"). Codes that don't
// split into exactly a prefix and a number are reported as malformed.
func SplitCourseCode(code string) (prefix, number string, ok bool) {
	fields := strings.Fields(strings.TrimSpace(code))
	if len(fields) != 2 {
		return "", "", false
	}
	return fields[0], fields[1], true
}

// CourseInfo is the catalog metadata attached to an extracted code. It is
// prompt context only and is never written into the roadmap document.
type CourseInfo struct {
	Title       string
	Description string
	Units       float64
}

// LookupCourses enriches each extracted code from the campus-scoped catalog.
// Lookups run sequentially and a failed lookup only costs that code its
// enrichment: the fault is logged and the batch continues.
func LookupCourses(ctx context.Context, store Store, log *zap.SugaredLogger, campusID uint, codes []string) map[string]CourseInfo {
	enriched := make(map[string]CourseInfo, len(codes))
	for _, code := range codes {
		prefix, number, ok := SplitCourseCode(code)
		if !ok {
			continue
		}
		course, err := store.FindCourse(ctx, campusID, prefix, number)
		if err != nil {
			log.Warnw("course lookup skipped", "code", code, "campus", campusID, "error", err)
			continue
		}
		enriched[code] = CourseInfo{
			Title:       course.Title,
			Description: course.Description,
			Units:       course.Units,
		}
	}
	return enriched
}
