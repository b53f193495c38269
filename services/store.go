package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/phuong808/Pathfinity/models/campus"
	"github.com/phuong808/Pathfinity/models/courses"
	"github.com/phuong808/Pathfinity/models/users"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrCampusNotFound  = errors.New("campus not found")
	ErrCourseNotFound  = errors.New("course not found")
)

// Store is the persistence port of the roadmap pipeline. The pipeline only
// reads profiles, campuses, and catalog courses, and writes exactly one
// thing: the profile's roadmap document.
type Store interface {
	GetUser(ctx context.Context, id uint) (*users.User, error)
	GetCampusByID(ctx context.Context, id uint) (*campus.Campus, error)
	ListCampuses(ctx context.Context) ([]campus.Campus, error)
	// FindCourse looks up one catalog entry scoped to a campus.
	FindCourse(ctx context.Context, campusID uint, prefix, number string) (*courses.Course, error)
	// SaveRoadmap writes the roadmap document (nil means SQL NULL) and
	// bumps the profile's modification timestamp in one update.
	SaveRoadmap(ctx context.Context, userID uint, doc datatypes.JSON) error
}

type gormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) GetUser(ctx context.Context, id uint) (*users.User, error) {
	var user users.User
	err := s.db.WithContext(ctx).Preload("Skills").Preload("Interests").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *gormStore) GetCampusByID(ctx context.Context, id uint) (*campus.Campus, error) {
	var c campus.Campus
	err := s.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCampusNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *gormStore) ListCampuses(ctx context.Context) ([]campus.Campus, error) {
	var all []campus.Campus
	if err := s.db.WithContext(ctx).Find(&all).Error; err != nil {
		return nil, err
	}
	return all, nil
}

// FindCourse pulls the campus's catalog and matches prefix/number in memory,
// case-insensitively, so stored codes don't have to agree on casing with the
// template text.
func (s *gormStore) FindCourse(ctx context.Context, campusID uint, prefix, number string) (*courses.Course, error) {
	var catalog []courses.Course
	if err := s.db.WithContext(ctx).Where("campus_id = ?", campusID).Find(&catalog).Error; err != nil {
		return nil, err
	}
	for i := range catalog {
		if strings.EqualFold(catalog[i].Prefix, prefix) && strings.EqualFold(catalog[i].Number, number) {
			return &catalog[i], nil
		}
	}
	return nil, ErrCourseNotFound
}

func (s *gormStore) SaveRoadmap(ctx context.Context, userID uint, doc datatypes.JSON) error {
	updates := map[string]interface{}{
		"roadmap":    doc,
		"updated_at": time.Now(),
	}
	if doc == nil {
		updates["roadmap"] = gorm.Expr("NULL")
	}
	res := s.db.WithContext(ctx).Model(&users.User{}).Where("id = ?", userID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}
