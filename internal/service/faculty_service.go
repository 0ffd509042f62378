package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/campustour/tour-api/internal/domain"
	"github.com/campustour/tour-api/internal/media"
	"github.com/campustour/tour-api/internal/repository/ports"
	"github.com/campustour/tour-api/internal/util"
)

var (
	ErrFacultyNotFound       = errors.New("faculty member not found")
	ErrQualificationNotFound = errors.New("qualification not found")
)

type FacultyService struct {
	faculty ports.FacultyRepository
	images  imageStore
	log     *zap.Logger
}

func NewFacultyService(faculty ports.FacultyRepository, storage ports.MediaStorage, limits media.Limits, log *zap.Logger) *FacultyService {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("faculty")
	return &FacultyService{
		faculty: faculty,
		images:  imageStore{storage: storage, limits: limits, log: log},
		log:     log,
	}
}

type FacultyInput struct {
	Name           string
	Department     string
	Designation    *string
	Email          *string
	Phone          *string
	Bio            *string
	Qualifications []domain.Qualification
	AccountID      *bson.ObjectID
}

func (s *FacultyService) List(ctx context.Context, filter domain.FacultyFilter) ([]domain.Faculty, int64, error) {
	return s.faculty.List(ctx, filter)
}

func (s *FacultyService) Get(ctx context.Context, id bson.ObjectID) (*domain.Faculty, error) {
	faculty, err := s.faculty.FindByID(ctx, id)
	if err != nil {
		return nil, facultyErr(err)
	}
	return faculty, nil
}

func (s *FacultyService) Create(ctx context.Context, in FacultyInput) (*domain.Faculty, error) {
	name := strings.TrimSpace(in.Name)
	department := strings.TrimSpace(in.Department)
	if name == "" || department == "" {
		return nil, invalid("Name and department are required")
	}
	email, err := optionalEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := validateQualifications(in.Qualifications); err != nil {
		return nil, err
	}
	created, err := s.faculty.Create(ctx, &domain.Faculty{
		Name:           name,
		Department:     department,
		Designation:    trimmedOrNil(in.Designation),
		Email:          email,
		Phone:          trimmedOrNil(in.Phone),
		Bio:            trimmedOrNil(in.Bio),
		Qualifications: in.Qualifications,
		AccountID:      in.AccountID,
	})
	if err != nil {
		return nil, fmt.Errorf("create faculty: %w", err)
	}
	return created, nil
}

func (s *FacultyService) Update(ctx context.Context, id bson.ObjectID, fields domain.FacultyFields) (*domain.Faculty, error) {
	if fields.Name != nil {
		if strings.TrimSpace(*fields.Name) == "" {
			return nil, invalid("Name cannot be empty")
		}
		fields.Name = trimmedOrNil(fields.Name)
	}
	if fields.Department != nil {
		if strings.TrimSpace(*fields.Department) == "" {
			return nil, invalid("Department cannot be empty")
		}
		fields.Department = trimmedOrNil(fields.Department)
	}
	if fields.Email != nil {
		email, err := optionalEmail(fields.Email)
		if err != nil {
			return nil, err
		}
		if email == nil {
			empty := ""
			email = &empty
		}
		fields.Email = email
	}
	fields.Designation = trimPtr(fields.Designation)
	fields.Phone = trimPtr(fields.Phone)
	fields.Bio = trimPtr(fields.Bio)
	updated, err := s.faculty.Update(ctx, id, fields)
	if err != nil {
		return nil, facultyErr(err)
	}
	return updated, nil
}

func (s *FacultyService) Delete(ctx context.Context, id bson.ObjectID) error {
	faculty, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.faculty.Delete(ctx, id); err != nil {
		return facultyErr(err)
	}
	if faculty.Photo != nil {
		s.images.destroy(ctx, faculty.Photo.AssetID)
	}
	return nil
}

func (s *FacultyService) SetPhoto(ctx context.Context, id bson.ObjectID, upload media.Upload) (*domain.Faculty, error) {
	faculty, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	asset, err := s.images.upload(ctx, domain.FolderFaculty, upload)
	if err != nil {
		return nil, err
	}
	updated, err := s.faculty.SetPhoto(ctx, id, asset)
	if err != nil {
		s.images.destroy(ctx, asset.AssetID)
		return nil, facultyErr(err)
	}
	if faculty.Photo != nil {
		s.images.destroy(ctx, faculty.Photo.AssetID)
	}
	return updated, nil
}

func (s *FacultyService) AddQualification(ctx context.Context, id bson.ObjectID, q domain.Qualification) (*domain.Faculty, error) {
	if err := validateQualifications([]domain.Qualification{q}); err != nil {
		return nil, err
	}
	faculty, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	q.Degree = strings.TrimSpace(q.Degree)
	q.Institution = strings.TrimSpace(q.Institution)
	qualifications := append(append([]domain.Qualification{}, faculty.Qualifications...), q)
	updated, err := s.faculty.SetQualifications(ctx, id, qualifications)
	if err != nil {
		return nil, facultyErr(err)
	}
	return updated, nil
}

func (s *FacultyService) RemoveQualification(ctx context.Context, id bson.ObjectID, index int) (*domain.Faculty, error) {
	faculty, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(faculty.Qualifications) {
		return nil, ErrQualificationNotFound
	}
	qualifications := make([]domain.Qualification, 0, len(faculty.Qualifications)-1)
	qualifications = append(qualifications, faculty.Qualifications[:index]...)
	qualifications = append(qualifications, faculty.Qualifications[index+1:]...)
	updated, err := s.faculty.SetQualifications(ctx, id, qualifications)
	if err != nil {
		return nil, facultyErr(err)
	}
	return updated, nil
}

func validateQualifications(qs []domain.Qualification) error {
	for i, q := range qs {
		if strings.TrimSpace(q.Degree) == "" || strings.TrimSpace(q.Institution) == "" {
			return invalidf("Qualification %d needs a degree and an institution", i+1)
		}
		if q.Year != nil && (*q.Year < 1900 || *q.Year > 2100) {
			return invalidf("Qualification %d has an invalid year", i+1)
		}
	}
	return nil
}

func optionalEmail(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	email := util.NormalizeEmail(*raw)
	if email == "" {
		return nil, nil
	}
	if !util.ValidEmail(email) {
		return nil, invalid("Please provide a valid email address")
	}
	return &email, nil
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// trimPtr trims a present value and keeps an empty result, which clears the
// stored field.
func trimPtr(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	return &trimmed
}

func facultyErr(err error) error {
	if errors.Is(err, ports.ErrNotFound) {
		return ErrFacultyNotFound
	}
	return err
}
