package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/MiniduTH/vitalink-sub001/models"
	"github.com/MiniduTH/vitalink-sub001/repositories"
	"github.com/MiniduTH/vitalink-sub001/role"
	"github.com/MiniduTH/vitalink-sub001/util"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// SeedStaff is a staff entry as written in a seed file. Password is plain
// text and hashed before it is stored.
type SeedStaff struct {
	Code           string `yaml:"code"`
	Name           string `yaml:"name"`
	Email          string `yaml:"email"`
	Phone          string `yaml:"phone"`
	Role           string `yaml:"role"`
	DepartmentID   string `yaml:"departmentId"`
	Specialization string `yaml:"specialization"`
	Password       string `yaml:"password"`
}

type SeedData struct {
	Hospital    models.Hospital     `yaml:"hospital"`
	Departments []models.Department `yaml:"departments"`
	Staff       []SeedStaff         `yaml:"staff"`
}

type StaffService struct {
	staff repositories.StaffRepository
	now   func() time.Time
}

func NewStaffService(staff repositories.StaffRepository) *StaffService {
	return &StaffService{staff: staff, now: time.Now}
}

func (s *StaffService) ListStaff(ctx context.Context, roleCode, departmentID string) ([]models.Staff, error) {
	filter := repositories.StaffFilter{
		Role:         strings.ToUpper(strings.TrimSpace(roleCode)),
		DepartmentID: strings.TrimSpace(departmentID),
	}
	staff, err := s.staff.List(ctx, filter)
	if err != nil {
		log.Println("Error from staff List: ", err)
		return nil, util.InternalError("failed to load staff", err)
	}
	return staff, nil
}

func (s *StaffService) GetStaff(ctx context.Context, code string) (*models.Staff, error) {
	staff, err := s.staff.GetByID(ctx, code)
	if err != nil {
		return nil, storeError(err, util.STAFF_NOT_FOUND, "")
	}
	return staff, nil
}

func (s *StaffService) ListDepartments(ctx context.Context) ([]models.Department, error) {
	departments, err := s.staff.ListDepartments(ctx)
	if err != nil {
		log.Println("Error from ListDepartments: ", err)
		return nil, util.InternalError("failed to load departments", err)
	}
	return departments, nil
}

func (s *StaffService) GetDepartment(ctx context.Context, code string) (*models.Department, error) {
	department, err := s.staff.GetDepartment(ctx, code)
	if err != nil {
		return nil, storeError(err, util.DEPARTMENT_NOT_FOUND, "")
	}
	return department, nil
}

func (s *StaffService) GetHospital(ctx context.Context) (*models.Hospital, error) {
	hospital, err := s.staff.GetHospital(ctx)
	if err != nil {
		return nil, storeError(err, util.HOSPITAL_NOT_FOUND, "")
	}
	return hospital, nil
}

/*
* Upsert the hospital and its departments by code
* Check every staff role against the role catalog
* Bcrypt the plain password and upsert the staff member by code
 */
func (s *StaffService) Seed(ctx context.Context, data SeedData) error {
	if data.Hospital.Code == "" {
		return util.ValidationError("hospital code is required")
	}
	if err := s.staff.UpsertHospital(ctx, &data.Hospital); err != nil {
		log.Println("Error from UpsertHospital: ", err)
		return err
	}
	for i := range data.Departments {
		department := data.Departments[i]
		if department.HospitalID == "" {
			department.HospitalID = data.Hospital.Code
		}
		if err := s.staff.UpsertDepartment(ctx, &department); err != nil {
			log.Println("Error from UpsertDepartment: ", err)
			return err
		}
	}
	now := s.now().UTC()
	for _, entry := range data.Staff {
		roleCode := strings.ToUpper(entry.Role)
		if !role.Valid(roleCode) {
			return util.ValidationErrorf("unknown role %q for staff %s", entry.Role, entry.Code)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(entry.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Println("Error while hashing password: ", err)
			return err
		}
		staff := &models.Staff{
			Code:           entry.Code,
			Name:           entry.Name,
			Email:          strings.ToLower(entry.Email),
			Phone:          entry.Phone,
			Role:           roleCode,
			DepartmentID:   entry.DepartmentID,
			Specialization: entry.Specialization,
			Password:       string(hash),
			IsActive:       true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.staff.UpsertStaff(ctx, staff); err != nil {
			log.Println("Error from UpsertStaff: ", err)
			return err
		}
	}
	log.WithFields(log.Fields{
		"hospital":    data.Hospital.Code,
		"departments": len(data.Departments),
		"staff":       len(data.Staff),
	}).Info("seeded reference data")
	return nil
}

func LoadSeedData(path string) (SeedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SeedData{}, err
	}
	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return SeedData{}, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return data, nil
}

// DefaultSeedData is the small hospital the seed command loads when no file
// is given.
func DefaultSeedData() SeedData {
	return SeedData{
		Hospital: models.Hospital{
			Code:    "HOSP001",
			Name:    "Vitalink General Hospital",
			Address: "12 Main Street",
			Phone:   "0112345678",
			Email:   "info@vitalink.local",
		},
		Departments: []models.Department{
			{Code: "DEP001", Name: "General Medicine"},
			{Code: "DEP002", Name: "Cardiology"},
			{Code: "DEP003", Name: "Pediatrics"},
		},
		Staff: []SeedStaff{
			{Code: "ADM001", Name: "Admin User", Email: "admin@vitalink.local", Role: role.Admin, Password: "admin123"},
			{Code: "DOC001", Name: "Dr. Nimal Perera", Email: "nimal@vitalink.local", Role: role.Doctor, DepartmentID: "DEP001", Specialization: "General Practice", Password: "doctor123"},
			{Code: "DOC002", Name: "Dr. Anjali Silva", Email: "anjali@vitalink.local", Role: role.Doctor, DepartmentID: "DEP002", Specialization: "Cardiology", Password: "doctor123"},
			{Code: "DOC003", Name: "Dr. Kasun Fernando", Email: "kasun@vitalink.local", Role: role.Doctor, DepartmentID: "DEP003", Specialization: "Pediatrics", Password: "doctor123"},
			{Code: "NUR001", Name: "Dilini Jayasuriya", Email: "dilini@vitalink.local", Role: role.Nurse, DepartmentID: "DEP001", Password: "nurse123"},
			{Code: "REC001", Name: "Front Desk", Email: "desk@vitalink.local", Role: role.Receptionist, Password: "desk123"},
			{Code: "BIL001", Name: "Billing Office", Email: "billing@vitalink.local", Role: role.Billing, Password: "billing123"},
		},
	}
}
