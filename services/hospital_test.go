package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MiniduTH/vitalink-sub001/models"
	"github.com/MiniduTH/vitalink-sub001/repositories/memory"
	"github.com/MiniduTH/vitalink-sub001/role"
	"github.com/MiniduTH/vitalink-sub001/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedAndReferenceData(t *testing.T) {
	staff := memory.NewStaff()
	svc := NewStaffService(staff)
	svc.now = clock
	ctx := context.Background()

	require.NoError(t, svc.Seed(ctx, DefaultSeedData()))

	hospital, err := svc.GetHospital(ctx)
	require.NoError(t, err)
	assert.Equal(t, "HOSP001", hospital.Code)

	departments, err := svc.ListDepartments(ctx)
	require.NoError(t, err)
	require.Len(t, departments, 3)
	assert.Equal(t, "HOSP001", departments[0].HospitalID)

	doctors, err := svc.ListStaff(ctx, "doctor", "")
	require.NoError(t, err)
	assert.Len(t, doctors, 3)

	cardiology, err := svc.ListStaff(ctx, "", "DEP002")
	require.NoError(t, err)
	require.Len(t, cardiology, 1)
	assert.Equal(t, "DOC002", cardiology[0].Code)

	admin, err := svc.GetStaff(ctx, "ADM001")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", admin.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("admin123")))
	assert.True(t, admin.IsActive)

	_, err = svc.GetStaff(ctx, "NOPE")
	assert.Equal(t, util.KindNotFound, util.KindOf(err))
	_, err = svc.GetDepartment(ctx, "NOPE")
	assert.Equal(t, util.KindNotFound, util.KindOf(err))
}

func TestGetHospital_NotSeeded(t *testing.T) {
	svc := NewStaffService(memory.NewStaff())

	_, err := svc.GetHospital(context.Background())

	assert.Equal(t, util.KindNotFound, util.KindOf(err))
}

func TestSeed_RejectsUnknownRole(t *testing.T) {
	svc := NewStaffService(memory.NewStaff())
	data := SeedData{
		Hospital: models.Hospital{Code: "H1"},
		Staff:    []SeedStaff{{Code: "X1", Role: "janitor", Password: "x"}},
	}

	err := svc.Seed(context.Background(), data)

	assert.Equal(t, util.KindValidation, util.KindOf(err))
}

func TestLoadSeedData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	content := `hospital:
  code: HOSP009
  name: Lakeside
departments:
  - code: DEP010
    name: Surgery
staff:
  - code: DOC010
    name: Dr. Lake
    email: lake@example.com
    role: DOCTOR
    departmentId: DEP010
    password: secret
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	data, err := LoadSeedData(path)

	require.NoError(t, err)
	assert.Equal(t, "HOSP009", data.Hospital.Code)
	require.Len(t, data.Departments, 1)
	assert.Equal(t, "Surgery", data.Departments[0].Name)
	require.Len(t, data.Staff, 1)
	assert.Equal(t, role.Doctor, data.Staff[0].Role)
	assert.Equal(t, "DEP010", data.Staff[0].DepartmentID)
}

type fakeIssuer struct{}

func (fakeIssuer) Issue(userID, name, roleCode string) (string, time.Time, error) {
	return "token-" + userID, fixedNow.Add(time.Hour), nil
}

func TestLogin(t *testing.T) {
	staff := memory.NewStaff()
	staffSvc := NewStaffService(staff)
	require.NoError(t, staffSvc.Seed(context.Background(), DefaultSeedData()))
	svc := NewAuthService(staff, fakeIssuer{})

	session, err := svc.Login(context.Background(), models.Login{Email: "NIMAL@vitalink.local", Password: "doctor123"})
	require.NoError(t, err)
	assert.Equal(t, "token-DOC001", session.Token)
	assert.Equal(t, role.Doctor, session.Role)
	assert.Equal(t, fixedNow.Add(time.Hour).Unix(), session.ExpiresAt)

	_, err = svc.Login(context.Background(), models.Login{Email: "nimal@vitalink.local", Password: "wrong"})
	assert.Equal(t, util.KindValidation, util.KindOf(err))
	_, err = svc.Login(context.Background(), models.Login{Email: "ghost@vitalink.local", Password: "doctor123"})
	assert.Equal(t, util.KindValidation, util.KindOf(err))
	_, err = svc.Login(context.Background(), models.Login{})
	assert.Equal(t, util.KindValidation, util.KindOf(err))
}
