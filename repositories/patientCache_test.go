package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/MiniduTH/vitalink-sub001/models"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type countingPatients struct {
	PatientRepository
	patients map[string]*models.Patient
	reads    int
}

func (c *countingPatients) GetByID(_ context.Context, id string) (*models.Patient, error) {
	c.reads++
	p, ok := c.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (c *countingPatients) Update(_ context.Context, patient *models.Patient) error {
	c.patients[patient.ID.Hex()] = patient
	return nil
}

func (c *countingPatients) SetStatus(_ context.Context, id string, status models.PatientStatus) error {
	c.patients[id].Status = status
	return nil
}

func newCacheFixture(t *testing.T) (*CachedPatientRepository, *countingPatients, *miniredis.Miniredis, string) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	id := primitive.NewObjectID()
	store := &countingPatients{patients: map[string]*models.Patient{
		id.Hex(): {ID: id, Name: "Nimal Perera", Status: models.PatientActive},
	}}
	return NewCachedPatientRepository(store, client, time.Minute), store, mr, id.Hex()
}

func TestCachedPatientRepository_ReadThrough(t *testing.T) {
	repo, store, mr, id := newCacheFixture(t)
	ctx := context.Background()

	first, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, 1, store.reads)
	assert.Equal(t, first.Name, second.Name)
	assert.True(t, mr.Exists(patientKey(id)))
}

func TestCachedPatientRepository_InvalidatesOnWrite(t *testing.T) {
	repo, store, mr, id := newCacheFixture(t)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, id)
	require.NoError(t, err)

	require.NoError(t, repo.SetStatus(ctx, id, models.PatientProvisional))
	assert.False(t, mr.Exists(patientKey(id)))

	patient, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.PatientProvisional, patient.Status)
	assert.Equal(t, 2, store.reads)
}

func TestCachedPatientRepository_FallsBackWhenRedisDown(t *testing.T) {
	repo, store, mr, id := newCacheFixture(t)
	mr.Close()

	patient, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Nimal Perera", patient.Name)
	assert.Equal(t, 1, store.reads)
}

func TestCachedPatientRepository_MissingPatient(t *testing.T) {
	repo, _, _, _ := newCacheFixture(t)

	_, err := repo.GetByID(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}
