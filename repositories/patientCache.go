package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/MiniduTH/vitalink-sub001/config/redis"
	"github.com/MiniduTH/vitalink-sub001/models"
	"github.com/MiniduTH/vitalink-sub001/util"

	goredis "github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// CachedPatientRepository reads patients through redis. Every write
// invalidates the cached copy; cache failures fall back to the store.
type CachedPatientRepository struct {
	PatientRepository
	client goredis.Cmdable
	ttl    time.Duration
}

func NewCachedPatientRepository(next PatientRepository, client goredis.Cmdable, ttl time.Duration) *CachedPatientRepository {
	return &CachedPatientRepository{PatientRepository: next, client: client, ttl: ttl}
}

func patientKey(id string) string {
	return util.PatientKey + id
}

/*
* Check the cache first
* On a miss load from the store and set the cache
 */
func (r *CachedPatientRepository) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	cached := &models.Patient{}
	err := redis.GetCache(ctx, r.client, patientKey(id), cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.ErrCacheMiss) {
		log.Println("Error from GetCache patient: ", err)
	}

	patient, err := r.PatientRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := redis.SetCache(ctx, r.client, patientKey(id), patient, r.ttl); err != nil {
		log.Println("Error from SetCache patient: ", err)
	}
	return patient, nil
}

func (r *CachedPatientRepository) Update(ctx context.Context, patient *models.Patient) error {
	if err := r.PatientRepository.Update(ctx, patient); err != nil {
		return err
	}
	r.invalidate(ctx, patient.ID.Hex())
	return nil
}

func (r *CachedPatientRepository) Delete(ctx context.Context, id string) error {
	if err := r.PatientRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachedPatientRepository) SetStatus(ctx context.Context, id string, status models.PatientStatus) error {
	if err := r.PatientRepository.SetStatus(ctx, id, status); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachedPatientRepository) invalidate(ctx context.Context, id string) {
	if err := redis.DeleteCache(ctx, r.client, patientKey(id)); err != nil {
		log.Println("Error from DeleteCache patient: ", err)
	}
}
