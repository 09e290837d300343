package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gym-wars/internal/domain"
	"github.com/gym-wars/internal/notify"
	"github.com/gym-wars/internal/store"
)

func gymBody() map[string]any {
	return map[string]any{
		"gymName":   "Iron House!",
		"city":      "Edgewater",
		"state":     "nj",
		"firstName": "Sam",
		"lastName":  "Lee",
		"email":     "sam@ironhouse.com",
		"phone":     "201-555-0100",
		"agree":     true,
		"website":   "https://ironhouse.example",
	}
}

func TestRegistrationService_RegisterGym(t *testing.T) {
	backend := store.NewMemoryBackend()
	pub := &recordingPublisher{}
	svc := NewRegistrationService(backend, testDeps(pub))

	reg, err := svc.RegisterGym(context.Background(), gymBody())
	require.NoError(t, err)

	assert.NotEmpty(t, reg.ID)
	assert.Equal(t, "/trainers-members?gym=iron-house", reg.RosterLink)
	assert.Equal(t, "NJ", reg.State)
	assert.Equal(t, fixedNow, reg.CreatedAt)
	assert.Equal(t, []string{notify.GymRegistered}, pub.types())

	count, err := svc.GymCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	gyms, err := svc.Gyms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.GymOption{{ID: "iron-house", Name: "Iron House!", Location: "Edgewater, NJ"}}, gyms)
}

func TestRegistrationService_RejectsWithoutAppending(t *testing.T) {
	backend := store.NewMemoryBackend()
	pub := &recordingPublisher{}
	svc := NewRegistrationService(backend, testDeps(pub))

	body := gymBody()
	delete(body, "phone")
	_, err := svc.RegisterGym(context.Background(), body)

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "Missing field: phone", ve.Message)

	data, err := backend.Read(context.Background(), store.GymRegistrationsCollection)
	require.NoError(t, err)
	assert.Nil(t, data, "nothing is written")
	assert.Empty(t, pub.types())
}

func TestRegistrationService_PublishFailureDoesNotFail(t *testing.T) {
	svc := NewRegistrationService(store.NewMemoryBackend(), testDeps(&recordingPublisher{err: errors.New("broker down")}))

	_, err := svc.RegisterGym(context.Background(), gymBody())
	assert.NoError(t, err)
}

func TestRegistrationService_StorageFailure(t *testing.T) {
	svc := NewRegistrationService(failingBackend{}, testDeps(nil))

	_, err := svc.RegisterGym(context.Background(), gymBody())
	assert.ErrorIs(t, err, errBackendDown)
}

func TestRegistrationService_RegisterVendor(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewRegistrationService(store.NewMemoryBackend(), testDeps(pub))

	reg, err := svc.RegisterVendor(context.Background(), map[string]any{
		"businessName": "Shake Bar",
		"email":        "hi@shake.bar",
		"city":         "Hoboken",
		"state":        "NJ",
		"boothSize":    "20x20",
		"agree":        true,
	})
	require.NoError(t, err)
	assert.Equal(t, "20x20", reg.BoothSize)
	assert.Equal(t, []string{notify.VendorRegistered}, pub.types())

	count, err := svc.VendorCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = svc.RegisterVendor(context.Background(), map[string]any{"businessName": "x"})
	assert.True(t, domain.IsValidationError(err))
}

func TestRegistrationService_RequestGym(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewRegistrationService(store.NewMemoryBackend(), testDeps(pub))

	req, err := svc.RequestGym(context.Background(), map[string]any{
		"gymName":      "The Den",
		"city":         "Newark",
		"state":        "nj",
		"contactEmail": "den@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "NJ", req.State)
	assert.Equal(t, []string{notify.GymRequested}, pub.types())
}
