package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gym-wars/internal/domain"
	"github.com/gym-wars/internal/export"
	"github.com/gym-wars/internal/notify"
	"github.com/gym-wars/internal/store"
	"github.com/gym-wars/internal/validate"
)

const currentEvent = "2025-10-11"

func newParticipantService(pub notify.Publisher) *ParticipantService {
	return NewParticipantService(store.NewMemoryBackend(), validate.ParticipantRules{}, currentEvent, testDeps(pub))
}

func participantBody(email string) map[string]any {
	return map[string]any{"email": email, "firstName": "Ana", "lastName": "Diaz", "role": "Trainer"}
}

func TestParticipantService_CreateAndFind(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newParticipantService(pub)
	ctx := context.Background()

	body := participantBody("Ana@Example.com ")
	body["joinCurrentEvent"] = true
	p, err := svc.Create(ctx, body)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", p.Email)
	assert.Equal(t, []string{currentEvent}, p.Events)
	assert.Equal(t, fixedNow, p.CreatedAt)
	assert.Equal(t, []string{notify.ParticipantCreated}, pub.types())

	found, err := svc.Find(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)

	_, err = svc.Find(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)
}

func TestParticipantService_CreateDuplicate(t *testing.T) {
	svc := newParticipantService(nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, participantBody("ana@example.com"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, participantBody("ANA@example.com"))
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestParticipantService_CreateRequiresConfiguredFields(t *testing.T) {
	svc := NewParticipantService(store.NewMemoryBackend(), validate.ParticipantRules{RequireEmergencyContact: true}, currentEvent, testDeps(nil))

	_, err := svc.Create(context.Background(), participantBody("ana@example.com"))
	assert.EqualError(t, err, "Missing field: emergencyContact")
}

func TestParticipantService_Update(t *testing.T) {
	svc := newParticipantService(nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, participantBody("ana@example.com"))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, map[string]any{
		"email":            "ANA@example.com",
		"phone":            "555-0101",
		"role":             "Member",
		"joinCurrentEvent": true,
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "ana@example.com", updated.Email, "email never changes")
	assert.Equal(t, "Ana", updated.FirstName)
	assert.Equal(t, "555-0101", updated.Phone)
	assert.Equal(t, domain.RoleMember, updated.Role)
	assert.Equal(t, []string{currentEvent}, updated.Events)

	again, err := svc.Update(ctx, map[string]any{"email": "ana@example.com", "joinCurrentEvent": true})
	require.NoError(t, err)
	assert.Equal(t, []string{currentEvent}, again.Events)

	_, err = svc.Update(ctx, map[string]any{"email": "ghost@example.com"})
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)
}

func TestParticipantService_UpdateRejectsBlankRole(t *testing.T) {
	svc := newParticipantService(nil)
	ctx := context.Background()
	_, err := svc.Create(ctx, participantBody("ana@example.com"))
	require.NoError(t, err)

	for _, role := range []string{"", "   ", "Coach"} {
		_, err := svc.Update(ctx, map[string]any{"email": "ana@example.com", "role": role})
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve, "role %q", role)
		assert.Equal(t, "role", ve.Field)
	}

	stored, err := svc.Find(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTrainer, stored.Role)

	updated, err := svc.Update(ctx, map[string]any{"email": "ana@example.com", "role": nil})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTrainer, updated.Role)
}

func TestParticipantService_UpdateJoinPersists(t *testing.T) {
	svc := newParticipantService(nil)
	ctx := context.Background()
	_, err := svc.Create(ctx, participantBody("ana@example.com"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, map[string]any{"email": "ana@example.com", "firstName": "Ana Maria", "joinCurrentEvent": true})
	require.NoError(t, err)

	stored, err := svc.Find(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", stored.FirstName)
	assert.Equal(t, []string{currentEvent}, stored.Events)
}

func TestParticipantService_JoinEvent(t *testing.T) {
	svc := newParticipantService(nil)
	ctx := context.Background()
	_, err := svc.Create(ctx, participantBody("ana@example.com"))
	require.NoError(t, err)

	p, err := svc.JoinEvent(ctx, "ana@example.com", "2026-04-18")
	require.NoError(t, err)
	p, err = svc.JoinEvent(ctx, "ana@example.com", "2026-04-18")
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-04-18"}, p.Events)

	_, err = svc.JoinEvent(ctx, "ghost@example.com", "2026-04-18")
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)
}

func TestParticipantService_Export(t *testing.T) {
	svc := newParticipantService(nil)
	ctx := context.Background()
	_, err := svc.Create(ctx, participantBody("ana@example.com"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(ctx, &buf, export.FormatCSV))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "ana@example.com", records[1][1])
	assert.Equal(t, "Trainer", records[1][4])
}
