package service

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/gym-wars/internal/domain"
	"github.com/gym-wars/internal/export"
	"github.com/gym-wars/internal/notify"
	"github.com/gym-wars/internal/store"
	"github.com/gym-wars/internal/validate"
)

// ParticipantService manages trainer and member registrations keyed by email.
type ParticipantService struct {
	participants *store.Collection[domain.Participant]
	rules        validate.ParticipantRules
	currentEvent string
	deps         Deps
}

// NewParticipantService creates a new participant service
func NewParticipantService(backend store.Backend, rules validate.ParticipantRules, currentEvent string, deps Deps) *ParticipantService {
	return &ParticipantService{
		participants: store.NewCollection[domain.Participant](backend, store.ParticipantsCollection),
		rules:        rules,
		currentEvent: currentEvent,
		deps:         deps,
	}
}

// normalizeEmail is the uniqueness key of a participant.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func indexOf(participants []domain.Participant, email string) int {
	key := normalizeEmail(email)
	return slices.IndexFunc(participants, func(p domain.Participant) bool {
		return normalizeEmail(p.Email) == key
	})
}

func (s *ParticipantService) load(ctx context.Context) ([]domain.Participant, error) {
	participants, err := s.participants.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading participants: %w", err)
	}
	return participants, nil
}

// Find looks a participant up by email, case-insensitively.
func (s *ParticipantService) Find(ctx context.Context, email string) (domain.Participant, error) {
	participants, err := s.load(ctx)
	if err != nil {
		return domain.Participant{}, err
	}
	idx := indexOf(participants, email)
	if idx < 0 {
		return domain.Participant{}, domain.ErrParticipantNotFound
	}
	return participants[idx], nil
}

// Create registers a new participant. A second registration with the same
// email is rejected.
func (s *ParticipantService) Create(ctx context.Context, raw map[string]any) (domain.Participant, error) {
	if err := s.deps.check(validate.ParticipantCreate(s.rules), raw); err != nil {
		return domain.Participant{}, err
	}

	var in domain.ParticipantInput
	if err := decodeInto(raw, &in); err != nil {
		return domain.Participant{}, err
	}

	participants, err := s.load(ctx)
	if err != nil {
		return domain.Participant{}, err
	}
	if indexOf(participants, in.Email) >= 0 {
		return domain.Participant{}, domain.ErrDuplicateEmail
	}

	now := s.deps.now()
	p := domain.Participant{
		ID:                    uuid.NewString(),
		Email:                 normalizeEmail(in.Email),
		FirstName:             strings.TrimSpace(in.FirstName),
		LastName:              strings.TrimSpace(in.LastName),
		Phone:                 strings.TrimSpace(in.Phone),
		Role:                  in.Role,
		EmergencyContact:      strings.TrimSpace(in.EmergencyContact),
		EmergencyContactPhone: strings.TrimSpace(in.EmergencyContactPhone),
		GymID:                 strings.TrimSpace(in.GymID),
		GymName:               strings.TrimSpace(in.GymName),
		Events:                []string{},
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if in.JoinCurrentEvent && s.currentEvent != "" {
		p.Events = append(p.Events, s.currentEvent)
	}

	if err := s.participants.Save(ctx, append(participants, p)); err != nil {
		return domain.Participant{}, fmt.Errorf("saving participants: %w", err)
	}

	s.deps.Metrics.Registration(validate.FormParticipant)
	s.deps.Logger.Info("participant created", "id", p.ID, "role", p.Role)
	s.deps.publish(ctx, notify.NewEvent(notify.ParticipantCreated, p.ID, p))
	return p, nil
}

// Update merges the present fields of a patch into the participant found by
// email. The email itself never changes and events only grow.
func (s *ParticipantService) Update(ctx context.Context, raw map[string]any) (domain.Participant, error) {
	if err := s.deps.check(validate.ParticipantUpdate(), raw); err != nil {
		return domain.Participant{}, err
	}

	var patch domain.ParticipantPatch
	if err := decodeInto(raw, &patch); err != nil {
		return domain.Participant{}, err
	}

	participants, err := s.load(ctx)
	if err != nil {
		return domain.Participant{}, err
	}
	idx := indexOf(participants, patch.Email)
	if idx < 0 {
		return domain.Participant{}, domain.ErrParticipantNotFound
	}

	p := applyPatch(participants[idx], patch)
	p.UpdatedAt = s.deps.now()
	participants[idx] = p

	if err := s.participants.Save(ctx, participants); err != nil {
		return domain.Participant{}, fmt.Errorf("saving participants: %w", err)
	}
	s.deps.Logger.Info("participant updated", "id", p.ID)

	if patch.JoinCurrentEvent && s.currentEvent != "" {
		return s.JoinEvent(ctx, p.Email, s.currentEvent)
	}
	return p, nil
}

func applyPatch(p domain.Participant, patch domain.ParticipantPatch) domain.Participant {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&p.FirstName, patch.FirstName)
	set(&p.LastName, patch.LastName)
	set(&p.Phone, patch.Phone)
	set(&p.EmergencyContact, patch.EmergencyContact)
	set(&p.EmergencyContactPhone, patch.EmergencyContactPhone)
	set(&p.GymID, patch.GymID)
	set(&p.GymName, patch.GymName)
	if patch.Role != nil {
		if role := domain.Role(strings.TrimSpace(string(*patch.Role))); role != "" {
			p.Role = role
		}
	}
	return p
}

func addEvent(events []string, eventID string) []string {
	if slices.Contains(events, eventID) {
		return events
	}
	return append(slices.Clone(events), eventID)
}

// JoinEvent adds eventID to the participant's events. Joining twice is a no-op
// apart from the updated timestamp.
func (s *ParticipantService) JoinEvent(ctx context.Context, email, eventID string) (domain.Participant, error) {
	participants, err := s.load(ctx)
	if err != nil {
		return domain.Participant{}, err
	}
	idx := indexOf(participants, email)
	if idx < 0 {
		return domain.Participant{}, domain.ErrParticipantNotFound
	}

	p := participants[idx]
	p.Events = addEvent(p.Events, eventID)
	p.UpdatedAt = s.deps.now()
	participants[idx] = p

	if err := s.participants.Save(ctx, participants); err != nil {
		return domain.Participant{}, fmt.Errorf("saving participants: %w", err)
	}
	return p, nil
}

// All returns every participant in registration order.
func (s *ParticipantService) All(ctx context.Context) ([]domain.Participant, error) {
	return s.load(ctx)
}

// Export writes every participant to w in the given format.
func (s *ParticipantService) Export(ctx context.Context, w io.Writer, format string) error {
	participants, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := export.Write(w, format, participants); err != nil {
		return fmt.Errorf("exporting participants: %w", err)
	}
	return nil
}
