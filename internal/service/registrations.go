package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gym-wars/internal/domain"
	"github.com/gym-wars/internal/notify"
	"github.com/gym-wars/internal/store"
	"github.com/gym-wars/internal/validate"
)

// RegistrationService collects gym, vendor and gym-request submissions.
type RegistrationService struct {
	gyms     *store.Collection[domain.GymRegistration]
	vendors  *store.Collection[domain.VendorRegistration]
	requests *store.Collection[domain.GymRequest]
	deps     Deps
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(backend store.Backend, deps Deps) *RegistrationService {
	return &RegistrationService{
		gyms:     store.NewCollection[domain.GymRegistration](backend, store.GymRegistrationsCollection),
		vendors:  store.NewCollection[domain.VendorRegistration](backend, store.VendorRegistrationsCollection),
		requests: store.NewCollection[domain.GymRequest](backend, store.GymRequestsCollection),
		deps:     deps,
	}
}

// RegisterGym validates and stores a gym signup.
func (s *RegistrationService) RegisterGym(ctx context.Context, raw map[string]any) (domain.GymRegistration, error) {
	if err := s.deps.check(validate.GymRegistration(), raw); err != nil {
		return domain.GymRegistration{}, err
	}

	var reg domain.GymRegistration
	if err := decodeInto(raw, &reg); err != nil {
		return domain.GymRegistration{}, err
	}
	reg.GymName = strings.TrimSpace(reg.GymName)
	reg.City = strings.TrimSpace(reg.City)
	reg.State = strings.ToUpper(strings.TrimSpace(reg.State))
	reg.Email = strings.TrimSpace(reg.Email)
	reg.ID = uuid.NewString()
	reg.RosterLink = domain.RosterLinkFor(reg.Slug())
	reg.CreatedAt = s.deps.now()

	if err := appendTo(ctx, s.gyms, reg); err != nil {
		return domain.GymRegistration{}, err
	}

	s.deps.Metrics.Registration(validate.FormGym)
	s.deps.Logger.Info("gym registered", "id", reg.ID, "gym", reg.GymName, "slug", reg.Slug())
	s.deps.publish(ctx, notify.NewEvent(notify.GymRegistered, reg.ID, reg))
	return reg, nil
}

// RegisterVendor validates and stores a vendor booth signup.
func (s *RegistrationService) RegisterVendor(ctx context.Context, raw map[string]any) (domain.VendorRegistration, error) {
	if err := s.deps.check(validate.VendorRegistration(), raw); err != nil {
		return domain.VendorRegistration{}, err
	}

	var reg domain.VendorRegistration
	if err := decodeInto(raw, &reg); err != nil {
		return domain.VendorRegistration{}, err
	}
	reg.BusinessName = strings.TrimSpace(reg.BusinessName)
	reg.State = strings.ToUpper(strings.TrimSpace(reg.State))
	reg.Email = strings.TrimSpace(reg.Email)
	reg.ID = uuid.NewString()
	reg.CreatedAt = s.deps.now()

	if err := appendTo(ctx, s.vendors, reg); err != nil {
		return domain.VendorRegistration{}, err
	}

	s.deps.Metrics.Registration(validate.FormVendor)
	s.deps.Logger.Info("vendor registered", "id", reg.ID, "business", reg.BusinessName, "booth", reg.BoothSize)
	s.deps.publish(ctx, notify.NewEvent(notify.VendorRegistered, reg.ID, reg))
	return reg, nil
}

// RequestGym stores a request to recruit a gym that has not registered.
func (s *RegistrationService) RequestGym(ctx context.Context, raw map[string]any) (domain.GymRequest, error) {
	if err := s.deps.check(validate.GymRequest(), raw); err != nil {
		return domain.GymRequest{}, err
	}

	var req domain.GymRequest
	if err := decodeInto(raw, &req); err != nil {
		return domain.GymRequest{}, err
	}
	req.GymName = strings.TrimSpace(req.GymName)
	req.State = strings.ToUpper(strings.TrimSpace(req.State))
	req.ContactEmail = strings.TrimSpace(req.ContactEmail)
	req.ID = uuid.NewString()
	req.CreatedAt = s.deps.now()

	if err := appendTo(ctx, s.requests, req); err != nil {
		return domain.GymRequest{}, err
	}

	s.deps.Metrics.Registration(validate.FormGymRequest)
	s.deps.Logger.Info("gym requested", "id", req.ID, "gym", req.GymName)
	s.deps.publish(ctx, notify.NewEvent(notify.GymRequested, req.ID, req))
	return req, nil
}

// GymCount returns the number of gym registrations.
func (s *RegistrationService) GymCount(ctx context.Context) (int, error) {
	regs, err := s.gyms.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading gym registrations: %w", err)
	}
	return len(regs), nil
}

// VendorCount returns the number of vendor registrations.
func (s *RegistrationService) VendorCount(ctx context.Context) (int, error) {
	regs, err := s.vendors.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading vendor registrations: %w", err)
	}
	return len(regs), nil
}

// Gyms lists registered gyms as dropdown options, in registration order.
func (s *RegistrationService) Gyms(ctx context.Context) ([]domain.GymOption, error) {
	regs, err := s.gyms.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading gym registrations: %w", err)
	}

	options := make([]domain.GymOption, 0, len(regs))
	for _, reg := range regs {
		options = append(options, domain.GymOption{
			ID:       reg.Slug(),
			Name:     reg.GymName,
			Location: reg.City + ", " + reg.State,
		})
	}
	return options, nil
}

// appendTo is the read-append-rewrite cycle used by every collector.
func appendTo[T any](ctx context.Context, c *store.Collection[T], item T) error {
	items, err := c.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading %s: %w", c.Name(), err)
	}
	if err := c.Save(ctx, append(items, item)); err != nil {
		return fmt.Errorf("saving %s: %w", c.Name(), err)
	}
	return nil
}
