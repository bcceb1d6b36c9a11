package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/anyulbade/payment-wallet-service/internal/catalog"
	"github.com/anyulbade/payment-wallet-service/internal/model"
)

type NewPaymentMethod struct {
	Type    model.RailType `json:"type" validate:"required"`
	Name    string         `json:"name" validate:"required,max=100"`
	Details string         `json:"details" validate:"max=255"`
}

// PaymentMethodService is the per-user payment method registry. While a
// user has any methods, exactly one of them is the default.
type PaymentMethodService struct {
	repo     PaymentMethodRepository
	rails    *catalog.RegionRails
	clock    Clock
	locks    *UserLocks
	validate *validator.Validate
}

func NewPaymentMethodService(repo PaymentMethodRepository, rails *catalog.RegionRails, clock Clock, locks *UserLocks) *PaymentMethodService {
	return &PaymentMethodService{
		repo:     repo,
		rails:    rails,
		clock:    clock,
		locks:    locks,
		validate: validator.New(),
	}
}

// Add registers a method for user. The first method becomes the default.
func (s *PaymentMethodService) Add(ctx context.Context, user *model.User, in NewPaymentMethod) (*model.PaymentMethod, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrValidationFailed, err)
	}
	if !s.rails.IsAllowed(user.CountryCode, in.Type) {
		return nil, fmt.Errorf("%w: %q in region %s", model.ErrUnsupportedRail, in.Type, user.CountryCode)
	}

	unlock, err := s.locks.Lock(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	methods, err := s.list(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	pm := &model.PaymentMethod{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Type:      in.Type,
		Name:      in.Name,
		Details:   in.Details,
		IsDefault: len(methods) == 0,
		CreatedAt: s.clock.Now(),
	}
	if err := s.save(ctx, user.ID, append(methods, pm)); err != nil {
		return nil, err
	}
	return pm, nil
}

// Remove deletes a method. The default cannot be removed while other methods
// exist; the caller has to move the default first.
func (s *PaymentMethodService) Remove(ctx context.Context, userID, id string) error {
	unlock, err := s.locks.Lock(ctx, userID)
	if err != nil {
		return err
	}
	defer unlock()

	methods, err := s.list(ctx, userID)
	if err != nil {
		return err
	}
	idx := indexOf(methods, id)
	if idx < 0 {
		return fmt.Errorf("payment method %s: %w", id, model.ErrNotFound)
	}
	if methods[idx].IsDefault && len(methods) > 1 {
		return fmt.Errorf("payment method %s: %w", id, model.ErrCannotRemoveDefault)
	}

	kept := append(methods[:idx:idx], methods[idx+1:]...)
	return s.save(ctx, userID, kept)
}

func (s *PaymentMethodService) SetDefault(ctx context.Context, userID, id string) error {
	unlock, err := s.locks.Lock(ctx, userID)
	if err != nil {
		return err
	}
	defer unlock()

	methods, err := s.list(ctx, userID)
	if err != nil {
		return err
	}
	if indexOf(methods, id) < 0 {
		return fmt.Errorf("payment method %s: %w", id, model.ErrNotFound)
	}
	for _, pm := range methods {
		pm.IsDefault = pm.ID == id
	}
	return s.save(ctx, userID, methods)
}

// Touch records that a method was just used. Unknown ids are ignored.
func (s *PaymentMethodService) Touch(ctx context.Context, userID, id string) error {
	unlock, err := s.locks.Lock(ctx, userID)
	if err != nil {
		return err
	}
	defer unlock()

	return s.touchLocked(ctx, userID, id)
}

func (s *PaymentMethodService) touchLocked(ctx context.Context, userID, id string) error {
	methods, err := s.list(ctx, userID)
	if err != nil {
		return err
	}
	idx := indexOf(methods, id)
	if idx < 0 {
		return nil
	}
	now := s.clock.Now()
	methods[idx].LastUsedAt = &now
	return s.save(ctx, userID, methods)
}

func (s *PaymentMethodService) List(ctx context.Context, userID string) ([]*model.PaymentMethod, error) {
	return s.list(ctx, userID)
}

// Resolve picks the method a money movement is charged to: id when given,
// otherwise the user's default.
func (s *PaymentMethodService) Resolve(ctx context.Context, userID, id string) (*model.PaymentMethod, error) {
	methods, err := s.list(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(methods) == 0 {
		return nil, model.ErrNoPaymentMethod
	}
	if id == "" {
		for _, pm := range methods {
			if pm.IsDefault {
				return pm, nil
			}
		}
		return nil, model.ErrNoPaymentMethod
	}
	if idx := indexOf(methods, id); idx >= 0 {
		return methods[idx], nil
	}
	return nil, fmt.Errorf("payment method %s: %w", id, model.ErrNotFound)
}

func (s *PaymentMethodService) list(ctx context.Context, userID string) ([]*model.PaymentMethod, error) {
	methods, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	return methods, nil
}

func (s *PaymentMethodService) save(ctx context.Context, userID string, methods []*model.PaymentMethod) error {
	if err := s.repo.ReplaceAll(ctx, userID, methods); err != nil {
		return fmt.Errorf("save payment methods: %w", err)
	}
	return nil
}

func indexOf(methods []*model.PaymentMethod, id string) int {
	for i, pm := range methods {
		if pm.ID == id {
			return i
		}
	}
	return -1
}
