package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/threadcart/commerce-service/internal/domain"
	"github.com/threadcart/commerce-service/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrContactNotFound  = errors.New("contact not found")
	ErrInvalidContactID = errors.New("invalid contact id")
	ErrDuplicateEmail   = errors.New("email already registered")
)

type ContactStore interface {
	PutContact(ctx context.Context, contact *domain.Contact) error
	GetContact(ctx context.Context, contactID string) (*domain.Contact, error)
	FindByEmail(ctx context.Context, email string) (*domain.Contact, error)
	ListContacts(ctx context.Context) ([]domain.Contact, error)
	DeleteContact(ctx context.Context, contactID string) error
}

type ContactService struct {
	contactRepo ContactStore
	logger      *zap.Logger
}

func NewContactService(contactRepo ContactStore, logger *zap.Logger) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		logger:      logger,
	}
}

func (s *ContactService) CreateContact(ctx context.Context, req domain.ContactRequest) (*domain.Contact, error) {
	if _, err := s.contactRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrContactNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	contact := &domain.Contact{
		ContactID:   uuid.NewString(),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.contactRepo.PutContact(ctx, contact); err != nil {
		s.logger.Error("Failed to save contact", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Contact created", zap.String("contact_id", contact.ContactID))
	return contact, nil
}

func (s *ContactService) GetContact(ctx context.Context, contactID string) (*domain.Contact, error) {
	if _, err := uuid.Parse(contactID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidContactID, contactID)
	}

	contact, err := s.contactRepo.GetContact(ctx, contactID)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return contact, nil
}

func (s *ContactService) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	return s.contactRepo.ListContacts(ctx)
}

// UpdateContact replaces all mutable fields. A changed email must not collide
// with another contact's address.
func (s *ContactService) UpdateContact(ctx context.Context, contactID string, req domain.ContactRequest) (*domain.Contact, error) {
	existing, err := s.GetContact(ctx, contactID)
	if err != nil {
		return nil, err
	}

	if req.Email != existing.Email {
		if other, err := s.contactRepo.FindByEmail(ctx, req.Email); err == nil && other.ContactID != contactID {
			return nil, ErrDuplicateEmail
		} else if err != nil && !errors.Is(err, repository.ErrContactNotFound) {
			return nil, err
		}
	}

	contact := &domain.Contact{
		ContactID:   existing.ContactID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   time.Now().UTC(),
	}

	if err := s.contactRepo.PutContact(ctx, contact); err != nil {
		s.logger.Error("Failed to update contact", zap.String("contact_id", contactID), zap.Error(err))
		return nil, err
	}
	return contact, nil
}

func (s *ContactService) DeleteContact(ctx context.Context, contactID string) error {
	if _, err := uuid.Parse(contactID); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidContactID, contactID)
	}

	if err := s.contactRepo.DeleteContact(ctx, contactID); err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return ErrContactNotFound
		}
		return err
	}

	s.logger.Info("Contact deleted", zap.String("contact_id", contactID))
	return nil
}
