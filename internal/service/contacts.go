package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Abhay69095/Buildmart/internal/models"
	"github.com/Abhay69095/Buildmart/internal/storage"
)

// SubmitContact принимает обращение с формы обратной связи.
// Все поля формы обязательны; email нормализуется в нижний регистр.
// Обращение анонимно с точки зрения аудита (userID пустой).
func (s *Service) SubmitContact(ctx context.Context, contact models.Contact) (*models.Contact, error) {
	const op = "service.contacts.SubmitContact"

	contact.Name = strings.TrimSpace(contact.Name)
	contact.Phone = strings.TrimSpace(contact.Phone)
	contact.Message = strings.TrimSpace(contact.Message)

	if contact.Name == "" || contact.Phone == "" || contact.Message == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrValidation)
	}

	normEmail, err := validateEmail(contact.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}
	contact.Email = normEmail
	contact.Status = models.ContactUnread

	out, err := s.storage.CreateContact(ctx, contact)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.logActivity(ctx, "", models.ActivityNewContact, map[string]any{
		"contactId": out.ID,
	})

	return out, nil
}

// ListContacts возвращает все обращения, новые первыми.
func (s *Service) ListContacts(ctx context.Context) ([]models.Contact, error) {
	const op = "service.contacts.ListContacts"

	out, err := s.storage.ListContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// UpdateContactStatus меняет статус обращения (read/unread).
func (s *Service) UpdateContactStatus(ctx context.Context, actor *models.User, id, status string) (*models.Contact, error) {
	const op = "service.contacts.UpdateContactStatus"

	if status != models.ContactRead && status != models.ContactUnread {
		return nil, fmt.Errorf("%s: %w", op, ErrValidation)
	}

	out, err := s.storage.UpdateContactStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.logActivity(ctx, actor.ID, models.ActivityUpdateContactStatus, map[string]any{
		"contactId": id,
		"newStatus": status,
	})

	return out, nil
}

// DeleteContact удаляет обращение.
func (s *Service) DeleteContact(ctx context.Context, actor *models.User, id string) error {
	const op = "service.contacts.DeleteContact"

	if err := s.storage.DeleteContact(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	s.logActivity(ctx, actor.ID, models.ActivityDeleteContact, map[string]any{
		"contactId": id,
	})

	return nil
}
