package services

import (
	"strings"

	"github.com/Brettk80/new2025/internal/models"
	"github.com/Brettk80/new2025/internal/supabase"
	"github.com/google/uuid"
)

const minFaxDigits = 7

// NormalizeFaxNumber strips formatting, keeping a leading + and the digits.
func NormalizeFaxNumber(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	digits := 0
	for i, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			digits++
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return "", ErrInvalidFaxNumber
		}
	}
	if digits < minFaxDigits {
		return "", ErrInvalidFaxNumber
	}
	return b.String(), nil
}

// RecipientService manages the address book and the block list.
type RecipientService struct{}

func NewRecipientService() *RecipientService {
	return &RecipientService{}
}

func (s *RecipientService) List(client *supabase.Client, userID uuid.UUID) ([]models.FaxRecipient, error) {
	return supabase.Select(client, models.FaxRecipients, supabase.SelectOptions{
		Where: supabase.Where{models.ColUserID: userID},
		Order: &supabase.Order{Column: models.ColCreatedAt},
	})
}

func (s *RecipientService) Create(client *supabase.Client, userID uuid.UUID, faxNumber string, toHeader *string) (models.FaxRecipient, error) {
	number, err := NormalizeFaxNumber(faxNumber)
	if err != nil {
		return models.FaxRecipient{}, err
	}
	rows, err := supabase.Insert(client, models.FaxRecipients, models.FaxRecipientInsert{
		UserID:    userID,
		FaxNumber: number,
		ToHeader:  toHeader,
	}, supabase.WriteOptions{})
	if err != nil {
		return models.FaxRecipient{}, err
	}
	if len(rows) == 0 {
		return models.FaxRecipient{}, supabase.ErrNoData
	}
	return rows[0], nil
}

// Delete removes a recipient; ErrNotFound when nothing matched.
func (s *RecipientService) Delete(client *supabase.Client, userID, recipientID uuid.UUID) error {
	rows, err := supabase.Delete(client, models.FaxRecipients, supabase.Where{
		models.ColID:     recipientID,
		models.ColUserID: userID,
	}, supabase.WriteOptions{Returning: supabase.ReturnRepresentation})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RecipientService) ListBlocked(client *supabase.Client, userID uuid.UUID) ([]models.BlockListEntry, error) {
	return supabase.Select(client, models.BlockLists, supabase.SelectOptions{
		Where: supabase.Where{models.ColUserID: userID},
		Order: &supabase.Order{Column: models.ColCreatedAt, Descending: true},
	})
}

// Block adds a number to the block list. An empty source means manual.
func (s *RecipientService) Block(client *supabase.Client, userID uuid.UUID, faxNumber string, reason *string, source string) (models.BlockListEntry, error) {
	number, err := NormalizeFaxNumber(faxNumber)
	if err != nil {
		return models.BlockListEntry{}, err
	}
	if source == "" {
		source = models.BlockSourceManual
	}
	rows, err := supabase.Insert(client, models.BlockLists, models.BlockListEntryInsert{
		UserID:    userID,
		FaxNumber: number,
		Reason:    reason,
		Source:    source,
	}, supabase.WriteOptions{})
	if err != nil {
		return models.BlockListEntry{}, err
	}
	if len(rows) == 0 {
		return models.BlockListEntry{}, supabase.ErrNoData
	}
	return rows[0], nil
}

func (s *RecipientService) Unblock(client *supabase.Client, userID, entryID uuid.UUID) error {
	rows, err := supabase.Delete(client, models.BlockLists, supabase.Where{
		models.ColID:     entryID,
		models.ColUserID: userID,
	}, supabase.WriteOptions{Returning: supabase.ReturnRepresentation})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	return nil
}

// blockedNumbers returns the user's block list as a set of normalized numbers.
func (s *RecipientService) blockedNumbers(client *supabase.Client, userID uuid.UUID) (map[string]struct{}, error) {
	entries, err := s.ListBlocked(client, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if n, err := NormalizeFaxNumber(e.FaxNumber); err == nil {
			set[digitsOnly(n)] = struct{}{}
		}
	}
	return set, nil
}

func digitsOnly(n string) string {
	return strings.TrimPrefix(n, "+")
}
