package services

import (
	"context"
	"sort"
	"time"

	"github.com/Brettk80/new2025/internal/models"
	"github.com/Brettk80/new2025/internal/supabase"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BroadcastService struct {
	recipients *RecipientService
	logger     *zap.Logger
}

func NewBroadcastService(recipients *RecipientService, logger *zap.Logger) *BroadcastService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BroadcastService{recipients: recipients, logger: logger}
}

type CreateBroadcast struct {
	// DocumentIDs are sent in this order.
	DocumentIDs   []uuid.UUID
	RecipientIDs  []uuid.UUID
	BillingCode   *string
	ScheduledTime *time.Time
	TestFaxNumber *string
}

type BroadcastDetail struct {
	Broadcast models.FaxBroadcast
	Documents []models.FaxBroadcastDocument
	// Blocked lists recipients left out because their number is blocked.
	Blocked []uuid.UUID
}

// Create writes the broadcast, its ordered documents and one pending
// delivery per recipient whose number is not blocked. The broadcast starts
// as a draft, or scheduled when a send time is given.
func (s *BroadcastService) Create(client *supabase.Client, user models.User, req CreateBroadcast) (BroadcastDetail, error) {
	if len(req.DocumentIDs) == 0 {
		return BroadcastDetail{}, ErrNoDocuments
	}
	if len(req.RecipientIDs) == 0 {
		return BroadcastDetail{}, ErrNoRecipients
	}

	if err := s.checkDocuments(client, user.ID, req.DocumentIDs); err != nil {
		return BroadcastDetail{}, err
	}
	deliverable, blocked, err := s.splitRecipients(client, user.ID, req.RecipientIDs)
	if err != nil {
		return BroadcastDetail{}, err
	}
	if len(deliverable) == 0 {
		return BroadcastDetail{}, ErrAllRecipientsBlocked
	}

	status := models.BroadcastStatusDraft
	if req.ScheduledTime != nil {
		status = models.BroadcastStatusScheduled
	}
	var testFax *string
	if req.TestFaxNumber != nil {
		n, err := NormalizeFaxNumber(*req.TestFaxNumber)
		if err != nil {
			return BroadcastDetail{}, err
		}
		testFax = &n
	}

	rows, err := supabase.Insert(client, models.FaxBroadcasts, models.FaxBroadcastInsert{
		UserID:        user.ID,
		Status:        status,
		BillingCode:   req.BillingCode,
		ScheduledTime: req.ScheduledTime,
		TestFaxNumber: testFax,
	}, supabase.WriteOptions{})
	if err != nil {
		return BroadcastDetail{}, err
	}
	if len(rows) == 0 {
		return BroadcastDetail{}, supabase.ErrNoData
	}
	broadcast := rows[0]

	links := make([]models.FaxBroadcastDocumentInsert, len(req.DocumentIDs))
	for i, id := range req.DocumentIDs {
		links[i] = models.FaxBroadcastDocumentInsert{
			BroadcastID:   broadcast.ID,
			DocumentID:    id,
			SequenceOrder: i + 1,
		}
	}
	documents, err := supabase.InsertMany(client, models.FaxBroadcastDocuments, links, supabase.WriteOptions{})
	if err != nil {
		s.discard(client, user.ID, broadcast.ID)
		return BroadcastDetail{}, err
	}

	deliveries := make([]models.FaxDeliveryStatusInsert, len(deliverable))
	for i, id := range deliverable {
		deliveries[i] = models.FaxDeliveryStatusInsert{
			BroadcastID: broadcast.ID,
			RecipientID: id,
			Status:      models.DeliveryStatusPending,
		}
	}
	if _, err := supabase.InsertMany(client, models.FaxDeliveryStatuses, deliveries, supabase.WriteOptions{
		Returning: supabase.ReturnMinimal,
	}); err != nil {
		s.discard(client, user.ID, broadcast.ID)
		return BroadcastDetail{}, err
	}

	s.logger.Info("broadcast created",
		zap.String("broadcast_id", broadcast.ID.String()),
		zap.String("status", status),
		zap.Int("documents", len(documents)),
		zap.Int("deliveries", len(deliverable)),
		zap.Int("blocked", len(blocked)),
	)

	sortDocuments(documents)
	return BroadcastDetail{Broadcast: broadcast, Documents: documents, Blocked: blocked}, nil
}

// discard removes a half-written broadcast. Links and deliveries go with it
// through ON DELETE CASCADE.
func (s *BroadcastService) discard(client *supabase.Client, userID, broadcastID uuid.UUID) {
	if _, err := supabase.Delete(client, models.FaxBroadcasts, supabase.Where{
		models.ColID:     broadcastID,
		models.ColUserID: userID,
	}, supabase.WriteOptions{}); err != nil {
		s.logger.Warn("failed to remove incomplete broadcast",
			zap.String("broadcast_id", broadcastID.String()),
			zap.Error(err),
		)
	}
}

func (s *BroadcastService) checkDocuments(client *supabase.Client, userID uuid.UUID, ids []uuid.UUID) error {
	owned, err := supabase.Select(client, models.FaxDocuments, supabase.SelectOptions{
		Columns: []models.Column{models.ColID},
		Where:   supabase.Where{models.ColUserID: userID},
	})
	if err != nil {
		return err
	}
	set := make(map[uuid.UUID]struct{}, len(owned))
	for _, d := range owned {
		set[d.ID] = struct{}{}
	}

	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := set[id]; !ok {
			return ErrNotFound
		}
		if _, dup := seen[id]; dup {
			return ErrDuplicateDocument
		}
		seen[id] = struct{}{}
	}
	return nil
}

// splitRecipients resolves ids against the user's address book and
// separates blocked numbers. Duplicate ids are collapsed.
func (s *BroadcastService) splitRecipients(client *supabase.Client, userID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, []uuid.UUID, error) {
	all, err := s.recipients.List(client, userID)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[uuid.UUID]models.FaxRecipient, len(all))
	for _, r := range all {
		byID[r.ID] = r
	}

	blockedNumbers, err := s.recipients.blockedNumbers(client, userID)
	if err != nil {
		return nil, nil, err
	}

	var deliverable, blocked []uuid.UUID
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		r, ok := byID[id]
		if !ok {
			return nil, nil, ErrNotFound
		}
		n, err := NormalizeFaxNumber(r.FaxNumber)
		if err == nil {
			if _, isBlocked := blockedNumbers[digitsOnly(n)]; isBlocked {
				blocked = append(blocked, id)
				continue
			}
		}
		deliverable = append(deliverable, id)
	}
	return deliverable, blocked, nil
}

func (s *BroadcastService) List(client *supabase.Client, userID uuid.UUID) ([]models.FaxBroadcast, error) {
	return supabase.Select(client, models.FaxBroadcasts, supabase.SelectOptions{
		Where: supabase.Where{models.ColUserID: userID},
		Order: &supabase.Order{Column: models.ColCreatedAt, Descending: true},
	})
}

// Get returns the broadcast with its documents in send order.
func (s *BroadcastService) Get(client *supabase.Client, userID, broadcastID uuid.UUID) (BroadcastDetail, error) {
	rows, err := supabase.Select(client, models.FaxBroadcasts, supabase.SelectOptions{
		Where: supabase.Where{
			models.ColID:     broadcastID,
			models.ColUserID: userID,
		},
		Limit: 1,
	})
	if err != nil {
		return BroadcastDetail{}, err
	}
	if len(rows) == 0 {
		return BroadcastDetail{}, ErrNotFound
	}

	documents, err := supabase.Select(client, models.FaxBroadcastDocuments, supabase.SelectOptions{
		Where: supabase.Where{models.ColBroadcastID: broadcastID},
		Order: &supabase.Order{Column: models.ColSequenceOrder},
	})
	if err != nil {
		return BroadcastDetail{}, err
	}
	sortDocuments(documents)
	return BroadcastDetail{Broadcast: rows[0], Documents: documents}, nil
}

// Deliveries lists the per-recipient rows of a broadcast owned by userID.
func (s *BroadcastService) Deliveries(client *supabase.Client, userID, broadcastID uuid.UUID) ([]models.FaxDeliveryStatus, error) {
	if _, err := s.Get(client, userID, broadcastID); err != nil {
		return nil, err
	}
	return supabase.Select(client, models.FaxDeliveryStatuses, supabase.SelectOptions{
		Where: supabase.Where{models.ColBroadcastID: broadcastID},
		Order: &supabase.Order{Column: models.ColCreatedAt},
	})
}

// Cancel moves a draft or scheduled broadcast to cancelled.
func (s *BroadcastService) Cancel(client *supabase.Client, userID, broadcastID uuid.UUID) (models.FaxBroadcast, error) {
	current, err := s.Get(client, userID, broadcastID)
	if err != nil {
		return models.FaxBroadcast{}, err
	}
	switch current.Broadcast.Status {
	case models.BroadcastStatusDraft, models.BroadcastStatusScheduled:
	default:
		return models.FaxBroadcast{}, ErrNotCancellable
	}

	status := models.BroadcastStatusCancelled
	rows, err := supabase.Update(client, models.FaxBroadcasts, models.FaxBroadcastUpdate{Status: &status},
		supabase.Where{
			models.ColID:     broadcastID,
			models.ColUserID: userID,
			models.ColStatus: current.Broadcast.Status,
		}, supabase.WriteOptions{})
	if err != nil {
		return models.FaxBroadcast{}, err
	}
	// status moved on between the read and the guarded update
	if len(rows) == 0 {
		return models.FaxBroadcast{}, ErrNotCancellable
	}
	return rows[0], nil
}

// WatchDeliveries streams changes to the broadcast's delivery rows until the
// returned subscription is closed.
func (s *BroadcastService) WatchDeliveries(ctx context.Context, realtime *supabase.RealtimeClient, broadcastID uuid.UUID, fn func(supabase.ChangePayload)) (*supabase.Subscription, error) {
	return supabase.Subscribe(ctx, realtime, models.FaxDeliveryStatuses, supabase.EventAll, fn,
		supabase.WithFilter("broadcast_id=eq."+broadcastID.String()),
	)
}

func sortDocuments(docs []models.FaxBroadcastDocument) {
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].SequenceOrder < docs[j].SequenceOrder
	})
}
