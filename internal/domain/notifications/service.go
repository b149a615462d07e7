package notifications

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"backoffice/internal/platform/logging"
)

type Mailer interface {
	Send(ctx context.Context, from string, msg Message) error
}

type Service struct {
	store       StoreAPI
	Mailer      Mailer
	DefaultFrom string
	log         *logrus.Entry
}

func New(store StoreAPI, mailer Mailer, from string) *Service {
	if from == "" {
		from = "no-reply@example.com"
	}
	return &Service{store: store, Mailer: mailer, DefaultFrom: from, log: logging.For("notifications")}
}

// Notify sends msg and records the outcome. A send failure is logged, stored
// and returned; callers decide whether it is fatal.
func (s *Service) Notify(ctx context.Context, msg Message) error {
	delivery := Delivery{
		ID:        uuid.NewString(),
		Type:      msg.Type,
		EntityID:  msg.EntityID,
		Recipient: strings.TrimSpace(msg.To),
		Subject:   msg.Subject,
		Status:    DeliverySent,
	}

	var sendErr error
	if s.Mailer == nil || delivery.Recipient == "" {
		delivery.Status = DeliverySkipped
	} else if sendErr = s.Mailer.Send(ctx, s.DefaultFrom, msg); sendErr != nil {
		delivery.Status = DeliveryFailed
		delivery.Error = sendErr.Error()
		s.log.WithFields(logrus.Fields{"type": msg.Type, "entityId": msg.EntityID}).Warn("notification email send failed: ", sendErr)
	}

	if s.store != nil {
		if err := s.store.CreateDelivery(ctx, delivery); err != nil {
			logging.LogError(s.log, "Notify", "record delivery", delivery.ID, err)
		}
	}
	return sendErr
}

func (s *Service) List(ctx context.Context, entityID string, limit, offset int) ([]Delivery, error) {
	return s.store.ListDeliveries(ctx, entityID, limit, offset)
}
