package services

import (
	"context"
	"fmt"

	"github.com/curalink/curalink-backend/internal/clients/sendgrid"
	"github.com/curalink/curalink-backend/internal/domain"
	"github.com/curalink/curalink-backend/internal/platform/logger"
	"github.com/curalink/curalink-backend/internal/realtime"
	"github.com/curalink/curalink-backend/internal/realtime/bus"
)

// Notifier delivers user-facing alerts for connection and chat activity.
// Every method is best-effort: a failed email or bus publish is logged and
// never fails the request that triggered it.
type Notifier interface {
	ConnectionRequested(ctx context.Context, requester, receiver *domain.User, conn *domain.Connection)
	ConnectionResponded(ctx context.Context, responder, requester *domain.User, conn *domain.Connection)
	MessageSent(ctx context.Context, sender *domain.User, msg *domain.Message)
}

type notifier struct {
	log   *logger.Logger
	bus   bus.Bus
	email sendgrid.Client
}

func NewNotifier(log *logger.Logger, b bus.Bus, email sendgrid.Client) Notifier {
	return &notifier{log: log.With("service", "Notifier"), bus: b, email: email}
}

func (n *notifier) publish(ctx context.Context, msg realtime.Message) {
	if n.bus == nil {
		return
	}
	if err := n.bus.Publish(ctx, msg); err != nil {
		n.log.Warn("Notification publish failed", "event", msg.Event, "channel", msg.Channel, "error", err)
	}
}

func (n *notifier) ConnectionRequested(ctx context.Context, requester, receiver *domain.User, conn *domain.Connection) {
	n.publish(ctx, realtime.Message{
		Channel: realtime.UserChannel(receiver.ID),
		Event:   realtime.EventConnectionRequested,
		Data: map[string]any{
			"connection_id": conn.ID,
			"requester":     requester.Public(),
		},
	})

	if n.email == nil {
		return
	}
	err := n.email.Send(ctx, sendgrid.SendEmailRequest{
		ToEmail: receiver.Email,
		ToName:  receiver.FirstName + " " + receiver.LastName,
		Subject: "New connection request on CuraLink",
		TextBody: fmt.Sprintf(
			"%s %s would like to connect with you on CuraLink. Log in to accept or decline the request.",
			requester.FirstName, requester.LastName,
		),
	})
	if err != nil {
		n.log.Warn("Connection request email failed", "receiver", receiver.ID, "error", err)
	}
}

func (n *notifier) ConnectionResponded(ctx context.Context, responder, requester *domain.User, conn *domain.Connection) {
	event := realtime.EventConnectionRejected
	if conn.Status == domain.ConnectionAccepted {
		event = realtime.EventConnectionAccepted
	}
	n.publish(ctx, realtime.Message{
		Channel: realtime.UserChannel(requester.ID),
		Event:   event,
		Data: map[string]any{
			"connection_id": conn.ID,
			"responder":     responder.Public(),
			"status":        conn.Status,
		},
	})
}

func (n *notifier) MessageSent(ctx context.Context, sender *domain.User, msg *domain.Message) {
	n.publish(ctx, realtime.Message{
		Channel: realtime.UserChannel(msg.ReceiverID),
		Event:   realtime.EventMessageReceived,
		Data: map[string]any{
			"message_id": msg.ID,
			"sender":     sender.Public(),
		},
	})
}

type noopNotifier struct{}

// NewNoopNotifier is used when neither a bus nor an email client is
// configured.
func NewNoopNotifier() Notifier { return noopNotifier{} }

func (noopNotifier) ConnectionRequested(context.Context, *domain.User, *domain.User, *domain.Connection) {
}
func (noopNotifier) ConnectionResponded(context.Context, *domain.User, *domain.User, *domain.Connection) {
}
func (noopNotifier) MessageSent(context.Context, *domain.User, *domain.Message) {}
