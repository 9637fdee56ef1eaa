package services

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/curalink/curalink-backend/internal/data/repos"
	"github.com/curalink/curalink-backend/internal/domain"
	"github.com/curalink/curalink-backend/internal/platform/apierr"
	"github.com/curalink/curalink-backend/internal/platform/logger"
)

// Conversation is the viewer-relative projection of one counterpart: their
// identity, the latest message of the pair, and how many of their messages
// the viewer has not read. Recomputed on every call, never stored.
type Conversation struct {
	Counterpart   domain.PublicUser `json:"counterpart"`
	LatestMessage *domain.Message   `json:"latest_message"`
	UnreadCount   int64             `json:"unread_count"`
}

type ChatService interface {
	// ListThread returns the full thread with counterpartID oldest-first and,
	// as a side effect, marks the counterpart's unread messages to the caller
	// as read. Requires an accepted connection between the pair.
	ListThread(ctx context.Context, callerID, counterpartID uuid.UUID) ([]*domain.Message, error)
	Send(ctx context.Context, callerID, receiverID uuid.UUID, body string) (*domain.Message, error)
	ListConversations(ctx context.Context, callerID uuid.UUID) ([]Conversation, error)
}

type chatService struct {
	db             *gorm.DB
	log            *logger.Logger
	userRepo       repos.UserRepo
	connectionRepo repos.ConnectionRepo
	messageRepo    repos.MessageRepo
	notifier       Notifier
}

func NewChatService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	connectionRepo repos.ConnectionRepo,
	messageRepo repos.MessageRepo,
	notifier Notifier,
) ChatService {
	if notifier == nil {
		notifier = NewNoopNotifier()
	}
	return &chatService{
		db:             db,
		log:            log.With("service", "ChatService"),
		userRepo:       userRepo,
		connectionRepo: connectionRepo,
		messageRepo:    messageRepo,
		notifier:       notifier,
	}
}

func (s *chatService) inTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s.db == nil {
		return fn(nil)
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

func (s *chatService) requireAccepted(ctx context.Context, a, b uuid.UUID) error {
	conn, err := s.connectionRepo.GetByPair(ctx, nil, a, b)
	if err != nil {
		return apierr.Storage(err)
	}
	if conn == nil || conn.Status != domain.ConnectionAccepted {
		return apierr.Forbidden("no accepted connection with this user")
	}
	return nil
}

func (s *chatService) ListThread(ctx context.Context, callerID, counterpartID uuid.UUID) ([]*domain.Message, error) {
	if counterpartID == uuid.Nil {
		return nil, apierr.Invalid("userId required")
	}
	if err := s.requireAccepted(ctx, callerID, counterpartID); err != nil {
		return nil, err
	}

	var thread []*domain.Message
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		var err error
		thread, err = s.messageRepo.ListBetween(ctx, tx, callerID, counterpartID)
		if err != nil {
			return err
		}
		// A read of the thread is not read-only: it consumes the unread
		// state of everything the counterpart sent.
		if _, err := s.messageRepo.MarkReadFrom(ctx, tx, counterpartID, callerID); err != nil {
			return err
		}
		for _, m := range thread {
			if m.SenderID == counterpartID {
				m.Read = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, apierr.From(err)
	}
	return thread, nil
}

func (s *chatService) Send(ctx context.Context, callerID, receiverID uuid.UUID, body string) (*domain.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apierr.Invalid("message body required")
	}
	if receiverID == uuid.Nil {
		return nil, apierr.Invalid("receiverId required")
	}
	if err := s.requireAccepted(ctx, callerID, receiverID); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ID:         uuid.New(),
		SenderID:   callerID,
		ReceiverID: receiverID,
		Body:       body,
	}
	if err := s.messageRepo.Create(ctx, nil, msg); err != nil {
		return nil, apierr.Storage(err)
	}

	if sender, err := s.userRepo.GetByID(ctx, nil, callerID); err == nil && sender != nil {
		s.notifier.MessageSent(ctx, sender, msg)
	}
	return msg, nil
}

func (s *chatService) ListConversations(ctx context.Context, callerID uuid.UUID) ([]Conversation, error) {
	conns, err := s.connectionRepo.ListByUserAndStatus(ctx, nil, callerID, domain.ConnectionAccepted)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if len(conns) == 0 {
		return []Conversation{}, nil
	}

	counterparts := make([]uuid.UUID, 0, len(conns))
	for _, c := range conns {
		counterparts = append(counterparts, c.Counterpart(callerID))
	}

	users, err := s.userRepo.GetByIDs(ctx, nil, counterparts)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	byID := make(map[uuid.UUID]domain.PublicUser, len(users))
	for _, u := range users {
		byID[u.ID] = u.Public()
	}

	out := make([]Conversation, len(counterparts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, counterpartID := range counterparts {
		g.Go(func() error {
			latest, err := s.messageRepo.LatestBetween(gctx, nil, callerID, counterpartID)
			if err != nil {
				return err
			}
			unread, err := s.messageRepo.CountUnreadFrom(gctx, nil, counterpartID, callerID)
			if err != nil {
				return err
			}
			out[i] = Conversation{
				Counterpart:   byID[counterpartID],
				LatestMessage: latest,
				UnreadCount:   unread,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apierr.Storage(err)
	}

	// Most recent chatter first; counterparts with no messages yet keep
	// their input order at the tail.
	sort.SliceStable(out, func(i, j int) bool {
		mi, mj := out[i].LatestMessage, out[j].LatestMessage
		switch {
		case mi == nil:
			return false
		case mj == nil:
			return true
		case mi.CreatedAt.Equal(mj.CreatedAt):
			return mi.Seq > mj.Seq
		default:
			return mi.CreatedAt.After(mj.CreatedAt)
		}
	})
	return out, nil
}
