package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/curalink/curalink-backend/internal/data/repos"
	"github.com/curalink/curalink-backend/internal/domain"
	"github.com/curalink/curalink-backend/internal/platform/apierr"
	"github.com/curalink/curalink-backend/internal/platform/logger"
)

type ConnectionAction string

const (
	ConnectionActionAccept ConnectionAction = "accept"
	ConnectionActionReject ConnectionAction = "reject"
)

// ConnectionView is a Connection enriched with both parties' public identity.
type ConnectionView struct {
	*domain.Connection
	Requester domain.PublicUser `json:"requester"`
	Receiver  domain.PublicUser `json:"receiver"`
}

// ConnectionService is the registry of researcher-to-researcher connection
// requests. The researcher-only gate on the caller is enforced once per
// request at the route boundary; operations here assume an authorized
// caller and validate everything else (receiver, pair, status).
type ConnectionService interface {
	List(ctx context.Context, callerID uuid.UUID) ([]ConnectionView, error)
	Request(ctx context.Context, callerID, receiverID uuid.UUID) (*ConnectionView, error)
	Respond(ctx context.Context, callerID, connectionID uuid.UUID, action ConnectionAction) (*ConnectionView, error)
}

type connectionService struct {
	log            *logger.Logger
	userRepo       repos.UserRepo
	connectionRepo repos.ConnectionRepo
	notifier       Notifier
}

func NewConnectionService(
	log *logger.Logger,
	userRepo repos.UserRepo,
	connectionRepo repos.ConnectionRepo,
	notifier Notifier,
) ConnectionService {
	if notifier == nil {
		notifier = NewNoopNotifier()
	}
	return &connectionService{
		log:            log.With("service", "ConnectionService"),
		userRepo:       userRepo,
		connectionRepo: connectionRepo,
		notifier:       notifier,
	}
}

func (cs *connectionService) getCaller(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := cs.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if user == nil {
		return nil, apierr.Unauthenticated("user no longer exists")
	}
	return user, nil
}

func (cs *connectionService) List(ctx context.Context, callerID uuid.UUID) ([]ConnectionView, error) {
	conns, err := cs.connectionRepo.ListByUser(ctx, nil, callerID)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	return cs.enrich(ctx, conns)
}

func (cs *connectionService) enrich(ctx context.Context, conns []*domain.Connection) ([]ConnectionView, error) {
	idset := make(map[uuid.UUID]bool, len(conns)*2)
	ids := make([]uuid.UUID, 0, len(conns)*2)
	for _, c := range conns {
		for _, id := range []uuid.UUID{c.RequesterID, c.ReceiverID} {
			if !idset[id] {
				idset[id] = true
				ids = append(ids, id)
			}
		}
	}

	users, err := cs.userRepo.GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	byID := make(map[uuid.UUID]domain.PublicUser, len(users))
	for _, u := range users {
		byID[u.ID] = u.Public()
	}

	out := make([]ConnectionView, 0, len(conns))
	for _, c := range conns {
		out = append(out, ConnectionView{
			Connection: c,
			Requester:  byID[c.RequesterID],
			Receiver:   byID[c.ReceiverID],
		})
	}
	return out, nil
}

func (cs *connectionService) Request(ctx context.Context, callerID, receiverID uuid.UUID) (*ConnectionView, error) {
	caller, err := cs.getCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if receiverID == uuid.Nil {
		return nil, apierr.Invalid("receiverId required")
	}
	if receiverID == callerID {
		return nil, apierr.Invalid("cannot connect to yourself")
	}

	receiver, err := cs.userRepo.GetByID(ctx, nil, receiverID)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if receiver == nil {
		return nil, apierr.Invalid("receiver not found")
	}
	if receiver.Role != domain.RoleResearcher {
		return nil, apierr.Invalid("receiver is not a researcher")
	}

	// Pre-check so the common duplicate case can echo the existing status.
	// The unique pair index remains the real guard under concurrency.
	if existing, err := cs.connectionRepo.GetByPair(ctx, nil, callerID, receiverID); err != nil {
		return nil, apierr.Storage(err)
	} else if existing != nil {
		return nil, conflictWithStatus(existing.Status)
	}

	conn := &domain.Connection{
		ID:          uuid.New(),
		RequesterID: callerID,
		ReceiverID:  receiverID,
		Status:      domain.ConnectionPending,
	}
	if err := cs.connectionRepo.Create(ctx, nil, conn); err != nil {
		if errors.Is(err, repos.ErrDuplicatePair) {
			// Lost the race; report the row that won.
			if existing, gerr := cs.connectionRepo.GetByPair(ctx, nil, callerID, receiverID); gerr == nil && existing != nil {
				return nil, conflictWithStatus(existing.Status)
			}
			return nil, conflictWithStatus(domain.ConnectionPending)
		}
		return nil, apierr.Storage(err)
	}

	cs.notifier.ConnectionRequested(ctx, caller, receiver, conn)

	return &ConnectionView{
		Connection: conn,
		Requester:  caller.Public(),
		Receiver:   receiver.Public(),
	}, nil
}

// conflictWithStatus carries the existing row's status so clients can show
// "already pending" versus "previously rejected".
func conflictWithStatus(status domain.ConnectionStatus) *apierr.Error {
	e := apierr.Conflict("connection already exists")
	e.Code = "conflict:" + string(status)
	return e
}

// ExistingStatus extracts the echoed status from a duplicate-connection
// conflict, if err is one.
func ExistingStatus(err error) (domain.ConnectionStatus, bool) {
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		return "", false
	}
	const prefix = "conflict:"
	if len(ae.Code) > len(prefix) && ae.Code[:len(prefix)] == prefix {
		return domain.ConnectionStatus(ae.Code[len(prefix):]), true
	}
	return "", false
}

func (cs *connectionService) Respond(ctx context.Context, callerID, connectionID uuid.UUID, action ConnectionAction) (*ConnectionView, error) {
	caller, err := cs.getCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}

	var status domain.ConnectionStatus
	switch action {
	case ConnectionActionAccept:
		status = domain.ConnectionAccepted
	case ConnectionActionReject:
		status = domain.ConnectionRejected
	default:
		return nil, apierr.Invalidf("action must be %q or %q", ConnectionActionAccept, ConnectionActionReject)
	}

	conn, err := cs.connectionRepo.GetByID(ctx, nil, connectionID)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if conn == nil {
		return nil, apierr.NotFound("connection not found")
	}
	if conn.ReceiverID != callerID {
		return nil, apierr.Forbidden("only the receiver may respond")
	}
	if conn.Status != domain.ConnectionPending {
		return nil, conflictWithStatus(conn.Status)
	}

	if err := cs.connectionRepo.UpdateStatus(ctx, nil, conn.ID, status); err != nil {
		return nil, apierr.Storage(err)
	}
	conn.Status = status

	requester, err := cs.userRepo.GetByID(ctx, nil, conn.RequesterID)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if requester == nil {
		return nil, apierr.Storage(fmt.Errorf("requester %s missing", conn.RequesterID))
	}

	cs.notifier.ConnectionResponded(ctx, caller, requester, conn)

	return &ConnectionView{
		Connection: conn,
		Requester:  requester.Public(),
		Receiver:   caller.Public(),
	}, nil
}
