package notifier

import (
	"errors"
	"log"
	"sync"

	"github.com/adimehta/skillbridge/internal/models"
	ws "github.com/adimehta/skillbridge/internal/websocket"
	"github.com/google/uuid"
)

// ErrNotRecipient distinguishes an ownership violation from a missing
// record: the notification exists but belongs to someone else.
var ErrNotRecipient = errors.New("notification belongs to another user")

const recentLimit = 20

var validCategories = map[string]bool{
	models.CategoryAssignment:  true,
	models.CategorySubmission:  true,
	models.CategoryFeedback:    true,
	models.CategoryCompletion:  true,
	models.CategoryApplication: true,
	models.CategoryGeneric:     true,
}

type Store interface {
	SaveNotification(n *models.Notification) error
	GetNotification(id uuid.UUID) (*models.Notification, error)
	GetUserNotifications(userID uuid.UUID, limit int) ([]models.Notification, error)
	MarkNotificationRead(id uuid.UUID) error
	MarkAllNotificationsRead(userID uuid.UUID) error
}

// Pusher is the realtime delivery primitive the dispatcher uses.
// Implemented by the websocket hub; reports how many connections the
// payload reached.
type Pusher interface {
	SendToUser(userID uuid.UUID, payload []byte) int
}

// Dispatcher is the single entry point every lifecycle operation calls
// to inform the counterpart user. It persists first and pushes second;
// push failures never surface to the caller.
type Dispatcher struct {
	store Store

	mu     sync.RWMutex
	pusher Pusher
}

func NewDispatcher(store Store) *Dispatcher {
	return &Dispatcher{store: store}
}

// AttachGateway wires the realtime channel in once the hub is running.
// Until then every push degrades to persisted-only delivery.
func (d *Dispatcher) AttachGateway(p Pusher) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pusher = p
}

// Notify persists a Notification for the recipient and attempts
// best-effort realtime delivery to their personal room. The returned
// error covers persistence only.
func (d *Dispatcher) Notify(recipientID uuid.UUID, actorID *uuid.UUID, category string, relatedID *uuid.UUID, relatedType, message string) (*models.Notification, error) {
	if !validCategories[category] {
		log.Printf("Unknown notification category %q, falling back to generic", category)
		category = models.CategoryGeneric
	}

	n := &models.Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Category:    category,
		Message:     message,
		RelatedID:   relatedID,
		RelatedType: relatedType,
	}

	if err := d.store.SaveNotification(n); err != nil {
		return nil, err
	}

	if err := d.push(n); err != nil {
		log.Printf("Notification %s persisted but not pushed: %v", n.ID, err)
	}

	return n, nil
}

func (d *Dispatcher) push(n *models.Notification) error {
	d.mu.RLock()
	pusher := d.pusher
	d.mu.RUnlock()

	if pusher == nil {
		return ws.ErrGatewayNotReady
	}

	payload, err := ws.Envelope(ws.TypeNotification, n)
	if err != nil {
		return err
	}

	if delivered := pusher.SendToUser(n.RecipientID, payload); delivered == 0 {
		log.Printf("Recipient %s offline, notification %s awaits fetch", n.RecipientID, n.ID)
	}
	return nil
}

// Recent returns the recipient's latest notifications, newest first.
func (d *Dispatcher) Recent(userID uuid.UUID) ([]models.Notification, error) {
	return d.store.GetUserNotifications(userID, recentLimit)
}

// MarkRead flips one notification to read. Only the recipient may do
// this; the read flag never transitions back.
func (d *Dispatcher) MarkRead(id, requesterID uuid.UUID) (*models.Notification, error) {
	n, err := d.store.GetNotification(id)
	if err != nil {
		return nil, err
	}

	if n.RecipientID != requesterID {
		return nil, ErrNotRecipient
	}

	if n.Read {
		return n, nil
	}

	if err := d.store.MarkNotificationRead(id); err != nil {
		return nil, err
	}

	n.Read = true
	return n, nil
}

// MarkAllRead marks every unread notification of the requester as read.
// Idempotent.
func (d *Dispatcher) MarkAllRead(requesterID uuid.UUID) error {
	return d.store.MarkAllNotificationsRead(requesterID)
}
