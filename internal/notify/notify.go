package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"university/internal/queue"
)

// Notification types.
const (
	TypeAssignment = "assignment"
	TypeAttendance = "attendance"
	TypeGeneral    = "general"
)

// Notification is the payload handed to the message queue. Exactly one of
// UserID or GroupID is set.
type Notification struct {
	UserID  string `json:"user_id,omitempty"`
	GroupID string `json:"group_id,omitempty"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// FileTask asks the worker to post-process an uploaded blob.
type FileTask struct {
	FileID    string `json:"file_id"`
	Operation string `json:"operation"`
}

var (
	publishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "university_notifications_published_total",
		Help: "Notifications handed to the queue, by type.",
	}, []string{"type"})
	droppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "university_notifications_dropped_total",
		Help: "Notifications that failed to enqueue, by type.",
	}, []string{"type"})
)

// Dispatcher publishes best-effort notifications. Enqueue failures are
// logged and swallowed; they never fail the triggering request.
type Dispatcher struct {
	q queue.Queue
}

// NewDispatcher creates a dispatcher over the given queue.
func NewDispatcher(q queue.Queue) *Dispatcher {
	return &Dispatcher{q: q}
}

func (d *Dispatcher) publish(ctx context.Context, msgType string, payload any, label string) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("notify: marshal %s failed: %v", label, err)
		droppedTotal.WithLabelValues(label).Inc()
		return
	}
	if err := d.q.Publish(ctx, queue.Message{Type: msgType, Body: body}); err != nil {
		log.Printf("notify: publish %s failed: %v", label, err)
		droppedTotal.WithLabelValues(label).Inc()
		return
	}
	publishedTotal.WithLabelValues(label).Inc()
}

// AssignmentCreated tells a group about a new assignment.
func (d *Dispatcher) AssignmentCreated(ctx context.Context, groupID, title string) {
	d.publish(ctx, queue.TypeNotification, Notification{
		GroupID: groupID,
		Message: fmt.Sprintf("New assignment %q has been posted.", title),
		Type:    TypeAssignment,
	}, TypeAssignment)
}

// AttendanceUpdated tells a student their status changed.
func (d *Dispatcher) AttendanceUpdated(ctx context.Context, studentID, scheduleID string, status string) {
	d.publish(ctx, queue.TypeNotification, Notification{
		UserID:  studentID,
		Message: fmt.Sprintf("Your attendance status has been updated to %q.", status),
		Type:    TypeAttendance,
	}, TypeAttendance)
}

// FileUploaded queues an uploaded blob for post-processing.
func (d *Dispatcher) FileUploaded(ctx context.Context, fileID string) {
	d.publish(ctx, queue.TypeFileProcessing, FileTask{
		FileID:    fileID,
		Operation: "process_new_upload",
	}, "file")
}
