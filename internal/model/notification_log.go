package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationLog is an audit row written by the worker for each
// classified email event. It is a side channel only and never gates the
// pipeline.
type NotificationLog struct {
	ID        int64
	OwnerID   uuid.UUID
	EmailID   uuid.UUID
	Message   string
	CreatedAt time.Time
}
