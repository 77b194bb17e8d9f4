package queue

import (
	"context"
	"errors"
)

type Broker interface {
	Publish(ctx context.Context, queueName string, message []byte) error
	Subscribe(ctx context.Context, queueName string, handler MessageHandler) error
	// IsClosed reports whether the broker connection is no longer usable.
	IsClosed() bool
	Close() error
}

// MessageHandler processes one delivery. Returning nil acknowledges the
// message; returning an error wrapped with Permanent drops it to the DLQ
// without retries; any other error is retried and dead-lettered after the
// retry cap.
type MessageHandler func(ctx context.Context, message []byte) error

const (
	QueueEmail           = "email"
	QueueRecipeImage     = "recipe_image"
	QueueUserRegister    = "user_register"
	QueueEmailDLQ        = "email-dlq"
	QueueRecipeImageDLQ  = "recipe_image-dlq"
	QueueUserRegisterDLQ = "user_register-dlq"
)

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks an error as a permanent failure: redelivery can never
// succeed (malformed payload, referenced document gone), so the broker must
// not requeue the message.
func Permanent(err error) error {
	return &permanentError{err: err}
}

func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}
