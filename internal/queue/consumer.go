package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-backoffice/internal/model"
)

// PaymentDeriver creates the payment implied by a reservation's plan.  It
// must be idempotent: the consumer calls it for every event, including
// reservations whose payment was already derived in the request path.
type PaymentDeriver interface {
	DeriveReservationPayment(ctx context.Context, reservationID uuid.UUID, plan model.PaymentPlan, cost decimal.Decimal) error
}

const (
	attemptsHeader = "x-attempts"
	maxAttempts    = 6
	baseRetryDelay = 5 * time.Second
	maxRetryDelay  = 5 * time.Minute
)

// errMalformed marks events that can never be processed.
var errMalformed = errors.New("malformed event")

type disposition int

const (
	ack disposition = iota
	reject
	retry
)

// Consumer reconciles reservation payments from the reservation.created
// queue.
type Consumer struct {
	url       string
	deriver   PaymentDeriver
	permanent []error
	logger    *zap.Logger
}

// NewConsumer builds a consumer.  Derivation errors matching one of
// permanent (errors.Is) are dropped; any other error is retried later.
func NewConsumer(url string, deriver PaymentDeriver, logger *zap.Logger, permanent ...error) *Consumer {
	return &Consumer{
		url:       url,
		deriver:   deriver,
		permanent: append([]error{errMalformed}, permanent...),
		logger:    logger.Named("reservation-consumer"),
	}
}

// Run connects to RabbitMQ, declares the queues and consumes until ctx is
// cancelled.  Connection failures are retried with exponential backoff
// (1s doubling up to 30s).
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.logger.Warn("failed to dial broker", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("consume loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.logger.Warn("set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(ReservationCreatedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	retryArgs := amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": ReservationCreatedQueue,
	}
	if _, err := ch.QueueDeclare(ReservationCreatedRetryQueue, true, false, false, false, retryArgs); err != nil {
		return fmt.Errorf("retry queue declare: %w", err)
	}
	msgs, err := ch.Consume(ReservationCreatedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	c.logger.Info("consuming", zap.String("queue", ReservationCreatedQueue))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.settle(ctx, ch, d, c.handle(ctx, d.Body))
		}
	}
}

// settle acks, drops or schedules a retry for one delivery.
func (c *Consumer) settle(ctx context.Context, ch *amqp.Channel, d amqp.Delivery, err error) {
	attempt := attempts(d.Headers) + 1
	switch c.decide(err, attempt) {
	case ack:
		_ = d.Ack(false)
	case reject:
		c.logger.Error("dropping reservation event", zap.Int("attempt", attempt), zap.Error(err))
		_ = d.Nack(false, false)
	case retry:
		delay := retryDelay(attempt)
		c.logger.Warn("reservation event failed, retrying",
			zap.Int("attempt", attempt), zap.Duration("retry_in", delay), zap.Error(err))
		pub := amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Expiration:   strconv.FormatInt(delay.Milliseconds(), 10),
			Headers:      amqp.Table{attemptsHeader: int32(attempt)},
			Body:         d.Body,
		}
		if perr := ch.PublishWithContext(ctx, "", ReservationCreatedRetryQueue, false, false, pub); perr != nil {
			c.logger.Warn("schedule retry failed, requeueing", zap.Error(perr))
			_ = d.Nack(false, true)
			return
		}
		_ = d.Ack(false)
	}
}

// decide classifies the outcome of the given delivery attempt (1-based).
func (c *Consumer) decide(err error, attempt int) disposition {
	if err == nil {
		return ack
	}
	for _, p := range c.permanent {
		if errors.Is(err, p) {
			return reject
		}
	}
	if attempt >= maxAttempts {
		return reject
	}
	return retry
}

// attempts reads how many times a message has already failed.
func attempts(h amqp.Table) int {
	switch v := h[attemptsHeader].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// retryDelay doubles from baseRetryDelay per failed attempt, capped at
// maxRetryDelay.
func retryDelay(attempt int) time.Duration {
	d := baseRetryDelay
	for i := 1; i < attempt && d < maxRetryDelay; i++ {
		d *= 2
	}
	return min(d, maxRetryDelay)
}

// handle decodes one event and re-runs the payment derivation for it.
func (c *Consumer) handle(ctx context.Context, body []byte) error {
	var ev ReservationCreatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	if ev.ReservationID == uuid.Nil {
		return fmt.Errorf("%w: no reservation id", errMalformed)
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := c.deriver.DeriveReservationPayment(ctx, ev.ReservationID, ev.PaymentPlan, ev.AccommodationCost); err != nil {
		return fmt.Errorf("derive payment for %s: %w", ev.ReservationID, err)
	}
	c.logger.Info("reservation payment reconciled",
		zap.String("reservation_id", ev.ReservationID.String()),
		zap.String("payment_plan", string(ev.PaymentPlan)),
		zap.String("accommodation_cost", ev.AccommodationCost.StringFixed(2)))
	return nil
}
