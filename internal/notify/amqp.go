// README: RabbitMQ publisher for ride updates consumed by other services.
package notify

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"ridebroker/internal/modules/ride"
	"ridebroker/internal/types"
)

const publishTimeout = 2 * time.Second

type Publisher struct {
	ch       *amqp.Channel
	exchange string
	log      *logrus.Logger
}

func NewPublisher(ch *amqp.Channel, exchange string, log *logrus.Logger) *Publisher {
	if log == nil {
		log = logrus.New()
	}
	return &Publisher{ch: ch, exchange: exchange, log: log}
}

// RideUpdated implements ride.Notifier. Publish failures are logged and
// swallowed; there is no retry and no acknowledgement channel.
func (p *Publisher) RideUpdated(rideID types.ID, status ride.Status, snapshot *ride.Ride) {
	b, err := json.Marshal(Event{Type: eventType, RideID: rideID, Status: status, Ride: snapshot})
	if err != nil {
		p.log.WithError(err).Error("marshal ride update")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err = p.ch.PublishWithContext(ctx, p.exchange, "ride."+string(status), false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        b,
	})
	if err != nil {
		p.log.WithError(err).WithField("ride_id", rideID).Warn("publish ride update")
	}
}
