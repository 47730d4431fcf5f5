package queue

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/streadway/amqp"
)

// AMQPQueue publishes and consumes JSON messages on durable RabbitMQ
// queues named after the topic.
type AMQPQueue struct {
	conn *amqp.Connection
	mu   sync.Mutex // guards ch; amqp channels are not safe for concurrent publish
	ch   *amqp.Channel
}

func DialAMQP(url string) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	return &AMQPQueue{conn: conn, ch: ch}, nil
}

func (q *AMQPQueue) declare(topic string) (amqp.Queue, error) {
	return q.ch.QueueDeclare(
		topic, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
}

// Publish JSON-encodes payload and sends it to the topic's queue.
func (q *AMQPQueue) Publish(topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	dq, err := q.declare(topic)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", topic, err)
	}

	return q.ch.Publish(
		"",
		dq.Name,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// Subscribe consumes the topic's queue and hands each raw body ([]byte) to
// handler. A failed delivery is requeued once, then dropped.
func (q *AMQPQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	dq, err := q.declare(topic)
	if err != nil {
		q.mu.Unlock()
		return fmt.Errorf("declare queue %s: %w", topic, err)
	}
	msgs, err := q.ch.Consume(
		dq.Name,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	q.mu.Unlock()
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	go func() {
		for d := range msgs {
			if err := handler(d.Body); err != nil {
				log.Println("⚠️ Failed to handle message:", err)
				d.Nack(false, !d.Redelivered)
				continue
			}
			d.Ack(false)
		}
		log.Println("Consumer for", topic, "stopped")
	}()

	return nil
}

func (q *AMQPQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.ch.Close(); err != nil {
		q.conn.Close()
		return err
	}
	return q.conn.Close()
}
