package interfaces

// ConsumerHandler receives one kafka message. The key carries the event
// kind, the value the JSON payload.
type ConsumerHandler interface {
	HandleMessage(key, value string) error
}

type ProducerHandler interface {
	PublishMessage(key, value []byte) error
}
