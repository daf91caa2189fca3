package services

import (
	"encoding/json"
	"log"
	"time"

	"github.com/bootcampcrew/admissions_service/internal/dto"
	"github.com/bootcampcrew/admissions_service/internal/interfaces"
)

// kafkaNotifier publishes notification events for the mailer consumer. The
// event key routes the payload to a template on the other side.
type kafkaNotifier struct {
	producer interfaces.ProducerHandler
}

func NewKafkaNotifier(producer interfaces.ProducerHandler) interfaces.Notifier {
	return &kafkaNotifier{producer: producer}
}

func (n *kafkaNotifier) publish(eventKey string, event dto.NotificationEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := n.producer.PublishMessage([]byte(eventKey), value); err != nil {
		log.Printf("publish %s for %s error: %v", eventKey, event.Email, err)
		return err
	}
	return nil
}

func (n *kafkaNotifier) SendApplicationIsOverPassed(toEmail, toName string) error {
	return n.publish(dto.EventApplicationOverPassed, dto.NotificationEvent{Email: toEmail, Name: toName})
}

func (n *kafkaNotifier) SendApplicationIsOverFailed(toEmail, toName string) error {
	return n.publish(dto.EventApplicationOverFailed, dto.NotificationEvent{Email: toEmail, Name: toName})
}

func (n *kafkaNotifier) SendSelectedAndPaymentDetails(toEmail, toName string, paymentValue float64, paymentDueDate time.Time) error {
	return n.publish(dto.EventSelectedPayment, dto.NotificationEvent{
		Email:          toEmail,
		Name:           toName,
		PaymentValue:   &paymentValue,
		PaymentDueDate: paymentDueDate.Format(time.RFC3339),
	})
}

func (n *kafkaNotifier) SendSelectedInterviewDetails(toEmail, toName string) error {
	return n.publish(dto.EventSelectedInterview, dto.NotificationEvent{Email: toEmail, Name: toName})
}

func (n *kafkaNotifier) SendAdmissionsAreOverNotSelected(toEmail, toName string) error {
	return n.publish(dto.EventNotSelected, dto.NotificationEvent{Email: toEmail, Name: toName})
}

func (n *kafkaNotifier) SendInterviewPassed(toEmail, toName string) error {
	return n.publish(dto.EventInterviewPassed, dto.NotificationEvent{Email: toEmail, Name: toName})
}

func (n *kafkaNotifier) SendInterviewFailed(toEmail, toName, message string) error {
	return n.publish(dto.EventInterviewFailed, dto.NotificationEvent{Email: toEmail, Name: toName, Message: message})
}

func (n *kafkaNotifier) SendPaymentAccepted(toEmail, toName string) error {
	return n.publish(dto.EventPaymentAccepted, dto.NotificationEvent{Email: toEmail, Name: toName})
}

func (n *kafkaNotifier) SendPaymentRefused(toEmail, toName, message string) error {
	return n.publish(dto.EventPaymentRefused, dto.NotificationEvent{Email: toEmail, Name: toName, Message: message})
}

func (n *kafkaNotifier) SendPaymentNeedsAdditionalProof(toEmail, toName, message string) error {
	return n.publish(dto.EventPaymentNeedsProof, dto.NotificationEvent{Email: toEmail, Name: toName, Message: message})
}
