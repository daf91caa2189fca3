package handlers

import (
	"encoding/json"
	"log"

	"github.com/bootcampcrew/admissions_service/internal/dto"
	"github.com/bootcampcrew/admissions_service/internal/services"
)

// MailHandler consumes notification events and turns them into mail.
type MailHandler struct {
	MailService *services.MailService
}

func NewMailHandler(ms *services.MailService) *MailHandler {
	return &MailHandler{MailService: ms}
}

func (h *MailHandler) HandleMessage(key, value string) error {
	var event dto.NotificationEvent

	if err := json.Unmarshal([]byte(value), &event); err != nil {
		log.Printf("invalid event payload: %s\n", value)
		return err
	}

	log.Printf("notification event received: key=%s email=%s", key, event.Email)

	err := h.MailService.SendEvent(key, event)
	log.Println("[MAIL] send finished, err =", err)
	return err
}
