package main

import (
	"log"

	"github.com/bootcampcrew/admissions_service/config"
	"github.com/bootcampcrew/admissions_service/infra/queue"
	"github.com/bootcampcrew/admissions_service/internal/api/rest/handlers"
	"github.com/bootcampcrew/admissions_service/internal/services"
)

func main() {
	cfg := config.LoadMailerConfig()

	log.Println("Mailer starting...")
	log.Printf("KafkaBroker=%s Topic=%s GroupID=%s\n",
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaGroupID,
	)

	mailService := services.NewMailService(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPassword,
		cfg.MailFrom,
		cfg.MailFromName,
	)

	handler := handlers.NewMailHandler(mailService)

	consumer := queue.NewKafkaConsumer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaGroupID,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
		handler,
	)

	log.Println("Mailer listening for events...")
	consumer.Listen()
}
