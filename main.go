package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	srv := &Server{cfg: cfg}

	if cfg.AMQPURL != "" {
		bus, err := NewEventBus(cfg.AMQPURL)
		if err != nil {
			log.Fatal(err)
		}
		defer bus.Close()
		srv.bus = bus
		log.Println("[EventBus] Event feed enabled")
	} else {
		log.Println("[EventBus] AMQP_URL not set — event feed disabled")
	}

	http.HandleFunc("/", srv.WebhookHandler)

	log.Println("listening on port", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, nil))
}
