package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"ai-support-chat-be/pkg/events"
	natsbus "ai-support-chat-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Manual end-to-end probe for a running server: sends questions to the
// chat endpoint and prints answers with their citations. With -follow
// it instead tails the CHAT_TURN_COMPLETED events on NATS.
func main() {
	baseURL := flag.String("url", "http://localhost:8080/api", "base API URL")
	accessKey := flag.String("key", os.Getenv("API_ACCESS_KEY"), "API access key")
	sessionID := flag.String("session", "", "session id to reuse (defaults to a fresh one)")
	natsURL := flag.String("nats", "nats://localhost:4222", "NATS URL for -follow")
	follow := flag.Bool("follow", false, "tail chat turn events from NATS instead of sending questions")
	flag.Parse()

	if *follow {
		followEvents(*natsURL)
		return
	}

	if *sessionID == "" {
		*sessionID = uuid.NewString()
	}

	questions := flag.Args()
	if len(questions) == 0 {
		questions = []string{"hola", "¿Cómo genero un reporte mensual?"}
	}

	color.Cyan("🚀 Chat probe (session %s)\n", *sessionID)

	for _, q := range questions {
		color.Yellow("\nUSER: %s", q)

		start := time.Now()
		answer, sources, err := sendChat(*baseURL, *accessKey, *sessionID, q)
		elapsed := time.Since(start)

		if err != nil {
			color.Red("Failed: %v", err)
			continue
		}
		color.Green("AI (%v): %s", elapsed, answer)
		fmt.Printf("Citations: %d\n", len(sources))
		for _, s := range sources {
			fmt.Printf("  - %v\n", s)
		}
	}

	color.Cyan("\n✅ Probe complete")
}

func sendChat(baseURL, accessKey, sessionID, question string) (string, []interface{}, error) {
	payload := map[string]string{
		"message":    question,
		"session_id": sessionID,
	}
	jsonBytes, _ := json.Marshal(payload)

	req, err := http.NewRequest("POST", baseURL+"/chat/v1", bytes.NewBuffer(jsonBytes))
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if accessKey != "" {
		req.Header.Set("Authorization", "Bearer "+accessKey)
	}

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("API Error %d: %s", resp.StatusCode, string(body))
	}

	var envelope struct {
		Data struct {
			Answer  string        `json:"answer"`
			Sources []interface{} `json:"sources"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", nil, err
	}
	return envelope.Data.Answer, envelope.Data.Sources, nil
}

func followEvents(natsURL string) {
	sub, err := natsbus.NewSubscriber(natsURL)
	if err != nil {
		color.Red("Failed to connect to NATS: %v", err)
		os.Exit(1)
	}
	defer sub.Close()

	err = sub.Subscribe("events.CHAT_TURN_COMPLETED", "chat-probe", func(ctx context.Context, event events.Event) error {
		data := event.Payload()
		color.Yellow("\n[%s] session=%v", event.EventType(), data["session_id"])
		fmt.Printf("Q: %v\n", data["question"])
		color.Green("A: %v", data["answer"])
		return nil
	})
	if err != nil {
		color.Red("Failed to subscribe: %v", err)
		os.Exit(1)
	}

	color.Cyan("Following chat turn events, Ctrl+C to stop")
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
}
