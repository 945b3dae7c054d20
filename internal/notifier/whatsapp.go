package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// GatewaySender posts messages to a WhatsApp-style gateway. The channel itself
// is an external collaborator; no retries happen here.
type GatewaySender struct {
	url    string
	apiKey string
	client *http.Client
}

func NewGatewaySender(url, apiKey string) *GatewaySender {
	return &GatewaySender{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *GatewaySender) Send(ctx context.Context, to string, body string) error {
	payload, err := json.Marshal(map[string]string{
		"to":   to,
		"body": body,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	return nil
}

// ConsoleSender prints messages instead of delivering them. Used for local
// runs without a gateway.
type ConsoleSender struct{}

func NewConsoleSender() *ConsoleSender {
	log.Println("Initialized Console Sender (Placeholder)")
	return &ConsoleSender{}
}

func (s *ConsoleSender) Send(ctx context.Context, to string, body string) error {
	select {
	case <-time.After(50 * time.Millisecond):
		fmt.Printf("\n--- WHATSAPP (CONSOLE) ---\n")
		fmt.Printf("To: %s\n", to)
		fmt.Printf("Body: %s\n", body)
		fmt.Printf("--- END WHATSAPP ---\n")
		return nil
	case <-ctx.Done():
		log.Printf("WHATSAPP (CANCELLED): To=[%s]", to)
		return ctx.Err()
	}
}
