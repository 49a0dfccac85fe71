package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const twilioBaseURL = "https://api.twilio.com"

// TwilioConfig holds credentials for sending WhatsApp messages via Twilio.
// From is the Twilio WhatsApp number (e.g. whatsapp:+14155238886).
type TwilioConfig struct {
	AccountSid string
	AuthToken  string
	From       string
}

// TwilioWhatsAppGateway sends WhatsApp messages through Twilio's REST API.
type TwilioWhatsAppGateway struct {
	cfg     TwilioConfig
	baseURL string
	client  *http.Client
}

// NewTwilioWhatsAppGateway returns a gateway using the given credentials.
func NewTwilioWhatsAppGateway(cfg TwilioConfig) *TwilioWhatsAppGateway {
	return &TwilioWhatsAppGateway{
		cfg:     cfg,
		baseURL: twilioBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Send posts one message and returns Twilio's message SID.
func (g *TwilioWhatsAppGateway) Send(ctx context.Context, to, body string) (string, error) {
	if g.cfg.AccountSid == "" || g.cfg.AuthToken == "" || g.cfg.From == "" {
		return "", fmt.Errorf("twilio gateway is not configured")
	}
	to = strings.TrimSpace(to)
	if to == "" {
		return "", fmt.Errorf("empty recipient")
	}
	if !strings.HasPrefix(to, "whatsapp:") {
		to = "whatsapp:" + to
	}
	from := g.cfg.From
	if !strings.HasPrefix(from, "whatsapp:") {
		from = "whatsapp:" + from
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", from)
	form.Set("Body", body)

	reqURL := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", g.baseURL, g.cfg.AccountSid)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(g.cfg.AccountSid, g.cfg.AuthToken)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("twilio request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slurp, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("twilio: %s: %s", resp.Status, string(slurp))
	}

	var out struct {
		Sid string `json:"sid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("twilio: decode response: %w", err)
	}
	return out.Sid, nil
}
