package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/amberhq/campaign-gateway/internal/config"
	apperrors "github.com/amberhq/campaign-gateway/internal/errors"
	"github.com/amberhq/campaign-gateway/internal/logger"
	"github.com/amberhq/campaign-gateway/internal/util"
	"go.uber.org/zap"
)

// SendResult is the provider's answer to a successful send.
type SendResult struct {
	MessageSID string
}

// Client is the outbound delivery port. Send performs exactly one attempt;
// retrying is nobody's job in this pipeline.
type Client interface {
	Send(ctx context.Context, to, body string) (SendResult, error)
}

// WhatsAppClient talks to the WhatsApp Business (Graph) API. The sender
// identity (phone number id) and credential are fixed at construction, so a
// request can never pick its own origin. With credentials missing the client
// runs in dev mode: sends succeed locally without touching the network.
type WhatsAppClient struct {
	baseURL       string
	phoneNumberID string
	accessToken   string
	client        *http.Client
	br            *Breaker
}

var _ Client = (*WhatsAppClient)(nil)

func NewWhatsAppClient(cfg config.GatewayConfig) *WhatsAppClient {
	timeoutMs := cfg.TimeoutMs
	if timeoutMs <= 0 {
		timeoutMs = 30000
	}

	failThreshold := cfg.Breaker.FailThreshold
	if failThreshold <= 0 {
		failThreshold = 5
	}

	openForMs := cfg.Breaker.OpenForMs
	if openForMs <= 0 {
		openForMs = 15000
	}

	c := &WhatsAppClient{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		phoneNumberID: cfg.PhoneNumberID,
		accessToken:   cfg.AccessToken,
		client:        &http.Client{Timeout: time.Duration(timeoutMs) * time.Millisecond},
		br:            NewBreaker(failThreshold, time.Duration(openForMs)*time.Millisecond),
	}
	if c.devMode() {
		logger.L().Warn("whatsapp credentials not configured, sends run in dev mode")
	}

	return c
}

type messagePayload struct {
	MessagingProduct string      `json:"messaging_product"`
	To               string      `json:"to"`
	Type             string      `json:"type"`
	Text             textPayload `json:"text"`
}

type textPayload struct {
	Body string `json:"body"`
}

type messagesResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type graphErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Send delivers one text message synchronously. A non-2xx answer surfaces
// the provider's own error text, unmodified.
func (c *WhatsAppClient) Send(ctx context.Context, to, body string) (SendResult, error) {
	phone := util.NormalizePhone(to)
	if phone == "" {
		return SendResult{}, apperrors.NewGatewayError(fmt.Sprintf("invalid phone number: %s", to), nil)
	}

	if c.devMode() {
		sid := "dev-" + util.NewID()
		logger.L().Info("whatsapp dev mode send",
			zap.String("to", phone),
			zap.String("message_sid", sid),
		)
		return SendResult{MessageSID: sid}, nil
	}

	if !c.br.Allow() {
		return SendResult{}, apperrors.NewGatewayError("whatsapp gateway unavailable (circuit open)", nil)
	}

	res, err := c.post(ctx, phone, body)
	if err != nil {
		c.br.OnFailure()
		return SendResult{}, err
	}

	c.br.OnSuccess()

	return res, nil
}

func (c *WhatsAppClient) devMode() bool {
	return c.accessToken == "" || c.phoneNumberID == ""
}

func (c *WhatsAppClient) post(ctx context.Context, to, body string) (SendResult, error) {
	b, _ := json.Marshal(messagePayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             textPayload{Body: body},
	})

	url := c.baseURL + "/" + c.phoneNumberID + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return SendResult{}, apperrors.NewGatewayError(err.Error(), err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return SendResult{}, apperrors.NewGatewayError(err.Error(), err)
	}

	defer res.Body.Close()

	raw, _ := io.ReadAll(res.Body)

	if res.StatusCode/100 != 2 {
		return SendResult{}, apperrors.NewGatewayError(providerErrorText(raw, res.StatusCode), nil)
	}

	var parsed messagesResponse
	if err := json.Unmarshal(raw, &parsed); err == nil && len(parsed.Messages) > 0 {
		return SendResult{MessageSID: parsed.Messages[0].ID}, nil
	}

	return SendResult{}, nil
}

// providerErrorText pulls the message out of the Graph error envelope,
// falling back to the raw body.
func providerErrorText(raw []byte, status int) string {
	var er graphErrorResponse
	if err := json.Unmarshal(raw, &er); err == nil && er.Error.Message != "" {
		return er.Error.Message
	}
	if s := strings.TrimSpace(string(raw)); s != "" {
		return s
	}
	return fmt.Sprintf("whatsapp api status %d", status)
}
