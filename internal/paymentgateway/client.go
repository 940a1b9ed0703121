package paymentgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	gatewaytypes "github.com/frahmantamala/travel-booking/internal/core/datamodel/paymentgateway"
)

// ErrorKind classifies gateway call failures so callers can decide
// retryability without parsing messages.
type ErrorKind string

const (
	// KindUnavailable: the gateway could not be reached, timed out, or
	// answered with a 5xx. Safe to retry.
	KindUnavailable ErrorKind = "unavailable"
	// KindInvalidRequest: the gateway rejected the request as malformed
	// (4xx). Not retryable without caller changes; the gateway's own error
	// payload is preserved in Details.
	KindInvalidRequest ErrorKind = "invalid_request"
	// KindRejected: transport succeeded but the gateway reported logical
	// failure for an initialize call.
	KindRejected ErrorKind = "rejected"
	// KindMalformedResponse: a 2xx body that does not decode or is missing
	// required fields.
	KindMalformedResponse ErrorKind = "malformed_response"
)

type Error struct {
	Kind    ErrorKind
	Message string
	Details json.RawMessage
}

func (e *Error) Error() string {
	return fmt.Sprintf("gateway %s: %s", e.Kind, e.Message)
}

// AsError returns the typed gateway error when err originated here.
func AsError(err error) (*Error, bool) {
	gwErr, ok := err.(*Error)
	return gwErr, ok
}

type Config struct {
	BaseURL   string
	SecretKey string
	Timeout   time.Duration
}

// Client wraps the Chapa transaction endpoints. The bearer credential is
// injected through Config, never read from the environment here.
type Client struct {
	baseURL    string
	secretKey  string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		secretKey:  cfg.SecretKey,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type gatewayEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Initialize registers a transaction with the gateway and returns the
// checkout URL the payer should be redirected to.
func (c *Client) Initialize(ctx context.Context, req *gatewaytypes.InitializeRequest) (*gatewaytypes.InitResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal initialize request: %w", err)
	}

	c.logger.Info("initializing gateway transaction",
		"tx_ref", req.TxRef,
		"amount", req.Amount.String(),
		"currency", req.Currency)

	envelope, gwErr := c.do(ctx, http.MethodPost, "/transaction/initialize", bytes.NewReader(body))
	if gwErr != nil {
		c.logger.Error("gateway initialize failed",
			"tx_ref", req.TxRef,
			"kind", gwErr.Kind,
			"error", gwErr.Message)
		return nil, gwErr
	}

	if envelope.Status != "success" {
		c.logger.Warn("gateway rejected initialization",
			"tx_ref", req.TxRef,
			"gateway_status", envelope.Status,
			"message", envelope.Message)
		return nil, &Error{Kind: KindRejected, Message: envelope.Message}
	}

	var data struct {
		CheckoutURL string `json:"checkout_url"`
	}
	if err := json.Unmarshal(envelope.Data, &data); err != nil || data.CheckoutURL == "" {
		return nil, &Error{Kind: KindMalformedResponse, Message: "initialize response missing checkout_url", Details: envelope.Data}
	}

	c.logger.Info("gateway transaction initialized",
		"tx_ref", req.TxRef,
		"checkout_url", data.CheckoutURL)

	return &gatewaytypes.InitResult{
		CheckoutURL: data.CheckoutURL,
		Message:     envelope.Message,
	}, nil
}

// Verify asks the gateway for the outcome of a previously initialized
// transaction. A logical failure reported by the gateway is returned as a
// result, not an error: the call itself succeeded.
func (c *Client) Verify(ctx context.Context, txRef string) (*gatewaytypes.VerifyResult, error) {
	c.logger.Info("verifying gateway transaction", "tx_ref", txRef)

	envelope, gwErr := c.do(ctx, http.MethodGet, "/transaction/verify/"+txRef, nil)
	if gwErr != nil {
		c.logger.Error("gateway verify failed",
			"tx_ref", txRef,
			"kind", gwErr.Kind,
			"error", gwErr.Message)
		return nil, gwErr
	}

	if envelope.Status != "success" {
		c.logger.Info("gateway reports transaction not successful",
			"tx_ref", txRef,
			"gateway_status", envelope.Status,
			"message", envelope.Message)
		return &gatewaytypes.VerifyResult{
			Succeeded: false,
			Message:   envelope.Message,
		}, nil
	}

	transactionID, ok := extractTransactionID(envelope.Data)
	if !ok {
		return nil, &Error{Kind: KindMalformedResponse, Message: "verify response missing transaction id", Details: envelope.Data}
	}

	c.logger.Info("gateway transaction verified",
		"tx_ref", txRef,
		"transaction_id", transactionID)

	return &gatewaytypes.VerifyResult{
		Succeeded:     true,
		TransactionID: transactionID,
		Message:       envelope.Message,
	}, nil
}

// do performs one bounded HTTP call and decodes the standard gateway
// envelope. Classification follows the response: transport failures and 5xx
// are retryable, 4xx carries the gateway payload back verbatim.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*gatewayEnvelope, *Error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &Error{Kind: KindUnavailable, Message: fmt.Sprintf("build request: %v", err)}
	}

	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindUnavailable, Message: fmt.Sprintf("gateway unreachable: %v", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindUnavailable, Message: fmt.Sprintf("read gateway response: %v", err)}
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, &Error{Kind: KindUnavailable, Message: fmt.Sprintf("gateway returned status %d", resp.StatusCode), Details: respBody}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &Error{Kind: KindInvalidRequest, Message: fmt.Sprintf("gateway rejected request with status %d", resp.StatusCode), Details: respBody}
	}

	var envelope gatewayEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, &Error{Kind: KindMalformedResponse, Message: "gateway response is not valid JSON", Details: respBody}
	}
	if envelope.Status == "" {
		return nil, &Error{Kind: KindMalformedResponse, Message: "gateway response missing status field", Details: respBody}
	}

	return &envelope, nil
}

// extractTransactionID tolerates the id arriving as either a JSON string or
// a number.
func extractTransactionID(data json.RawMessage) (string, bool) {
	var withID struct {
		ID interface{} `json:"id"`
	}
	if err := json.Unmarshal(data, &withID); err != nil || withID.ID == nil {
		return "", false
	}

	switch id := withID.ID.(type) {
	case string:
		return id, id != ""
	case float64:
		return fmt.Sprintf("%.0f", id), true
	default:
		return "", false
	}
}
