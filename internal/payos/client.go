// AngelaMos | 2026
// client.go

package payos

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/techzone/backoffice/internal/config"
)

const (
	defaultBaseURL   = "https://api-merchant.payos.vn"
	paymentRequests  = "/v2/payment-requests"
	successCode      = "00"
	maxResponseBytes = 1 << 20
)

var (
	ErrNotConfigured    = errors.New("payment provider not configured")
	ErrInvalidSignature = errors.New("invalid payment signature")
)

type Item struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// PaymentRequest describes a checkout link. Amounts are whole VND.
type PaymentRequest struct {
	OrderCode   int64
	Amount      int64
	Description string
	Items       []Item
	ReturnURL   string
	CancelURL   string
}

type PaymentLink struct {
	CheckoutURL   string `json:"checkoutUrl"`
	PaymentLinkID string `json:"paymentLinkId"`
	QRCode        string `json:"qrCode"`
	Status        string `json:"status"`
}

type Client struct {
	httpClient  *http.Client
	baseURL     string
	clientID    string
	apiKey      string
	checksumKey string
}

func NewClient(cfg config.PayOSConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		clientID:    cfg.ClientID,
		apiKey:      cfg.APIKey,
		checksumKey: cfg.ChecksumKey,
	}
}

type createBody struct {
	OrderCode   int64  `json:"orderCode"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	Items       []Item `json:"items"`
	ReturnURL   string `json:"returnUrl"`
	CancelURL   string `json:"cancelUrl"`
	Signature   string `json:"signature"`
}

type envelope struct {
	Code string          `json:"code"`
	Desc string          `json:"desc"`
	Data json.RawMessage `json:"data"`
}

func (c *Client) CreatePaymentLink(
	ctx context.Context,
	req PaymentRequest,
) (*PaymentLink, error) {
	if c.clientID == "" || c.apiKey == "" || c.checksumKey == "" {
		return nil, ErrNotConfigured
	}

	body := createBody{
		OrderCode:   req.OrderCode,
		Amount:      req.Amount,
		Description: req.Description,
		Items:       req.Items,
		ReturnURL:   req.ReturnURL,
		CancelURL:   req.CancelURL,
	}
	body.Signature = c.Sign(map[string]string{
		"amount":      strconv.FormatInt(req.Amount, 10),
		"cancelUrl":   req.CancelURL,
		"description": req.Description,
		"orderCode":   strconv.FormatInt(req.OrderCode, 10),
		"returnUrl":   req.ReturnURL,
	})

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+paymentRequests,
		bytes.NewReader(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("build payment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-client-id", c.clientID)
	httpReq.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call payment provider: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read payment response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment provider returned %d", resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode payment response: %w", err)
	}
	if env.Code != successCode {
		return nil, fmt.Errorf("payment provider rejected request: %s %s", env.Code, env.Desc)
	}

	var link PaymentLink
	if err := json.Unmarshal(env.Data, &link); err != nil {
		return nil, fmt.Errorf("decode payment link: %w", err)
	}
	if link.CheckoutURL == "" {
		return nil, errors.New("payment provider returned no checkout url")
	}

	return &link, nil
}

// VerifyWebhookData checks signature against the webhook data object.
// Verification is skipped when no checksum key is configured.
func (c *Client) VerifyWebhookData(data json.RawMessage, signature string) error {
	if c.checksumKey == "" {
		return nil
	}

	fields, err := flatten(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	expected := c.Sign(fields)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(signature))) {
		return ErrInvalidSignature
	}

	return nil
}

// SignatureEnabled reports whether webhook signatures are checked.
func (c *Client) SignatureEnabled() bool {
	return c.checksumKey != ""
}

// Sign returns the hex HMAC-SHA256 of fields sorted by key and joined as
// k1=v1&k2=v2.
func (c *Client) Sign(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(fields[k])
	}

	mac := hmac.New(sha256.New, []byte(c.checksumKey))
	mac.Write([]byte(b.String()))
	return hex.EncodeToString(mac.Sum(nil))
}

// flatten renders each top level value of a JSON object the way the
// provider signs it: strings raw, null as empty, everything else as JSON.
func flatten(data json.RawMessage) (map[string]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}

	fields := make(map[string]string, len(obj))
	for k, v := range obj {
		switch val := v.(type) {
		case nil:
			fields[k] = ""
		case string:
			fields[k] = val
		case json.Number:
			fields[k] = val.String()
		case bool:
			fields[k] = strconv.FormatBool(val)
		default:
			encoded, err := json.Marshal(val)
			if err != nil {
				return nil, err
			}
			fields[k] = string(encoded)
		}
	}

	return fields, nil
}
