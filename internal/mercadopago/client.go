package mercadopago

import (
	"smmpanel-backend/internal/utils"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://api.mercadopago.com"

// paymentExpiration is how long a PIX payment stays payable after creation.
const paymentExpiration = 30 * time.Minute

// Gateway payment status values, as returned by /v1/payments.
const (
	StatusApproved  = "approved"
	StatusPending   = "pending"
	StatusInProcess = "in_process"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
	StatusRefunded  = "refunded"
)

// Client wraps the payment gateway's REST API. All calls are bearer-token
// authenticated; any non-2xx status or transport error surfaces as an error
// with no retries.
type Client struct {
	BaseURL     string
	AccessToken string
	PublicKey   string
	HTTPClient  *http.Client
}

func New(accessToken, publicKey string) *Client {
	return &Client{
		BaseURL:     DefaultBaseURL,
		AccessToken: accessToken,
		PublicKey:   publicKey,
		HTTPClient:  utils.NewHTTPClient(30 * time.Second),
	}
}

type TransactionData struct {
	QRCode       string `json:"qr_code"`
	QRCodeBase64 string `json:"qr_code_base64"`
	TicketURL    string `json:"ticket_url"`
}

type PointOfInteraction struct {
	TransactionData TransactionData `json:"transaction_data"`
}

type Payment struct {
	ID                 int64              `json:"id"`
	Status             string             `json:"status"`
	StatusDetail       string             `json:"status_detail"`
	TransactionAmount  float64            `json:"transaction_amount"`
	Description        string             `json:"description"`
	ExternalReference  string             `json:"external_reference"`
	DateOfExpiration   string             `json:"date_of_expiration"`
	PointOfInteraction PointOfInteraction `json:"point_of_interaction"`
}

type PreferenceItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
}

type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type Preference struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

type PaymentMethod struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PaymentType string `json:"payment_type_id"`
	Status      string `json:"status"`
}

// CreatePayment creates a PIX payment expiring 30 minutes from now.
func (c *Client) CreatePayment(amount float64, description, payerEmail, externalReference string) (*Payment, error) {
	expiration := time.Now().Add(paymentExpiration).UTC().Format("2006-01-02T15:04:05.000Z")

	body := map[string]interface{}{
		"transaction_amount": amount,
		"description":        description,
		"payment_method_id":  "pix",
		"payer": map[string]interface{}{
			"email": payerEmail,
		},
		"date_of_expiration": expiration,
	}
	if externalReference != "" {
		body["external_reference"] = externalReference
	}

	var payment Payment
	if err := c.do(http.MethodPost, "/v1/payments", body, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetPayment fetches a payment by its gateway id.
func (c *Client) GetPayment(paymentID string) (*Payment, error) {
	var payment Payment
	if err := c.do(http.MethodGet, "/v1/payments/"+paymentID, nil, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// CreatePreference creates a checkout preference for hosted card/PIX checkout.
// Installments are fixed at 1.
func (c *Client) CreatePreference(items []PreferenceItem, backURLs *BackURLs, externalReference string) (*Preference, error) {
	body := map[string]interface{}{
		"items": items,
		"payment_methods": map[string]interface{}{
			"excluded_payment_types": []interface{}{},
			"installments":           1,
		},
		"auto_return": "approved",
	}
	if backURLs != nil {
		body["back_urls"] = backURLs
	}
	if externalReference != "" {
		body["external_reference"] = externalReference
	}

	var preference Preference
	if err := c.do(http.MethodPost, "/checkout/preferences", body, &preference); err != nil {
		return nil, err
	}
	return &preference, nil
}

// GetPaymentMethods lists the payment methods enabled for the account.
func (c *Client) GetPaymentMethods() ([]PaymentMethod, error) {
	var methods []PaymentMethod
	if err := c.do(http.MethodGet, "/v1/payment_methods", nil, &methods); err != nil {
		return nil, err
	}
	return methods, nil
}

func (c *Client) do(method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("payment gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("payment gateway returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return json.Unmarshal(respBody, out)
}
