package baratosocial

import (
	"smmpanel-backend/internal/utils"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultAPIURL is the production endpoint. Every action goes through the same
// URL; the "action" form parameter selects the operation.
const DefaultAPIURL = "https://baratosociais.com/api/v2"

// Client is a stateless wrapper over the reseller provider's action API.
// Transport failures and non-200 statuses surface as errors ("service
// unavailable"); a parsed body carrying an "error" field is a logical failure
// and is reported through the Error field of the response struct. Callers must
// distinguish the two. A single attempt per call, no retries.
type Client struct {
	APIURL     string
	APIKey     string
	HTTPClient *http.Client
}

func New(apiKey string) *Client {
	return &Client{
		APIURL:     DefaultAPIURL,
		APIKey:     apiKey,
		HTTPClient: utils.NewHTTPClient(30 * time.Second),
	}
}

// OrderRequest carries the parameters for the "add" action. Comments, Runs and
// Interval are optional and omitted from the form when zero.
type OrderRequest struct {
	Service  int64
	Link     string
	Quantity int
	Comments string
	Runs     int
	Interval int
}

type OrderResponse struct {
	Order FlexInt `json:"order"`
	Error string  `json:"error"`
}

type StatusResponse struct {
	Order      FlexInt   `json:"order"`
	Status     string    `json:"status"`
	StartCount FlexInt   `json:"start_count"`
	Remains    FlexInt   `json:"remains"`
	Charge     FlexFloat `json:"charge"`
	Currency   string    `json:"currency"`
	Error      string    `json:"error"`
}

type ServiceEntry struct {
	Service     FlexInt   `json:"service"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Rate        FlexFloat `json:"rate"`
	Min         FlexInt   `json:"min"`
	Max         FlexInt   `json:"max"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
}

type BalanceResponse struct {
	Balance  FlexFloat `json:"balance"`
	Currency string    `json:"currency"`
	Error    string    `json:"error"`
}

type RefillResponse struct {
	Refill FlexInt `json:"refill"`
	Error  string  `json:"error"`
}

type RefillStatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// BatchResult is one entry of a batched refill or cancel response.
type BatchResult struct {
	Order  FlexInt         `json:"order"`
	Refill json.RawMessage `json:"refill,omitempty"`
	Cancel json.RawMessage `json:"cancel,omitempty"`
}

// Order submits a new order ("add" action).
func (c *Client) Order(req OrderRequest) (*OrderResponse, error) {
	params := url.Values{}
	params.Set("action", "add")
	params.Set("service", strconv.FormatInt(req.Service, 10))
	params.Set("link", req.Link)
	params.Set("quantity", strconv.Itoa(req.Quantity))
	if req.Comments != "" {
		params.Set("comments", req.Comments)
	}
	if req.Runs > 0 {
		params.Set("runs", strconv.Itoa(req.Runs))
	}
	if req.Interval > 0 {
		params.Set("interval", strconv.Itoa(req.Interval))
	}

	var resp OrderResponse
	if err := c.connect(params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status fetches the status of a single order.
func (c *Client) Status(orderID int64) (*StatusResponse, error) {
	params := url.Values{}
	params.Set("action", "status")
	params.Set("order", strconv.FormatInt(orderID, 10))

	var resp StatusResponse
	if err := c.connect(params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MultiStatus fetches the statuses of several orders in one call. The ids are
// comma-joined into the "orders" parameter; the response is a list of entries
// keyed by their "order" field.
func (c *Client) MultiStatus(orderIDs []int64) ([]StatusResponse, error) {
	params := url.Values{}
	params.Set("action", "status")
	params.Set("orders", joinIDs(orderIDs))

	var resp []StatusResponse
	if err := c.connect(params, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Services fetches the full upstream service catalog.
func (c *Client) Services() ([]ServiceEntry, error) {
	params := url.Values{}
	params.Set("action", "services")

	var resp []ServiceEntry
	if err := c.connect(params, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Balance fetches the reseller account balance.
func (c *Client) Balance() (*BalanceResponse, error) {
	params := url.Values{}
	params.Set("action", "balance")

	var resp BalanceResponse
	if err := c.connect(params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Refill requests a refill for a single order.
func (c *Client) Refill(orderID int64) (*RefillResponse, error) {
	params := url.Values{}
	params.Set("action", "refill")
	params.Set("order", strconv.FormatInt(orderID, 10))

	var resp RefillResponse
	if err := c.connect(params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MultiRefill requests refills for several orders at once.
func (c *Client) MultiRefill(orderIDs []int64) ([]BatchResult, error) {
	params := url.Values{}
	params.Set("action", "refill")
	params.Set("orders", joinIDs(orderIDs))

	var resp []BatchResult
	if err := c.connect(params, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RefillStatus fetches the status of a refill request.
func (c *Client) RefillStatus(refillID int64) (*RefillStatusResponse, error) {
	params := url.Values{}
	params.Set("action", "refill_status")
	params.Set("refill", strconv.FormatInt(refillID, 10))

	var resp RefillStatusResponse
	if err := c.connect(params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Cancel requests cancellation of the given orders.
func (c *Client) Cancel(orderIDs []int64) ([]BatchResult, error) {
	params := url.Values{}
	params.Set("action", "cancel")
	params.Set("orders", joinIDs(orderIDs))

	var resp []BatchResult
	if err := c.connect(params, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) connect(params url.Values, out interface{}) error {
	params.Set("key", c.APIKey)

	req, err := http.NewRequest(http.MethodPost, c.APIURL, strings.NewReader(params.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("reseller api unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reseller api returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode reseller api response: %w", err)
	}
	return nil
}

func joinIDs(ids []int64) string {
	strs := make([]string, 0, len(ids))
	for _, id := range ids {
		strs = append(strs, strconv.FormatInt(id, 10))
	}
	return strings.Join(strs, ",")
}
