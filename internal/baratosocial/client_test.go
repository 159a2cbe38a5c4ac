package baratosocial

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := New("test-key")
	client.APIURL = server.URL
	return client, server
}

func TestOrder(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		assert.Equal(t, "add", r.PostFormValue("action"))
		assert.Equal(t, "test-key", r.PostFormValue("key"))
		assert.Equal(t, "42", r.PostFormValue("service"))
		assert.Equal(t, "https://example.com/p/1", r.PostFormValue("link"))
		assert.Equal(t, "1000", r.PostFormValue("quantity"))
		assert.Empty(t, r.PostFormValue("comments"))

		w.Write([]byte(`{"order": 23501}`))
	})
	defer server.Close()

	resp, err := client.Order(OrderRequest{Service: 42, Link: "https://example.com/p/1", Quantity: 1000})
	assert.NoError(t, err)
	assert.Empty(t, resp.Error)
	assert.Equal(t, FlexInt(23501), resp.Order)
}

func TestOrder_LogicalError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "Not enough funds"}`))
	})
	defer server.Close()

	resp, err := client.Order(OrderRequest{Service: 1, Link: "x", Quantity: 10})
	assert.NoError(t, err)
	assert.Equal(t, "Not enough funds", resp.Error)
}

func TestOrder_ServerError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer server.Close()

	resp, err := client.Order(OrderRequest{Service: 1, Link: "x", Quantity: 10})
	assert.Error(t, err)
	assert.Nil(t, resp)
}

func TestStatus_StringNumbers(t *testing.T) {
	// The provider quotes numeric fields on some deployments.
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		assert.Equal(t, "status", r.PostFormValue("action"))
		assert.Equal(t, "23501", r.PostFormValue("order"))
		w.Write([]byte(`{"status": "In progress", "start_count": "120", "charge": "0.27819", "remains": 880}`))
	})
	defer server.Close()

	resp, err := client.Status(23501)
	assert.NoError(t, err)
	assert.Equal(t, "In progress", resp.Status)
	assert.Equal(t, FlexInt(120), resp.StartCount)
	assert.Equal(t, FlexFloat(0.27819), resp.Charge)
	assert.Equal(t, FlexInt(880), resp.Remains)
}

func TestMultiStatus(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		assert.Equal(t, "status", r.PostFormValue("action"))
		assert.Equal(t, "1,2,3", r.PostFormValue("orders"))
		w.Write([]byte(`[
			{"order": 1, "status": "Completed", "start_count": 10},
			{"order": 2, "status": "Pending", "start_count": 0},
			{"order": 3, "status": "In progress", "start_count": 55}
		]`))
	})
	defer server.Close()

	resp, err := client.MultiStatus([]int64{1, 2, 3})
	assert.NoError(t, err)
	assert.Len(t, resp, 3)
	assert.Equal(t, FlexInt(2), resp[1].Order)
	assert.Equal(t, "Pending", resp[1].Status)
}

func TestServices(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		assert.Equal(t, "services", r.PostFormValue("action"))
		w.Write([]byte(`[
			{"service": "101", "name": "Instagram Followers", "type": "Default", "rate": "1.50", "min": "100", "max": "10000", "category": "Instagram"},
			{"service": 102, "name": "Instagram Likes", "type": "Default", "rate": 0.9, "min": 50, "max": 5000, "category": "Instagram"}
		]`))
	})
	defer server.Close()

	services, err := client.Services()
	assert.NoError(t, err)
	assert.Len(t, services, 2)
	assert.Equal(t, FlexInt(101), services[0].Service)
	assert.Equal(t, FlexFloat(1.50), services[0].Rate)
	assert.Equal(t, FlexInt(100), services[0].Min)
	assert.Equal(t, FlexFloat(0.9), services[1].Rate)
}

func TestBalance(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		assert.Equal(t, "balance", r.PostFormValue("action"))
		w.Write([]byte(`{"balance": "100.84292", "currency": "USD"}`))
	})
	defer server.Close()

	resp, err := client.Balance()
	assert.NoError(t, err)
	assert.Equal(t, FlexFloat(100.84292), resp.Balance)
	assert.Equal(t, "USD", resp.Currency)
}

func TestBalance_InvalidKey(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "Invalid API key"}`))
	})
	defer server.Close()

	resp, err := client.Balance()
	assert.NoError(t, err)
	assert.Equal(t, "Invalid API key", resp.Error)
}

func TestRefillAndCancel(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		switch r.PostFormValue("action") {
		case "refill":
			if r.PostFormValue("orders") != "" {
				assert.Equal(t, "5,6", r.PostFormValue("orders"))
				w.Write([]byte(`[{"order": 5, "refill": 900}, {"order": 6, "refill": {"error": "Not eligible"}}]`))
				return
			}
			w.Write([]byte(`{"refill": "901"}`))
		case "refill_status":
			assert.Equal(t, "901", r.PostFormValue("refill"))
			w.Write([]byte(`{"status": "Completed"}`))
		case "cancel":
			assert.Equal(t, "7,8", r.PostFormValue("orders"))
			w.Write([]byte(`[{"order": 7, "cancel": 1}, {"order": 8, "cancel": {"error": "Already completed"}}]`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})
	defer server.Close()

	refill, err := client.Refill(5)
	assert.NoError(t, err)
	assert.Equal(t, FlexInt(901), refill.Refill)

	batch, err := client.MultiRefill([]int64{5, 6})
	assert.NoError(t, err)
	assert.Len(t, batch, 2)

	status, err := client.RefillStatus(901)
	assert.NoError(t, err)
	assert.Equal(t, "Completed", status.Status)

	cancels, err := client.Cancel([]int64{7, 8})
	assert.NoError(t, err)
	assert.Len(t, cancels, 2)
	assert.Equal(t, FlexInt(7), cancels[0].Order)
}
