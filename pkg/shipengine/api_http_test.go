package shipengine_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tournevent/shipengine/pkg/shipengine"
)

func newHTTPTestClient(t *testing.T, handler http.HandlerFunc) *shipengine.HTTPAPIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return shipengine.NewHTTPAPIClient(shipengine.HTTPAPIClientConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
	})
}

func TestHTTPAPIClient_GetRates(t *testing.T) {
	client := newHTTPTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/rates", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("API-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body shipengine.RateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"se-123456"}, body.RateOptions.CarrierIDs)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"rate_response": {
				"rates": [{"carrier_id": "se-123456", "service_code": "usps_priority_mail",
					"shipping_amount": {"currency": "usd", "amount": 12.98}}]
			},
			"shipment_id": "se-ship-1"
		}`))
	})

	resp, err := client.GetRates(context.Background(), &shipengine.RateRequest{
		RateOptions: shipengine.RateOptions{CarrierIDs: []string{"se-123456"}},
	})

	require.NoError(t, err)
	require.NotNil(t, resp.RateResponse)
	require.Len(t, resp.RateResponse.Rates, 1)
	assert.Equal(t, 12.98, resp.RateResponse.Rates[0].ShippingAmount.Amount)
	assert.Equal(t, "se-ship-1", resp.ShipmentID)
}

func TestHTTPAPIClient_InBandErrorsDecoded(t *testing.T) {
	client := newHTTPTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors": [{"error_code": "invalid_address", "message": "Invalid address."}]}`))
	})

	resp, err := client.GetRates(context.Background(), &shipengine.RateRequest{})

	require.NoError(t, err, "application errors travel in-band")
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "Invalid address.", resp.Errors[0].Message)
	assert.Nil(t, resp.RateResponse)
}

func TestHTTPAPIClient_UndecodableBodyIsAPIError(t *testing.T) {
	client := newHTTPTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	})

	_, err := client.ListCarriers(context.Background())

	var apiErr *shipengine.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "HTTP_502", apiErr.Code)
	assert.Equal(t, "upstream unavailable", apiErr.Message)
}

func TestHTTPAPIClient_ValidateAddressesArrayBody(t *testing.T) {
	client := newHTTPTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/addresses/validate", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"status": "verified"}]`))
	})

	resp, err := client.ValidateAddresses(context.Background(), []shipengine.AddressFields{{Name: "Resident"}})

	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "verified", resp.Results[0].Status)
}

func TestHTTPAPIClient_ContextCancellation(t *testing.T) {
	client := newHTTPTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{}"))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListCarriers(ctx)
	assert.Error(t, err)
}
