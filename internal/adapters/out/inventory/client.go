// Package inventory implements the reservation gateway against the
// inventory service's HTTP API.
package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"
)

const defaultTimeout = 10 * time.Second

var _ ports.ReservationGateway = &Client{}

// Client talks to the inventory service. Transport failures and non-2xx
// responses surface as upstream-unavailable errors so callers can abort
// before committing any local state.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

type itemPayload struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

type bulkCheckRequest struct {
	Items []itemPayload `json:"items"`
}

type bulkCheckResponse struct {
	AllAvailable     bool     `json:"all_available"`
	UnavailableItems []string `json:"unavailable_items"`
}

type reservationRequest struct {
	OrderID string        `json:"order_id"`
	Items   []itemPayload `json:"items"`
}

func (c *Client) CheckAvailability(ctx context.Context, items []ports.ReservationItem) (ports.AvailabilityResult, error) {
	request := bulkCheckRequest{Items: toPayload(items)}

	var response bulkCheckResponse
	if err := c.post(ctx, "/api/inventory/bulk-check", request, &response); err != nil {
		return ports.AvailabilityResult{}, err
	}

	return ports.AvailabilityResult{
		AllAvailable:     response.AllAvailable,
		UnavailableItems: response.UnavailableItems,
	}, nil
}

func (c *Client) Reserve(ctx context.Context, orderID kernel.UUID, items []ports.ReservationItem) error {
	return c.post(ctx, "/api/inventory/reserve", reservationRequest{
		OrderID: orderID.String(),
		Items:   toPayload(items),
	}, nil)
}

func (c *Client) Release(ctx context.Context, orderID kernel.UUID, items []ports.ReservationItem) error {
	return c.post(ctx, "/api/inventory/release", reservationRequest{
		OrderID: orderID.String(),
		Items:   toPayload(items),
	}, nil)
}

func (c *Client) ConfirmDeduction(ctx context.Context, orderID kernel.UUID, items []ports.ReservationItem) error {
	return c.post(ctx, "/api/inventory/confirm-deduction", reservationRequest{
		OrderID: orderID.String(),
		Items:   toPayload(items),
	}, nil)
}

func (c *Client) post(ctx context.Context, path string, request any, response any) error {
	body, err := json.Marshal(request)
	if err != nil {
		return err
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpRequest.Header.Set("Content-Type", "application/json")

	httpResponse, err := c.httpClient.Do(httpRequest)
	if err != nil {
		return errs.NewUpstreamUnavailableError("inventory", err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode > 299 {
		return errs.NewUpstreamUnavailableError("inventory",
			fmt.Errorf("%s returned status %d", path, httpResponse.StatusCode))
	}

	if response == nil {
		return nil
	}
	if err = json.NewDecoder(httpResponse.Body).Decode(response); err != nil {
		return errs.NewUpstreamUnavailableError("inventory", err)
	}
	return nil
}

func toPayload(items []ports.ReservationItem) []itemPayload {
	payload := make([]itemPayload, 0, len(items))
	for _, item := range items {
		payload = append(payload, itemPayload{SKU: item.SKU, Quantity: item.Quantity})
	}
	return payload
}
