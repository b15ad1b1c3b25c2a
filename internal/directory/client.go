// Package directory is the HTTP client for the vehicle/product directory.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gearline-ai/parts-assistant/internal/model"
)

// Client is the directory contract the pipeline consumes.
type Client interface {
	// SearchByPlate resolves a license plate to a vehicle record.
	SearchByPlate(ctx context.Context, plate string) (*model.Vehicle, error)

	// ProductsByVehicle lists products of a part family fitting a vehicle.
	ProductsByVehicle(ctx context.Context, vehicleID int64, familyID string) ([]model.Product, error)
}

// HTTPClient talks to the directory's REST API.
type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewHTTPClient creates a directory client. timeout bounds every call.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// plateResponse is the directory's plate-search answer. The resolved
// numeric vehicle id lives in a nested vehicle list; the first entry wins.
type plateResponse struct {
	Plate    string `json:"plate"`
	VIN      string `json:"vin"`
	Brand    string `json:"brand"`
	Model    string `json:"model"`
	Fuel     string `json:"fuel"`
	Vehicles []struct {
		ID int64 `json:"id"`
	} `json:"vehicles"`
}

func (c *HTTPClient) SearchByPlate(ctx context.Context, plate string) (*model.Vehicle, error) {
	u := fmt.Sprintf("%s/vehicles/search?plate=%s", c.baseURL, url.QueryEscape(plate))

	var resp plateResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}

	v := &model.Vehicle{
		Plate: resp.Plate,
		VIN:   resp.VIN,
		Brand: resp.Brand,
		Model: resp.Model,
		Fuel:  resp.Fuel,
	}
	if v.Plate == "" {
		v.Plate = plate
	}
	if len(resp.Vehicles) > 0 {
		v.VehicleID = resp.Vehicles[0].ID
	}
	return v, nil
}

func (c *HTTPClient) ProductsByVehicle(ctx context.Context, vehicleID int64, familyID string) ([]model.Product, error) {
	u := fmt.Sprintf("%s/vehicles/%s/products?family=%s",
		c.baseURL, strconv.FormatInt(vehicleID, 10), url.QueryEscape(familyID))

	var products []model.Product
	if err := c.getJSON(ctx, u, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("directory request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		return fmt.Errorf("directory returned %s: %s", res.Status, string(body))
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode directory response: %w", err)
	}
	return nil
}
