package similarity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"synthoct/internal/models"
)

// PerceptualScorer scores a pair of images with a learned perceptual
// distance. Implementations are expected to be loaded once per run and
// shared read-only across all pairs.
type PerceptualScorer interface {
	Score(a, b *models.Image) (float64, error)
}

// LPIPSClient communicates with an external LPIPS scorer service. The
// learned model itself lives in the service; this client prepares the
// inputs the way the model expects ([0,1] rescaled to [-1,1], broadcast to
// three identical channels) and posts both tensors for scoring.
type LPIPSClient struct {
	serviceURL string
	client     *http.Client
}

// lpipsRequest carries one prepared image pair. Tensors are flattened in
// channel-major order (channel, row, column).
type lpipsRequest struct {
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	Channels int       `json:"channels"`
	A        []float64 `json:"a"`
	B        []float64 `json:"b"`
}

// lpipsResponse is the scorer service reply
type lpipsResponse struct {
	Distance float64 `json:"distance"`
}

// NewLPIPSClient creates a client for the scorer service at the given URL
func NewLPIPSClient(serviceURL string) *LPIPSClient {
	if serviceURL == "" {
		serviceURL = "http://localhost:5003"
	}
	return &LPIPSClient{
		serviceURL: serviceURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// HealthCheck verifies the scorer service is reachable and has its model
// loaded. Callers disable the LPIPS metric when this fails; an unreachable
// collaborator is never a batch error.
func (c *LPIPSClient) HealthCheck() error {
	resp, err := c.client.Get(c.serviceURL + "/health")
	if err != nil {
		return fmt.Errorf("lpips service not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("lpips service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// Score returns the learned perceptual distance between two images
func (c *LPIPSClient) Score(a, b *models.Image) (float64, error) {
	payload := lpipsRequest{
		Width:    a.Width,
		Height:   a.Height,
		Channels: 3,
		A:        prepareTensor(a),
		B:        prepareTensor(b),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to encode lpips request: %w", err)
	}

	resp, err := c.client.Post(c.serviceURL+"/distance", "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("lpips request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("lpips service returned status %d", resp.StatusCode)
	}

	var result lpipsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to decode lpips response: %w", err)
	}
	return result.Distance, nil
}

// prepareTensor rescales a [0,1] image to [-1,1] and broadcasts it to
// three identical channels, flattened channel-major.
func prepareTensor(img *models.Image) []float64 {
	plane := make([]float64, len(img.Data))
	for i, v := range img.Data {
		plane[i] = v*2.0 - 1.0
	}

	out := make([]float64, 0, 3*len(plane))
	for ch := 0; ch < 3; ch++ {
		out = append(out, plane...)
	}
	return out
}
