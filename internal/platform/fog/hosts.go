package fog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type hostSearchResponse struct {
	Count int `json:"count"`
	Hosts []struct {
		ID   flexInt `json:"id"`
		Name string  `json:"name"`
	} `json:"hosts"`
}

// ResolveHost looks up the service record for the host with the given short
// name and returns its id. Exactly one record must match.
func (c *Client) ResolveHost(ctx context.Context, shortName string) (int, error) {
	_, body, err := c.do(ctx, http.MethodGet, "/host", opFindHost, map[string]string{"name": shortName}, true)
	if err != nil {
		return 0, err
	}

	var result hostSearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, fmt.Errorf("failed to decode host search response: %w", err)
	}

	switch {
	// A count the host list does not back up is treated as no match; the
	// two can disagree on a confused service.
	case result.Count == 0 || len(result.Hosts) == 0:
		return 0, &HostNotFoundError{Name: shortName}
	case result.Count > 1:
		return 0, &AmbiguousHostError{Name: shortName, Count: result.Count}
	}
	return int(result.Hosts[0].ID), nil
}

// SetImage points the host record at the given image so the next deploy
// writes that image.
func (c *Client) SetImage(ctx context.Context, hostID, imageID int) error {
	_, _, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/host/%d", hostID), opSetImage,
		map[string]int{"imageID": imageID}, true)
	if err != nil {
		return fmt.Errorf("failed to set image %d on host %d: %w", imageID, hostID, err)
	}
	return nil
}
