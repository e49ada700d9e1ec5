package fog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// streamSuffix is the secondary naming convention for CentOS Stream images.
const streamSuffix = ".stream"

type imageSearchResponse struct {
	Count  int `json:"count"`
	Images []struct {
		ID   flexInt `json:"id"`
		Name string  `json:"name"`
	} `json:"images"`
}

// DeriveImageName builds the canonical image name for a machine type and OS.
// The convention is "{machineType}_{osType}_{osVersion}" with the OS type
// lowercased.
func DeriveImageName(machineType, osType, osVersion string) string {
	return fmt.Sprintf("%s_%s_%s", machineType, strings.ToLower(osType), osVersion)
}

// ResolveImage resolves the image for the given machine type and OS to its
// service id. If the canonical name is absent and the OS is CentOS with a
// version not already carrying the stream suffix, the stream-suffixed name is
// tried before giving up. On failure the returned *ImageNotFoundError carries
// the image names available for the machine type.
func (c *Client) ResolveImage(ctx context.Context, machineType, osType, osVersion string) (int, error) {
	name := DeriveImageName(machineType, osType, osVersion)
	id, found, err := c.lookupImage(ctx, name)
	if err != nil {
		return 0, err
	}
	if !found && strings.ToLower(osType) == "centos" && !strings.HasSuffix(osVersion, streamSuffix) {
		id, found, err = c.lookupImage(ctx, name+streamSuffix)
		if err != nil {
			return 0, err
		}
	}
	if found {
		return id, nil
	}

	suggestions, err := c.SuggestImageNames(ctx, machineType)
	if err != nil {
		c.log.Error(err, "failed to fetch image name suggestions", "machineType", machineType)
	}
	return 0, &ImageNotFoundError{
		Name:        name,
		MachineType: machineType,
		Suggestions: suggestions,
	}
}

// lookupImage queries the image list by exact name.
func (c *Client) lookupImage(ctx context.Context, name string) (int, bool, error) {
	_, body, err := c.do(ctx, http.MethodGet, "/image", opFindImage, map[string]string{"name": name}, true)
	if err != nil {
		return 0, false, err
	}

	var result imageSearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, false, fmt.Errorf("failed to decode image search response: %w", err)
	}
	if result.Count == 0 || len(result.Images) == 0 {
		return 0, false, nil
	}
	return int(result.Images[0].ID), true, nil
}

// SuggestImageNames returns the names of all images the service holds for
// the given machine type.
func (c *Client) SuggestImageNames(ctx context.Context, machineType string) ([]string, error) {
	_, body, err := c.do(ctx, http.MethodGet, "/image/search/"+machineType, opSearchImages, nil, true)
	if err != nil {
		return nil, err
	}

	var result imageSearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode image search response: %w", err)
	}

	names := make([]string, 0, len(result.Images))
	for _, image := range result.Images {
		names = append(names, image.Name)
	}
	return names, nil
}
