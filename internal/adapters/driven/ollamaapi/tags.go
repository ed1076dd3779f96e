// Package ollamaapi holds the parts of the Ollama API shared by the
// embedding and generation adapters.
package ollamaapi

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/sommelier/internal/adapters/driven/httpclient"
)

// ErrModelNotPulled is returned by RequireModel when the server is up but
// does not have the model.
var ErrModelNotPulled = errors.New("model not pulled")

const latestTag = ":latest"

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// RequireModel lists the local models at baseURL and fails unless model is
// among them. A name without a tag matches its :latest variant.
func RequireModel(ctx context.Context, client *httpclient.Client, baseURL, model string) error {
	var tags tagsResponse
	if err := client.GetJSON(ctx, baseURL+"/api/tags", nil, &tags); err != nil {
		return err
	}

	want := normalise(model)
	for _, m := range tags.Models {
		if normalise(m.Name) == want {
			return nil
		}
	}
	return fmt.Errorf("%w: %s (run 'ollama pull %s')", ErrModelNotPulled, model, model)
}

func normalise(name string) string {
	if !strings.Contains(name, ":") {
		return name + latestTag
	}
	return name
}
