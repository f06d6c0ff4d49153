package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"github.com/Jelmerro/nus/internal/ports"
	"github.com/Jelmerro/nus/internal/shared"
	"github.com/Jelmerro/nus/internal/types"
)

const DefaultRegistryURL = "https://registry.npmjs.org"

// Keys of the registry "time" object that are not versions.
var syntheticTimeKeys = map[string]struct{}{
	"created":     {},
	"modified":    {},
	"unpublished": {},
}

type NpmRegistryAdapter struct {
	BaseURL string
	Token   string
	http    httpRetryConfig
	client  *http.Client
}

func NewNpmRegistryAdapter(baseURL string, token string, timeout time.Duration, retries int, retryDelay time.Duration) NpmRegistryAdapter {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultRegistryURL
	}
	cfg := normalizeHTTPConfig(timeout, retries, retryDelay)
	return NpmRegistryAdapter{
		BaseURL: base,
		Token:   strings.TrimSpace(token),
		http:    cfg,
		client:  &http.Client{Timeout: cfg.timeout},
	}
}

func (a NpmRegistryAdapter) Fetch(ctx context.Context, name string) (types.Catalog, error) {
	if strings.TrimSpace(name) == "" {
		return types.Catalog{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package name is empty")
	}
	url := a.BaseURL + "/" + shared.RegistryPath(name)
	headers := map[string]string{"Accept": "application/json"}
	if a.Token != "" {
		headers["Authorization"] = "Bearer " + a.Token
	}
	client := a.client
	if client == nil {
		client = &http.Client{Timeout: a.http.timeout}
	}
	resp, err := doRequest(ctx, client, url, headers, a.http)
	if err != nil {
		return types.Catalog{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return types.Catalog{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("package not found in registry").
			WithCause(shared.HTTPStatusError(resp.StatusCode, url))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return types.Catalog{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("registry responded with status %d", resp.StatusCode)).
			WithCause(shared.HTTPStatusErrorWithBody(resp.StatusCode, url, strings.TrimSpace(string(body))))
	}
	catalog, err := parseRegistryDocument(resp.Body)
	if err != nil {
		return types.Catalog{}, err
	}
	catalog.Name = name
	log.Ctx(ctx).Debug().
		Str("package", name).
		Int("versions", len(catalog.Versions)).
		Msg("catalog fetched")
	return catalog, nil
}

type registryDocument struct {
	DistTags map[string]*string `json:"dist-tags"`
	Time     *orderedObject     `json:"time"`
	Versions *orderedObject     `json:"versions"`
}

// parseRegistryDocument reads a full registry packument. Version order
// follows the "time" object, with versions missing from it appended in
// the order of the "versions" object and an unknown release time.
func parseRegistryDocument(reader io.Reader) (types.Catalog, error) {
	var doc registryDocument
	if err := json.NewDecoder(reader).Decode(&doc); err != nil {
		return types.Catalog{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("invalid registry response").
			WithCause(err)
	}
	catalog := types.Catalog{
		DistTags: map[string]string{},
	}
	for tag, version := range doc.DistTags {
		if version == nil || *version == "" {
			continue
		}
		catalog.DistTags[tag] = *version
	}
	seen := map[string]struct{}{}
	if doc.Time != nil {
		catalog.ReleaseTimes = map[string]time.Time{}
		for _, member := range doc.Time.Members {
			if _, synthetic := syntheticTimeKeys[member.Key]; synthetic {
				continue
			}
			if _, dup := seen[member.Key]; dup {
				continue
			}
			seen[member.Key] = struct{}{}
			catalog.Versions = append(catalog.Versions, member.Key)
			var stamp *string
			if err := json.Unmarshal(member.Value, &stamp); err != nil || stamp == nil {
				continue
			}
			if released, ok := parseReleaseTime(*stamp); ok {
				catalog.ReleaseTimes[member.Key] = released
			}
		}
	}
	if doc.Versions != nil {
		for _, member := range doc.Versions.Members {
			if _, dup := seen[member.Key]; dup {
				continue
			}
			seen[member.Key] = struct{}{}
			catalog.Versions = append(catalog.Versions, member.Key)
		}
	}
	return catalog, nil
}

type orderedMember struct {
	Key   string
	Value json.RawMessage
}

// orderedObject decodes a JSON object keeping member order, which the
// standard map decoding discards.
type orderedObject struct {
	Members []orderedMember
}

func (o *orderedObject) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	token, err := decoder.Token()
	if err != nil {
		return err
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object, got %v", token)
	}
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return err
		}
		key, ok := token.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", token)
		}
		var value json.RawMessage
		if err := decoder.Decode(&value); err != nil {
			return err
		}
		o.Members = append(o.Members, orderedMember{Key: key, Value: value})
	}
	_, err = decoder.Token()
	return err
}

var _ ports.CatalogPort = NpmRegistryAdapter{}
