// Package esgf implements a client for the ESGF federation search API.
// The endpoint is a Solr-backed REST service; responses are requested in
// application/solr+json form and paginated with limit/offset parameters.
package esgf

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	cerr "esgcat/cli/internal/errors"
	"esgcat/cli/internal/logging"
)

// ResponseCache stores raw response pages keyed by canonical query string.
// A nil cache disables caching.
type ResponseCache interface {
	Get(key string) ([]byte, bool)
	Put(key string, body []byte) error
}

// Client queries one index node. It is safe for sequential reuse; the
// carbon workflow issues one request at a time by design.
type Client struct {
	baseURL  string
	pageSize int
	client   *http.Client
	cache    ResponseCache
}

// NewClient creates a search client for the given index node base URL.
// cache may be nil.
func NewClient(baseURL string, pageSize int, timeout time.Duration, cache ResponseCache) *Client {
	if pageSize <= 0 {
		pageSize = 1000
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		pageSize: pageSize,
		client:   &http.Client{Timeout: timeout},
		cache:    cache,
	}
}

// solrResponse is the outer envelope of a search response.
type solrResponse struct {
	Response struct {
		NumFound int       `json:"numFound"`
		Docs     []solrDoc `json:"docs"`
	} `json:"response"`
}

// Search runs a Dataset query and returns all matching records, following
// limit/offset pagination until numFound records have been collected.
func (c *Client) Search(ctx context.Context, q Query) ([]Record, error) {
	docs, err := c.searchDocs(ctx, q)
	if err != nil {
		return nil, err
	}
	records := make([]Record, len(docs))
	for i, d := range docs {
		records[i] = d.record()
	}
	return records, nil
}

// Files returns the file records for the given dataset ids. The id list is
// chunked so no single request exceeds the endpoint's query-string limits.
func (c *Client) Files(ctx context.Context, datasetIDs []string) ([]FileRecord, error) {
	var files []FileRecord
	for _, chunk := range chunkIDs(datasetIDs) {
		docs, err := c.searchDocs(ctx, Query{Type: "File", DatasetIDs: chunk})
		if err != nil {
			return nil, err
		}
		for _, d := range docs {
			f := d.fileRecord()
			if f.URL == "" {
				logging.Debugf("files: no HTTPServer link for %s", d.Title)
				continue
			}
			files = append(files, f)
		}
	}
	return files, nil
}

// searchDocs collects all pages for one query.
func (c *Client) searchDocs(ctx context.Context, q Query) ([]solrDoc, error) {
	var docs []solrDoc
	offset := 0
	for {
		page, numFound, err := c.fetchPage(ctx, q, offset)
		if err != nil {
			return nil, err
		}
		docs = append(docs, page...)
		if len(docs) >= numFound || len(page) == 0 {
			return docs, nil
		}
		offset += len(page)
	}
}

// fetchPage retrieves a single page, consulting the response cache first.
func (c *Client) fetchPage(ctx context.Context, q Query, offset int) ([]solrDoc, int, error) {
	params := q.Values()
	params.Set("limit", strconv.Itoa(c.pageSize))
	params.Set("offset", strconv.Itoa(offset))
	key := params.Encode()

	body, hit := []byte(nil), false
	if c.cache != nil {
		body, hit = c.cache.Get(key)
	}
	if !hit {
		var err error
		body, err = c.fetch(ctx, key)
		if err != nil {
			return nil, 0, err
		}
		if c.cache != nil {
			if err := c.cache.Put(key, body); err != nil {
				logging.Debugf("response cache put failed: %v", err)
			}
		}
	} else {
		logging.Debugf("response cache hit offset=%d", offset)
	}

	var sr solrResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, 0, cerr.Wrap(cerr.DecodeFailed, "malformed search response", err)
	}
	return sr.Response.Docs, sr.Response.NumFound, nil
}

// fetch performs one GET against the index node.
func (c *Client) fetch(ctx context.Context, rawQuery string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+rawQuery, nil)
	if err != nil {
		return nil, err
	}
	// Some nodes sit behind proxies that reject requests without a UA.
	req.Header.Set("User-Agent", "esgcat-cli/1.0")
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, cerr.Wrap(cerr.NodeUnreachable, "index node request failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, cerr.New(cerr.SearchFailed, fmt.Sprintf("index node returned status %d", resp.StatusCode))
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, cerr.Wrap(cerr.SearchFailed, "read search response", err)
	}
	return body, nil
}
