// Copyright (c) 2025 Esgcat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package esgf

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// DefaultNodes lists the federation index nodes known to serve CMIP6.
// The first reachable node is a reasonable default for new configs.
var DefaultNodes = []string{
	"https://esgf-node.llnl.gov/esg-search/search",
	"https://esgf-node.ornl.gov/esg-search/search",
	"https://esgf-data.dkrz.de/esg-search/search",
	"https://esgf.ceda.ac.uk/esg-search/search",
	"https://esgf-node.ipsl.upmc.fr/esg-search/search",
	"https://esgf.nci.org.au/esg-search/search",
}

// Ping issues a zero-row search against a node and reports the round-trip
// time. It is used for node selection and connectivity checks.
func Ping(ctx context.Context, nodeURL string, timeout time.Duration) (time.Duration, error) {
	client := &http.Client{Timeout: timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		nodeURL+"?limit=0&format=application/solr%2Bjson", nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", "esgcat-cli/1.0")
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	elapsed := time.Since(start)
	if resp.StatusCode != http.StatusOK {
		return elapsed, fmt.Errorf("node returned status %d", resp.StatusCode)
	}
	return elapsed, nil
}
