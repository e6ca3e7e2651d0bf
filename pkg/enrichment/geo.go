package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pulsedesk/complaints/pkg/common/config"
	"github.com/pulsedesk/complaints/pkg/common/httpclient"
	"github.com/pulsedesk/complaints/pkg/common/logger"
	"github.com/redis/go-redis/v9"
)

const geoProvider = "geo"

// GeoInfo is the geolocation and spam-risk result for a caller IP.
type GeoInfo struct {
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
	Region      string `json:"region"`
	City        string `json:"city"`
	Spam        bool   `json:"spam"`
}

// GeoClient resolves caller IPs against an ip-api.com-compatible endpoint.
// The spam flag derives from the provider's proxy/hosting markers. Lookups
// are cached per IP in Redis when a client is supplied; cache failures fall
// through to a direct lookup.
type GeoClient struct {
	baseURL  string
	timeout  time.Duration
	cacheTTL time.Duration
	client   *http.Client
	cache    *redis.Client
}

func NewGeoClient(cfg *config.Config, client *http.Client, cache *redis.Client) *GeoClient {
	return &GeoClient{
		baseURL:  strings.TrimRight(cfg.IPAPIURL, "/"),
		timeout:  cfg.GeoAPITimeout,
		cacheTTL: cfg.GeoCacheTTL,
		client:   client,
		cache:    cache,
	}
}

const geoFields = "status,message,country,countryCode,regionName,city,proxy,hosting"

// Lookup resolves ip to a GeoInfo.
func (c *GeoClient) Lookup(ctx context.Context, ip string) (GeoInfo, error) {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return GeoInfo{}, newClientError(geoProvider, KindUpstreamRejected, errors.New("empty ip"))
	}

	if cached, ok := c.cacheGet(ctx, ip); ok {
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/%s?fields=%s", c.baseURL, ip, geoFields)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return GeoInfo{}, newClientError(geoProvider, KindUpstreamRejected, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if httpclient.IsTimeout(err) {
			return GeoInfo{}, newClientError(geoProvider, KindTimeout, err)
		}
		return GeoInfo{}, newClientError(geoProvider, KindUpstreamRejected, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return GeoInfo{}, newClientError(geoProvider, KindUpstreamRejected,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))))
	}

	var parsed struct {
		Status      string `json:"status"`
		Message     string `json:"message"`
		Country     string `json:"country"`
		CountryCode string `json:"countryCode"`
		RegionName  string `json:"regionName"`
		City        string `json:"city"`
		Proxy       bool   `json:"proxy"`
		Hosting     bool   `json:"hosting"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return GeoInfo{}, newClientError(geoProvider, KindUnparseable, err)
	}

	if parsed.Status != "success" {
		return GeoInfo{}, newClientError(geoProvider, KindUpstreamRejected,
			fmt.Errorf("lookup failed for %s: %s", ip, parsed.Message))
	}

	info := GeoInfo{
		Country:     parsed.Country,
		CountryCode: parsed.CountryCode,
		Region:      parsed.RegionName,
		City:        parsed.City,
		Spam:        parsed.Proxy || parsed.Hosting,
	}

	c.cacheSet(ctx, ip, info)
	return info, nil
}

func geoCacheKey(ip string) string {
	return "geo:ip:" + ip
}

func (c *GeoClient) cacheGet(ctx context.Context, ip string) (GeoInfo, bool) {
	if c.cache == nil {
		return GeoInfo{}, false
	}

	raw, err := c.cache.Get(ctx, geoCacheKey(ip)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.WithError(err).Debug("geo cache read failed")
		}
		return GeoInfo{}, false
	}

	var info GeoInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return GeoInfo{}, false
	}
	return info, true
}

func (c *GeoClient) cacheSet(ctx context.Context, ip string, info GeoInfo) {
	if c.cache == nil {
		return
	}

	raw, err := json.Marshal(info)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, geoCacheKey(ip), raw, c.cacheTTL).Err(); err != nil {
		logger.Log.WithError(err).Debug("geo cache write failed")
	}
}
