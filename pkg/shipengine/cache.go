package shipengine

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/tournevent/shipengine/internal/kvstore"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// CacheLayer is the content-addressed cache for rate lookups, address
// validation lookups, and the carrier catalog. Each domain has its own key
// derivation and expiration policy. All keys include the active credential
// so responses never leak across environments.
type CacheLayer struct {
	store     kvstore.Store
	adapterID string
	apiKey    string
	ttl       time.Duration
	logger    *otelzap.Logger
}

func newCacheLayer(store kvstore.Store, adapterID, apiKey string, ttl time.Duration, logger *otelzap.Logger) *CacheLayer {
	return &CacheLayer{
		store:     store,
		adapterID: adapterID,
		apiKey:    apiKey,
		ttl:       ttl,
		logger:    logger,
	}
}

// fingerprint derives a deterministic cache key from the canonical JSON of
// params plus the active credential. Struct field order makes the JSON
// stable for identical inputs.
func (c *CacheLayer) fingerprint(params interface{}) string {
	encoded, err := json.Marshal(params)
	if err != nil {
		// Params are plain data structs; this cannot realistically fail.
		encoded = []byte{}
	}

	sum := md5.Sum(append(encoded, []byte("_"+c.apiKey)...))
	return hex.EncodeToString(sum[:])
}

// RatesKey derives the rate cache key. Per-service fields (service,
// carrier id, service code) never affect the computed rates and are
// excluded; the address-validation setting is included because it decides
// whether validation errors get attached to the cached result.
func (c *CacheLayer) RatesKey(req *ShipmentRequest, validateAddress bool) string {
	scrubbed := *req
	scrubbed.Service = ""
	scrubbed.CarrierID = ""
	scrubbed.ServiceCode = ""

	params := struct {
		Request         ShipmentRequest `json:"request"`
		ValidateAddress bool            `json:"validateAddress"`
	}{scrubbed, validateAddress}

	return c.fingerprint(params) + "_rates"
}

// ValidationKey derives the address validation cache key from the full
// address record.
func (c *CacheLayer) ValidationKey(addr *Address) string {
	return c.fingerprint(addr)
}

// CarriersKey is the persisted carrier catalog key, scoped per adapter
// instance and credential.
func (c *CacheLayer) CarriersKey() string {
	return c.adapterID + "_" + c.apiKey + "_carriers"
}

// LegacyCarriersKey is the catalog key older releases wrote. It is read
// once as a fallback and deleted after migration.
func (c *CacheLayer) LegacyCarriersKey() string {
	return c.adapterID + "_initCarriers"
}

// GetRates reads a cached rate result.
func (c *CacheLayer) GetRates(ctx context.Context, key string) (*RatesResult, bool) {
	var result RatesResult
	if !c.get(ctx, key, &result) {
		return nil, false
	}
	return &result, true
}

// SetRates caches a rate result with the configured TTL.
func (c *CacheLayer) SetRates(ctx context.Context, key string, result *RatesResult) {
	c.set(ctx, key, result, c.ttl)
}

// GetValidation reads a cached validation result.
func (c *CacheLayer) GetValidation(ctx context.Context, key string) (*ValidationResult, bool) {
	var result ValidationResult
	if !c.get(ctx, key, &result) {
		return nil, false
	}
	return &result, true
}

// SetValidation caches a validation result indefinitely: addresses
// validate deterministically.
func (c *CacheLayer) SetValidation(ctx context.Context, key string, result *ValidationResult) {
	c.set(ctx, key, result, kvstore.NoExpiration)
}

// GetCatalog reads the persisted carrier catalog under key.
func (c *CacheLayer) GetCatalog(ctx context.Context, key string) (*CarrierCatalog, bool) {
	var catalog CarrierCatalog
	if !c.get(ctx, key, &catalog) {
		return nil, false
	}
	return &catalog, true
}

// SetCatalog persists the carrier catalog indefinitely.
func (c *CacheLayer) SetCatalog(ctx context.Context, key string, catalog *CarrierCatalog) {
	c.set(ctx, key, catalog, kvstore.NoExpiration)
}

// Delete removes a cache entry.
func (c *CacheLayer) Delete(ctx context.Context, key string) {
	if err := c.store.Delete(ctx, key); err != nil {
		c.logger.Debug("Cache delete failed", zap.String("key", key), zap.Error(err))
	}
}

// get reads and decodes a cache entry. Store errors and undecodable values
// degrade to a miss; caching never affects control flow.
func (c *CacheLayer) get(ctx context.Context, key string, out interface{}) bool {
	value, found, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Debug("Cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !found {
		return false
	}

	if err := json.Unmarshal([]byte(value), out); err != nil {
		c.logger.Debug("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *CacheLayer) set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	encoded, err := json.Marshal(value)
	if err != nil {
		c.logger.Debug("Cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.store.Set(ctx, key, string(encoded), ttl); err != nil {
		c.logger.Debug("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}
