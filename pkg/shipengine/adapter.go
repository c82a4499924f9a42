// Package shipengine adapts merchant shipment requests to the ShipEngine
// multi-carrier rate API and normalizes the responses into carrier-agnostic
// results.
package shipengine

import (
	"context"
	"sync"
	"time"

	"github.com/tournevent/shipengine/internal/kvstore"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const adapterName = "ShipEngine"

// Config holds adapter configuration. Every recognized option is
// enumerated here; there is no dynamic settings bag.
type Config struct {
	// AdapterID namespaces persisted cache keys. Defaults to "shipengine".
	AdapterID string

	Sandbox          bool
	TestAPIKey       string
	ProductionAPIKey string

	BaseURL string // defaults to DefaultBaseURL
	UseMock bool   // when true, uses a mock API client

	// Origin is the merchant's ship-from address, used when a request
	// carries no origin of its own.
	Origin Address

	Insurance       bool
	Signature       bool
	ValidateAddress bool

	WeightUnit    string // default unit code when the request has none
	DimensionUnit string

	DefaultTariff string

	CacheExpiration time.Duration // rate cache TTL
}

// APIKey returns the active credential: the test key in sandbox mode, the
// production key otherwise.
func (c Config) APIKey() string {
	if c.Sandbox {
		return c.TestAPIKey
	}
	return c.ProductionAPIKey
}

// MetricsRecorder receives cache and upstream telemetry from the adapter.
// Implementations must be safe for concurrent use.
type MetricsRecorder interface {
	RecordCache(domain, result string)
	RecordUpstreamError(route string)
}

// Adapter is the ShipEngine orchestrator. It owns configuration, wires the
// request builder, cache layer and normalizer together, and surfaces every
// failure in-band through result values.
type Adapter struct {
	cfg       Config
	apiClient APIClient
	cache     *CacheLayer
	logger    *otelzap.Logger
	tracer    trace.Tracer
	metrics   MetricsRecorder

	mu        sync.Mutex
	catalog   *CarrierCatalog
	initError string
}

// New creates a new ShipEngine adapter backed by the given key-value
// store. If cfg.UseMock is true, it uses a mock API client for testing;
// otherwise it uses the real HTTP API client.
func New(cfg Config, store kvstore.Store, logger *otelzap.Logger, tracer trace.Tracer) *Adapter {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey(),
			Timeout: 30 * time.Second,
		})
	}

	return NewWithAPIClient(cfg, apiClient, store, logger, tracer)
}

// NewWithAPIClient creates a new adapter with a custom API client.
// This is useful for injecting mock clients in tests.
func NewWithAPIClient(cfg Config, apiClient APIClient, store kvstore.Store, logger *otelzap.Logger, tracer trace.Tracer) *Adapter {
	if cfg.AdapterID == "" {
		cfg.AdapterID = "shipengine"
	}

	return &Adapter{
		cfg:       cfg,
		apiClient: apiClient,
		cache:     newCacheLayer(store, cfg.AdapterID, cfg.APIKey(), cfg.CacheExpiration, logger),
		logger:    logger,
		tracer:    tracer,
	}
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return adapterName
}

// SetMetrics attaches a metrics recorder. Optional; a nil recorder
// disables adapter telemetry.
func (a *Adapter) SetMetrics(m MetricsRecorder) {
	a.metrics = m
}

// GetRates returns normalized rate quotes for a shipment request. Failures
// are reported through the result's Error field; no error escapes the
// adapter boundary.
func (a *Adapter) GetRates(ctx context.Context, req *ShipmentRequest) *RatesResult {
	ctx, span := a.startSpan(ctx, "shipengine.GetRates")
	defer span.End()

	a.logger.Info("Getting ShipEngine rates",
		zap.Bool("has_destination", req.Destination != nil),
		zap.Int("item_count", len(req.Items)),
	)

	catalog := a.initCarriers(ctx)
	if catalog.Empty() {
		a.logger.Debug("No carrier accounts have been found")
		return &RatesResult{Error: &ResultError{Message: noCarrierAccountsMessage}}
	}

	cacheKey := a.cache.RatesKey(req, a.cfg.ValidateAddress)
	result, hit := a.cache.GetRates(ctx, cacheKey)
	if hit {
		a.recordCache("rates", "hit")
		a.logger.Debug("Returning previously cached rates", zap.String("cache_key", cacheKey))
	} else {
		a.recordCache("rates", "miss")

		builder := &rateRequestBuilder{cfg: a.cfg, catalog: catalog, logger: a.logger}
		apiReq := builder.Build(req, time.Now())

		body, err := a.apiClient.GetRates(ctx, apiReq)
		if err != nil {
			a.recordUpstreamError("v1/rates")
			a.logger.Error("ShipEngine API error", zap.Error(err))
			return &RatesResult{Error: &ResultError{Message: err.Error()}}
		}

		result = normalizeRatesResponse(body, catalog)
		if result.Error != nil {
			a.recordUpstreamError("v1/rates")
		}

		if result.Rates != nil {
			a.logger.Debug("Caching shipment rates for the future", zap.String("cache_key", cacheKey))
			a.cache.SetRates(ctx, cacheKey, result)
		}
	}

	if result.Rates != nil && req.Destination != nil && a.cfg.ValidateAddress {
		validation := a.ValidateAddress(ctx, req.Destination)
		if len(validation.Errors) > 0 {
			result.ValidationErrors = map[string][]string{
				"destination": validation.Errors,
			}
		}
	}

	return result
}

// ValidateAddress validates an address through the upstream API. Responses
// are cached indefinitely: addresses validate deterministically.
func (a *Adapter) ValidateAddress(ctx context.Context, addr *Address) *ValidationResult {
	ctx, span := a.startSpan(ctx, "shipengine.ValidateAddress")
	defer span.End()

	a.logger.Debug("Validating address")

	cacheKey := a.cache.ValidationKey(addr)
	if result, hit := a.cache.GetValidation(ctx, cacheKey); hit {
		a.recordCache("validation", "hit")
		return result
	}
	a.recordCache("validation", "miss")

	body, err := a.apiClient.ValidateAddresses(ctx, []AddressFields{mapAddress(addr)})
	if err != nil {
		a.recordUpstreamError("v1/addresses/validate")
		a.logger.Error("ShipEngine API error", zap.Error(err))
		return &ValidationResult{Error: &ResultError{Message: err.Error()}}
	}

	result := normalizeValidationResponse(body)
	if result.Error != nil {
		a.recordUpstreamError("v1/addresses/validate")
	}

	a.cache.SetValidation(ctx, cacheKey, result)
	return result
}

// Catalog returns the carrier catalog, initializing it on first use.
func (a *Adapter) Catalog(ctx context.Context) *CarrierCatalogResult {
	ctx, span := a.startSpan(ctx, "shipengine.Catalog")
	defer span.End()

	catalog := a.initCarriers(ctx)

	result := &CarrierCatalogResult{Catalog: catalog}

	a.mu.Lock()
	if a.initError != "" {
		result.Error = &ResultError{Message: a.initError}
	}
	a.mu.Unlock()

	return result
}

// ValidateSettings verifies the adapter configuration: the active
// credential must be present, and the credential must resolve at least one
// carrier account upstream. It resets the persisted catalog so a changed
// key takes effect immediately.
func (a *Adapter) ValidateSettings(ctx context.Context) error {
	if a.cfg.APIKey() == "" {
		return NewAdapterError(KindConfiguration,
			"an API key is required for the integration to work").WithCause(ErrMissingAPIKey)
	}

	a.mu.Lock()
	a.catalog = nil
	a.initError = ""
	a.mu.Unlock()
	a.cache.Delete(ctx, a.cache.CarriersKey())

	a.initCarriers(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.initError != "" {
		return NewAdapterError(KindUpstream, a.initError)
	}
	if a.catalog.Empty() {
		return NewAdapterError(KindNoCarrierAccounts, noCarrierAccountsMessage).
			WithCause(ErrNoCarrierAccounts)
	}
	return nil
}

// initCarriers loads the carrier catalog: from memory when already
// initialized, else from the persisted cache, else from the upstream API.
// Only a populated catalog is memoized in memory; empty catalogs (another
// instance's in-flight placeholder, an accountless credential, a failed
// fetch) are returned but leave a.catalog nil, so every later call
// re-checks the store and recovers once the real catalog lands.
func (a *Adapter) initCarriers(ctx context.Context) *CarrierCatalog {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.catalog != nil {
		return a.catalog
	}

	key := a.cache.CarriersKey()

	if catalog, found := a.cache.GetCatalog(ctx, key); found {
		a.recordCache("carriers", "hit")
		a.adoptCatalog(catalog)
		return catalog
	}
	a.recordCache("carriers", "miss")

	// Best-effort hint for other adapter instances sharing this store:
	// an empty catalog marks a fetch in flight. Concurrent duplicate
	// fetches are tolerated; writes are last-writer-wins.
	a.cache.SetCatalog(ctx, key, newCarrierCatalog())

	if legacy, found := a.cache.GetCatalog(ctx, a.cache.LegacyCarriersKey()); found {
		a.logger.Debug("Migrating carrier catalog from legacy cache key")
		a.adoptCatalog(legacy)
		a.cache.SetCatalog(ctx, key, legacy)
		a.cache.Delete(ctx, a.cache.LegacyCarriersKey())
		return legacy
	}

	a.logger.Info("Fetching ShipEngine carrier accounts")

	body, err := a.apiClient.ListCarriers(ctx)
	if err != nil {
		a.recordUpstreamError("v1/carriers")
		a.logger.Error("ShipEngine API error", zap.Error(err))
		return a.failCarrierInit(ctx, key, err.Error())
	}

	if msg := joinMessages(body.Errors); msg != "" {
		a.recordUpstreamError("v1/carriers")
		a.logger.Error("ShipEngine carrier list error", zap.String("message", msg))
		return a.failCarrierInit(ctx, key, msg)
	}

	catalog := normalizeCarriersResponse(body)
	a.adoptCatalog(catalog)
	a.cache.SetCatalog(ctx, key, catalog)

	a.logger.Info("Carrier catalog initialized",
		zap.Int("carrier_accounts", len(catalog.CarrierAccounts)),
		zap.Int("services", len(catalog.Services)),
	)

	return catalog
}

// adoptCatalog memoizes a populated catalog and clears any stale init
// error. Empty catalogs are never memoized. Caller holds a.mu.
func (a *Adapter) adoptCatalog(catalog *CarrierCatalog) {
	if !catalog.Empty() {
		a.catalog = catalog
		a.initError = ""
	}
}

// failCarrierInit records a catalog fetch failure and drops the placeholder
// so a later initialization retries instead of reading a cached failure.
func (a *Adapter) failCarrierInit(ctx context.Context, key, message string) *CarrierCatalog {
	a.initError = message
	a.cache.Delete(ctx, key)
	return newCarrierCatalog()
}

func (a *Adapter) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if a.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return a.tracer.Start(ctx, name)
}

func (a *Adapter) recordCache(domain, result string) {
	if a.metrics != nil {
		a.metrics.RecordCache(domain, result)
	}
}

func (a *Adapter) recordUpstreamError(route string) {
	if a.metrics != nil {
		a.metrics.RecordUpstreamError(route)
	}
}
