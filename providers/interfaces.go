package providers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"

	"github.com/kykrueger/dbrestrict/restrictions"
)

// RestrictionProvider defines the interface for the different sources of a
// restriction map
type RestrictionProvider interface {
	// Name returns the provider name for identification
	Name() string

	// LoadRestrictions builds the restriction map from the provider's source
	// The context allows for cancellation and timeout control
	LoadRestrictions(ctx context.Context, params LoadParams) (*restrictions.Restrictions, error)

	// IsAvailable checks if this provider can be used in the current environment
	IsAvailable() bool
}

// LoadParams contains parameters needed for loading restrictions
type LoadParams struct {
	// Script is the DDL script (used by the ddl provider)
	Script string

	// DB is the database connection (used by SQL-based providers)
	DB *sql.DB

	// ConnectionString is the full connection string (used by external tools)
	ConnectionString string

	// SnapshotPath is the SQLite snapshot file (used by the snapshot provider)
	SnapshotPath string

	// Logger receives parse warnings and violations, slog.Default() if nil
	Logger *slog.Logger
}

func (p LoadParams) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// Format represents the desired output format
type Format string

const (
	FormatInfo Format = "info" // Human-readable format
	FormatJSON Format = "json" // JSON document
	FormatSQL  Format = "sql"  // Canonical SQL DDL
)

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	switch format := Format(name); format {
	case FormatInfo, FormatJSON, FormatSQL:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", name)
	}
}

// ProviderRegistry manages available restriction providers
type ProviderRegistry struct {
	providers map[string]RestrictionProvider
}

// NewProviderRegistry creates a new provider registry
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]RestrictionProvider),
	}
}

// Register adds a provider to the registry
func (r *ProviderRegistry) Register(provider RestrictionProvider) {
	r.providers[provider.Name()] = provider
}

// Get retrieves a provider by name
func (r *ProviderRegistry) Get(name string) (RestrictionProvider, bool) {
	provider, exists := r.providers[name]
	return provider, exists
}

// ListAvailable returns the sorted names of all available providers
func (r *ProviderRegistry) ListAvailable() []string {
	var available []string
	for name, provider := range r.providers {
		if provider.IsAvailable() {
			available = append(available, name)
		}
	}
	sort.Strings(available)
	return available
}
