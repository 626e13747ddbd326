package providers

import (
	"context"
	"fmt"

	"github.com/kykrueger/dbrestrict/restrictions"
)

// ScriptProvider parses the restrictions out of a DDL script
type ScriptProvider struct{}

// NewScriptProvider creates a new script provider
func NewScriptProvider() RestrictionProvider {
	return &ScriptProvider{}
}

// Name returns the provider name
func (p *ScriptProvider) Name() string {
	return "ddl"
}

// IsAvailable always returns true for the script provider
func (p *ScriptProvider) IsAvailable() bool {
	return true
}

// LoadRestrictions parses params.Script
func (p *ScriptProvider) LoadRestrictions(ctx context.Context, params LoadParams) (*restrictions.Restrictions, error) {
	if params.Script == "" {
		return nil, fmt.Errorf("ddl provider requires a script")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := params.logger()
	logger.Debug("parsing ddl script", "size", len(params.Script))

	r := restrictions.Parse(params.Script, restrictions.WithLogger(logger))
	logger.Info("parsed ddl script", "tables", len(r.Tables()))
	return r, nil
}
