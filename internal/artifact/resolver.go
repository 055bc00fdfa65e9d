package artifact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carbon-insights/internal/forecast"

	"go.uber.org/zap"
)

// Resolver loads per-organization models from a Store. The key for an
// organization is keyPattern formatted with its id, e.g. "org_%d_ridge.json".
type Resolver struct {
	store      Store
	keyPattern string
	onLoad     func(time.Duration)
	logger     *zap.Logger
}

func NewResolver(store Store, keyPattern string, onLoad func(time.Duration), logger *zap.Logger) *Resolver {
	return &Resolver{
		store:      store,
		keyPattern: keyPattern,
		onLoad:     onLoad,
		logger:     logger,
	}
}

// Key returns the artifact key for an organization.
func (r *Resolver) Key(organizationID int64) string {
	return fmt.Sprintf(r.keyPattern, organizationID)
}

func (r *Resolver) Resolve(ctx context.Context, organizationID int64) (forecast.Model, error) {
	start := time.Now()
	key := r.Key(organizationID)

	rc, err := r.store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, forecast.ErrModelNotFound
		}
		return nil, err
	}
	defer rc.Close()

	model, err := forecast.DecodeLinearModel(rc)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}

	if r.onLoad != nil {
		r.onLoad(time.Since(start))
	}
	r.logger.Debug("Model artifact loaded",
		zap.Int64("organization_id", organizationID),
		zap.String("key", key),
		zap.String("schema", model.Schema().Name),
	)
	return model, nil
}
