package poi

import (
	"context"
	"time"

	"github.com/jengzang/guardian-backend-go/internal/models"
	"go.uber.org/zap"
)

// Resolve collapses a lookup result into a density. Any error becomes a count
// of zero: fewer POIs means more isolation, so a failed lookup can only make
// an alert more likely, never suppress one.
func Resolve(count int, err error) models.PoiDensity {
	if err != nil {
		return models.PoiDensity{Count: 0, Fallback: true}
	}
	return models.PoiDensity{Count: count}
}

// Probe is the fail-safe boundary between the risk engine and a Lookup
type Probe struct {
	lookup  Lookup
	timeout time.Duration
	logger  *zap.Logger
}

// NewProbe wraps lookup with a hard per-call timeout
func NewProbe(lookup Lookup, timeout time.Duration, logger *zap.Logger) *Probe {
	return &Probe{
		lookup:  lookup,
		timeout: timeout,
		logger:  logger,
	}
}

// Density implements risk.DensityProbe. It never returns an error.
func (p *Probe) Density(ctx context.Context, lat, lon, radiusM float64) models.PoiDensity {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	count, err := p.lookup.Count(ctx, lat, lon, radiusM)
	density := Resolve(count, err)

	if density.Fallback {
		p.logger.Warn("POI lookup failed, assuming isolated",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.Float64("radius_m", radiusM),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
	} else {
		p.logger.Debug("POI lookup",
			zap.Int("count", density.Count),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
	return density
}
