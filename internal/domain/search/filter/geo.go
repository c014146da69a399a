package filter

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/sieve/internal/domain"
	"github.com/kailas-cloud/sieve/internal/domain/geo"
	"github.com/kailas-cloud/sieve/internal/domain/search/query"
)

var errNegativeRadius = errors.New("radius must be a finite non-negative number")

// Geo builds the "within radius of origin" predicate.
//
// No origin, or an origin without any radius parameter, yields the identity:
// an absent bound means no bound. An origin or radius that is present but not
// numeric fails with a *domain.ParseError.
func Geo(params Params, opts Options) (query.Expression, error) {
	opts = opts.withDefaults()

	raw := params[opts.OriginParam]
	if raw == "" {
		return query.All(), nil
	}
	origin, err := geo.ParsePoint(raw)
	if err != nil {
		return query.All(), domain.NewParseError(opts.OriginParam, raw, err)
	}

	for _, key := range opts.Units {
		v := params[key.Param]
		if v == "" {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return query.All(), domain.NewParseError(key.Param, v, err)
		}
		if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
			return query.All(), domain.NewParseError(key.Param, v, errNegativeRadius)
		}
		within, err := query.NewWithin(opts.GeoField, origin, geo.Radius{Value: value, Unit: key.Unit})
		if err != nil {
			return query.All(), fmt.Errorf("build geo predicate: %w", err)
		}
		return within, nil
	}

	return query.All(), nil
}
