package riksbank

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// ErrInvalidVintageMetadata is returned when the base vintage carries a
// missing or unparsable forecast cutoff date. The merge cannot classify rows
// without it.
var ErrInvalidVintageMetadata = errors.New("invalid vintage metadata")

// MergeRealized enriches base so that every forecast row also carries its
// realized value, if a later vintage reports one, without discarding the
// original forecast. Realized rows from latest whose dates fall beyond base's
// observation window are appended as new history-only rows.
//
// Neither input is mutated; the returned vintage keeps base's metadata and
// replaces its observations with the combined, date-sorted list. Rows in
// latest with unparsable dates are logged and skipped rather than aborting
// the merge.
func MergeRealized(base, latest ForecastVintage, log *zap.Logger) (ForecastVintage, error) {
	if base.Metadata.ForecastCutoffDate == "" {
		return ForecastVintage{}, fmt.Errorf("%w: forecast cutoff date is missing", ErrInvalidVintageMetadata)
	}
	cutoff, err := ParseDate(base.Metadata.ForecastCutoffDate)
	if err != nil {
		return ForecastVintage{}, fmt.Errorf("%w: bad forecast cutoff date %q", ErrInvalidVintageMetadata, base.Metadata.ForecastCutoffDate)
	}

	// Candidate realized values from latest: rows that are themselves
	// out-turns and dated strictly after base's historical window. Anything
	// at or before the cutoff is history base already has.
	realized := make(map[string]float64, len(latest.Observations))
	for _, o := range latest.Observations {
		if o.Observation == nil {
			continue
		}
		d, err := ParseDate(o.Date)
		if err != nil {
			log.Warn("skipping observation with malformed date",
				zap.String("dt", o.Date),
				zap.String("policy_round", latest.Metadata.PolicyRound))
			continue
		}
		if d.After(cutoff) {
			realized[o.Date] = o.Value
		}
	}

	seen := make(map[string]struct{}, len(base.Observations))
	combined := make([]ForecastObservation, 0, len(base.Observations)+len(realized))

	for _, o := range base.Observations {
		seen[o.Date] = struct{}{}
		row := o
		if o.Forecast != nil {
			if v, ok := realized[o.Date]; ok {
				row.Realized = &v
			} else {
				row.Realized = nil
			}
		} else {
			v := o.Value
			row.Realized = &v
		}
		combined = append(combined, row)
	}

	// Realized dates base never covered become new history-only rows.
	for _, o := range latest.Observations {
		if o.Observation == nil {
			continue
		}
		if _, ok := realized[o.Date]; !ok {
			continue
		}
		if _, ok := seen[o.Date]; ok {
			continue
		}
		seen[o.Date] = struct{}{}
		v := o.Value
		combined = append(combined, ForecastObservation{
			Date:        o.Date,
			Value:       o.Value,
			Observation: &v,
			Realized:    &v,
		})
	}

	// ISO dates sort correctly as strings.
	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Date < combined[j].Date
	})

	out := base
	out.Observations = combined
	return out, nil
}
