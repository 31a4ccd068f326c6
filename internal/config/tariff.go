package config

import (
	"fmt"
	"sort"
	"time"
)

// TariffConfig holds electricity pricing.
type TariffConfig struct {
	Currency string `toml:"currency"`
	Rates    []Rate `toml:"rates,omitempty"`
}

// Rate is a per-kWh price in force from EffectiveFrom (YYYY-MM-DD) until the
// next rate takes over. An empty EffectiveFrom applies from the beginning.
type Rate struct {
	EffectiveFrom string  `toml:"effective_from,omitempty"`
	PricePerKWh   float64 `toml:"price_per_kwh"`
}

type rateVersion struct {
	from  time.Time
	price float64
}

func (t TariffConfig) validate() error {
	_, err := t.versions()
	return err
}

// versions returns the rates sorted by effective date ascending.
func (t TariffConfig) versions() ([]rateVersion, error) {
	out := make([]rateVersion, 0, len(t.Rates))
	for _, r := range t.Rates {
		v := rateVersion{price: r.PricePerKWh}
		if r.EffectiveFrom != "" {
			d, err := time.Parse("2006-01-02", r.EffectiveFrom)
			if err != nil {
				return nil, fmt.Errorf("tariff rate effective_from %q: %w", r.EffectiveFrom, err)
			}
			v.from = d
		}
		if r.PricePerKWh < 0 {
			return nil, fmt.Errorf("tariff rate %q: negative price", r.EffectiveFrom)
		}
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].from.Before(out[j].from) })
	return out, nil
}

// HasRates reports whether any rate is configured.
func (t TariffConfig) HasRates() bool { return len(t.Rates) > 0 }

// LookupRateAt returns the price per kWh in force on the given day.
// If at is zero, the latest rate is used. Days before the first rate resolve
// to the first rate. It reports false when no valid rate is configured.
func (t TariffConfig) LookupRateAt(at time.Time) (float64, bool) {
	versions, err := t.versions()
	if err != nil || len(versions) == 0 {
		return 0, false
	}

	if at.IsZero() {
		return versions[len(versions)-1].price, true
	}

	at = at.UTC()
	selected := versions[0].price
	for _, v := range versions {
		if v.from.IsZero() || !at.Before(v.from) {
			selected = v.price
			continue
		}
		break
	}
	return selected, true
}

// CostAt prices kwh at the rate in force on the given day.
func (t TariffConfig) CostAt(at time.Time, kwh float64) (float64, bool) {
	rate, ok := t.LookupRateAt(at)
	if !ok {
		return 0, false
	}
	return kwh * rate, true
}
