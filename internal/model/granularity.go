package model

// Granularity names a temporal bucket size for a rollup.
type Granularity string

const (
	Hourly   Granularity = "hourly"
	Daily    Granularity = "daily"
	Weekly   Granularity = "weekly"
	Monthly  Granularity = "monthly"
	Seasonal Granularity = "seasonal"
	Yearly   Granularity = "yearly"
)

// PrimaryGranularities returns the fixed set of rollup levels, finest first.
func PrimaryGranularities() []Granularity {
	return []Granularity{Hourly, Daily, Weekly, Monthly, Seasonal, Yearly}
}

// Valid reports whether g is one of the primary granularities.
func (g Granularity) Valid() bool {
	switch g {
	case Hourly, Daily, Weekly, Monthly, Seasonal, Yearly:
		return true
	}
	return false
}

// HasDate reports whether rows at this level carry a calendar date.
func (g Granularity) HasDate() bool { return g == Hourly || g == Daily }

// KeyColumns lists the grouping-key column names for g.
func (g Granularity) KeyColumns() []string {
	switch g {
	case Hourly:
		return []string{"Year", "Date", "Hour"}
	case Daily:
		return []string{"Year", "Date"}
	case Weekly:
		return []string{"Year", "Week"}
	case Monthly:
		return []string{"Year", "Month"}
	case Seasonal:
		return []string{"Year", "Season"}
	case Yearly:
		return []string{"Year"}
	}
	return nil
}

func (g Granularity) String() string { return string(g) }

// ProfileKind tags a secondary profile.
type ProfileKind string

const (
	HourOfDay     ProfileKind = "hour_of_day"
	DayOfWeekKind ProfileKind = "day_of_week"
)

// Dependency returns the primary granularity a profile is computed from.
func (k ProfileKind) Dependency() Granularity {
	if k == HourOfDay {
		return Hourly
	}
	return Daily
}

// KeyColumn returns the profile's grouping column name.
func (k ProfileKind) KeyColumn() string {
	if k == HourOfDay {
		return "Hour"
	}
	return "DayOfWeek"
}

func (k ProfileKind) String() string { return string(k) }

const (
	// EnergyColumn is the value column of sum-based rollups.
	EnergyColumn = "energy_kwh"
	// AvgEnergyColumn is the value column of mean-based profiles.
	AvgEnergyColumn = "avg_energy_kwh"
)
