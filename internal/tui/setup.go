package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/powerlytics/internal/config"
	"github.com/theirongolddev/powerlytics/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues are the answers collected by the setup form.
type SetupValues struct {
	DataPath    string
	SkipRows    string
	DateLayout  string
	Theme       string
	Currency    string
	PricePerKWh string
}

// NewSetupValues pre-fills the form from cfg.
func NewSetupValues(cfg config.Config) SetupValues {
	v := SetupValues{
		DataPath:   strings.Join(cfg.General.DataPaths, ","),
		SkipRows:   strconv.Itoa(cfg.Parsing.SkipRows),
		DateLayout: cfg.Parsing.DateLayout,
		Theme:      cfg.Appearance.Theme,
		Currency:   cfg.Tariff.Currency,
	}
	if rate, ok := cfg.Tariff.LookupRateAt(time.Time{}); ok {
		v.PricePerKWh = strconv.FormatFloat(rate, 'f', -1, 64)
	}
	return v
}

// NewSetupForm builds the first-run form. readings is the number of
// readings already found, 0 if nothing was loaded.
func NewSetupForm(readings int, vals *SetupValues) *huh.Form {
	welcome := "Point powerlytics at your smart-meter CSV exports."
	if readings > 0 {
		welcome = fmt.Sprintf("Loaded %d readings. A few settings and you're done.", readings)
	}

	var themeOpts []huh.Option[string]
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to powerlytics").
				Description(welcome),
			huh.NewInput().
				Title("Export files or directories").
				Description("Comma separated. Directories are scanned for *.csv.").
				Placeholder("~/Downloads/meter.csv").
				Value(&vals.DataPath),
			huh.NewInput().
				Title("Metadata rows before the header").
				Value(&vals.SkipRows).
				Validate(validateNonNegativeInt),
			huh.NewInput().
				Title("Date layout").
				Description("Go reference layout, e.g. 02/01/2006").
				Value(&vals.DateLayout),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
			huh.NewInput().
				Title("Currency symbol").
				Value(&vals.Currency),
			huh.NewInput().
				Title("Price per kWh").
				Description("Leave empty to hide cost estimates.").
				Value(&vals.PricePerKWh).
				Validate(validateOptionalPrice),
		),
	).WithTheme(huh.ThemeCharm())
}

// ApplySetup writes vals into cfg. A changed price is added as a new rate
// effective from today so earlier periods keep their old price.
func ApplySetup(cfg *config.Config, vals SetupValues, today time.Time) error {
	cfg.General.DataPaths = splitPaths(vals.DataPath)

	if err := validateNonNegativeInt(vals.SkipRows); err != nil {
		return err
	}
	cfg.Parsing.SkipRows, _ = strconv.Atoi(strings.TrimSpace(vals.SkipRows))
	if layout := strings.TrimSpace(vals.DateLayout); layout != "" {
		cfg.Parsing.DateLayout = layout
	}

	if theme.Valid(vals.Theme) {
		cfg.Appearance.Theme = vals.Theme
	}
	if cur := strings.TrimSpace(vals.Currency); cur != "" {
		cfg.Tariff.Currency = cur
	}

	raw := strings.TrimSpace(vals.PricePerKWh)
	if raw == "" {
		return nil
	}
	if err := validateOptionalPrice(raw); err != nil {
		return err
	}
	price, _ := strconv.ParseFloat(raw, 64)
	if current, ok := cfg.Tariff.LookupRateAt(time.Time{}); ok && current == price {
		return nil
	}
	from := ""
	if cfg.Tariff.HasRates() {
		from = today.Format("2006-01-02")
	}
	cfg.Tariff.Rates = append(cfg.Tariff.Rates, config.Rate{EffectiveFrom: from, PricePerKWh: price})
	return nil
}

func splitPaths(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func validateNonNegativeInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a whole number")
	}
	if n < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

func validateOptionalPrice(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return errors.New("enter a non-negative number")
	}
	return nil
}
