package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/powerlytics/internal/cli"
	"github.com/theirongolddev/powerlytics/internal/config"
	"github.com/theirongolddev/powerlytics/internal/tui/components"
	"github.com/theirongolddev/powerlytics/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldTheme = iota
	settingsFieldDataPaths
	settingsFieldSkipRows
	settingsFieldDateLayout
	settingsFieldServerAddr
	settingsFieldCurrency
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save failed
	reload  bool  // a parsing setting changed; press r to apply
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	cfg := loadConfigOrDefault()
	a.settings.editing = true
	a.settings.saved = false

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(cfg.Appearance.Theme)
	case settingsFieldDataPaths:
		ti.Placeholder = "comma separated files or directories"
		ti.SetValue(strings.Join(cfg.General.DataPaths, ","))
	case settingsFieldSkipRows:
		ti.Placeholder = "12"
		ti.SetValue(strconv.Itoa(cfg.Parsing.SkipRows))
	case settingsFieldDateLayout:
		ti.Placeholder = "02/01/2006"
		ti.SetValue(cfg.Parsing.DateLayout)
	case settingsFieldServerAddr:
		ti.Placeholder = "127.0.0.1:8788"
		ti.SetValue(cfg.Server.Addr)
	case settingsFieldCurrency:
		ti.Placeholder = "₪"
		ti.SetValue(cfg.Tariff.Currency)
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

func (a *App) settingsSave() {
	cfg := loadConfigOrDefault()
	val := strings.TrimSpace(a.settings.input.Value())

	switch a.settings.cursor {
	case settingsFieldTheme:
		if !theme.Valid(val) {
			a.settings.saveErr = fmt.Errorf("unknown theme %q", val)
			return
		}
		cfg.Appearance.Theme = val
		theme.SetActive(val)
	case settingsFieldDataPaths:
		cfg.General.DataPaths = splitPaths(val)
		a.opts.Paths = cfg.General.DataPaths
		a.settings.reload = true
	case settingsFieldSkipRows:
		if err := validateNonNegativeInt(val); err != nil {
			a.settings.saveErr = err
			return
		}
		cfg.Parsing.SkipRows, _ = strconv.Atoi(val)
		a.opts.Parse.SkipRows = cfg.Parsing.SkipRows
		a.settings.reload = true
	case settingsFieldDateLayout:
		if val == "" {
			a.settings.saveErr = errors.New("date layout must not be empty")
			return
		}
		cfg.Parsing.DateLayout = val
		a.opts.Parse.DateLayout = val
		a.settings.reload = true
	case settingsFieldServerAddr:
		cfg.Server.Addr = val
	case settingsFieldCurrency:
		cfg.Tariff.Currency = val
		a.opts.Tariff.Currency = val
	}

	a.settings.saveErr = config.Save(cfg)
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := loadConfigOrDefault()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	innerW := components.PanelInnerWidth(cw)
	paths := "(none)"
	if len(cfg.General.DataPaths) > 0 {
		paths = truncStr(strings.Join(cfg.General.DataPaths, ", "), innerW-24)
	}

	fields := []struct{ label, value string }{
		{"Theme", cfg.Appearance.Theme},
		{"Data paths", paths},
		{"Skip rows", strconv.Itoa(cfg.Parsing.SkipRows)},
		{"Date layout", cfg.Parsing.DateLayout},
		{"Server address", cfg.Server.Addr},
		{"Currency", cfg.Tariff.Currency},
	}

	var form strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			form.WriteString(markerStyle.Render("▸ "))
			form.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			form.WriteString(a.settings.input.View())
			form.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			form.WriteString(marker + label + value)
			if pad := innerW - lipgloss.Width(marker) - lipgloss.Width(label) - lipgloss.Width(value); pad > 0 {
				form.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}
		} else {
			form.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			form.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			form.WriteString(valueStyle.Render(f.value))
		}
		form.WriteString("\n")
	}

	switch {
	case a.settings.saveErr != nil:
		form.WriteString("\n")
		form.WriteString(warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	case a.settings.saved && a.settings.reload:
		form.WriteString("\n")
		form.WriteString(greenStyle.Render("Saved. Press r to reload with the new parsing settings."))
	case a.settings.saved:
		form.WriteString("\n")
		form.WriteString(greenStyle.Render("Saved!"))
	}

	form.WriteString("\n")
	form.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	rates := "none"
	if cfg.Tariff.HasRates() {
		var parts []string
		for _, r := range cfg.Tariff.Rates {
			from := r.EffectiveFrom
			if from == "" {
				from = "always"
			}
			parts = append(parts, fmt.Sprintf("%s from %s", cli.FormatCost(cfg.Tariff.Currency, r.PricePerKWh), from))
		}
		rates = truncStr(strings.Join(parts, ", "), innerW-18)
	}

	var info strings.Builder
	info.WriteString(labelStyle.Render("Readings loaded: ") + valueStyle.Render(cli.FormatNumber(int64(a.data.Table.Len()))) + "\n")
	info.WriteString(labelStyle.Render("Files parsed:    ") + valueStyle.Render(fmt.Sprintf("%d of %d (%d errors)", a.data.ParsedFiles, a.data.TotalFiles, len(a.data.FileErrors))) + "\n")
	info.WriteString(labelStyle.Render("Load time:       ") + valueStyle.Render(fmt.Sprintf("%.1fs", a.loadTime.Seconds())) + "\n")
	info.WriteString(labelStyle.Render("Tariff:          ") + valueStyle.Render(rates) + "\n")
	info.WriteString(labelStyle.Render("Config file:     ") + valueStyle.Render(config.Path()))

	var b strings.Builder
	b.WriteString(components.Panel("Settings", form.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.Panel("General", info.String(), cw))
	return b.String()
}
