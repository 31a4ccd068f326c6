// Package tui provides the interactive Bubble Tea dashboard for powerlytics.
package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/powerlytics/internal/cli"
	"github.com/theirongolddev/powerlytics/internal/config"
	"github.com/theirongolddev/powerlytics/internal/model"
	"github.com/theirongolddev/powerlytics/internal/pipeline"
	"github.com/theirongolddev/powerlytics/internal/tui/components"
	"github.com/theirongolddev/powerlytics/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const (
	tabOverview = iota
	tabPeriods
	tabProfiles
	tabSettings
)

// App is the root Bubble Tea model.
type App struct {
	opts Options

	// Data
	data     *Dataset
	loadErr  error
	loaded   bool
	loadTime time.Duration

	refreshing bool
	reloadErr  error

	// Pre-computed for current filter
	summary pipeline.DataSummary
	levels  []pipeline.LevelSummary
	daily   *model.RollupTable // daily rollup scoped to opts.Range
	hourly  *model.Profile
	weekday *model.Profile
	hourErr error
	dayErr  error

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	periods  periodsState
	yearIdx  int // profiles year filter: 0 = opts.Years, i = dataset year i-1
	settings settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals SetupValues
	needSetup bool

	// Loading, channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5
)

// loadConfigOrDefault loads config, returning defaults on error.
// This ensures the TUI can always start even if config is corrupted.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		opts:      opts,
		needSetup: !config.Exists(),
		spinner:   sp,
		loadSub:   make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.opts, a.loadSub),
		a.spinner.Tick,
	)
}

// activeYears returns the year filter for profiles.
func (a App) activeYears() []int {
	if a.yearIdx > 0 && a.data != nil {
		years := a.data.Table.Years()
		if a.yearIdx <= len(years) {
			return []int{years[a.yearIdx-1]}
		}
	}
	return a.opts.Years
}

func (a *App) recompute() {
	if a.data == nil {
		return
	}
	set := a.data.Set

	a.summary = pipeline.DescribeTable(a.data.Table)
	a.levels = pipeline.SummarizeSet(set)

	a.daily = nil
	if daily, ok := set.Get(model.Daily); ok {
		if a.opts.Range.IsZero() {
			a.daily = daily
		} else if scoped, err := pipeline.FilterRollup(daily, a.opts.Range); err == nil {
			a.daily = scoped
		}
	}

	f := pipeline.ProfileFilter{Range: a.opts.Range, Years: a.activeYears()}
	a.hourly, a.hourErr = pipeline.HourOfDayProfile(set, f)
	a.weekday, a.dayErr = pipeline.DayOfWeekProfile(set, f)

	a.periods.clamp(a.periodTable())
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}

		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabPeriods {
				a.periods.scroll(-1, a.periodTable())
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == tabPeriods {
				a.periods.scroll(1, a.periodTable())
			}
		case tea.MouseButtonLeft:
			// Tab bar is the first line
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		if !a.loaded {
			return a, nil
		}

		// First-run setup wizard intercepts all keys
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		if a.activeTab == tabSettings && a.settings.editing {
			return a.updateSettingsInput(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		if key == "q" {
			return a, tea.Quit
		}

		if a.data == nil {
			// Nothing loaded: only reload makes sense
			if key == "r" && !a.refreshing {
				a.refreshing = true
				return a, refreshDataCmd(a.opts)
			}
			return a, nil
		}

		if handled, next, cmd := a.handleTabKey(key); handled {
			return next, cmd
		}

		if key == "r" && !a.refreshing {
			a.refreshing = true
			return a, refreshDataCmd(a.opts)
		}

		switch key {
		case "left", "shift+tab":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		case "right", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		default:
			if len(key) == 1 {
				if tab := components.TabIdxByKey(rune(key[0])); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case DataLoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.data = msg.Data
		a.loadErr = msg.Err
		a.recompute()

		// Activate first-run setup after data loads
		if a.needSetup {
			readings := 0
			if a.data != nil {
				readings = a.data.Table.Len()
			}
			a.setupVals = NewSetupValues(loadConfigOrDefault())
			a.setupForm = NewSetupForm(readings, &a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case RefreshDataMsg:
		a.refreshing = false
		a.reloadErr = msg.Err
		if msg.Err == nil && msg.Data != nil {
			a.data = msg.Data
			a.loadErr = nil
			a.loadTime = msg.LoadTime
			a.recompute()
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	return a, nil
}

// handleTabKey dispatches keys owned by the active tab.
func (a App) handleTabKey(key string) (bool, tea.Model, tea.Cmd) {
	switch a.activeTab {
	case tabPeriods:
		switch key {
		case "g":
			a.periods.cycle(1)
		case "G":
			a.periods.cycle(-1)
		case "j", "down":
			a.periods.scroll(1, a.periodTable())
		case "k", "up":
			a.periods.scroll(-1, a.periodTable())
		case "home":
			a.periods.offset = 0
		default:
			return false, a, nil
		}
		a.periods.clamp(a.periodTable())
		return true, a, nil

	case tabProfiles:
		switch key {
		case "y":
			a.yearIdx = (a.yearIdx + 1) % (len(a.data.Table.Years()) + 1)
		case "Y":
			a.yearIdx = 0
		default:
			return false, a, nil
		}
		a.recompute()
		return true, a, nil

	case tabSettings:
		switch key {
		case "j", "down":
			if a.settings.cursor < settingsFieldCount-1 {
				a.settings.cursor++
			}
		case "k", "up":
			if a.settings.cursor > 0 {
				a.settings.cursor--
			}
		case "enter":
			next, cmd := a.settingsStartEdit()
			return true, next, cmd
		default:
			return false, a, nil
		}
		return true, a, nil
	}
	return false, a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		cfg := loadConfigOrDefault()
		if err := ApplySetup(&cfg, a.setupVals, time.Now()); err == nil {
			a.settings.saveErr = config.Save(cfg)
			theme.SetActive(cfg.Appearance.Theme)
			a.opts.Tariff = cfg.Tariff
		}
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	if a.data == nil {
		return a.viewLoadError()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  powerlytics needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	spinnerStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface)

	countStyle := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ powerlytics"))
	b.WriteString(subtitleStyle.Render(" · Smart Meter Analytics"))
	b.WriteString("\n\n")

	if a.progressMax > 0 {
		barW := min(max(a.width-30, 20), 40)
		pct := float64(a.progress) / float64(a.progressMax)
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Parsing exports\n\n"))
		b.WriteString(components.ProgressBar(pct, barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
		b.WriteString(subtitleStyle.Render(" files"))
	} else {
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Discovering exports..."))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoadError() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Red).
		Background(t.Surface).
		Padding(1, 3).
		Width(min(a.width-4, 90))

	titleStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
	bodyStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	err := a.loadErr
	if a.reloadErr != nil {
		err = a.reloadErr
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Could not load meter data"))
	b.WriteString("\n\n")
	if err != nil {
		b.WriteString(bodyStyle.Render(err.Error()))
		b.WriteString("\n\n")
	}
	if len(a.opts.Paths) == 0 {
		b.WriteString(dimStyle.Render("No export files configured. Pass --file or run `powerlytics setup`."))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("[r] retry   [q] quit"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Cyan).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"o p f x", "Jump to tab"},
			{"← → Tab", "Previous / Next tab"},
			{"j k", "Scroll period rows"},
		}},
		{"Views", []struct{ key, desc string }{
			{"g G", "Next / previous period granularity"},
			{"y Y", "Cycle profile year / all years"},
			{"Enter", "Edit setting"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"r", "Reload exports"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

// filterPill describes the active date range and year scope.
func (a App) filterPill() string {
	parts := []string{"all dates"}
	if !a.opts.Range.IsZero() {
		parts[0] = a.opts.Range.String()
	}
	if years := a.activeYears(); len(years) > 0 {
		ys := make([]string, len(years))
		for i, y := range years {
			ys[i] = strconv.Itoa(y)
		}
		parts = append(parts, "years "+strings.Join(ys, ","))
	}
	return strings.Join(parts, " │ ")
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	filterStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true).
		Width(w)

	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		filterStyle.Render(" "+a.filterPill())

	info := fmt.Sprintf("%s readings · %d files", cli.FormatNumber(int64(a.data.Table.Len())), a.data.ParsedFiles)
	if a.data.CacheHits > 0 {
		info += fmt.Sprintf(" (%d cached)", a.data.CacheHits)
	}
	if a.reloadErr != nil {
		info += " · reload failed"
	}
	statusBar := components.RenderStatusBar(w, info, fmt.Sprintf("%.1fs", a.loadTime.Seconds()), a.refreshing)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabPeriods:
		content = a.renderPeriodsTab(cw, contentH)
	case tabProfiles:
		content = a.renderProfilesTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
