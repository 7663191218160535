package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"github.com/opkr/offroad/internal/params"
)

type toggleDef struct {
	key         string
	title       string
	description string
}

var mainToggles = []toggleDef{
	{params.KeyOpenpilotEnabledToggle, "Enable openpilot", "Use the openpilot system for adaptive cruise control and lane keep driver assistance. Your attention is required at all times to use this feature. Changing this setting takes effect when the car is powered off."},
	{params.KeyIsMetric, "Use Metric System", "Display speed in km/h instead of mp/h."},
	{params.KeyCommunityFeaturesToggle, "Enable Community Features", "Use features from the open source community that are not maintained or supported by comma.ai and have not been confirmed to meet the standard safety model. These features include community supported cars and community supported hardware. Be extra cautious when using these features"},
	{params.KeyIsLdwEnabled, "Enable Lane Departure Warnings", "Receive alerts to steer back into the lane when your vehicle drifts over a detected lane line without a turn signal activated while driving over 31mph (50kph)."},
	{params.KeyAutoLaneChangeEnabled, "Enable AutoLaneChange", "Operation of the turn signal at 60㎞/h speed will result in a short change of the vehicle"},
	{params.KeyUploadRaw, "Upload Raw Logs", "Upload full logs at [ connect.comma.ai/useradmin ]"},
	{params.KeyEndToEndToggle, "🥬 Disable use of lanelines (Alpha) 🥬", "In this mode openpilot will ignore lanelines and just drive how it thinks a human would."},
}

var addonToggles = []toggleDef{
	{params.KeyPutPrebuilt, "Prebuilt Enable", "Create prebuilt files to speed bootup"},
	{params.KeyDisableShutdownd, "Shutdown Disable", "Disable Shutdown"},
	{params.KeyDisableLogger, "Logger Disable", "Disable Logger is Reduce system load"},
	{params.KeyDisableGps, "GPS Disable", "If you're using a panda without GPS, activate the option"},
	{params.KeyUiTpms, "Ui Tpms Enable", "Ui Tpms Enable (HKG only)"},
}

const addonsHeader = "▼  Toggle Community Add-ons"

// togglesPanel lists boolean switches bound one-to-one to params.
type togglesPanel struct {
	panelBase
	toggles map[string]*paramToggle
}

func newTogglesPanel(store ParamStore, hooks uiHooks) *togglesPanel {
	p := &togglesPanel{toggles: make(map[string]*paramToggle, len(mainToggles)+len(addonToggles))}
	onError := func(err error) {
		hooks.showErrorDialog(err, hooks.currentWindow())
	}

	rows := make([]fyne.CanvasObject, 0, len(mainToggles)+len(addonToggles)+2)
	add := func(def toggleDef) {
		toggle := newParamToggle(def.key, def.title, def.description, store, onError)
		p.toggles[def.key] = toggle
		rows = append(rows, toggle.row)
	}
	for _, def := range mainToggles {
		add(def)
	}
	rows = append(rows, horizontalLine(), newLabelControl(addonsHeader, "").row)
	for _, def := range addonToggles {
		add(def)
	}

	p.setContent(p, rows...)

	return p
}

// OnShow re-reads every toggle so writes made elsewhere are reflected.
func (p *togglesPanel) OnShow() {
	for _, toggle := range p.toggles {
		toggle.Reload()
	}
}

func (p *togglesPanel) toggle(key string) *widget.Check {
	if t := p.toggles[key]; t != nil {
		return t.check
	}
	return nil
}
