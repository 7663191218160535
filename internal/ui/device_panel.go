package ui

import (
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/opkr/offroad/internal/actions"
	"github.com/opkr/offroad/internal/app"
	"github.com/opkr/offroad/internal/calibration"
	"github.com/opkr/offroad/internal/params"
	"github.com/opkr/offroad/internal/platform"
)

const (
	driverCameraDescription = "Preview the driver facing camera to help optimize device mounting position for best driver monitoring experience. (vehicle must be off)"
	regulatoryAssetPath     = "offroad/fcc.html"
)

type devicePanelOptions struct {
	store      ParamStore
	dispatcher IntentDispatcher
	hooks      uiHooks
	kind       platform.Kind
	assetsDir  string
	isOffroad  func() bool

	onShowDriverView      func()
	onReviewTrainingGuide func()
}

type devicePanel struct {
	panelBase

	opts   devicePanelOptions
	runner *intentRunner

	dongle      *labelControl
	preview     *buttonControl
	resetCalib  *buttonControl
	training    *buttonControl
	uninstall   *buttonControl
	regulatory  *buttonControl
	rebootBtn   *widget.Button
	powerOffBtn *widget.Button
}

func newDevicePanel(opts devicePanelOptions) *devicePanel {
	p := &devicePanel{opts: opts, runner: newIntentRunner(opts.dispatcher, opts.hooks)}

	p.dongle = newLabelControl("Dongle ID", opts.store.Get(params.KeyDongleID))

	p.preview = newButtonControl("Driver Camera", "PREVIEW", driverCameraDescription, func() {
		appLogger.Info("driver camera preview requested")
		if opts.onShowDriverView != nil {
			opts.onShowDriverView()
		}
	})

	p.resetCalib = newButtonControl("Reset Calibration", "RESET", calibration.RangeDescription, func() {
		p.runner.Run(actions.IntentResetCalibration, nil)
	})
	p.resetCalib.onExpand = p.refreshCalibration

	rows := []fyne.CanvasObject{p.dongle.row, horizontalLine(), p.preview.row, p.resetCalib.row}

	if !opts.store.GetBool(params.KeyPassive) {
		p.training = newButtonControl("Review Training Guide", "REVIEW", "", func() {
			p.runner.Run(actions.IntentReviewTrainingGuide, func(err error) {
				if err == nil && opts.onReviewTrainingGuide != nil {
					opts.onReviewTrainingGuide()
				}
			})
		})
		rows = append(rows, p.training.row)
	}

	p.uninstall = newButtonControl(app.Brand(opts.store)+" Uninstall", "UNINSTALL", "", func() {
		p.runner.Run(actions.IntentUninstall, nil)
	})
	rows = append(rows, p.uninstall.row)

	if opts.kind == platform.KindTICI {
		p.regulatory = newButtonControl("Regulatory", "VIEW", "", p.showRegulatory)
		rows = append(rows, p.regulatory.row)
	}

	p.rebootBtn = widget.NewButton("Reboot", func() {
		p.runner.Run(actions.IntentReboot, nil)
	})
	p.rebootBtn.Importance = widget.SuccessImportance
	p.powerOffBtn = widget.NewButton("Power Off", func() {
		p.runner.Run(actions.IntentPowerOff, nil)
	})
	p.powerOffBtn.Importance = widget.DangerImportance

	rows = append(rows,
		container.NewGridWithColumns(2, p.rebootBtn, p.powerOffBtn),
		p.runner.status,
	)
	p.setContent(p, rows...)

	offroad := true
	if opts.isOffroad != nil {
		offroad = opts.isOffroad()
	}
	p.setOffroad(offroad)

	return p
}

// OnShow refreshes the values other services may have changed while the panel was hidden.
func (p *devicePanel) OnShow() {
	p.dongle.SetText(p.opts.store.Get(params.KeyDongleID))
	p.refreshCalibration()
}

func (p *devicePanel) refreshCalibration() {
	blob := []byte(p.opts.store.Get(params.KeyCalibrationParams))
	p.resetCalib.SetDescription(calibration.Describe(calibration.RangeDescription, blob, appLogger))
}

// setOffroad enables the offroad-only buttons while the car is off.
func (p *devicePanel) setOffroad(offroad bool) {
	for _, control := range []*buttonControl{p.preview, p.resetCalib, p.training, p.uninstall, p.regulatory} {
		if control != nil {
			control.SetEnabled(offroad)
		}
	}
}

func (p *devicePanel) showRegulatory() {
	path := filepath.Join(p.opts.assetsDir, regulatoryAssetPath)
	raw, err := p.opts.hooks.readFile(path)
	if err != nil {
		appLogger.Warn("read regulatory text", "path", path, "error", err)
		p.opts.hooks.showErrorDialog(err, p.opts.hooks.currentWindow())
		return
	}
	p.opts.hooks.showText("Regulatory", string(raw), p.opts.hooks.currentWindow())
}
