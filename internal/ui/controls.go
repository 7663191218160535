package ui

import (
	"context"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/opkr/offroad/internal/actions"
)

// panelBase renders a scrollable column and lets the sidebar call OnShow on it.
type panelBase struct {
	widget.BaseWidget
	content fyne.CanvasObject
}

func (p *panelBase) setContent(self fyne.Widget, rows ...fyne.CanvasObject) {
	p.content = container.NewVScroll(container.NewPadded(container.NewVBox(rows...)))
	p.ExtendBaseWidget(self)
}

func (p *panelBase) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.content)
}

func horizontalLine() fyne.CanvasObject {
	return widget.NewSeparator()
}

// labelControl is a "title ... value" row.
type labelControl struct {
	row   fyne.CanvasObject
	value *widget.Label
}

func newLabelControl(title, value string) *labelControl {
	titleLabel := widget.NewLabel(title)
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	valueLabel := widget.NewLabel(value)
	valueLabel.Alignment = fyne.TextAlignTrailing
	valueLabel.Truncation = fyne.TextTruncateEllipsis

	return &labelControl{
		row:   container.NewBorder(nil, nil, titleLabel, nil, valueLabel),
		value: valueLabel,
	}
}

func (c *labelControl) SetText(text string) {
	c.value.SetText(text)
}

// buttonControl is a titled row with an action button; tapping the title toggles the description.
type buttonControl struct {
	row         fyne.CanvasObject
	title       *widget.Button
	button      *widget.Button
	description *widget.Label
	// onExpand runs before the description is shown.
	onExpand func()
}

func newButtonControl(title, buttonText, description string, onTap func()) *buttonControl {
	c := &buttonControl{}
	c.description = widget.NewLabel(description)
	c.description.Wrapping = fyne.TextWrapWord
	c.description.Hide()

	c.title = widget.NewButton(title, c.toggleDescription)
	c.title.Importance = widget.LowImportance
	c.title.Alignment = widget.ButtonAlignLeading

	c.button = widget.NewButton(buttonText, onTap)
	c.button.Importance = widget.MediumImportance

	buttonBox := container.NewGridWrap(fyne.NewSize(220, c.button.MinSize().Height), c.button)
	c.row = container.NewVBox(
		container.NewBorder(nil, nil, nil, buttonBox, c.title),
		c.description,
	)

	return c
}

func (c *buttonControl) toggleDescription() {
	if c.description.Visible() {
		c.description.Hide()
		return
	}
	if c.onExpand != nil {
		c.onExpand()
	}
	if c.description.Text == "" {
		return
	}
	c.description.Show()
}

func (c *buttonControl) SetDescription(text string) {
	c.description.SetText(text)
}

func (c *buttonControl) SetEnabled(enabled bool) {
	if enabled {
		c.button.Enable()
		return
	}
	c.button.Disable()
}

// paramToggle binds a switch to one boolean param.
type paramToggle struct {
	key         string
	params      ParamStore
	row         fyne.CanvasObject
	check       *widget.Check
	description *widget.Label
	onError     func(error)
}

func newParamToggle(key, title, description string, params ParamStore, onError func(error)) *paramToggle {
	t := &paramToggle{key: key, params: params, onError: onError}
	t.description = widget.NewLabel(description)
	t.description.Wrapping = fyne.TextWrapWord
	t.description.Hide()

	titleButton := widget.NewButton(title, func() {
		if t.description.Visible() || t.description.Text == "" {
			t.description.Hide()
			return
		}
		t.description.Show()
	})
	titleButton.Importance = widget.LowImportance
	titleButton.Alignment = widget.ButtonAlignLeading

	t.check = widget.NewCheck("", nil)
	t.check.SetChecked(params.GetBool(key))
	t.check.OnChanged = t.persist

	t.row = container.NewVBox(
		container.NewBorder(nil, nil, nil, t.check, titleButton),
		t.description,
	)

	return t
}

func (t *paramToggle) persist(checked bool) {
	if err := t.params.PutBool(t.key, checked); err != nil {
		appLogger.Warn("persist toggle", "key", t.key, "error", err)
		if t.onError != nil {
			t.onError(err)
		}
		return
	}
	appLogger.Debug("toggle changed", "key", t.key, "value", checked)
}

// Reload re-reads the param without writing it back.
func (t *paramToggle) Reload() {
	onChanged := t.check.OnChanged
	t.check.OnChanged = nil
	t.check.SetChecked(t.params.GetBool(t.key))
	t.check.OnChanged = onChanged
}

// paramSelect stores the selected option index as a decimal string.
type paramSelect struct {
	key     string
	params  ParamStore
	options []string
	row     fyne.CanvasObject
	sel     *widget.Select
}

func newParamSelect(key, title string, options []string, params ParamStore, onError func(error)) *paramSelect {
	s := &paramSelect{key: key, params: params, options: options}

	titleLabel := widget.NewLabel(title)
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	s.sel = widget.NewSelect(options, nil)
	s.Reload()
	s.sel.OnChanged = func(value string) {
		index := s.sel.SelectedIndex()
		if index < 0 {
			return
		}
		if err := params.Put(key, strconv.Itoa(index)); err != nil {
			appLogger.Warn("persist selection", "key", key, "value", value, "error", err)
			if onError != nil {
				onError(err)
			}
			return
		}
		appLogger.Debug("selection changed", "key", key, "value", value, "index", index)
	}
	s.row = container.NewBorder(nil, nil, titleLabel, nil, container.NewHBox(layout.NewSpacer(), s.sel))

	return s
}

func (s *paramSelect) Reload() {
	index := s.params.GetInt(s.key)
	if index < 0 || index >= len(s.options) {
		index = 0
	}
	onChanged := s.sel.OnChanged
	s.sel.OnChanged = nil
	s.sel.SetSelectedIndex(index)
	s.sel.OnChanged = onChanged
}

// intentRunner confirms and dispatches intents off the UI thread.
type intentRunner struct {
	dispatcher IntentDispatcher
	hooks      uiHooks
	status     *widget.Label
}

func newIntentRunner(dispatcher IntentDispatcher, hooks uiHooks) *intentRunner {
	status := widget.NewLabel("")
	status.Wrapping = fyne.TextWrapWord
	status.Hide()

	return &intentRunner{dispatcher: dispatcher, hooks: hooks, status: status}
}

// Run asks for confirmation when the intent has a prompt, then dispatches it. onDone runs on
// the UI thread after a confirmed dispatch finished.
func (r *intentRunner) Run(intent actions.Intent, onDone func(err error)) {
	if r.dispatcher == nil {
		appLogger.Warn("intent ignored: dispatcher is not configured", "intent", intent)
		return
	}
	r.hooks.confirmThen(r.dispatcher.Prompt(intent), func() {
		appLogger.Info("dispatching intent", "intent", intent)
		r.hooks.runAsync(func() {
			err := r.dispatcher.Dispatch(context.Background(), intent)
			r.hooks.runOnUI(func() {
				r.setStatus(intent, err)
				if onDone != nil {
					onDone(err)
				}
			})
		})
	})
}

func (r *intentRunner) setStatus(intent actions.Intent, err error) {
	if err == nil {
		r.status.SetText("")
		r.status.Hide()
		return
	}
	r.status.SetText(string(intent) + " failed: " + err.Error())
	r.status.Show()
}
