package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// navButton is a sidebar entry: an optional icon above a caption, highlighted while selected.
type navButton struct {
	widget.DisableableWidget

	icon     fyne.Resource
	text     string
	iconSize float32
	onTap    func()
	selected bool
	hovered  bool
}

func newNavButton(icon fyne.Resource, text string, onTap func()) *navButton {
	b := &navButton{
		icon:     icon,
		text:     text,
		iconSize: 48,
		onTap:    onTap,
	}
	b.ExtendBaseWidget(b)
	return b
}

func (b *navButton) SetIcon(icon fyne.Resource) {
	b.icon = icon
	b.Refresh()
}

func (b *navButton) SetText(text string) {
	if b.text == text {
		return
	}
	b.text = text
	b.Refresh()
}

func (b *navButton) SetSelected(selected bool) {
	if b.selected == selected {
		return
	}
	b.selected = selected
	b.Refresh()
}

func (b *navButton) Selected() bool {
	return b.selected
}

func (b *navButton) MinSize() fyne.Size {
	th := b.Theme()
	pad := th.Size(theme.SizeNamePadding) * 2
	width := b.iconSize + pad
	height := pad
	if b.icon != nil {
		height += b.iconSize
	}
	if b.text != "" {
		textSize := fyne.MeasureText(b.text, th.Size(theme.SizeNameSubHeadingText), fyne.TextStyle{Bold: true})
		if textSize.Width+pad > width {
			width = textSize.Width + pad
		}
		height += textSize.Height
	}
	return fyne.NewSize(width, height)
}

func (b *navButton) Tapped(_ *fyne.PointEvent) {
	if b.Disabled() {
		return
	}
	if b.onTap != nil {
		b.onTap()
	}
}

func (b *navButton) TappedSecondary(_ *fyne.PointEvent) {}

func (b *navButton) MouseIn(_ *desktop.MouseEvent) {
	b.hovered = true
	b.Refresh()
}

func (b *navButton) MouseMoved(_ *desktop.MouseEvent) {}

func (b *navButton) MouseOut() {
	b.hovered = false
	b.Refresh()
}

func (b *navButton) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.Transparent)
	bg.CornerRadius = b.Theme().Size(theme.SizeNameInputRadius)

	img := canvas.NewImageFromResource(b.icon)
	img.FillMode = canvas.ImageFillContain

	label := canvas.NewText(b.text, color.White)
	label.TextStyle = fyne.TextStyle{Bold: true}
	label.Alignment = fyne.TextAlignCenter

	r := &navButtonRenderer{
		button:     b,
		background: bg,
		icon:       img,
		label:      label,
		objects:    []fyne.CanvasObject{bg, img, label},
	}
	r.Refresh()
	return r
}

type navButtonRenderer struct {
	button     *navButton
	background *canvas.Rectangle
	icon       *canvas.Image
	label      *canvas.Text
	objects    []fyne.CanvasObject
}

func (r *navButtonRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)

	pad := r.button.Theme().Size(theme.SizeNamePadding)
	labelHeight := float32(0)
	if r.button.text != "" {
		labelHeight = r.label.MinSize().Height
	}

	iconSide := r.button.iconSize
	if r.button.icon == nil {
		iconSide = 0
	}
	if maxW := size.Width - pad*2; maxW < iconSide {
		iconSide = maxW
	}
	if maxH := size.Height - pad*2 - labelHeight; maxH < iconSide {
		iconSide = maxH
	}
	if iconSide < 0 {
		iconSide = 0
	}

	top := (size.Height - iconSide - labelHeight) / 2
	r.icon.Resize(fyne.NewSquareSize(iconSide))
	r.icon.Move(fyne.NewPos((size.Width-iconSide)/2, top))

	r.label.Resize(fyne.NewSize(size.Width, labelHeight))
	r.label.Move(fyne.NewPos(0, top+iconSide))
}

func (r *navButtonRenderer) MinSize() fyne.Size {
	return r.button.MinSize()
}

func (r *navButtonRenderer) Refresh() {
	th := r.button.Theme()
	v := fyne.CurrentApp().Settings().ThemeVariant()

	switch {
	case r.button.Disabled():
		r.background.FillColor = th.Color(theme.ColorNameDisabledButton, v)
	case r.button.selected:
		r.background.FillColor = th.Color(theme.ColorNameSelection, v)
	case r.button.hovered:
		r.background.FillColor = th.Color(theme.ColorNameHover, v)
	default:
		r.background.FillColor = color.Transparent
	}
	r.background.CornerRadius = th.Size(theme.SizeNameInputRadius)
	r.background.Refresh()

	icon := r.button.icon
	if r.button.Disabled() && icon != nil {
		icon = theme.NewDisabledResource(icon)
	}
	r.icon.Resource = icon
	r.icon.Hidden = icon == nil
	r.icon.Refresh()

	r.label.Text = r.button.text
	r.label.TextSize = th.Size(theme.SizeNameSubHeadingText)
	if r.button.selected {
		r.label.Color = th.Color(theme.ColorNameForeground, v)
	} else {
		r.label.Color = th.Color(theme.ColorNamePlaceHolder, v)
	}
	r.label.Refresh()

	r.Layout(r.button.Size())
}

func (r *navButtonRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *navButtonRenderer) Destroy() {}
