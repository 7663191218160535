package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"

	"github.com/opkr/offroad/internal/resources"
)

type sidebarLayout struct {
	left       *fyne.Container
	rightStack *fyne.Container
	navButtons map[string]*navButton
	applyTheme func(fyne.ThemeVariant)
	// selectTab shows name even when it is already active, so OnShow runs again.
	selectTab func(name string)
	active    func() string
}

func buildSidebarLayout(
	initialVariant fyne.ThemeVariant,
	tabContent map[string]fyne.CanvasObject,
	order []string,
	tabIcons map[string]resources.UIIcon,
	closeButton fyne.CanvasObject,
) sidebarLayout {
	rightStack := container.NewStack()
	for _, key := range order {
		tab := tabContent[key]
		if tab == nil {
			continue
		}
		rightStack.Add(tab)
		tab.Hide()
	}

	active := ""
	for _, name := range order {
		if tabContent[name] == nil {
			continue
		}
		active = name
		tabContent[name].Show()

		break
	}

	navButtons := make(map[string]*navButton, len(order))
	updateNavSelection := func() {
		for name, button := range navButtons {
			button.SetSelected(name == active && !button.Disabled())
		}
	}

	show := func(name string, force bool) {
		next := tabContent[name]
		if next == nil {
			return
		}
		if name == active && !force {
			return
		}

		if current := tabContent[active]; current != nil && name != active {
			current.Hide()
		}
		appLogger.Debug("switching sidebar tab", "from", active, "to", name)
		active = name
		next.Show()
		if onShow, ok := next.(interface{ OnShow() }); ok {
			onShow.OnShow()
		}
		updateNavSelection()
		rightStack.Refresh()
	}

	left := container.NewVBox()
	if closeButton != nil {
		left.Add(closeButton)
	}
	for _, name := range order {
		nameCopy := name
		button := newNavButton(resources.UIIconResource(tabIcons[name], initialVariant), name, func() {
			show(nameCopy, false)
		})
		navButtons[name] = button
		left.Add(button)
	}

	updateNavSelection()
	left.Add(layout.NewSpacer())

	applyTheme := func(variant fyne.ThemeVariant) {
		for tabName, button := range navButtons {
			button.SetIcon(resources.UIIconResource(tabIcons[tabName], variant))
		}
	}

	return sidebarLayout{
		left:       left,
		rightStack: rightStack,
		navButtons: navButtons,
		applyTheme: applyTheme,
		selectTab: func(name string) {
			show(name, true)
		},
		active: func() string {
			return active
		},
	}
}
