package ui

import (
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// uiHooks is UIHooks with every nil hook replaced by its Fyne default.
type uiHooks struct {
	currentWindow   func() fyne.Window
	runOnUI         func(func())
	runAsync        func(func())
	showConfirm     func(message string, onResult func(bool), window fyne.Window)
	showEntry       func(title, placeholder string, onSubmit func(string), window fyne.Window)
	showText        func(title, body string, window fyne.Window)
	showErrorDialog func(err error, window fyne.Window)
	showInfoDialog  func(title, message string, window fyne.Window)
	now             func() time.Time
	readFile        func(path string) ([]byte, error)
}

func resolveHooks(dep RuntimeDependencies) uiHooks {
	h := dep.UIHooks
	out := uiHooks{
		currentWindow:   h.CurrentWindow,
		runOnUI:         h.RunOnUI,
		runAsync:        h.RunAsync,
		showConfirm:     h.ShowConfirm,
		showEntry:       h.ShowEntry,
		showText:        h.ShowText,
		showErrorDialog: h.ShowErrorDialog,
		showInfoDialog:  h.ShowInfoDialog,
		now:             h.Now,
		readFile:        dep.Platform.ReadFile,
	}
	if out.currentWindow == nil {
		out.currentWindow = currentWindow
	}
	if out.runOnUI == nil {
		out.runOnUI = fyne.Do
	}
	if out.runAsync == nil {
		out.runAsync = func(fn func()) {
			go fn()
		}
	}
	if out.showConfirm == nil {
		out.showConfirm = showConfirmDialog
	}
	if out.showEntry == nil {
		out.showEntry = showEntryDialog
	}
	if out.showText == nil {
		out.showText = showTextDialog
	}
	if out.showErrorDialog == nil {
		out.showErrorDialog = dialog.ShowError
	}
	if out.showInfoDialog == nil {
		out.showInfoDialog = dialog.ShowInformation
	}
	if out.now == nil {
		out.now = time.Now
	}
	if out.readFile == nil {
		out.readFile = os.ReadFile
	}

	return out
}

// confirmThen runs fn right away when message is empty, otherwise after the user confirms.
func (h uiHooks) confirmThen(message string, fn func()) {
	if message == "" {
		fn()
		return
	}
	h.showConfirm(message, func(ok bool) {
		if ok {
			fn()
			return
		}
		appLogger.Debug("confirmation cancelled", "message", message)
	}, h.currentWindow())
}

func currentWindow() fyne.Window {
	currentApp := fyne.CurrentApp()
	if currentApp == nil || currentApp.Driver() == nil {
		return nil
	}
	windows := currentApp.Driver().AllWindows()
	if len(windows) == 0 {
		return nil
	}
	return windows[0]
}

func showConfirmDialog(message string, onResult func(bool), window fyne.Window) {
	if window == nil {
		appLogger.Warn("confirmation skipped: active window is unavailable", "message", message)
		return
	}
	confirm := dialog.NewConfirm("", message, onResult, window)
	confirm.SetConfirmText("OK")
	confirm.SetDismissText("Cancel")
	confirm.Show()
}

func showEntryDialog(title, placeholder string, onSubmit func(string), window fyne.Window) {
	if window == nil {
		return
	}
	entry := widget.NewEntry()
	entry.SetPlaceHolder(placeholder)
	dialog.ShowForm(title, "OK", "Cancel", []*widget.FormItem{widget.NewFormItem("", entry)}, func(ok bool) {
		if ok {
			onSubmit(entry.Text)
		}
	}, window)
}

func showTextDialog(title, body string, window fyne.Window) {
	if window == nil {
		return
	}
	text := widget.NewLabel(body)
	text.Wrapping = fyne.TextWrapWord
	scroll := container.NewVScroll(text)
	scroll.SetMinSize(fyne.NewSize(900, 600))
	dialog.ShowCustom(title, "OK", scroll, window)
}
