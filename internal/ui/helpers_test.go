package ui

import (
	"strings"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	fynetest "fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
)

func mustFindButtonByText(t *testing.T, root fyne.CanvasObject, text string) *widget.Button {
	t.Helper()
	for _, object := range fynetest.LaidOutObjects(root) {
		button, ok := object.(*widget.Button)
		if !ok {
			continue
		}
		if strings.TrimSpace(button.Text) == text {
			return button
		}
	}
	t.Fatalf("button %q not found", text)

	return nil
}

func mustFindLabelByPrefix(t *testing.T, root fyne.CanvasObject, prefix string) *widget.Label {
	t.Helper()
	for _, object := range fynetest.LaidOutObjects(root) {
		label, ok := object.(*widget.Label)
		if !ok {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(label.Text), prefix) {
			return label
		}
	}
	t.Fatalf("label with prefix %q not found", prefix)

	return nil
}

func mustFindSelectWithOption(t *testing.T, root fyne.CanvasObject, option string) *widget.Select {
	t.Helper()
	for _, object := range fynetest.LaidOutObjects(root) {
		selectWidget, ok := object.(*widget.Select)
		if !ok {
			continue
		}
		for _, candidate := range selectWidget.Options {
			if strings.TrimSpace(candidate) == option {
				return selectWidget
			}
		}
	}
	t.Fatalf("select with option %q not found", option)

	return nil
}

func waitForCondition(t *testing.T, check func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if check() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition was not met before timeout")
}

func findButtonsByText(root fyne.CanvasObject, text string) []*widget.Button {
	var out []*widget.Button
	for _, object := range fynetest.LaidOutObjects(root) {
		button, ok := object.(*widget.Button)
		if ok && strings.TrimSpace(button.Text) == text {
			out = append(out, button)
		}
	}

	return out
}
