package resources

import (
	"embed"
	"path"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

//go:embed ui/dark/*.svg ui/light/*.svg
var uiAssets embed.FS

type UIIcon string

const (
	UIIconDevice   UIIcon = "device"
	UIIconNetwork  UIIcon = "network"
	UIIconToggles  UIIcon = "toggles"
	UIIconSoftware UIIcon = "software"
	UIIconClose    UIIcon = "close"
	uiIconApp      UIIcon = "icon"
)

var allUIIcons = []UIIcon{UIIconDevice, UIIconNetwork, UIIconToggles, UIIconSoftware, UIIconClose, uiIconApp}

var (
	uiDarkIconResources  = loadVariant("dark")
	uiLightIconResources = loadVariant("light")
)

func loadVariant(variant string) map[UIIcon]fyne.Resource {
	out := make(map[UIIcon]fyne.Resource, len(allUIIcons))
	for _, icon := range allUIIcons {
		name := path.Join("ui", variant, string(icon)+".svg")
		raw, err := uiAssets.ReadFile(name)
		if err != nil {
			continue
		}
		out[icon] = fyne.NewStaticResource("resources/"+name, raw)
	}

	return out
}

func UIIconResource(icon UIIcon, variant fyne.ThemeVariant) fyne.Resource {
	if variant == theme.VariantLight {
		if res, ok := uiLightIconResources[icon]; ok {
			return res
		}
	}
	if res, ok := uiDarkIconResources[icon]; ok {
		return res
	}
	return nil
}

func AppIconResource(variant fyne.ThemeVariant) fyne.Resource {
	return UIIconResource(uiIconApp, variant)
}
