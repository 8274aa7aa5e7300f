package main

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

type watchTheme struct{}

func (t watchTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		if variant == theme.VariantLight {
			return color.RGBA{R: 250, G: 248, B: 245, A: 255}
		}
		return color.RGBA{R: 22, G: 18, B: 18, A: 255}
	case theme.ColorNameForeground:
		if variant == theme.VariantLight {
			return color.RGBA{R: 35, G: 30, B: 30, A: 255}
		}
		return color.RGBA{R: 225, G: 220, B: 218, A: 255}
	case theme.ColorNamePrimary:
		return color.RGBA{R: 128, G: 0, B: 32, A: 255} // Burgundy
	}

	return theme.DefaultTheme().Color(name, variant)
}

func (t watchTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t watchTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t watchTheme) Size(name fyne.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}
