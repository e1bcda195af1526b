//go:build !tinygo

package hal

import (
	"fmt"
	"image/color"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	colorBG    = color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff}
	colorFG    = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
	colorDim   = color.RGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xff}
	colorLEDOn = color.RGBA{R: 0xff, G: 0x40, B: 0x30, A: 0xff}
	colorBtnOn = color.RGBA{R: 0x4a, G: 0xdf, B: 0x6a, A: 0xff}
)

const (
	panelLampX    = 8
	panelLampY    = 8
	panelLampSize = 32
)

// renderPanel draws the board state: the LED lamp, the button lamp and a
// status line.
func renderPanel(fb *hostFramebuffer, led, button bool, tick uint64) {
	fb.ClearRGB(colorBG.R, colorBG.G, colorBG.B)

	lamp := colorDim
	if led {
		lamp = colorLEDOn
	}
	_ = fb.FillRectangle(panelLampX, panelLampY, panelLampSize, panelLampSize, lamp)

	btn := colorDim
	if button {
		btn = colorBtnOn
	}
	_ = fb.FillRectangle(panelLampX*2+panelLampSize, panelLampY, panelLampSize, panelLampSize, btn)

	font := &proggy.TinySZ8pt7b
	y := int16(panelLampY + panelLampSize + 16)
	tinyfont.WriteLine(fb, font, panelLampX, y, fmt.Sprintf("%s %s", PinLED, onOff(led)), colorFG)
	tinyfont.WriteLine(fb, font, panelLampX, y+12, fmt.Sprintf("%s %s", PinButton, onOff(button)), colorFG)
	tinyfont.WriteLine(fb, font, panelLampX, y+24, fmt.Sprintf("tick %d", tick), colorFG)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
