//go:build tinygo

package main

import "machine"

const (
	// Potentiometer wiper
	PIN_ANGLE_ADC = machine.ADC0 // GP26

	// Buttons, active low with internal pull-ups
	PIN_BTN_UP   = machine.GP10
	PIN_BTN_DOWN = machine.GP11
	PIN_BTN_OK   = machine.GP12
	PIN_BTN_BACK = machine.GP13

	// Character LCD behind a PCF8574 backpack
	PIN_LCD_SDA = machine.GP4
	PIN_LCD_SCL = machine.GP5
	LCD_ADDRESS = 0x27
	LCD_COLS    = 16
	LCD_ROWS    = 2

	// Telemetry: one line per TELEMETRY_EVERY UI ticks over USB CDC.
	// "millis,adc,raw,shown,displayed,screen\n" is at most 36 bytes; at 10
	// lines/s that is well under 1% of a 115200 baud link.
	TELEMETRY_EVERY = 5
)
