//go:build tinygo

//go:generate tinygo flash -target=pico

package main

import (
	"context"
	"machine"
	"time"

	"tinygo.org/x/drivers/hd44780i2c"

	"github.com/itohio/anglemeter/pkg/button"
	"github.com/itohio/anglemeter/pkg/instrument"
	"github.com/itohio/anglemeter/pkg/sensor"
	"github.com/itohio/anglemeter/pkg/settings"
)

var buttonPins = [button.Count]machine.Pin{
	button.BtnUp:   PIN_BTN_UP,
	button.BtnDown: PIN_BTN_DOWN,
	button.BtnOK:   PIN_BTN_OK,
	button.BtnBack: PIN_BTN_BACK,
}

func main() {
	machine.InitADC()
	adc := machine.ADC{Pin: PIN_ANGLE_ADC}
	adc.Configure(machine.ADCConfig{})

	for _, pin := range buttonPins {
		pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}

	if err := machine.I2C0.Configure(machine.I2CConfig{
		SDA: PIN_LCD_SDA,
		SCL: PIN_LCD_SCL,
	}); err != nil {
		for {
			println("could not configure I2C:", err.Error())
			time.Sleep(time.Second)
		}
	}
	lcd := hd44780i2c.New(machine.I2C0, LCD_ADDRESS)
	if err := lcd.Configure(hd44780i2c.Config{
		Width:  LCD_COLS,
		Height: LCD_ROWS,
	}); err != nil {
		println("could not configure LCD:", err.Error())
	}

	store := openSettings()

	// machine.ADC returns left-aligned 16-bit samples.
	src := sensor.NewAverager(sensor.SourceFunc(func() uint16 {
		return sensor.Shift16To10(adc.Get())
	}))

	cfg := instrument.DefaultConfig()
	cfg.Cols, cfg.Rows = LCD_COLS, LCD_ROWS
	cfg.TelemetryEvery = TELEMETRY_EVERY

	inst := instrument.New(cfg, src, store, &lcd, machine.Serial)
	if err := inst.Run(context.Background(), readButtons); err != nil {
		println("instrument stopped:", err.Error())
		return
	}
	println("instrument stopped")
}

// readButtons samples the active-low button pins.
func readButtons() [button.Count]bool {
	var pressed [button.Count]bool
	for id, pin := range buttonPins {
		pressed[id] = !pin.Get()
	}
	return pressed
}

// openSettings loads the persisted settings. Without usable flash the
// instrument still runs from defaults kept in RAM.
func openSettings() *settings.Store {
	var storage settings.Storage
	flash, err := newFlashStorage()
	if err != nil {
		println("settings flash unavailable:", err.Error())
		storage = settings.NewMemory(settings.RecordSize)
	} else {
		storage = flash
	}

	store := settings.New(storage, 0)
	if err := store.Load(); err != nil {
		println("settings not restored:", err.Error())
	}
	return store
}
