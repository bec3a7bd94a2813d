package main

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/anglemeter/pkg/angle"
	"github.com/itohio/anglemeter/pkg/settings"
	"github.com/itohio/anglemeter/pkg/telemetry"
)

// showSettingsDialog displays the configuration tabs.
func showSettingsDialog(state *appState) {
	tabs := container.NewAppTabs(
		createSerialTab(state),
		createTimingTab(state),
	)
	if state.sim != nil {
		tabs.Append(createMockTab(state))
		tabs.Append(createInstrumentTab(state))
	}

	d := dialog.NewCustom("Settings", "Close", tabs, state.window)
	d.Resize(fyne.NewSize(520, 420))
	d.Show()
}

func saveConfig(state *appState) {
	if err := state.cfg.Validate(); err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	if err := state.cfg.Save(state.configPath); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
	}
}

// createSerialTab creates the Serial configuration tab.
func createSerialTab(state *appState) *container.TabItem {
	ports, err := telemetry.Ports()
	options := []string{}
	names := make(map[string]string) // display name to port name

	if err == nil {
		for _, port := range ports {
			display := port.Name
			if port.Description != "" && port.Description != port.Name {
				display = fmt.Sprintf("%s (%s)", port.Name, port.Description)
			}
			options = append(options, display)
			names[display] = port.Name
		}
	}

	current := state.cfg.Serial.Port
	selected := ""
	for _, opt := range options {
		if names[opt] == current {
			selected = opt
		}
	}
	if selected == "" && current != "" {
		options = append(options, current)
		names[current] = current
		selected = current
	}

	portSelect := widget.NewSelect(options, nil)
	if selected != "" {
		portSelect.SetSelected(selected)
	}

	baudEntry := widget.NewEntry()
	baudEntry.SetText(strconv.Itoa(state.cfg.Serial.BaudRate))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Serial Port", Widget: portSelect},
			{Text: "Baud Rate", Widget: baudEntry},
		},
		OnSubmit: func() {
			if port := names[portSelect.Selected]; port != "" {
				state.cfg.Serial.Port = port
			}
			if baud, err := strconv.Atoi(baudEntry.Text); err == nil && baud > 0 {
				state.cfg.Serial.BaudRate = baud
			}
			saveConfig(state)

			// Reopen the port with the new parameters.
			if state.monitor && state.device != nil && state.device.IsConnected() {
				disconnect(state)
				handleConnect(state)
			}
		},
	}

	return container.NewTabItem("Serial", form)
}

// createTimingTab creates the tick rate and button threshold tab.
// Changes apply the next time the instrument is connected.
func createTimingTab(state *appState) *container.TabItem {
	t := &state.cfg.Timing

	entries := []struct {
		label string
		value *time.Duration
		entry *widget.Entry
	}{
		{label: "Button Tick", value: &t.ButtonTick},
		{label: "UI Tick", value: &t.UITick},
		{label: "Debounce", value: &t.Debounce},
		{label: "Long Press", value: &t.LongPress},
	}

	form := &widget.Form{}
	for i := range entries {
		e := widget.NewEntry()
		e.SetText(entries[i].value.String())
		entries[i].entry = e
		form.Append(entries[i].label, e)
	}

	everyEntry := widget.NewEntry()
	everyEntry.SetText(strconv.Itoa(t.TelemetryEvery))
	form.Append("Telemetry Every (ticks)", everyEntry)

	windowEntry := widget.NewEntry()
	windowEntry.SetText(strconv.FormatFloat(state.cfg.Scope.WindowSeconds, 'f', 1, 64))
	form.Append("History Window (s)", windowEntry)

	form.OnSubmit = func() {
		for _, e := range entries {
			if d, err := time.ParseDuration(e.entry.Text); err == nil && d > 0 {
				*e.value = d
			}
		}
		if n, err := strconv.Atoi(everyEntry.Text); err == nil && n >= 0 {
			t.TelemetryEvery = n
		}
		if w, err := strconv.ParseFloat(windowEntry.Text, 64); err == nil && w > 0 {
			state.cfg.Scope.WindowSeconds = w
		}
		saveConfig(state)
	}

	return container.NewTabItem("Timing", form)
}

// createMockTab creates the simulated potentiometer tab.
func createMockTab(state *appState) *container.TabItem {
	noiseEntry := widget.NewEntry()
	noiseEntry.SetText(strconv.FormatFloat(float64(state.cfg.Mock.Noise), 'f', 1, 32))

	oversampleEntry := widget.NewEntry()
	oversampleEntry.SetText(strconv.Itoa(state.cfg.Mock.Oversample))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Noise (ADC counts)", Widget: noiseEntry},
			{Text: "Oversample", Widget: oversampleEntry},
		},
		OnSubmit: func() {
			if n, err := strconv.ParseFloat(noiseEntry.Text, 32); err == nil && n >= 0 {
				state.cfg.Mock.Noise = float32(n)
				state.sim.mock.SetNoise(float32(n))
			}
			if n, err := strconv.Atoi(oversampleEntry.Text); err == nil && n > 0 {
				state.cfg.Mock.Oversample = n
			}
			state.cfg.Mock.Position = state.sim.mock.Position()
			saveConfig(state)
		},
	}

	return container.NewTabItem("Simulator", form)
}

// createInstrumentTab shows the persisted instrument settings and allows a
// factory reset.
func createInstrumentTab(state *appState) *container.TabItem {
	info := widget.NewLabel("")
	reset := widget.NewButton("Reset to defaults", nil)
	refresh := func() {
		// The store belongs to the instrument goroutine while it runs.
		if state.device != nil {
			info.SetText("Disconnect to inspect the stored settings.")
			reset.Disable()
			return
		}
		reset.Enable()
		cur := state.sim.store.Current()
		info.SetText(fmt.Sprintf(
			"Zero offset: %.2f°\nCalibration: %d .. %d\nInverted: %v",
			float32(cur.ZeroOffset)/100, cur.CalMin, cur.CalMax, cur.Invert))
	}
	refresh()

	reset.OnTapped = func() {
		dialog.ShowConfirm("Reset", "Restore factory zero and calibration?", func(ok bool) {
			if !ok {
				return
			}
			if err := state.sim.store.Save(settings.Defaults()); err != nil {
				dialog.ShowError(fmt.Errorf("failed to reset settings: %w", err), state.window)
			}
			refresh()
		}, state.window)
	}

	return container.NewTabItem("Instrument", container.NewVBox(
		info,
		widget.NewLabel(fmt.Sprintf("Full scale: %d°", angle.FullCircle/100)),
		container.NewHBox(widget.NewButton("Refresh", refresh), reset),
	))
}
