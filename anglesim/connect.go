package main

import (
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"github.com/itohio/anglemeter/pkg/history"
	"github.com/itohio/anglemeter/pkg/telemetry"
)

// handleConnect toggles the telemetry chain.
func handleConnect(state *appState) {
	if state.device != nil && state.device.IsConnected() {
		disconnect(state)
		state.status.SetText("Disconnected")
		return
	}

	var device telemetry.Device
	if state.monitor {
		device = telemetry.New(state.cfg.Serial.Port, state.cfg.Serial.BaudRate, telemetry.DefaultBufferSize)
	} else {
		pipe := telemetry.NewPipe(telemetry.DefaultBufferSize)
		if err := state.sim.start(pipe); err != nil {
			dialog.ShowError(fmt.Errorf("failed to start simulator: %w", err), state.window)
			return
		}
		device = pipe
	}

	if err := device.Connect(); err != nil {
		if !state.monitor {
			state.sim.stop()
		}
		dialog.ShowError(fmt.Errorf("failed to connect to %s: %w", state.cfg.Serial.Port, err), state.window)
		return
	}
	state.device = device
	if state.monitor {
		log.Printf("Connected to serial port: %s", state.cfg.Serial.Port)
		state.status.SetText("Connected to " + state.cfg.Serial.Port)
	} else {
		log.Printf("Simulator running")
	}

	buf := history.New(state.cfg.Window())
	buf.OnUpdate(func(frames []telemetry.Frame, rates []float32) {
		state.updateMu.Lock()
		now := time.Now()
		if now.Sub(state.lastUpdateTime) < updateInterval {
			state.updateMu.Unlock()
			return
		}
		state.lastUpdateTime = now
		state.updateMu.Unlock()

		fyne.Do(func() {
			state.scope.UpdateData(frames, rates)
			if state.monitor && len(frames) > 0 {
				state.status.SetText(statusText(frames[len(frames)-1]))
			}
		})
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		buf.Process(device.Frames())
	}()
	state.done = done
}

// disconnect closes the device and waits for the history goroutine.
func disconnect(state *appState) {
	if state.device == nil {
		return
	}
	if state.sim != nil {
		state.sim.stop()
	}
	state.device.Close()
	if state.done != nil {
		<-state.done
		state.done = nil
	}
	state.device = nil
}

func statusText(f telemetry.Frame) string {
	return fmt.Sprintf("%s  %.2f°  ADC %d", f.Screen, float32(f.Displayed)/100, f.ADC)
}
