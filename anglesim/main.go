package main

import (
	"flag"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/anglemeter/pkg/config"
	"github.com/itohio/anglemeter/pkg/scope"
	"github.com/itohio/anglemeter/pkg/telemetry"
)

// updateInterval throttles scope refreshes to about 60 FPS.
const updateInterval = 16 * time.Millisecond

func main() {
	var (
		configFlag  = flag.String("config", "anglesim.yaml", "Configuration file path")
		portFlag    = flag.String("p", "", "Serial port override; switches to monitor mode")
		storageFlag = flag.String("storage", "", "Settings EEPROM image override")
		monitorFlag = flag.Bool("monitor", false, "Plot telemetry from a real instrument instead of simulating one")
	)
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
		*monitorFlag = true
	}
	if *storageFlag != "" {
		cfg.Storage.Path = *storageFlag
	}

	application := app.NewWithID("com.itohio.anglemeter")
	window := application.NewWindow("Angle Meter")
	window.Resize(fyne.NewSize(1000, 700))
	window.CenterOnScreen()

	state := &appState{
		cfg:        cfg,
		configPath: *configFlag,
		window:     window,
		monitor:    *monitorFlag,
		scope:      scope.New(cfg.Window()),
		status:     widget.NewLabel("Disconnected"),
	}

	var panel fyne.CanvasObject
	if state.monitor {
		panel = state.status
	} else {
		state.sim = newSimulator(cfg)
		panel = state.sim.panel(window)
	}

	content := container.NewBorder(
		container.NewVBox(createToolbar(state), panel),
		nil,
		nil,
		nil,
		state.scope,
	)
	window.SetContent(content)
	window.SetOnClosed(func() { disconnect(state) })

	if !state.monitor {
		handleConnect(state)
	}
	window.ShowAndRun()
}

// appState holds the application state.
type appState struct {
	cfg        *config.Config
	configPath string
	window     fyne.Window
	monitor    bool

	scope      *scope.Widget
	status     *widget.Label
	connectBtn *widget.Button

	sim    *simulator
	device telemetry.Device
	done   chan struct{} // closed when the history goroutine exits

	lastUpdateTime time.Time
	updateMu       sync.Mutex
}

// createToolbar creates the Connect and Settings buttons.
func createToolbar(state *appState) fyne.CanvasObject {
	connectBtn := widget.NewButtonWithIcon("", theme.LoginIcon(), func() {
		handleConnect(state)
	})
	state.connectBtn = connectBtn

	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})

	mode := "Simulator"
	if state.monitor {
		mode = "Monitor"
	}

	return container.NewBorder(
		nil,
		nil,
		container.NewHBox(connectBtn, settingsBtn),
		widget.NewLabel(mode),
		nil,
	)
}

