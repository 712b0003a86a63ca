package app

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"

	"hotfilm/pkg/acquire"
	"hotfilm/pkg/app/config"
	"hotfilm/pkg/labjack"
	"hotfilm/pkg/mqtt"
	"hotfilm/pkg/sample"
)

// App is the main application struct.
// App is where the application is wired up.
type App struct {
	// web is the fiber web framework instance
	web *fiber.App

	// config is the application configuration
	config *config.Config

	// urlParsed contains the parsed Config.Webserver.URL parameter
	urlParsed *url.URL

	// mqtt is the handler to the mqtt broker
	mqtt *mqtt.Handler

	// device is the streaming ADC the pipeline reads from
	device labjack.Device

	// sink is the listener set output records are broadcast to
	sink *sample.Broadcast

	// acquirer drives the acquisition pipeline
	acquirer *acquire.Acquirer

	// latest keeps the most recent window for the data webservice
	latest *latestData

	// shutdown signals that the acquisition session ended
	shutdown chan struct{}
}

// New checks the web server URL and initializes the main app structure.
// The device is supplied by the caller; the configuration must be validated.
func New(cfg *config.Config, device labjack.Device) (*App, error) {
	u, err := url.Parse(cfg.Webserver.URL)
	if err != nil {
		debug.ErrorLog.Printf("Error parsing url %q: %s", cfg.Webserver.URL, err.Error())
		return &App{}, err
	}

	return &App{
		config:    cfg,
		urlParsed: u,
		device:    device,

		web:  fiber.New(),
		mqtt: mqtt.New(),
		sink: sample.NewBroadcast(),

		latest:   &latestData{},
		shutdown: make(chan struct{}),
	}, nil
}

// Run starts the application.
func (app *App) Run() error {
	if err := app.init(); err != nil {
		return err
	}

	go app.mqtt.Service()
	go app.runWebServer()
	go app.serviceAcquisition()

	return nil
}

// init opens and configures the device and wires the record sinks.
func (app *App) init() error {
	if err := app.device.Open(); err != nil {
		debug.ErrorLog.Printf("can't open device: %v", err)
		return err
	}
	debug.InfoLog.Print(app.device.Info())

	scanList := app.config.ScanList()
	names := make([]string, len(scanList))
	for i, ch := range scanList {
		names[i] = ch.Name
	}

	if err := app.device.Configure(labjack.StreamConfig{
		Channels:        names,
		ScanRate:        app.config.Device.ScanRate,
		ResolutionIndex: app.config.Device.Resolution,
		SettlingUS:      app.config.Device.SettlingUS,
		InputRange:      app.config.Device.InputRange,
		CounterEnabled:  app.config.Device.PPS,
	}); err != nil {
		debug.ErrorLog.Printf("can't configure stream: %v", err)
		return err
	}

	if err := app.mqtt.Connect(app.config.MQTT.Connection); err != nil {
		debug.ErrorLog.Printf("can't open mqtt broker %v", err)
		return err
	}

	app.sink.Attach(app.latest)
	if app.config.MQTT.Connection != "" {
		app.sink.Attach(mqtt.NewListener(app.mqtt, app.config.MQTT.Topic))
	}

	publisher := sample.NewPublisher(app.sink, scanList, app.config.IDMap())
	app.acquirer = acquire.New(app.device, publisher, acquire.Options{
		Channels:     scanList,
		ScanRate:     app.config.Device.ScanRate,
		ScansPerRead: app.config.Device.ScansPerRead,
		ReadLimit:    app.config.Device.ReadLimit,
		Diagnostics:  app.config.Device.Diagnostics,
		PPS:          app.config.Device.PPS,
	})

	// initDefaultRoutes should always be called last because it may
	// access things which must be initialized before
	app.initDefaultRoutes()

	return nil
}

// Shutdown returns the read only shutdown channel.
// It is closed when the acquisition session ends. (see cmd/hotfilm.go)
func (app *App) Shutdown() <-chan struct{} {
	return app.shutdown
}

func (app *App) Close() error {
	if app.mqtt != nil {
		_ = app.mqtt.Disconnect()
	}

	if app.device != nil {
		_ = app.device.Close()
	}
	return nil
}
