// Command cover-manual turns operator input into chassis, gimbal, shooter
// and cover commands and publishes them to MQTT.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sweeney/cover-manual/internal/command"
	"github.com/sweeney/cover-manual/internal/config"
	"github.com/sweeney/cover-manual/internal/gpio"
	"github.com/sweeney/cover-manual/internal/logic"
	"github.com/sweeney/cover-manual/internal/mqtt"
	"github.com/sweeney/cover-manual/internal/status"
	"github.com/sweeney/cover-manual/internal/tf"
	"github.com/sweeney/cover-manual/internal/web"
)

var (
	flagConfig      string
	flagBroker      string
	flagTick        time.Duration
	flagHTTP        string
	flagLogFile     string
	flagPrintConfig bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cover-manual",
		Short: "Manual control loop for a robot with a supply cover",
		Long: `cover-manual reads remote-controller and keyboard input from MQTT,
runs the manual control state machine every tick and publishes chassis,
gimbal, shooter and cover commands together with a referee snippet.

A status page is served on --http with a live websocket feed on /ws.`,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().StringVar(&flagConfig, "config", "", "YAML config file (defaults apply when empty)")
	rootCmd.Flags().StringVar(&flagBroker, "broker", "", "MQTT broker address (overrides config)")
	rootCmd.Flags().DurationVar(&flagTick, "tick", 0, "Control tick interval (overrides config)")
	rootCmd.Flags().StringVar(&flagHTTP, "http", "", `HTTP status address (overrides config, "off" disables)`)
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Also write logs to this file, rotated by size")
	rootCmd.Flags().BoolVar(&flagPrintConfig, "print-config", false, "Print the effective config and exit")
	return rootCmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if err := applyFlags(cfg, cmd); err != nil {
		return err
	}

	if flagPrintConfig {
		data, err := cfg.YAML()
		if err != nil {
			return fmt.Errorf("render config: %w", err)
		}
		fmt.Print(string(data))
		return nil
	}

	if flagLogFile != "" {
		lf := &lumberjack.Logger{
			Filename:   flagLogFile,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		defer lf.Close()
		log.SetOutput(io.MultiWriter(os.Stderr, lf))
	}

	if cfg.MissingMotors() {
		log.Printf("config: chassis_motor is not set, wheel watchdog has no modules")
	}

	session := uuid.NewString()

	// Initialize MQTT
	client, err := mqtt.NewRealClient(mqtt.Options{
		Broker:    cfg.MQTT.Broker,
		ClientID:  cfg.MQTT.ClientID,
		QueueSize: cfg.MQTT.QueueSize,
	})
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer client.Close()

	// Optional chassis power-sense line
	var power gpio.Reader
	if cfg.GPIO.PowerPin >= 0 {
		r, err := gpio.NewRealReader(cfg.GPIO.Chip, cfg.GPIO.PowerPin, cfg.GPIO.ActiveLow)
		if err != nil {
			return fmt.Errorf("init gpio: %w", err)
		}
		power = gpio.NewDebounced(r, cfg.GPIO.Debounce)
		defer power.Close()
	}

	transforms := tf.NewBuffer(cfg.TransformMaxAge, time.Now)
	ctrl, shooter := newController(cfg, client, transforms)

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), session, status.Config{
		TickMs:      cfg.Tick.Milliseconds(),
		HeartbeatMs: cfg.Heartbeat.Milliseconds(),
		Broker:      cfg.MQTT.Broker,
		ClientID:    cfg.MQTT.ClientID,
		HTTPAddr:    cfg.HTTP,
		PowerPin:    cfg.GPIO.PowerPin,
	})
	tracker.SetMQTTConnected(client.IsConnected())

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Session:    session,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := client.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event session=%s", session)
	}

	// Start HTTP status server
	if cfg.HTTP != "" {
		srv := web.New(cfg.HTTP, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP)
	}

	inbound := make(chan mqtt.Message, 256)
	if err := client.Subscribe(mqtt.InboundTopics(), inbound); err != nil {
		log.Printf("mqtt: subscribe: %v", err)
	}

	log.Printf("started: tick=%v broker=%s heartbeat=%v motors=%d", cfg.Tick, cfg.MQTT.Broker, cfg.Heartbeat, len(cfg.ChassisMotors))

	ticker := time.NewTicker(cfg.Tick)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	l := &loop{
		ctrl:       ctrl,
		shooter:    shooter,
		transforms: transforms,
		publisher:  client,
		mqttStatus: client,
		tracker:    tracker,
		power:      power,
		session:    session,
		heartbeat:  cfg.Heartbeat,
		now:        time.Now,
	}
	return l.run(ticker.C, sigCh, inbound)
}

// applyFlags overlays command-line flags that were set explicitly and
// re-validates the result.
func applyFlags(cfg *config.Config, cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("broker") {
		cfg.MQTT.Broker = flagBroker
	}
	if flags.Changed("tick") {
		cfg.Tick = flagTick
	}
	if flags.Changed("http") {
		cfg.HTTP = flagHTTP
		if flagHTTP == "off" {
			cfg.HTTP = ""
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

// newController builds the command senders on top of sink and wires them
// into a controller. The shooter is returned so referee power flags can
// reach it.
func newController(cfg *config.Config, sink command.Sink, transforms logic.Transformer) (*logic.Controller, *command.Shooter) {
	shooter := command.NewShooter(sink, mqtt.TopicShooterCmd)
	d := cfg.Detectors
	sf := logic.Surfaces{
		Chassis:    command.NewChassis(sink, mqtt.TopicChassisCmd),
		Gimbal:     command.NewGimbal(sink, mqtt.TopicGimbalCmd),
		Shooter:    shooter,
		Cover:      command.NewCover(sink, mqtt.TopicCoverCmd, cfg.Cover.OnPos, cfg.Cover.OffPos),
		Detection:  command.NewDetectionSwitch(d.Armor, sink, mqtt.DetectionTopic(d.Armor)),
		Buff:       command.NewDetectionSwitch(d.Buff, sink, mqtt.DetectionTopic(d.Buff)),
		BuffType:   command.NewDetectionSwitch(d.BuffType, sink, mqtt.DetectionTopic(d.BuffType)),
		Exposure:   command.NewDetectionSwitch(d.Exposure, sink, mqtt.DetectionTopic(d.Exposure)),
		Transforms: transforms,
	}
	return logic.NewController(cfg.Logic(), sf), shooter
}
