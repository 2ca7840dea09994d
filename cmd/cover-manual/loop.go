package main

import (
	"log"
	"os"
	"syscall"
	"time"

	"github.com/sweeney/cover-manual/internal/command"
	"github.com/sweeney/cover-manual/internal/gpio"
	"github.com/sweeney/cover-manual/internal/logic"
	"github.com/sweeney/cover-manual/internal/mqtt"
	"github.com/sweeney/cover-manual/internal/status"
	"github.com/sweeney/cover-manual/internal/tf"
)

// errLogInterval bounds how often a persisting error is logged.
const errLogInterval = time.Second

// loop is the single goroutine that owns the controller. Inbound messages,
// ticks and signals are all handled here, so nothing below it locks.
type loop struct {
	ctrl       *logic.Controller
	shooter    *command.Shooter
	transforms *tf.Buffer
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	power      gpio.Reader // nil when the power-sense line is disabled
	session    string
	heartbeat  time.Duration
	now        func() time.Time

	chassisPowered bool
	shooterPowered bool
	powerKnown     bool
	lastHeartbeat  time.Time

	tickErrs    limiter
	refereeErrs limiter
	inboundErrs limiter
	gpioErrs    limiter
}

// limiter lets a log line through when its message changes or when
// errLogInterval has passed since the last one.
type limiter struct {
	last string
	at   time.Time
}

func (l *limiter) allow(msg string, now time.Time) bool {
	if msg == l.last && now.Sub(l.at) < errLogInterval {
		return false
	}
	l.last = msg
	l.at = now
	return true
}

func (l *loop) run(tick <-chan time.Time, sig <-chan os.Signal, inbound <-chan mqtt.Message) error {
	l.lastHeartbeat = l.now()
	l.shooterPowered = true

	for {
		select {
		case s := <-sig:
			l.shutdown(s)
			return nil

		case m := <-inbound:
			l.handleInbound(m, l.now())

		case <-tick:
			l.tick(l.now())
		}
	}
}

func (l *loop) shutdown(s os.Signal) {
	log.Printf("received %v, shutting down", s)
	signalName := "UNKNOWN"
	if s == syscall.SIGINT {
		signalName = "SIGINT"
	} else if s == syscall.SIGTERM {
		signalName = "SIGTERM"
	}
	event := mqtt.SystemEvent{
		Timestamp: l.now(),
		Event:     "SHUTDOWN",
		Reason:    signalName,
		Session:   l.session,
		Retained:  true,
	}
	if l.tracker != nil {
		if l.mqttStatus != nil {
			l.tracker.SetMQTTConnected(l.mqttStatus.IsConnected())
			l.tracker.SetMQTTDropped(l.mqttStatus.Dropped())
		}
		snap := l.tracker.Snapshot()
		event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
	}
	if err := l.publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	} else {
		log.Printf("published shutdown event")
	}
}

// handleInbound routes one MQTT message by topic. Malformed payloads are
// logged and dropped.
func (l *loop) handleInbound(m mqtt.Message, t time.Time) {
	var err error
	switch m.Topic {
	case mqtt.TopicDbus:
		var in logic.Input
		if in, err = mqtt.ParseDbus(m.Payload, t); err == nil {
			l.ctrl.Update(in)
		}

	case mqtt.TopicRobotStatus:
		var rs mqtt.RobotStatus
		if rs, err = mqtt.ParseRobotStatus(m.Payload); err == nil {
			l.shooterPowered = rs.ShooterOutput
			l.shooter.SetPowered(rs.ShooterOutput)
			// The power-sense line, when present, owns the chassis flag.
			if l.power == nil {
				l.setChassisPower(rs.ChassisOutput, t)
			} else if l.tracker != nil {
				l.tracker.SetPower(l.chassisPowered, l.shooterPowered)
			}
		}

	case mqtt.TopicWheelReadings:
		var readings []logic.ModuleReading
		if readings, err = mqtt.ParseWheelReadings(m.Payload); err == nil {
			l.ctrl.OnWheelReadings(readings)
		}

	case mqtt.TopicTransforms:
		var s mqtt.TransformSample
		if s, err = mqtt.ParseTransform(m.Payload, t); err == nil {
			l.transforms.Set(s.Target, s.Source, s.Rotation, s.Stamp)
		}

	case mqtt.TopicTrack:
		var id int
		if id, err = mqtt.ParseTrack(m.Payload); err == nil {
			l.ctrl.OnTrack(id)
		}

	default:
		log.Printf("mqtt: unexpected topic %s", m.Topic)
		return
	}

	if err != nil && l.inboundErrs.allow(err.Error(), t) {
		log.Printf("mqtt: %s: %v", m.Topic, err)
	}
}

func (l *loop) setChassisPower(on bool, t time.Time) {
	if !l.powerKnown || on != l.chassisPowered {
		log.Printf("power: chassis output %v", on)
	}
	l.powerKnown = true
	l.chassisPowered = on
	l.ctrl.OnPowerStatus(on, t)
	if l.tracker != nil {
		l.tracker.SetPower(l.chassisPowered, l.shooterPowered)
	}
}

func (l *loop) pollPower(t time.Time) {
	if l.power == nil {
		return
	}
	on, err := l.power.Read()
	if err != nil {
		if l.gpioErrs.allow(err.Error(), t) {
			log.Printf("gpio read error: %v", err)
		}
		return
	}
	if l.powerKnown && on == l.chassisPowered {
		return
	}
	l.setChassisPower(on, t)
}

func (l *loop) tick(t time.Time) {
	l.pollPower(t)

	tel, err := l.ctrl.Tick(t)
	if err != nil {
		if l.tickErrs.allow(err.Error(), t) {
			log.Printf("tick: %v", err)
		}
		if l.tracker != nil {
			l.tracker.SetError(err, t)
		}
	}

	// Don't crash on publish failure
	if payload, err := mqtt.FormatReferee(tel, t); err != nil {
		log.Printf("referee: %v", err)
	} else if err := l.publisher.Publish(mqtt.TopicReferee, payload); err != nil {
		if l.refereeErrs.allow(err.Error(), t) {
			log.Printf("referee publish error: %v", err)
		}
	}

	if l.tracker == nil {
		return
	}
	wheels, _ := l.ctrl.Wheels()
	l.tracker.Update(l.ctrl.Flags(), tel, wheels)
	if l.mqttStatus != nil {
		l.tracker.SetMQTTConnected(l.mqttStatus.IsConnected())
		l.tracker.SetMQTTDropped(l.mqttStatus.Dropped())
	}

	if l.heartbeat > 0 && t.Sub(l.lastHeartbeat) >= l.heartbeat {
		l.lastHeartbeat = t
		snap := l.tracker.Snapshot()
		log.Printf("heartbeat: uptime=%v ticks=%d control=%s wheels_offline=%v",
			t.Sub(snap.StartTime).Truncate(time.Second), snap.Ticks, snap.Flags.Control, tel.WheelsOffline)
		hbEvent := mqtt.SystemEvent{
			Timestamp:  t,
			Event:      "HEARTBEAT",
			Session:    l.session,
			RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
		}
		if err := l.publisher.PublishSystem(hbEvent); err != nil {
			log.Printf("heartbeat publish error: %v", err)
		}
	}
}
