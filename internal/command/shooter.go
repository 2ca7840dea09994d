package command

import (
	"time"

	"github.com/sweeney/cover-manual/internal/logic"
)

// ShooterMessage is the shooter command as sent on the wire.
type ShooterMessage struct {
	Timestamp string               `json:"timestamp"`
	Mode      logic.ShootMode      `json:"mode"`
	Frequency logic.ShootFrequency `json:"frequency"`
}

// Shooter is the shooter command sender. It tracks the referee's
// shooter-power flag so a fault check can drop out of PUSH.
type Shooter struct {
	sink    Sink
	topic   string
	msg     ShooterMessage
	powered bool

	lastFault time.Time
}

// NewShooter creates a stopped shooter sender at the LOW heat tier. Shooter
// power is assumed on until the referee reports otherwise.
func NewShooter(sink Sink, topic string) *Shooter {
	return &Shooter{
		sink:    sink,
		topic:   topic,
		msg:     ShooterMessage{Mode: logic.ShootStop, Frequency: logic.FreqLow},
		powered: true,
	}
}

func (s *Shooter) SetMode(mode logic.ShootMode) { s.msg.Mode = mode }
func (s *Shooter) Mode() logic.ShootMode        { return s.msg.Mode }

func (s *Shooter) SetShootFrequency(freq logic.ShootFrequency) { s.msg.Frequency = freq }
func (s *Shooter) ShootFrequency() logic.ShootFrequency        { return s.msg.Frequency }

// SetPowered records the referee shooter-power flag.
func (s *Shooter) SetPowered(on bool) { s.powered = on }

// Powered reports the last referee shooter-power flag.
func (s *Shooter) Powered() bool { return s.powered }

// CheckError forces READY while the shooter has no power.
func (s *Shooter) CheckError(now time.Time) {
	if s.powered {
		return
	}
	if s.msg.Mode == logic.ShootPush {
		s.lastFault = now
	}
	s.msg.Mode = logic.ShootReady
}

// LastFault returns when a push was last refused, or the zero time.
func (s *Shooter) LastFault() time.Time { return s.lastFault }

// Message returns the command that the next SendCommand will publish.
func (s *Shooter) Message(now time.Time) ShooterMessage {
	msg := s.msg
	msg.Timestamp = stamp(now)
	return msg
}

// SendCommand publishes the current shooter command.
func (s *Shooter) SendCommand(now time.Time) error {
	return send(s.sink, s.topic, s.Message(now))
}
