package command

import (
	"encoding/json"
	"log"

	"github.com/sweeney/cover-manual/internal/logic"
)

// DetectionRequest asks a detector to switch target type.
type DetectionRequest struct {
	Target logic.DetectionTarget `json:"target"`
}

// DetectionSwitch is a fire-and-forget target switch for one detector. The
// local target changes immediately; the request result is never awaited.
type DetectionSwitch struct {
	name   string
	sink   Sink
	topic  string
	target logic.DetectionTarget
}

// NewDetectionSwitch creates a switch targeting armor.
func NewDetectionSwitch(name string, sink Sink, topic string) *DetectionSwitch {
	return &DetectionSwitch{name: name, sink: sink, topic: topic, target: logic.TargetArmor}
}

// Name returns the detector name.
func (d *DetectionSwitch) Name() string { return d.name }

func (d *DetectionSwitch) SetTargetType(target logic.DetectionTarget) { d.target = target }
func (d *DetectionSwitch) Target() logic.DetectionTarget              { return d.target }

// CallService publishes the current target. Failures are logged only.
func (d *DetectionSwitch) CallService() {
	payload, err := json.Marshal(DetectionRequest{Target: d.target})
	if err != nil {
		log.Printf("detection: %s: encode request: %v", d.name, err)
		return
	}
	if err := d.sink.PublishRequest(d.topic, payload); err != nil {
		log.Printf("detection: %s: request %s failed: %v", d.name, d.target, err)
	}
}
