package logic

import (
	"fmt"
	"math"
)

// Docking drives the supply cover and picks the chassis follow frame.
type Docking struct {
	supplyFrame    string
	wirelessFrame  string
	alignTolerance float64
	coverTolerance float64
}

// NewDocking creates the docking sequencer.
func NewDocking(cfg Config) *Docking {
	return &Docking{
		supplyFrame:    cfg.SupplyFrame,
		wirelessFrame:  cfg.WirelessFrame,
		alignTolerance: cfg.AlignTolerance,
		coverTolerance: cfg.CoverTolerance,
	}
}

// Run performs one docking step. A failed transform lookup leaves the cover
// command and confirmation state untouched for this tick and is returned
// wrapped with ErrTransformUnavailable.
func (d *Docking) Run(s *State, sf Surfaces) error {
	if s.Supply {
		return d.open(s, sf)
	}
	return d.close(s, sf)
}

func (d *Docking) open(s *State, sf Surfaces) error {
	sf.Chassis.SetFollowFrame(d.supplyFrame)
	sf.Chassis.SetMode(ChassisFollow)
	s.CoverClosed = false

	q, err := sf.Transforms.Lookup(BaseFrame, d.supplyFrame)
	if err != nil {
		return fmt.Errorf("docking align: %w", err)
	}
	_, _, yaw := q.RPY()
	if math.Abs(yaw) < d.alignTolerance {
		sf.Cover.On()
	}
	return nil
}

func (d *Docking) close(s *State, sf Surfaces) error {
	sf.Cover.Off()

	var err error
	if !s.CoverClosed {
		q, lerr := sf.Transforms.Lookup(BaseFrame, CoverFrame)
		if lerr != nil {
			err = fmt.Errorf("docking cover: %w", lerr)
		} else {
			_, pitch, _ := q.RPY()
			if pitch-sf.Cover.Position() > d.coverTolerance {
				sf.Chassis.SetFollowFrame(d.supplyFrame)
				sf.Chassis.SetMode(ChassisFollow)
			} else {
				s.CoverClosed = true
				sf.Chassis.SetFollowFrame(YawFrame)
			}
		}
	}

	if s.Wireless {
		sf.Chassis.SetFollowFrame(d.wirelessFrame)
		sf.Chassis.SetMode(ChassisFollow)
	} else if s.CoverClosed {
		sf.Chassis.SetFollowFrame(YawFrame)
	}
	return err
}
