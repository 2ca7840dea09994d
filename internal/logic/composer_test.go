package logic

import (
	"errors"
	"testing"
	"time"
)

func TestComposeSendsEverySurface(t *testing.T) {
	cfg := DefaultConfig()
	w := NewWheelWatchdog(nil)
	c := NewComposer(NewDocking(cfg), w)
	f := NewFakeSurfaces()
	f.Transforms.Set(BaseFrame, CoverFrame, QuaternionFromRPY(0, 0, 0))

	tel, err := c.Compose(&State{}, f.Surfaces(), time.Unix(10, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Chassis.Sent != 1 || f.Gimbal.Sent != 1 || f.Shooter.Sent != 1 || f.Cover.Sent != 1 {
		t.Errorf("expected one send per surface, got %d/%d/%d/%d",
			f.Chassis.Sent, f.Gimbal.Sent, f.Shooter.Sent, f.Cover.Sent)
	}
	if tel.CoverOpen || tel.WheelsOffline || tel.DetTarget != TargetArmor {
		t.Errorf("unexpected telemetry %+v", tel)
	}
}

func TestComposeContinuesAfterErrors(t *testing.T) {
	cfg := DefaultConfig()
	c := NewComposer(NewDocking(cfg), NewWheelWatchdog(nil))
	f := NewFakeSurfaces()
	sendErr := errors.New("bus down")
	f.Chassis.SendError = sendErr

	_, err := c.Compose(&State{}, f.Surfaces(), time.Unix(10, 0))
	if !errors.Is(err, ErrTransformUnavailable) {
		t.Errorf("expected transform error in %v", err)
	}
	if !errors.Is(err, sendErr) {
		t.Errorf("expected send error in %v", err)
	}
	if f.Gimbal.Sent != 1 || f.Shooter.Sent != 1 || f.Cover.Sent != 1 {
		t.Error("remaining surfaces must still be sent")
	}
}

func TestComposeDetectionTarget(t *testing.T) {
	cfg := DefaultConfig()
	c := NewComposer(NewDocking(cfg), NewWheelWatchdog(nil))
	f := NewFakeSurfaces()
	f.Transforms.Set(BaseFrame, CoverFrame, QuaternionFromRPY(0, 0, 0))
	f.Detection.TargetValue = TargetSmallBuff
	f.BuffType.TargetValue = TargetLargeBuff

	tel, _ := c.Compose(&State{}, f.Surfaces(), time.Unix(10, 0))
	if tel.DetTarget != TargetLargeBuff {
		t.Errorf("expected buff type LARGE_BUFF, got %s", tel.DetTarget)
	}
}

func TestComposeReportsWheelLatch(t *testing.T) {
	cfg := DefaultConfig()
	w := NewWheelWatchdog([]string{"lf", "rf"})
	c := NewComposer(NewDocking(cfg), w)
	f := NewFakeSurfaces()
	t0 := time.Unix(100, 0)

	w.OnPowerTransition(false, true, t0)
	w.OnTelemetry([]ModuleReading{{Name: "rf", Online: false}})

	tel, _ := c.Compose(&State{}, f.Surfaces(), t0.Add(time.Second))
	if !tel.WheelsOffline {
		t.Error("expected wheels offline inside the grace window")
	}
}
