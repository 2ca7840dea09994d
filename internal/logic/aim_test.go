package logic

import (
	"math"
	"testing"
	"time"
)

func TestScanPointPitchPeriodic(t *testing.T) {
	for _, n := range []int{0, 1, 275, 550, 1099} {
		_, p0 := ScanPoint(n)
		_, p1 := ScanPoint(n + ScanPeriod)
		if math.Abs(p0-p1) > 1e-12 {
			t.Errorf("count %d: pitch %v != %v one period later", n, p0, p1)
		}
	}
}

func TestScanPointYawMonotonic(t *testing.T) {
	prev, _ := ScanPoint(0)
	for n := 1; n < 3*ScanPeriod; n++ {
		yaw, _ := ScanPoint(n)
		if yaw <= prev {
			t.Fatalf("yaw not increasing at %d: %v <= %v", n, yaw, prev)
		}
		prev = yaw
	}
}

func TestScanPointPitchRange(t *testing.T) {
	for n := 0; n < ScanPeriod; n++ {
		_, pitch := ScanPoint(n)
		if pitch < -1e-12 || pitch > 0.3+1e-12 {
			t.Fatalf("pitch %v out of [0, 0.3] at %d", pitch, n)
		}
	}
}

func TestAimScansUntilTracked(t *testing.T) {
	a := NewAimAssist()
	s := &State{}
	f := NewFakeSurfaces()
	sf := f.Surfaces()
	now := time.Unix(0, 0)

	for i := 0; i < 3; i++ {
		a.Pressing(s, sf, now)
	}
	if f.Gimbal.ModeValue != GimbalTraj {
		t.Errorf("expected TRAJ while scanning, got %s", f.Gimbal.ModeValue)
	}
	if s.ScanCount != 3 {
		t.Errorf("expected scan count 3, got %d", s.ScanCount)
	}
	wantYaw, wantPitch := ScanPoint(2)
	if f.Gimbal.TrajYaw != wantYaw || f.Gimbal.TrajPitch != wantPitch {
		t.Errorf("expected last point (%v, %v), got (%v, %v)", wantYaw, wantPitch, f.Gimbal.TrajYaw, f.Gimbal.TrajPitch)
	}
	if f.Shooter.ModeValue != ShootReady {
		t.Errorf("expected READY while scanning, got %s", f.Shooter.ModeValue)
	}
	if f.Chassis.ModeValue != ChassisRaw || f.Chassis.Power != PowerNormal {
		t.Errorf("expected RAW/NORMAL on activation, got %s/%s", f.Chassis.ModeValue, f.Chassis.Power)
	}

	s.TrackedID = 7
	a.Pressing(s, sf, now)
	if f.Gimbal.ModeValue != GimbalTrack || f.Shooter.ModeValue != ShootPush {
		t.Errorf("expected TRACK/PUSH once tracked, got %s/%s", f.Gimbal.ModeValue, f.Shooter.ModeValue)
	}
	if f.Shooter.ErrorChecks != 1 {
		t.Errorf("expected one fault check, got %d", f.Shooter.ErrorChecks)
	}

	a.Release(s, sf)
	if f.Gimbal.ModeValue != GimbalRate || f.Shooter.ModeValue != ShootReady {
		t.Errorf("expected RATE/READY after release, got %s/%s", f.Gimbal.ModeValue, f.Shooter.ModeValue)
	}
	if s.ScanCount != 0 || s.AimActive {
		t.Error("expected scan state reset after release")
	}
}

func TestAimKeepsGyroChassis(t *testing.T) {
	a := NewAimAssist()
	s := &State{Gyro: true}
	f := NewFakeSurfaces()
	f.Chassis.Power = PowerBurst

	a.Pressing(s, f.Surfaces(), time.Unix(0, 0))
	if f.Chassis.ModeValue != ChassisFollow || f.Chassis.Power != PowerBurst {
		t.Errorf("chassis must be left alone while gyro is on, got %s/%s", f.Chassis.ModeValue, f.Chassis.Power)
	}
}
