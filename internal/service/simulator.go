package service

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"pool_monitor/internal/logger"
	"pool_monitor/internal/models"
)

// ----------- Simulation constants -----------
const (
	WaterBaseC     = 26.0 // water temperature the random walk is pulled toward
	WaterStepC     = 0.3  // max water change per tick
	AirBaseC       = 24.0
	AirSwingC      = 6.0 // day/night amplitude
	HumidityBase   = 55.0
	PHVoltageBase  = 2.45 // ~pH 7.2
	RSSIBase       = -62.0
	FaultChance    = 0.02 // probability of a disconnected-probe spike per tick
	FaultReadingC  = 85.0 // what a disconnected DS18B20 reports
	meanReversion  = 0.1
	voltageJitter  = 0.02
	rssiJitterDBm  = 4.0
	humidityJitter = 1.5
)

// readingIngester is the slice of Telemetry the simulator feeds.
type readingIngester interface {
	Ingest(ctx context.Context, reading models.SensorReading) (models.ReadingSnapshot, error)
}

// SimulatorService produces plausible pool readings for development.
type SimulatorService struct {
	telemetry readingIngester
	log       *logger.Logger
	rng       *rand.Rand

	started time.Time
	water   float64
}

// NewSimulatorService returns a simulator; a nil rng selects a time-seeded one.
func NewSimulatorService(telemetry readingIngester, log *logger.Logger, rng *rand.Rand) *SimulatorService {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SimulatorService{
		telemetry: telemetry,
		log:       log,
		rng:       rng,
		water:     WaterBaseC,
	}
}

// Run ticks at the given interval until ctx is canceled.
func (s *SimulatorService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if _, err := s.telemetry.Ingest(ctx, s.next(now)); err != nil {
				if ctx.Err() != nil {
					return
				}
				s.log.Warnw("simulator_ingest_failed", "err", err)
			}
		}
	}
}

// next builds the reading for one tick.
func (s *SimulatorService) next(now time.Time) models.SensorReading {
	if s.started.IsZero() {
		s.started = now
	}

	s.water = s.driftWater(s.water)
	water := s.water
	if s.rng.Float64() < FaultChance {
		water = FaultReadingC
	}

	return models.SensorReading{
		models.MetricWaterTemp: round2(water),
		models.MetricAirTemp:   round2(airTemp(now) + s.jitter(0.5)),
		models.MetricHumidity:  round2(clamp(HumidityBase+s.jitter(humidityJitter), 0, 100)),
		models.MetricPHVoltage: round2(PHVoltageBase + s.jitter(voltageJitter)),
		models.MetricRSSI:      math.Round(RSSIBase + s.jitter(rssiJitterDBm)),
		models.MetricUptime:    math.Floor(now.Sub(s.started).Seconds()),
	}
}

// driftWater takes one random-walk step pulled back toward WaterBaseC.
func (s *SimulatorService) driftWater(cur float64) float64 {
	next := cur + s.jitter(WaterStepC) + (WaterBaseC-cur)*meanReversion
	return clamp(next, WaterBaseC-6, WaterBaseC+6)
}

// airTemp follows a daily sine peaking mid-afternoon.
func airTemp(now time.Time) float64 {
	hour := float64(now.Hour()) + float64(now.Minute())/60
	return AirBaseC + AirSwingC*math.Sin((hour-9)/24*2*math.Pi)
}

// jitter returns a uniform value in [-amp, amp).
func (s *SimulatorService) jitter(amp float64) float64 {
	return (s.rng.Float64()*2 - 1) * amp
}

// helpers
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
