package web

import (
	"sync/atomic"
	"time"

	"stratux-hud/internal/ahrs"
	"stratux-hud/internal/scheduler"
	"stratux-hud/internal/traffic"
)

// OrientationSource is the read side of the orientation provider.
type OrientationSource interface {
	DataSource() ahrs.DataSource
	Available() bool
	Orientation() ahrs.Snapshot
	Capabilities() ahrs.Capabilities
}

type TaskSource interface {
	Snapshot() []scheduler.TaskSnapshot
}

type TrafficCounter interface {
	Len() int
}

type TrafficClientSource interface {
	Snapshot() traffic.ClientSnapshot
}

// StatusSource supplies the body of /api/status.
type StatusSource interface {
	Snapshot(nowUTC time.Time) StatusSnapshot
}

// Status gathers diagnostics from the running components. Any component may
// be nil; its section is then omitted.
type Status struct {
	startUnixNano int64
	framesDrawn   uint64
	lastFrameNano int64

	orientation OrientationSource
	tasks       TaskSource
	traffic     TrafficCounter
	client      atomic.Value // TrafficClientSource
}

func NewStatus(orientation OrientationSource, tasks TaskSource, store TrafficCounter) *Status {
	s := &Status{
		orientation: orientation,
		tasks:       tasks,
		traffic:     store,
	}
	atomic.StoreInt64(&s.startUnixNano, time.Now().UTC().UnixNano())
	return s
}

// SetTrafficClient attaches the websocket client once it exists.
func (s *Status) SetTrafficClient(c TrafficClientSource) {
	if c == nil {
		return
	}
	s.client.Store(c)
}

// MarkFrame counts one rendered frame.
func (s *Status) MarkFrame(nowUTC time.Time) {
	if nowUTC.IsZero() {
		nowUTC = time.Now().UTC()
	}
	atomic.StoreInt64(&s.lastFrameNano, nowUTC.UnixNano())
	atomic.AddUint64(&s.framesDrawn, 1)
}

type StatusSnapshot struct {
	Service      string                   `json:"service"`
	NowUTC       string                   `json:"now_utc"`
	UptimeSec    int64                    `json:"uptime_sec"`
	DataSource   string                   `json:"data_source"`
	Available    bool                     `json:"available"`
	Orientation  *ahrs.Snapshot           `json:"orientation,omitempty"`
	Capabilities ahrs.Capabilities        `json:"capabilities"`
	Tasks        []scheduler.TaskSnapshot `json:"tasks"`
	TrafficCount int                      `json:"traffic_count"`
	TrafficFeed  *traffic.ClientSnapshot  `json:"traffic_feed,omitempty"`
	FramesDrawn  uint64                   `json:"frames_drawn"`
	LastFrameUTC string                   `json:"last_frame_utc,omitempty"`
}

func (s *Status) Snapshot(nowUTC time.Time) StatusSnapshot {
	if nowUTC.IsZero() {
		nowUTC = time.Now().UTC()
	}
	start := time.Unix(0, atomic.LoadInt64(&s.startUnixNano)).UTC()
	lastFrame := atomic.LoadInt64(&s.lastFrameNano)

	snap := StatusSnapshot{
		Service:     "stratux-hud",
		NowUTC:      nowUTC.UTC().Format(time.RFC3339Nano),
		UptimeSec:   int64(nowUTC.Sub(start).Seconds()),
		DataSource:  string(ahrs.DataSourceNone),
		Tasks:       []scheduler.TaskSnapshot{},
		FramesDrawn: atomic.LoadUint64(&s.framesDrawn),
	}
	if lastFrame != 0 {
		snap.LastFrameUTC = time.Unix(0, lastFrame).UTC().Format(time.RFC3339Nano)
	}

	if s.orientation != nil {
		snap.DataSource = string(s.orientation.DataSource())
		snap.Available = s.orientation.Available()
		snap.Capabilities = s.orientation.Capabilities()
		if snap.Available {
			o := s.orientation.Orientation()
			snap.Orientation = &o
		}
	}
	if s.tasks != nil {
		if tasks := s.tasks.Snapshot(); tasks != nil {
			snap.Tasks = tasks
		}
	}
	if s.traffic != nil {
		snap.TrafficCount = s.traffic.Len()
	}
	if c, ok := s.client.Load().(TrafficClientSource); ok {
		feed := c.Snapshot()
		snap.TrafficFeed = &feed
	}
	return snap
}
