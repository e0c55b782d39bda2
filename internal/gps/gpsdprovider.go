package gps

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/sensorcore/devicetracker/internal/dtlog"
	"github.com/sensorcore/devicetracker/internal/frame"
)

// gpsdTPVReport is the subset of a gpsd TPV ("time-position-velocity")
// report this provider cares about. gpsd's JSON protocol has no published
// Go client in this corpus, so this provider speaks it directly over
// net.Conn.
type gpsdTPVReport struct {
	Class string  `json:"class"`
	Mode  int     `json:"mode"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Alt   float64 `json:"alt"`
	Speed float64 `json:"speed"`
	Track float64 `json:"track"`
	Epx   float64 `json:"epx"`
	Epy   float64 `json:"epy"`
	Time  string  `json:"time"`
}

// GpsdProvider polls a gpsd daemon's streaming JSON socket (the "?WATCH={}"
// protocol) for TPV reports and exposes the latest fix.
type GpsdProvider struct {
	name string
	addr string

	mu   sync.Mutex
	last frame.GPSFix

	conn net.Conn
	stop chan struct{}
	done chan struct{}
}

// NewGpsdProvider dials a gpsd daemon at addr ("host:port") and starts a
// background reader that feeds Poll.
func NewGpsdProvider(name, addr string) (*GpsdProvider, error) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("gps: dial gpsd %q: %w", addr, err)
	}
	if _, err := conn.Write([]byte(`?WATCH={"enable":true,"json":true};` + "\n")); err != nil {
		conn.Close()
		return nil, fmt.Errorf("gps: gpsd handshake %q: %w", addr, err)
	}
	p := &GpsdProvider{
		name: name,
		addr: addr,
		conn: conn,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go p.readLoop()
	return p, nil
}

// GpsdBuilder is the Builder registered under the "gpsd" driver kind (spec
// §6.5). Options: host=<addr>, port=<port> (defaults to 2947).
func GpsdBuilder(name string, opts map[string]string) (Provider, error) {
	host, ok := opts["host"]
	if !ok || host == "" {
		host = "localhost"
	}
	port := "2947"
	if raw, ok := opts["port"]; ok {
		if _, err := strconv.Atoi(raw); err != nil {
			return nil, fmt.Errorf("gps gpsd: invalid port %q: %w", raw, err)
		}
		port = raw
	}
	return NewGpsdProvider(name, net.JoinHostPort(host, port))
}

func (p *GpsdProvider) readLoop() {
	defer close(p.done)

	scanner := bufio.NewScanner(p.conn)
	for scanner.Scan() {
		select {
		case <-p.stop:
			return
		default:
		}

		var report gpsdTPVReport
		if err := json.Unmarshal(scanner.Bytes(), &report); err != nil {
			continue
		}
		if report.Class != "TPV" || report.Mode < 2 {
			continue
		}

		fix := frame.GPSFix{
			Lat:       report.Lat,
			Lon:       report.Lon,
			Alt:       report.Alt,
			Speed:     report.Speed,
			Heading:   report.Track,
			Precision: (report.Epx + report.Epy) / 2,
			FixType:   report.Mode,
			Provider:  p.name,
			Valid:     true,
		}
		if t, err := time.Parse(time.RFC3339, report.Time); err == nil {
			fix.Time = t.Unix()
		}

		p.mu.Lock()
		p.last = fix
		p.mu.Unlock()
	}
	if err := scanner.Err(); err != nil {
		dtlog.Logf("gps: gpsd provider %q read error: %v", p.name, err)
	}
}

func (p *GpsdProvider) Poll(ctx context.Context) frame.GPSFix {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

func (p *GpsdProvider) Name() string { return p.name }

func (p *GpsdProvider) Close() error {
	close(p.stop)
	err := p.conn.Close()
	<-p.done
	return err
}
