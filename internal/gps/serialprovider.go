package gps

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.bug.st/serial"

	"github.com/sensorcore/devicetracker/internal/dtlog"
	"github.com/sensorcore/devicetracker/internal/frame"
)

// SerialPort is the subset of go.bug.st/serial's Port this package needs,
// narrow enough to substitute a fake in tests (mirrors the teacher's
// MockSerialPort split against the full serial.Port interface).
type SerialPort interface {
	Read(p []byte) (int, error)
	Close() error
}

// SerialProvider reads simplified "lat,lon,alt,fixkind" text lines off a
// serial device and tracks the most recent fix; NMEA sentences are not
// parsed. It satisfies Provider.
type SerialProvider struct {
	name string
	port SerialPort

	mu      sync.Mutex
	last    frame.GPSFix
	readErr error

	stop chan struct{}
	done chan struct{}
}

// NewSerialProvider opens portName at baud and starts a background reader.
func NewSerialProvider(name, portName string, baud int) (*SerialProvider, error) {
	mode := &serial.Mode{BaudRate: baud}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("gps: open serial port %q: %w", portName, err)
	}
	return newSerialProviderWithPort(name, port), nil
}

func newSerialProviderWithPort(name string, port SerialPort) *SerialProvider {
	p := &SerialProvider{
		name: name,
		port: port,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go p.readLoop()
	return p
}

// SerialBuilder is the Builder registered under the "serial" driver kind
// (spec §6.5). Options: port=<device>, baud=<rate> (defaults to 4800).
func SerialBuilder(name string, opts map[string]string) (Provider, error) {
	portName, ok := opts["port"]
	if !ok || portName == "" {
		return nil, fmt.Errorf("gps serial: missing required option 'port'")
	}
	baud := 4800
	if raw, ok := opts["baud"]; ok {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("gps serial: invalid baud %q: %w", raw, err)
		}
		baud = v
	}
	return NewSerialProvider(name, portName, baud)
}

func (p *SerialProvider) readLoop() {
	defer close(p.done)

	scanner := bufio.NewScanner(p.port)
	for scanner.Scan() {
		select {
		case <-p.stop:
			return
		default:
		}

		fix, ok := parseFixLine(scanner.Text())
		if !ok {
			continue
		}
		fix.Provider = p.name

		p.mu.Lock()
		p.last = fix
		p.mu.Unlock()
	}
	if err := scanner.Err(); err != nil {
		dtlog.Logf("gps: serial provider %q read error: %v", p.name, err)
		p.mu.Lock()
		p.readErr = err
		p.mu.Unlock()
	}
}

// parseFixLine parses the simplified "lat,lon,alt,fixkind" wire format this
// provider expects from its serial peer.
func parseFixLine(line string) (frame.GPSFix, bool) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) != 4 {
		return frame.GPSFix{}, false
	}
	lat, err1 := strconv.ParseFloat(fields[0], 64)
	lon, err2 := strconv.ParseFloat(fields[1], 64)
	alt, err3 := strconv.ParseFloat(fields[2], 64)
	fixKind, err4 := strconv.Atoi(fields[3])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || fixKind < 2 {
		return frame.GPSFix{}, false
	}
	return frame.GPSFix{Lat: lat, Lon: lon, Alt: alt, FixType: fixKind, Valid: true}, true
}

func (p *SerialProvider) Poll(ctx context.Context) frame.GPSFix {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

func (p *SerialProvider) Name() string { return p.name }

func (p *SerialProvider) Close() error {
	close(p.stop)
	err := p.port.Close()
	<-p.done
	return err
}
