package gps

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGpsd accepts one connection, discards the ?WATCH handshake line, then
// writes report as a single TPV JSON line.
func fakeGpsd(t *testing.T, report string) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		reader := bufio.NewReader(conn)
		_, _ = reader.ReadString('\n') // consume the ?WATCH handshake
		conn.Write([]byte(report + "\n"))
		<-make(chan struct{})
	}()

	return ln.Addr().String()
}

func TestGpsdProviderParsesTPVReport(t *testing.T) {
	t.Parallel()

	addr := fakeGpsd(t, `{"class":"TPV","mode":3,"lat":48.8566,"lon":2.3522,"alt":35}`)

	p, err := NewGpsdProvider("test-gpsd", addr)
	require.NoError(t, err)
	defer p.Close()

	require.Eventually(t, func() bool {
		return p.Poll(context.Background()).Valid
	}, time.Second, time.Millisecond)

	fix := p.Poll(context.Background())
	assert.Equal(t, 48.8566, fix.Lat)
	assert.Equal(t, 2.3522, fix.Lon)
	assert.Equal(t, "test-gpsd", fix.Provider)
}

func TestGpsdProviderIgnoresNoFixMode(t *testing.T) {
	t.Parallel()

	addr := fakeGpsd(t, `{"class":"TPV","mode":1,"lat":1,"lon":1}`)

	p, err := NewGpsdProvider("test-gpsd", addr)
	require.NoError(t, err)
	defer p.Close()

	time.Sleep(50 * time.Millisecond)
	fix := p.Poll(context.Background())
	assert.False(t, fix.Valid)
}

func TestGpsdBuilderRejectsInvalidPort(t *testing.T) {
	t.Parallel()

	_, err := GpsdBuilder("gpsd", map[string]string{"host": "127.0.0.1", "port": "not-a-port"})
	assert.Error(t, err)
}

func TestNewGpsdProviderDialFailure(t *testing.T) {
	t.Parallel()

	_, err := NewGpsdProvider("gpsd", "127.0.0.1:1")
	assert.Error(t, err)
}
