// Command devicetrackerd wires the device-tracking core's packages into a
// single running process: PHY registry, device registry, location arbiter,
// IPC-supervised capture helpers, and the OUI resolver, with the
// serialization surface exposed for callers that want a snapshot.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/sensorcore/devicetracker/internal/devicetracker"
	"github.com/sensorcore/devicetracker/internal/dtlog"
	"github.com/sensorcore/devicetracker/internal/frame"
	"github.com/sensorcore/devicetracker/internal/globalreg"
	"github.com/sensorcore/devicetracker/internal/gps"
	"github.com/sensorcore/devicetracker/internal/ipc"
	"github.com/sensorcore/devicetracker/internal/manuf"
	"github.com/sensorcore/devicetracker/internal/manuf/migrations"
	"github.com/sensorcore/devicetracker/internal/phy"
	"github.com/sensorcore/devicetracker/internal/phy/dot11"
	"github.com/sensorcore/devicetracker/internal/serialize"
	"github.com/sensorcore/devicetracker/internal/serialize/jsonenc"
)

var (
	gpsConfig      = flag.String("gps", "", "GPS provider config string (driver:opt=val,...)")
	manufDBPath    = flag.String("manuf-db", "manuf.db", "path to the OUI/manufacturer sqlite database")
	idleExpiration = flag.Duration("idle-expiration", 5*time.Minute, "device idle expiration before removal from the registry")
	maxDevices     = flag.Int("max-devices", 0, "maximum tracked devices before oldest are evicted (0 disables capping)")
	tickInterval   = flag.Duration("tick-interval", 10*time.Second, "interval between idle/cap sweep ticks")
	ipcSearchPath  = flag.String("ipc-search-path", "/usr/local/bin:/usr/bin:/bin", "search path for supervised capture helper binaries")
	captureHelper  = flag.String("capture-helper", "", "path or name of a supervised capture-helper binary to launch (spec §4.6); empty disables")
	captureArgs    = flag.String("capture-helper-args", "", "space-separated arguments passed to the capture helper")
)

func main() {
	flag.Parse()
	dtlog.Logf("devicetrackerd starting")

	globals := globalreg.New()

	manufDB, err := manuf.Open(*manufDBPath, migrations.FS)
	if err != nil {
		log.Fatalf("open manuf db: %v", err)
	}
	globals.RegisterLifetime(manufDBLifetime{manufDB})

	phyRegistry := phy.NewRegistry()
	if _, err := phyRegistry.Register(dot11.Name, dot11.New()); err != nil {
		log.Fatalf("register dot11 phy: %v", err)
	}

	deviceRegistry := devicetracker.NewRegistry(phyRegistry)

	arbiter := gps.NewArbiter()
	arbiter.RegisterPrototype("serial", 100, gps.SerialBuilder)
	arbiter.RegisterPrototype("gpsd", 90, gps.GpsdBuilder)
	arbiter.RegisterPrototype("web", 50, gps.WebBuilder)
	arbiter.RegisterPrototype("virtual", 10, gps.VirtualBuilder)
	if *gpsConfig != "" {
		if _, err := arbiter.Create(*gpsConfig); err != nil {
			log.Fatalf("create gps provider from %q: %v", *gpsConfig, err)
		}
	}

	ipcManager := ipc.NewManager(nil)
	if *captureHelper != "" {
		var args []string
		if *captureArgs != "" {
			args = strings.Fields(*captureArgs)
		}
		searchPath := strings.Split(*ipcSearchPath, ":")
		child, err := ipcManager.Launch(ipc.LaunchConfig{
			Path:        *captureHelper,
			Args:        args,
			Variant:     ipc.VariantKismet,
			SearchPath:  searchPath,
			TrackerFree: true,
		})
		if err != nil {
			log.Fatalf("launch capture helper %q: %v", *captureHelper, err)
		}
		dtlog.Logf("launched capture helper %q pid=%d", *captureHelper, child.Pid)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		runMaintenanceLoop(ctx, deviceRegistry, *tickInterval, *idleExpiration, *maxDevices)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		reapLoop(ctx, ipcManager, *tickInterval)
	}()

	<-ctx.Done()
	dtlog.Logf("devicetrackerd shutting down")

	if err := ipcManager.EnsureAllKilled(2*time.Second, 10*time.Second); err != nil {
		dtlog.Logf("ipc shutdown: %v", err)
	}
	globals.Shutdown()

	wg.Wait()
	dtlog.Logf("devicetrackerd stopped")
}

// runMaintenanceLoop periodically sweeps the device registry for idle and
// over-cap devices (spec §4.3). GPS attachment is not done here; it happens
// per frame in ClassifyAndUpdate.
func runMaintenanceLoop(ctx context.Context, reg *devicetracker.Registry, tick, idleExpiration time.Duration, maxDevices int) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			ts := now.Unix()
			if removed := reg.TickIdle(ts, int64(idleExpiration.Seconds())); removed > 0 {
				dtlog.Logf("maintenance: expired %d idle devices", removed)
			}
			if maxDevices > 0 {
				if removed := reg.TickCap(ts, maxDevices); removed > 0 {
					dtlog.Logf("maintenance: evicted %d devices over cap", removed)
				}
			}
		}
	}
}

// reapLoop periodically reclaims exited capture-helper children (spec §4.6's
// "periodic supervisor task").
func reapLoop(ctx context.Context, mgr *ipc.Manager, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := mgr.Reap(); n > 0 {
				dtlog.Logf("ipc: reaped %d exited children", n)
			}
		}
	}
}

// ClassifyAndUpdate is the frame-arrival entry point a capture driver calls
// into: PHY classification (spec §4.2), GPS attachment when the frame lacks
// its own location (spec §4.5), then the common enrichment pipeline (spec
// §4.4). It is the wiring a real capture source would drive; this binary
// carries no capture source itself (out of scope).
func ClassifyAndUpdate(ctx context.Context, phyRegistry *phy.Registry, arbiter *gps.Arbiter, reg *devicetracker.Registry, fr *frame.Frame, source uuid.UUID) (*devicetracker.Device, error) {
	phyID, info, ok := phyRegistry.Classify(fr)
	if !ok {
		return nil, nil
	}
	arbiter.Attach(ctx, fr)
	return reg.UpdateCommon(phyID, info.SourceMac, fr, info, source, devicetracker.FlagAll)
}

// Snapshot renders every tracked device's summary view as JSON, the entry
// point a management interface would call into (spec §6.7).
func Snapshot(reg *devicetracker.Registry) ([]byte, error) {
	var w snapshotWorker
	reg.MatchAll(&w)
	root := serialize.Wrap("devices", serialize.Node{Name: "devices", Children: w.nodes})
	return jsonenc.Encode(root)
}

// AllPhysSnapshot renders every registered PHY's packet counters alongside
// its rolling device-creation-rate summary (spec §6.7's all-phys endpoint,
// enriched per internal/devicetracker/phystats.go).
func AllPhysSnapshot(phyRegistry *phy.Registry, reg *devicetracker.Registry) ([]byte, error) {
	root := serialize.AllPhys(phyRegistry.All(), reg.PhyStats)
	return jsonenc.Encode(root)
}

type snapshotWorker struct {
	nodes []serialize.Node
}

func (w *snapshotWorker) Match(d *devicetracker.Device) {
	w.nodes = append(w.nodes, serialize.DeviceSummary(d, nil))
}

func (w *snapshotWorker) Finalize() {}

type manufDBLifetime struct{ db *manuf.DB }

func (m manufDBLifetime) Shutdown() {
	if err := m.db.Close(); err != nil {
		dtlog.Logf("manuf db close: %v", err)
	}
}

