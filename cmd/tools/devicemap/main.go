// Command devicemap renders a device registry snapshot as a standalone
// ECharts HTML page: device locations on a scatter plot and per-PHY packet
// counters on a bar chart. The registry it renders is always a synthetic
// population of -seed devices (default 40); the tool reads no live capture
// source or saved snapshot.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/google/uuid"

	"github.com/sensorcore/devicetracker/internal/devicetracker"
	"github.com/sensorcore/devicetracker/internal/element"
	"github.com/sensorcore/devicetracker/internal/frame"
	"github.com/sensorcore/devicetracker/internal/phy"
)

var (
	output    = flag.String("o", "devicemap.html", "output HTML path")
	seedCount = flag.Int("seed", 40, "number of synthetic devices to populate when no live source is wired")
	centerLat = flag.Float64("lat", 37.7749, "synthetic population center latitude")
	centerLon = flag.Float64("lon", -122.4194, "synthetic population center longitude")
	spreadDeg = flag.Float64("spread", 0.01, "synthetic population spread in degrees")
)

func main() {
	flag.Parse()

	phyRegistry := phy.NewRegistry()
	phyID, err := phyRegistry.Register("IEEE802.11", stubClassifier{})
	if err != nil {
		log.Fatalf("register phy: %v", err)
	}
	reg := devicetracker.NewRegistry(phyRegistry)

	seedSyntheticDevices(reg, phyID, *seedCount, *centerLat, *centerLon, *spreadDeg)

	page := components.NewPage()
	page.AddCharts(
		deviceLocationScatter(reg),
		phyCountersBar(phyRegistry),
	)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		log.Fatalf("render page: %v", err)
	}
	if err := os.WriteFile(*output, buf.Bytes(), 0o644); err != nil {
		log.Fatalf("write %s: %v", *output, err)
	}
	log.Printf("wrote %s", *output)
}

// seedSyntheticDevices populates reg with count devices scattered around
// (centerLat, centerLon), each carrying a single located frame.
func seedSyntheticDevices(reg *devicetracker.Registry, phyID int32, count int, centerLat, centerLon, spread float64) {
	rng := rand.New(rand.NewSource(1))
	now := time.Now().Unix()

	for i := 0; i < count; i++ {
		octets := [6]byte{0x02, 0x00, 0x00, byte(i >> 16), byte(i >> 8), byte(i)}
		mac := element.MacFromBytes(octets)

		fr := &frame.Frame{
			Timestamp:   now,
			LengthBytes: 128 + rng.Intn(800),
			Kind:        frame.KindData,
			HasSignal:   true,
			SignalDBM:   int32(-30 - rng.Intn(60)),
			GPS: &frame.GPSFix{
				Lat:     centerLat + (rng.Float64()*2-1)*spread,
				Lon:     centerLon + (rng.Float64()*2-1)*spread,
				FixType: 3,
				Time:    now,
				Valid:   true,
			},
		}
		info := frame.CommonInfo{SourceMac: mac, BasicTypeSet: 1}

		if _, err := reg.UpdateCommon(phyID, mac, fr, info, uuid.New(), devicetracker.FlagAll); err != nil {
			log.Printf("seed device %d: %v", i, err)
		}
	}
}

// deviceLocationScatter plots every device's last known fix.
func deviceLocationScatter(reg *devicetracker.Registry) *charts.Scatter {
	var w locationWorker
	reg.MatchAll(&w)

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Device Locations", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Tracked Devices", Subtitle: fmt.Sprintf("count=%d", len(w.points))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Longitude", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Latitude", NameLocation: "middle", NameGap: 30}),
	)
	scatter.AddSeries("devices", w.points, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
	return scatter
}

type locationWorker struct {
	points []opts.ScatterData
}

func (w *locationWorker) Match(d *devicetracker.Device) {
	if !d.Location.LastValid {
		return
	}
	w.points = append(w.points, opts.ScatterData{Value: []interface{}{d.Location.LastLon, d.Location.LastLat, d.Packets}})
}

func (w *locationWorker) Finalize() {}

// phyCountersBar charts packet throughput per registered PHY.
func phyCountersBar(reg *phy.Registry) *charts.Bar {
	counters := reg.All()

	names := make([]string, len(counters))
	packets := make([]opts.BarData, len(counters))
	dataPackets := make([]opts.BarData, len(counters))
	for i, c := range counters {
		names[i] = c.Name
		packets[i] = opts.BarData{Value: c.Packets}
		dataPackets[i] = opts.BarData{Value: c.DataPackets}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "PHY Packet Counters"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(names).
		AddSeries("packets", packets).
		AddSeries("data_packets", dataPackets)
	return bar
}

// stubClassifier claims every frame handed to it, standing in for a real
// PHY decoder in this seeding-only tool.
type stubClassifier struct{}

func (stubClassifier) Classify(fr *frame.Frame) (frame.CommonInfo, bool) {
	return frame.CommonInfo{}, true
}
