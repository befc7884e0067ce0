package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/plot"
	plotfont "gonum.org/v1/plot/font"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	vgdraw "gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/Aiting-for-you/hot-water-analysis-system/internal/dataset"
	"github.com/Aiting-for-you/hot-water-analysis-system/internal/habits"
)

// Renderer turns stage results into PNG bytes. One Renderer per run; it is
// cheap and carries only style plus the resolved font.
type Renderer struct {
	style Style
	font  string
}

// NewRenderer validates the style and registers its font, if any.
func NewRenderer(style Style) (*Renderer, error) {
	if style.Width <= 0 || style.Height <= 0 {
		return nil, fmt.Errorf("invalid chart size %v x %v", style.Width, style.Height)
	}
	fnt, err := style.loadFont()
	if err != nil {
		return nil, fmt.Errorf("load chart font: %w", err)
	}
	r := &Renderer{style: style}
	if style.FontPath != "" {
		r.font = string(fnt.Typeface)
	}
	return r, nil
}

// Hourly renders the per-hour mean bars with peak hours highlighted and a
// dashed threshold line, next to a building-by-hour mean heatmap.
func (r *Renderer) Hourly(h *habits.HourlyResult, b *habits.BuildingResult) ([]byte, error) {
	bars, err := r.newPlot("每小时平均用水量", "小时", "平均用水量 (T)")
	if err != nil {
		return nil, err
	}
	peaks := h.PeakSet()
	base := make(plotter.Values, 24)
	peak := make(plotter.Values, 24)
	labels := make([]string, 24)
	for hour, s := range h.Stats {
		labels[hour] = fmt.Sprintf("%d", hour)
		if peaks[hour] {
			peak[hour] = s.Mean
		} else {
			base[hour] = s.Mean
		}
	}
	if err := r.addBars(bars, base, plotutil.Color(0)); err != nil {
		return nil, err
	}
	if err := r.addBars(bars, peak, plotutil.Color(2)); err != nil {
		return nil, err
	}
	bars.NominalX(labels...)
	thr, err := plotter.NewLine(plotter.XYs{{X: -0.5, Y: h.Threshold}, {X: 23.5, Y: h.Threshold}})
	if err != nil {
		return nil, fmt.Errorf("threshold line: %w", err)
	}
	thr.LineStyle.Color = color.NRGBA{R: 0xcc, A: 0xff}
	thr.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	bars.Add(thr)
	bars.Legend.Add("高峰阈值", thr)
	bars.Legend.Top = true

	if b == nil || len(b.Buildings) == 0 {
		return r.encode([][]*plot.Plot{{bars}})
	}
	heat, err := r.newPlot("各楼栋每小时平均用水量", "小时", "楼栋")
	if err != nil {
		return nil, err
	}
	grid := &hourGrid{buildings: b.Buildings, means: b.HourMeans}
	heat.Add(plotter.NewHeatMap(grid, palette.Heat(12, 1)))
	heat.NominalY(b.Buildings...)
	return r.encode([][]*plot.Plot{{bars, heat}})
}

// Weekly renders mean usage per day of week, weekend bars in a second color.
func (r *Renderer) Weekly(w *habits.WeeklyResult) ([]byte, error) {
	p, err := r.newPlot("每周用水模式", "星期", "平均用水量 (T)")
	if err != nil {
		return nil, err
	}
	names := []string{"周一", "周二", "周三", "周四", "周五", "周六", "周日"}
	weekday := make(plotter.Values, 7)
	weekend := make(plotter.Values, 7)
	for d := 1; d <= 7; d++ {
		if d >= 6 {
			weekend[d-1] = w.DayStats[d].Mean
		} else {
			weekday[d-1] = w.DayStats[d].Mean
		}
	}
	if err := r.addBars(p, weekday, plotutil.Color(0)); err != nil {
		return nil, err
	}
	if err := r.addBars(p, weekend, plotutil.Color(3)); err != nil {
		return nil, err
	}
	p.NominalX(names...)
	return r.encode([][]*plot.Plot{{p}})
}

// Periods renders the share of total usage per period of day as a pie.
func (r *Renderer) Periods(res *habits.PeriodResult) ([]byte, error) {
	p, err := r.newPlot("分时段用水占比", "", "")
	if err != nil {
		return nil, err
	}
	p.HideAxes()
	var total float64
	for _, per := range dataset.Periods {
		total += res.Stats[per].Sum
	}
	if total <= 0 {
		return nil, fmt.Errorf("no usage to apportion")
	}
	start := 0.0
	for i, per := range dataset.Periods {
		frac := res.Stats[per].Sum / total
		w := &wedge{start: start, angle: frac * 2 * math.Pi, color: plotutil.Color(i)}
		p.Add(w)
		p.Legend.Add(fmt.Sprintf("%s %.1f%%", per, frac*100), w)
		start += w.angle
	}
	p.Legend.Top = true
	p.Legend.Left = true
	return r.encode([][]*plot.Plot{{p}})
}

// Buildings renders one box plot of hourly usage per building.
func (r *Renderer) Buildings(b *habits.BuildingResult) ([]byte, error) {
	p, err := r.newPlot("各楼栋用水量分布", "楼栋", "用水量 (T)")
	if err != nil {
		return nil, err
	}
	for i, name := range b.Buildings {
		box, err := plotter.NewBoxPlot(vg.Points(24), float64(i), plotter.Values(b.Usage[name]))
		if err != nil {
			return nil, fmt.Errorf("box plot %s: %w", name, err)
		}
		p.Add(box)
	}
	p.NominalX(b.Buildings...)
	return r.encode([][]*plot.Plot{{p}})
}

// Clusters renders each cluster's mean day shape as a line over its
// min/max band.
func (r *Renderer) Clusters(c *habits.ClusterResult) ([]byte, error) {
	if len(c.Labels) == 0 {
		return nil, fmt.Errorf("no clustered days")
	}
	p, err := r.newPlot("典型日用水模式", "小时", "用水量 (T)")
	if err != nil {
		return nil, err
	}
	for i, env := range c.Envelopes {
		if env.Days == 0 {
			continue
		}
		band := make(plotter.XYs, 0, 48)
		for h := 0; h < 24; h++ {
			band = append(band, plotter.XY{X: float64(h), Y: env.Min[h]})
		}
		for h := 23; h >= 0; h-- {
			band = append(band, plotter.XY{X: float64(h), Y: env.Max[h]})
		}
		poly, err := plotter.NewPolygon(band)
		if err != nil {
			return nil, fmt.Errorf("cluster band: %w", err)
		}
		poly.Color = translucent(plotutil.Color(i))
		poly.LineStyle.Width = 0
		p.Add(poly)

		mean := make(plotter.XYs, 24)
		for h := 0; h < 24; h++ {
			mean[h] = plotter.XY{X: float64(h), Y: env.Mean[h]}
		}
		line, err := plotter.NewLine(mean)
		if err != nil {
			return nil, fmt.Errorf("cluster mean: %w", err)
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("模式 %d (%d 天)", i+1, env.Days), line)
	}
	p.Legend.Top = true
	return r.encode([][]*plot.Plot{{p}})
}

// Placeholder produces a gray image carrying the failure text, so a run
// always yields one artifact per stage regardless of render errors.
func (r *Renderer) Placeholder(title string, cause error) []byte {
	const w, h = 960, 640
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}}, image.Point{}, draw.Src)
	d := font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(20, h/2),
	}
	d.DrawString(fmt.Sprintf("chart unavailable: %v", cause))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

func (r *Renderer) newPlot(title, x, y string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = x
	p.Y.Label.Text = y
	if r.font != "" {
		for _, st := range []*text.Style{
			&p.Title.TextStyle, &p.X.Label.TextStyle, &p.Y.Label.TextStyle,
			&p.X.Tick.Label, &p.Y.Tick.Label, &p.Legend.TextStyle,
		} {
			st.Font.Typeface = plotfont.Typeface(r.font)
		}
	}
	return p, nil
}

func (r *Renderer) addBars(p *plot.Plot, vals plotter.Values, c color.Color) error {
	bars, err := plotter.NewBarChart(vals, vg.Points(14))
	if err != nil {
		return fmt.Errorf("bar chart: %w", err)
	}
	bars.Color = c
	bars.LineStyle.Width = 0
	p.Add(bars)
	return nil
}

// encode rasterizes one row of aligned plots into a single PNG at the
// renderer's size and DPI.
func (r *Renderer) encode(plots [][]*plot.Plot) ([]byte, error) {
	img := vgimg.NewWith(
		vgimg.UseWH(r.style.Width, r.style.Height),
		vgimg.UseDPI(r.style.DPI),
	)
	dc := vgdraw.New(img)
	tiles := vgdraw.Tiles{
		Rows: len(plots),
		Cols: len(plots[0]),
		PadX: vg.Millimeter * 4,
		PadY: vg.Millimeter * 4,
	}
	canvases := plot.Align(plots, tiles, dc)
	for i, row := range plots {
		for j, p := range row {
			if p != nil {
				p.Draw(canvases[i][j])
			}
		}
	}
	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// hourGrid adapts per-building hourly means to the heatmap grid interface.
type hourGrid struct {
	buildings []string
	means     map[string][24]float64
}

func (g *hourGrid) Dims() (int, int)   { return 24, len(g.buildings) }
func (g *hourGrid) X(c int) float64    { return float64(c) }
func (g *hourGrid) Y(r int) float64    { return float64(r) }
func (g *hourGrid) Z(c, r int) float64 { return g.means[g.buildings[r]][c] }

// wedge is a pie slice. gonum/plot ships no pie plotter, so the slice draws
// itself with an arc path and doubles as its own legend thumbnail.
type wedge struct {
	start, angle float64
	color        color.Color
}

func (w *wedge) Plot(c vgdraw.Canvas, plt *plot.Plot) {
	center := vg.Point{
		X: (c.Min.X + c.Max.X) / 2,
		Y: (c.Min.Y + c.Max.Y) / 2,
	}
	radius := c.Max.X - c.Min.X
	if dy := c.Max.Y - c.Min.Y; dy < radius {
		radius = dy
	}
	radius *= 0.4
	var pa vg.Path
	pa.Move(center)
	pa.Arc(center, radius, w.start, w.angle)
	pa.Close()
	c.SetColor(w.color)
	c.Fill(pa)
}

func (w *wedge) Thumbnail(c *vgdraw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(w.color, pts)
}

func translucent(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 0x55}
}
