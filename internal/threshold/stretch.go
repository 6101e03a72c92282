package threshold

import (
	"fmt"
	"sort"

	img "ring-tracer/internal/image"

	"gonum.org/v1/gonum/stat"
)

// Percentiles returns the requested percentiles (0-100) of the channel's
// samples using the empirical quantile function.
func Percentiles(ch *img.Channel, ps ...float64) []float64 {
	values := ch.Floats()
	sort.Float64s(values)

	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = stat.Quantile(p/100, stat.Empirical, values, nil)
	}
	return out
}

// Stretch linearly maps [low, high] onto the full range of the channel's
// depth, clipping samples outside the interval.
func Stretch(ch *img.Channel, low, high float64) (*img.Channel, error) {
	if err := ch.Validate(); err != nil {
		return nil, err
	}
	if high <= low {
		return nil, fmt.Errorf("%w: empty intensity range [%v, %v]", img.ErrDegenerateInput, low, high)
	}

	maxV := ch.Depth.MaxValue()
	scale := maxV / (high - low)
	out := img.NewChannel(ch.Width, ch.Height, ch.Depth)
	for i, v := range ch.Pix {
		f := (float64(v) - low) * scale
		switch {
		case f <= 0:
			out.Pix[i] = 0
		case f >= maxV:
			out.Pix[i] = uint16(maxV)
		default:
			out.Pix[i] = uint16(f + 0.5)
		}
	}
	return out, nil
}

// StretchPercentiles contrast-stretches the channel using two percentiles
// as black and white points, e.g. 2 and 98.
func StretchPercentiles(ch *img.Channel, lowPct, highPct float64) (*img.Channel, error) {
	if err := ch.Validate(); err != nil {
		return nil, err
	}
	p := Percentiles(ch, lowPct, highPct)
	return Stretch(ch, p[0], p[1])
}
