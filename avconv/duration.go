// duration.go converts libav timestamps into time.Duration.

// Package avconv provides conversion helpers between libav values and Go types.
package avconv

import (
	"time"

	"github.com/asticode/go-astiav"
)

// see https://ffmpeg.org/doxygen/trunk/group__lavu__time.html#ga2eaefe702f95f619ea6f2d08afa01be1
const avNoPTSValue = uint64(0x8000000000000000)

// Duration converts t expressed in timeBase units. Unset timestamps and
// invalid time bases yield 0.
func Duration(t int64, timeBase astiav.Rational) time.Duration {
	if uint64(t) == avNoPTSValue || t <= 0 || timeBase.Den() == 0 {
		return 0
	}
	return time.Duration(float64(t) * timeBase.Float64() * float64(time.Second))
}

// StreamDuration is the duration of the stream, falling back to the one of
// the whole container (AV_TIME_BASE units) when the stream does not know it.
func StreamDuration(
	fmtCtx *astiav.FormatContext,
	stream *astiav.Stream,
) time.Duration {
	if d := Duration(stream.Duration(), stream.TimeBase()); d > 0 {
		return d
	}
	return Duration(fmtCtx.Duration(), astiav.NewRational(1, astiav.TimeBase))
}
