package avconv

import (
	"context"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/slidegrab/logger"
)

// FindVideoStream returns the video stream with the largest picture,
// ignoring attached cover images, or nil if there is none.
func FindVideoStream(
	ctx context.Context,
	fmtCtx *astiav.FormatContext,
) *astiav.Stream {
	var (
		best     *astiav.Stream
		bestArea int
	)
	for _, stream := range fmtCtx.Streams() {
		params := stream.CodecParameters()
		if params.MediaType() != astiav.MediaTypeVideo {
			continue
		}
		if stream.DispositionFlags().Has(astiav.DispositionFlagAttachedPic) {
			logger.Debugf(ctx, "skipping the attached picture in stream #%d", stream.Index())
			continue
		}
		area := params.Width() * params.Height()
		if best == nil || area > bestArea {
			best, bestArea = stream, area
		}
	}
	return best
}
