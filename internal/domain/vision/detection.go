package vision

import "time"

// Detection is one detected object in pixel coordinates of the source frame.
type Detection struct {
	X1         float32 `json:"x1"`
	Y1         float32 `json:"y1"`
	X2         float32 `json:"x2"`
	Y2         float32 `json:"y2"`
	Confidence float32 `json:"confidence"`
	ClassID    int32   `json:"class_id"`
	Label      string  `json:"label"`
}

// InferenceResult is the model output for a single frame of a batch.
type InferenceResult struct {
	Channel    int64       `json:"channel"`
	Sequence   uint64      `json:"sequence"`
	Detections []Detection `json:"detections"`

	// InferenceTime is the wall time of the batch call that produced this
	// result, attributed to every frame of the batch.
	InferenceTime time.Duration `json:"-"`
	CompletedAt   time.Time     `json:"-"`
}

// InferenceMS returns the batch inference time in milliseconds.
func (r InferenceResult) InferenceMS() float64 {
	return float64(r.InferenceTime) / float64(time.Millisecond)
}

// CountByLabel aggregates the result's detections into per-label counts.
// Never nil, so the result marshals as an object rather than JSON null.
func (r InferenceResult) CountByLabel() map[string]int {
	counts := make(map[string]int, len(r.Detections))
	for _, d := range r.Detections {
		counts[d.Label]++
	}
	return counts
}
