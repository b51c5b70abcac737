package telemetry

import (
	"context"

	"github.com/petasbytes/uigen/internal/metrics"
)

// EmitRequestFeatures records size features of a user request. The text
// itself is never written.
func (e *Emitter) EmitRequestFeatures(ctx context.Context, request string) {
	if !e.Enabled() {
		return
	}
	callID, _ := CallIDFromContext(ctx)
	f := metrics.CountFeatures(request)
	e.Emit("request_features", map[string]any{
		"call_id":          callID,
		"features_version": "1",
		"request": map[string]any{
			"bytes":  f.Bytes,
			"runes":  f.Runes,
			"words":  f.Words,
			"lines":  f.Lines,
			"tokens": metrics.EstimateTokens(request),
		},
	})
}
