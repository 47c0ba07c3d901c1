package bridge

import (
	"time"

	"github.com/mrz1836/corecall/internal/ffi"
)

// Call performs one blocking request. The native side is invoked at most
// once. A failure of any origin is returned as *NativeCallError; a malformed
// native result is returned as *ffi.ContractViolation.
func Call[Req, Resp any](h *Handle, codec Codec[Req, Resp], req Req) (Resp, error) {
	var zero Resp
	op := opName(codec)

	if err := h.begin(); err != nil {
		return zero, err
	}
	defer h.end()

	b, err := codec.Marshal(req)
	if err != nil {
		nce := encodeError(err)
		h.metrics.RecordFailure(nce.Origin.String())
		return zero, nce
	}

	started := time.Now()
	h.metrics.CallStarted(false)

	out, err := ffi.Take(h.release, h.native.CallSync(h.id, b))
	if err != nil {
		h.reportViolation(err)
	}

	resp, err := settle(codec, out, err)
	h.finish(op, false, started, err)
	return resp, err
}
