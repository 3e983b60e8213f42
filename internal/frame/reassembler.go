package frame

// Reassembler holds the per-connection state needed to feed frames one at a
// time off the wire and recover the payload once a full sequence has
// arrived. Each transport connection (internal/transport) owns exactly one.
type Reassembler struct {
	pending []Frame
	total   byte
}

// Reset discards any partially-assembled sequence. Called whenever Feed
// detects a malformed sequence, so the next frame starts clean.
func (r *Reassembler) Reset() {
	r.pending = nil
	r.total = 0
}

// Feed appends f to the in-progress sequence. It returns the reassembled
// payload and done=true once f completes a sequence. A frame with Seq==1
// always starts a fresh sequence, discarding anything pending — this is the
// resync point after a prior failure, matching how the daemon and client
// recover from a desynced stream without tearing down the connection.
func (r *Reassembler) Feed(f Frame) (payload []byte, done bool, err error) {
	if f.Seq == 1 {
		r.pending = nil
		r.total = f.Total
	}

	expectedSeq := byte(len(r.pending) + 1)
	if f.Seq != expectedSeq {
		r.Reset()
		return nil, false, ErrOutOfOrder
	}
	if f.Total != r.total {
		r.Reset()
		return nil, false, ErrTotalMismatch
	}

	r.pending = append(r.pending, f)
	if byte(len(r.pending)) < r.total {
		return nil, false, nil
	}

	payload, err = Join(r.pending)
	r.Reset()
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}
