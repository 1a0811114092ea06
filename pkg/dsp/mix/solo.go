package mix

// Solo holds the three independent solo switches of the channel matrix.
type Solo struct {
	Left   bool
	Center bool
	Right  bool
}

// Active reports whether any solo switch is on.
func (s Solo) Active() bool {
	return s.Left || s.Center || s.Right
}

// centerOnly reports whether the center solo is audible: it is suppressed
// whenever a side solo is also on.
func (s Solo) centerOnly() bool {
	return s.Center && !s.Left && !s.Right
}

// SoloSample routes one stereo pair through the solo matrix.
//
//	center = (l + r) * 0.5
//	outL   = l if Left, plus center if only Center is on
//	outR   = r if Right, plus center if only Center is on
//
// With no solo active the pair passes through unchanged.
func SoloSample(l, r float32, s Solo) (float32, float32) {
	if !s.Active() {
		return l, r
	}

	var outL, outR float32
	if s.Left {
		outL = l
	}
	if s.Right {
		outR = r
	}
	if s.centerOnly() {
		center := (l + r) * 0.5
		outL += center
		outR += center
	}
	return outL, outR
}

// ApplySolo routes stereo buffers through the solo matrix in place.
// It holds no state between samples and does not allocate.
func ApplySolo(left, right []float32, s Solo) {
	if !s.Active() {
		return
	}

	length := len(left)
	if len(right) < length {
		length = len(right)
	}

	for i := 0; i < length; i++ {
		left[i], right[i] = SoloSample(left[i], right[i], s)
	}
}
