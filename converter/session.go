package converter

import (
	"github.com/oklog/ulid/v2"

	"github.com/drummonds/imgconv/formats"
)

// State is where a session is in the conversion lifecycle
type State int

const (
	Idle State = iota
	Decoding
	Ready
	Transforming
	Encoding
	Delivered
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Decoding:
		return "decoding"
	case Ready:
		return "ready"
	case Transforming:
		return "transforming"
	case Encoding:
		return "encoding"
	case Delivered:
		return "delivered"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Session is the state of one conversion UI: the current source, its decoded
// form and the user's options. Methods return a modified copy.
type Session struct {
	ID         ulid.ULID
	Generation uint64
	Source     *SourceAsset
	Decoded    *Decoded
	Options    formats.Options
	State      State
	Err        error
}

// NewSession creates an idle session with the given default options
func NewSession(opts formats.Options) Session {
	opts.Scale = formats.ClampScale(opts.Scale)
	if opts.Target == "" {
		opts.Target = formats.PNG
	}
	return Session{ID: ulid.Make(), Options: opts, State: Idle}
}

// WithSource replaces the source wholesale and drops everything derived from the old one
func (s Session) WithSource(asset SourceAsset) Session {
	s.Generation++
	s.Source = &asset
	s.Decoded = nil
	s.State = Decoding
	s.Err = nil
	return s
}

// WithDecoded records the decode result and makes the session ready to convert
func (s Session) WithDecoded(d *Decoded) Session {
	s.Decoded = d
	s.State = Ready
	s.Err = nil
	return s
}

// WithScale applies an already parsed scale, clamped to the allowed range
func (s Session) WithScale(scale float64) Session {
	s.Options.Scale = formats.ClampScale(scale)
	return s
}

// WithTarget sets the target format; whether it can be encoded is checked at conversion
func (s Session) WithTarget(target formats.Format) Session {
	s.Options.Target = target
	return s
}

// WithState moves the session to another state
func (s Session) WithState(state State) Session {
	s.State = state
	return s
}

// Fail records err and returns to Ready when a decoded source remains, else Idle.
// A failed decode discards the source so no dimensions survive.
func (s Session) Fail(err error) Session {
	s.Err = err
	if s.State == Decoding {
		s.Source = nil
		s.Decoded = nil
	}
	if s.Decoded != nil {
		s.State = Ready
	} else {
		s.State = Idle
	}
	return s
}

// Reject records an error for a file that was never accepted as a source.
// Whatever the session holds or is decoding stays as it is.
func (s Session) Reject(err error) Session {
	s.Err = err
	return s
}

// CanConvert reports whether an OutputAsset can be produced from this session
func (s Session) CanConvert() bool {
	return s.Source != nil && s.Decoded != nil
}

// ScaledSize is the output size the current options would produce
func (s Session) ScaledSize() (int, int) {
	if s.Decoded == nil {
		return 0, 0
	}
	return s.Decoded.Dimensions.Scaled(s.Options.Scale)
}
