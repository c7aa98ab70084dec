package converter

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/drummonds/imgconv/formats"
)

// Pipeline serializes the actions of one user: selecting a file, editing options
// and converting. Selecting a new file cancels whatever the previous file still
// had in flight, and a conversion that finishes after its source was replaced is
// dropped instead of delivered.
type Pipeline struct {
	mu        sync.Mutex
	convertMu sync.Mutex
	session   Session
	genCtx    context.Context
	genCancel context.CancelFunc
	lastUsed  time.Time

	// afterDecode and afterEncode run once the stage's work is done; tests use them
	// to race another action against it
	afterDecode func()
	afterEncode func()
}

// NewPipeline creates a pipeline with an idle session
func NewPipeline(opts formats.Options) *Pipeline {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pipeline{
		session:   NewSession(opts),
		genCtx:    ctx,
		genCancel: cancel,
		lastUsed:  time.Now(),
	}
}

// Session returns a snapshot of the current session
func (p *Pipeline) Session() Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session
}

// LastUsed is the time of the last action on the pipeline
func (p *Pipeline) LastUsed() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastUsed
}

// Select replaces the source with a new file and decodes it. The returned session is
// Ready on success; on a decode failure it is Idle with no dimensions. A file refused
// by the allow-list is not a selection and leaves the current source in place.
func (p *Pipeline) Select(ctx context.Context, name, mime string, data []byte) (Session, error) {
	asset, _, err := Acquire(name, mime, data)
	if err != nil {
		p.mu.Lock()
		p.session = p.session.Reject(err)
		p.lastUsed = time.Now()
		s := p.session
		p.mu.Unlock()
		return s, err
	}

	p.mu.Lock()
	p.genCancel()
	p.genCtx, p.genCancel = context.WithCancel(context.Background())
	p.session = p.session.WithSource(asset)
	p.lastUsed = time.Now()
	gen, id := p.session.Generation, p.session.ID
	decodeCtx, stop := p.linkedContext(ctx)
	p.mu.Unlock()
	defer stop()

	Logger.Info("Source selected", "session", id, "name", name, "bytes", len(data), "generation", gen)
	decoded, err := Decode(decodeCtx, asset)
	if p.afterDecode != nil {
		p.afterDecode()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session.Generation != gen {
		return p.session, ErrStaleSession
	}
	if err != nil {
		p.session = p.session.Fail(err)
		return p.session, err
	}
	p.session = p.session.WithDecoded(decoded)
	return p.session, nil
}

// SetScale applies raw scale control input, clamping it
func (p *Pipeline) SetScale(raw string) Session {
	return p.SetScaleValue(formats.ParseScale(raw))
}

// SetScaleValue applies a numeric scale, clamping it
func (p *Pipeline) SetScaleValue(scale float64) Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.session = p.session.WithScale(scale)
	p.lastUsed = time.Now()
	return p.session
}

// SetTarget records the chosen output format. A format that cannot be encoded is
// still recorded but reported immediately.
func (p *Pipeline) SetTarget(name string) (Session, error) {
	target := formats.ParseFormat(name)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.session = p.session.WithTarget(target)
	p.lastUsed = time.Now()
	if !target.CanEncode() {
		return p.session, UnsupportedTarget(target)
	}
	return p.session, nil
}

// Convert rasterizes, encodes and delivers the current source to sink. Only one
// conversion runs at a time; a second call waits for the first.
func (p *Pipeline) Convert(ctx context.Context, sink Sink) (*OutputAsset, error) {
	p.convertMu.Lock()
	defer p.convertMu.Unlock()

	p.mu.Lock()
	snapshot := p.session
	p.lastUsed = time.Now()
	if !snapshot.Options.Target.CanEncode() {
		err := UnsupportedTarget(snapshot.Options.Target)
		p.session = p.session.Fail(err)
		p.mu.Unlock()
		return nil, err
	}
	if !snapshot.CanConvert() {
		p.mu.Unlock()
		return nil, newError(StageTransform, ErrNoSource, nil)
	}
	p.session = p.session.WithState(Transforming)
	gen := snapshot.Generation
	convCtx, stop := p.linkedContext(ctx)
	p.mu.Unlock()
	defer stop()

	surface, err := Rasterize(convCtx, snapshot.Decoded, snapshot.Options)
	if err != nil {
		return nil, p.finishFailed(gen, err)
	}

	if !p.advance(gen, Encoding) {
		return nil, ErrStaleSession
	}
	data, err := Encode(convCtx, surface, snapshot.Options.Target)
	if err != nil {
		return nil, p.finishFailed(gen, err)
	}
	out := &OutputAsset{
		Name: formats.DeriveFileName(snapshot.Source.Name, snapshot.Options.Target),
		MIME: snapshot.Options.Target.MIME(),
		Data: data,
	}
	if p.afterEncode != nil {
		p.afterEncode()
	}

	// Holding the lock while delivering keeps a new selection from slipping in
	// between the staleness check and the hand-off.
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session.Generation != gen {
		return nil, ErrStaleSession
	}
	if sink != nil {
		if err := sink.Deliver(convCtx, out); err != nil {
			wrapped := newError(StageDeliver, ErrEncodeFailure, err)
			p.session = p.session.Fail(wrapped)
			return nil, wrapped
		}
	}
	p.session = p.session.WithState(Delivered)
	Logger.Info("Delivered conversion", "session", p.session.ID, "output", out.Name, "bytes", len(out.Data))
	return out, nil
}

// Reset drops the source and cancels in-flight work
func (p *Pipeline) Reset() Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.genCancel()
	p.genCtx, p.genCancel = context.WithCancel(context.Background())
	opts := p.session.Options
	id := p.session.ID
	gen := p.session.Generation + 1
	p.session = Session{ID: id, Generation: gen, Options: opts, State: Idle}
	return p.session
}

// Close cancels in-flight work; the pipeline must not be used afterwards
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.genCancel()
}

// linkedContext derives a context cancelled by either ctx or the next Select.
// Callers must hold p.mu.
func (p *Pipeline) linkedContext(ctx context.Context) (context.Context, func()) {
	linked, cancel := context.WithCancel(ctx)
	stopAfter := context.AfterFunc(p.genCtx, cancel)
	return linked, func() {
		stopAfter()
		cancel()
	}
}

func (p *Pipeline) advance(gen uint64, state State) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session.Generation != gen {
		return false
	}
	p.session = p.session.WithState(state)
	return true
}

func (p *Pipeline) finishFailed(gen uint64, err error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session.Generation != gen {
		return ErrStaleSession
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		p.session = p.session.WithState(Ready)
		return err
	}
	p.session = p.session.Fail(err)
	return err
}
