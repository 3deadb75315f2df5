package hw

// OutputConfig configures where finished frames go. A nil FrameOutCh
// means headless operation: frames are counted and discarded.
type OutputConfig struct {
	FrameOutCh chan Frame
}

// Output decouples the emulation loop from the presentation layer: the
// machine pushes each finished frame, a goroutine forwards it to the
// configured channel (or discards it when headless).
type Output struct {
	framecounter int
	framech      chan Frame

	cfg OutputConfig
}

func NewOutput(cfg OutputConfig) *Output {
	o := &Output{
		cfg:     cfg,
		framech: make(chan Frame),
	}
	go o.render()
	return o
}

// PushFrame hands a finished frame to the presentation layer. The frame
// is copied, so the PPU is free to start overwriting its buffer.
func (o *Output) PushFrame(f *Frame) {
	o.framecounter++
	o.framech <- *f
}

// FrameCount returns the number of frames pushed so far.
func (o *Output) FrameCount() int {
	return o.framecounter
}

func (o *Output) render() {
	if o.cfg.FrameOutCh == nil {
		for range o.framech {
			// Headless, just discard all frames.
		}
		return
	}
	for frame := range o.framech {
		o.cfg.FrameOutCh <- frame
	}
}

func (o *Output) Close() {
	close(o.framech)
}
