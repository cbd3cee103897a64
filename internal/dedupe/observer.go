package dedupe

// Observer receives progress from a scan. Implementations must be safe for
// concurrent use when Workers > 1.
type Observer interface {
	// OnDiscovered is called once with the number of video files found.
	OnDiscovered(total int)
	// OnFileDone is called after each file has been fingerprinted or failed.
	// Calls never overlap and done increases by one each time.
	OnFileDone(done, total int, path string, cached bool, err error)
	// OnCompare is called after each pair comparison.
	OnCompare(done, total int)
}

// NopObserver ignores all events.
type NopObserver struct{}

func (NopObserver) OnDiscovered(int) {}
func (NopObserver) OnFileDone(int, int, string, bool, error) {}
func (NopObserver) OnCompare(int, int) {}
