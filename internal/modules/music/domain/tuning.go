package domain

import "sync"

// Quality presets for the output encode.
const (
	QualityLow    = "low"
	QualityMedium = "medium"
	QualityHigh   = "high"
)

// Buffer size presets for stream extraction.
const (
	BufferSmall  = "small"
	BufferMedium = "medium"
	BufferLarge  = "large"
)

// QualityPreset maps a named quality level to encode parameters.
type QualityPreset struct {
	Name       string
	Bitrate    string
	SampleRate int
}

var qualityPresets = map[string]QualityPreset{
	QualityLow:    {Name: QualityLow, Bitrate: "64k", SampleRate: 22050},
	QualityMedium: {Name: QualityMedium, Bitrate: "128k", SampleRate: 44100},
	QualityHigh:   {Name: QualityHigh, Bitrate: "192k", SampleRate: 48000},
}

var bufferSizes = map[string]string{
	BufferSmall:  "8K",
	BufferMedium: "16K",
	BufferLarge:  "32K",
}

// LookupQualityPreset returns the preset for a quality name.
func LookupQualityPreset(name string) (QualityPreset, bool) {
	p, ok := qualityPresets[name]
	return p, ok
}

// LookupBufferSize returns the byte-size string for a buffer preset name.
func LookupBufferSize(name string) (string, bool) {
	s, ok := bufferSizes[name]
	return s, ok
}

// ExtractionOptions is the runtime-mutable tuning bag for resolution and
// streaming: load retries, buffer sizing and the provider-native search
// source used when the keyed search API finds nothing. Tuning commands
// mutate it while resolver calls read it, hence the lock.
type ExtractionOptions struct {
	mu             sync.Mutex
	retries        int
	bufferSize     string
	quality        QualityPreset
	fallbackSource string // search prefix, e.g. "ytsearch"
}

// DefaultExtractionOptions returns the options the bot starts with.
func DefaultExtractionOptions() *ExtractionOptions {
	return &ExtractionOptions{
		retries:        2,
		bufferSize:     bufferSizes[BufferMedium],
		quality:        qualityPresets[QualityMedium],
		fallbackSource: "ytsearch",
	}
}

// Retries returns how many times a failed track load is retried.
func (o *ExtractionOptions) Retries() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.retries
}

// SetRetries updates the load retry count. Negative values are treated as 0.
func (o *ExtractionOptions) SetRetries(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.retries = max(n, 0)
}

// BufferSize returns the current extraction buffer size hint.
func (o *ExtractionOptions) BufferSize() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.bufferSize
}

// SetBufferSize stores a buffer size hint.
func (o *ExtractionOptions) SetBufferSize(size string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.bufferSize = size
}

// Quality returns the active quality preset.
func (o *ExtractionOptions) Quality() QualityPreset {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.quality
}

// SetQuality stores a quality preset.
func (o *ExtractionOptions) SetQuality(p QualityPreset) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.quality = p
}

// FallbackSource returns the provider-native search prefix used when the
// keyed search API yields no match.
func (o *ExtractionOptions) FallbackSource() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.fallbackSource
}

// SetFallbackSource updates the fallback search prefix.
func (o *ExtractionOptions) SetFallbackSource(source string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fallbackSource = source
}

// Reset restores the defaults, used by the optimize command.
func (o *ExtractionOptions) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.retries = 2
	o.bufferSize = bufferSizes[BufferMedium]
	o.quality = qualityPresets[QualityMedium]
	o.fallbackSource = "ytsearch"
}
