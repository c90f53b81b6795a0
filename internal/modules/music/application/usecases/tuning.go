package usecases

import (
	"fmt"

	"github.com/yotsugi/groovebot/internal/modules/music/domain"
)

// TuningService applies runtime extraction tuning: quality presets, buffer
// sizing and the optimize reset. Changes take effect for the next track.
type TuningService struct {
	options *domain.ExtractionOptions
}

// NewTuningService creates a new TuningService.
func NewTuningService(options *domain.ExtractionOptions) *TuningService {
	return &TuningService{options: options}
}

// SetQuality applies a named quality preset and returns it.
func (t *TuningService) SetQuality(name string) (domain.QualityPreset, error) {
	preset, ok := domain.LookupQualityPreset(name)
	if !ok {
		return domain.QualityPreset{}, fmt.Errorf("%w: %q (use low, medium or high)", ErrUnknownPreset, name)
	}
	t.options.SetQuality(preset)
	return preset, nil
}

// SetBuffer applies a named buffer size preset and returns the byte size.
func (t *TuningService) SetBuffer(name string) (string, error) {
	size, ok := domain.LookupBufferSize(name)
	if !ok {
		return "", fmt.Errorf("%w: %q (use small, medium or large)", ErrUnknownPreset, name)
	}
	t.options.SetBufferSize(size)
	return size, nil
}

// Optimize restores all extraction tuning to the defaults.
func (t *TuningService) Optimize() {
	t.options.Reset()
}

// Settings is a read-only snapshot of the tuning state for /stats.
type Settings struct {
	Quality        domain.QualityPreset
	BufferSize     string
	Retries        int
	FallbackSource string
}

// Current returns the active tuning settings.
func (t *TuningService) Current() Settings {
	return Settings{
		Quality:        t.options.Quality(),
		BufferSize:     t.options.BufferSize(),
		Retries:        t.options.Retries(),
		FallbackSource: t.options.FallbackSource(),
	}
}
