package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
)

// PageChime synthesises the render cue with WebAudio inside the
// instrumented page. Implements report.Chime.
//
// Browsers refuse to start an AudioContext before a user gesture; that
// surfaces as an Eval error which the Reporter swallows, so the cue is
// strictly best-effort.
type PageChime struct {
	page *rod.Page
}

// NewPageChime creates a chime bound to the page.
func NewPageChime(page *rod.Page) *PageChime {
	return &PageChime{page: page}
}

// Play synthesises a sine tone of the given frequency and duration, then
// releases the audio context.
func (c *PageChime) Play(ctx context.Context, freq float64, d time.Duration) error {
	_, err := c.page.Context(ctx).Eval(`(freq, ms) => {
		const AC = window.AudioContext || window.webkitAudioContext;
		if (!AC) {
			throw new Error('no audio subsystem');
		}
		const audio = new AC();
		const osc = audio.createOscillator();
		osc.type = 'sine';
		osc.frequency.value = freq;
		osc.connect(audio.destination);
		osc.start();
		setTimeout(() => {
			osc.stop();
			audio.close();
		}, ms);
	}`, freq, d.Milliseconds())
	if err != nil {
		return fmt.Errorf("browser: play tone: %w", err)
	}
	return nil
}
