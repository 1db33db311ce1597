package report

// Options is the process-wide tracker configuration snapshot. Components
// read the current snapshot at the moment they act; the one exception is
// the Reporter, which freezes a copy at construction and must be replaced
// wholesale to observe changes.
type Options struct {
	Enabled      bool `json:"enabled" yaml:"enabled"`
	Log          bool `json:"log" yaml:"log"`
	PlaySound    bool `json:"play_sound" yaml:"play_sound"`
	ShowOverlay  bool `json:"show_overlay" yaml:"show_overlay"`
	TrackUpdates bool `json:"track_updates" yaml:"track_updates"`
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Enabled:      true,
		Log:          true,
		PlaySound:    false,
		ShowOverlay:  false,
		TrackUpdates: true,
	}
}

// OptionsPatch is a partial configuration update. Nil fields are preserved
// from the current options; non-nil fields override, including with false.
type OptionsPatch struct {
	Enabled      *bool `json:"enabled,omitempty" yaml:"enabled"`
	Log          *bool `json:"log,omitempty" yaml:"log"`
	PlaySound    *bool `json:"play_sound,omitempty" yaml:"play_sound"`
	ShowOverlay  *bool `json:"show_overlay,omitempty" yaml:"show_overlay"`
	TrackUpdates *bool `json:"track_updates,omitempty" yaml:"track_updates"`
}

// Merge applies the patch field-wise over o and returns the result.
func (o Options) Merge(p OptionsPatch) Options {
	if p.Enabled != nil {
		o.Enabled = *p.Enabled
	}
	if p.Log != nil {
		o.Log = *p.Log
	}
	if p.PlaySound != nil {
		o.PlaySound = *p.PlaySound
	}
	if p.ShowOverlay != nil {
		o.ShowOverlay = *p.ShowOverlay
	}
	if p.TrackUpdates != nil {
		o.TrackUpdates = *p.TrackUpdates
	}
	return o
}
