// Package inject holds the JavaScript assets evaluated inside the
// instrumented page and the names shared between Go and JS.
package inject

import _ "embed"

// BindingName is the CDP Runtime binding the tracker script calls with
// batched lifecycle events (a JSON array per call).
const BindingName = "__revue_binding"

// TrackerJS installs the lifecycle instrumentation (Vue 3 devtools hook or
// Vue 2 mixin). Sets window.__revue_installed as the double-install marker.
//
//go:embed tracker.js
var TrackerJS string

// OverlayJS attaches the full-viewport canvas and exposes
// window.__revue_overlay.{render,wipe}.
//
//go:embed overlay.js
var OverlayJS string

// InstalledProbe evaluates to whether the instrumentation marker is already
// present on the page.
const InstalledProbe = `() => !!window.__revue_installed`
