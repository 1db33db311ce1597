package api

import (
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/hazyhaar/revue/report"
)

func (s *Server) handleReports(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"reports": s.tracker.AllReports(),
		"options": s.tracker.Options(),
		"paused":  s.tracker.Paused(),
	})
}

func (s *Server) handlePause(w http.ResponseWriter, _ *http.Request) {
	s.tracker.Stop()
	writeJSON(w, map[string]bool{"paused": true})
}

func (s *Server) handleResume(w http.ResponseWriter, _ *http.Request) {
	s.tracker.Start()
	writeJSON(w, map[string]bool{"paused": false})
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 32*1024)

	var patch report.OptionsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		jsonErr(w, "invalid request body", http.StatusBadRequest)
		return
	}

	merged := s.tracker.UpdateOptions(patch)
	writeJSON(w, merged)
}

func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 4*1024)

	var req struct {
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		jsonErr(w, "width and height must be positive", http.StatusBadRequest)
		return
	}

	s.tracker.HighlightRect(req.X, req.Y, req.Width, req.Height)
	writeJSON(w, map[string]string{"status": "drawn"})
}

// reportView is the template-friendly projection of a stored report.
type reportView struct {
	Name        string
	UpdateCount int
	LastRender  string
}

var reportsHTMLTmpl = template.Must(template.New("reports").Parse(`<!DOCTYPE html>
<html lang="en"><head><meta charset="UTF-8"><meta name="viewport" content="width=device-width,initial-scale=1">
<title>revue — render reports</title>
<style>
body{font-family:system-ui,sans-serif;max-width:800px;margin:2rem auto;padding:0 1rem;color:#222;background:#fafafa}
h1{font-size:1.4rem;border-bottom:2px solid #e0e0e0;padding-bottom:.5rem}
table{width:100%;border-collapse:collapse;background:#fff;border:1px solid #e0e0e0;border-radius:6px}
th,td{text-align:left;padding:.5rem .75rem;border-bottom:1px solid #eee}
th{font-size:.8rem;text-transform:uppercase;color:#666}
.paused{color:#b00;font-weight:600}
.empty{color:#999;font-style:italic;padding:1rem}
</style></head><body>
<h1>revue — render reports{{if .Paused}} <span class="paused">(paused)</span>{{end}}</h1>
{{if .Reports}}<table>
<tr><th>Component</th><th>Updates</th><th>Last render</th></tr>
{{range .Reports}}<tr><td>{{.Name}}</td><td>{{.UpdateCount}}</td><td>{{.LastRender}}</td></tr>
{{end}}</table>
{{else}}<p class="empty">No renders observed yet.</p>{{end}}
</body></html>`))

func (s *Server) handleReportsHTML(w http.ResponseWriter, _ *http.Request) {
	reports := s.tracker.AllReports()
	views := make([]reportView, 0, len(reports))
	for _, r := range reports {
		views = append(views, reportView{
			Name:        r.Name,
			UpdateCount: r.Record.UpdateCount,
			LastRender:  time.UnixMilli(r.Record.Timestamp).Format("15:04:05.000"),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := reportsHTMLTmpl.Execute(w, map[string]any{
		"Reports": views,
		"Paused":  s.tracker.Paused(),
	}); err != nil {
		s.logger.Error("api: render reports page", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func jsonErr(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
