package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/cover-manual/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"orUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
	"yesno": func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Cover Manual</title>
<style>
body { font-family: monospace; max-width: 640px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.bad { color: red; font-weight: bold; }
.live-dot { display: inline-block; width: 8px; height: 8px; border-radius: 50%; margin-left: 6px; vertical-align: middle; }
.live-dot.ok { background: green; }
.live-dot.err { background: red; }
.live-dot.pending { background: orange; }
</style>
</head>
<body>
<h1>Cover Manual<span id="live-dot" class="live-dot pending" title="connecting"></span></h1>
<p>Session <code>{{.Session}}</code></p>

<h2>Modes</h2>
<table>
<tr><th>Control</th><td id="control">{{orUnknown (printf "%s" .Flags.Control)}}</td></tr>
<tr><th>Gyro</th><td id="gyro">{{yesno .Flags.Gyro}}</td></tr>
<tr><th>Speed</th><td id="speed">{{orUnknown (printf "%s" .Flags.SpeedMode)}}</td></tr>
<tr><th>Power limit</th><td id="power-limit">{{orUnknown (printf "%s" .Flags.PowerLimit)}}</td></tr>
<tr><th>Detection</th><td id="detection">{{orUnknown (printf "%s" .Flags.DetectionTarget)}}</td></tr>
<tr><th>Supply requested</th><td id="supply">{{yesno .Flags.SupplyRequested}}</td></tr>
<tr><th>Wireless follow</th><td id="wireless">{{yesno .Flags.WirelessFollowRequested}}</td></tr>
<tr><th>Cover closed</th><td id="cover-closed">{{yesno .Flags.CoverClosed}}</td></tr>
</table>

<h2>Referee</h2>
<table>
<tr><th>Cover open</th><td id="cover-open">{{yesno .Telemetry.CoverOpen}}</td></tr>
<tr><th>Detection target</th><td id="det-target">{{orUnknown (printf "%s" .Telemetry.DetTarget)}}</td></tr>
<tr><th>Wheels offline</th><td id="wheels-offline" class="{{if .Telemetry.WheelsOffline}}bad{{else}}off{{end}}">{{yesno .Telemetry.WheelsOffline}}</td></tr>
<tr><th>Chassis output</th><td class="{{if .ChassisPowered}}on{{else}}off{{end}}">{{if .ChassisPowered}}on{{else}}off{{end}}</td></tr>
<tr><th>Shooter output</th><td class="{{if .ShooterPowered}}on{{else}}off{{end}}">{{if .ShooterPowered}}on{{else}}off{{end}}</td></tr>
</table>

<h2>Wheels</h2>
<table id="wheels">
{{range .Wheels}}<tr><th>{{.Name}}</th><td class="{{if .Online}}on{{else}}bad{{end}}">{{if .Online}}online{{else}}offline{{end}}</td></tr>
{{else}}<tr><td>no readings</td></tr>
{{end}}</table>

<h2>System</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}on{{else}}bad{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Ticks</th><td id="ticks">{{.Ticks}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>Last error</th><td id="last-error">{{if .LastError}}{{.LastError}}{{else}}none{{end}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
<script>
(function() {
  var dot = document.getElementById("live-dot");
  function setDot(cls, title) {
    dot.className = "live-dot " + cls;
    dot.title = title;
  }
  function set(id, v) {
    var el = document.getElementById(id);
    if (el) el.textContent = v;
  }
  function yesno(b) { return b ? "yes" : "no"; }

  function connect() {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(proto + location.host + "/ws");
    ws.onopen = function() { setDot("ok", "live"); };
    ws.onclose = function() {
      setDot("err", "offline");
      setTimeout(connect, 5000);
    };
    ws.onmessage = function(ev) {
      try {
        var s = JSON.parse(ev.data).status;
        set("control", s.modes.control);
        set("gyro", yesno(s.modes.gyro));
        set("speed", s.modes.speed_mode);
        set("power-limit", s.modes.power_limit);
        set("detection", s.modes.detection_target);
        set("supply", yesno(s.modes.supply_requested));
        set("wireless", yesno(s.modes.wireless_follow));
        set("cover-closed", yesno(s.modes.cover_closed));
        set("cover-open", yesno(s.referee.cover_open));
        set("det-target", s.referee.det_target);
        set("wheels-offline", yesno(s.referee.wheels_offline));
        set("ticks", s.ticks);
        set("last-error", s.last_error ? s.last_error.message : "none");
      } catch (e) {}
    };
  }
  connect();
})();
</script>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
