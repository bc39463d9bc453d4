package server

import (
	"html/template"
	"net/http"
	"time"

	"stockfake/internal/market"
	"stockfake/internal/models"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>StockFake</title>
<style>
body { font-family: monospace; max-width: 960px; margin: 2em auto; }
table { border-collapse: collapse; width: 100%; margin-bottom: 2em; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: right; }
th:first-child, td:first-child { text-align: left; }
.down { color: #b00; }
.crash { background: #fee; }
</style>
</head>
<body>
<h1>StockFake</h1>
<p>Simulated time: <strong>{{.Now.Format "2006-01-02 15:04"}}</strong>
   &middot; Equity market: <strong>{{.EquityStatus}}</strong>
   {{if .CrashActive}}&middot; <span class="down">Crash active: {{.CrashEventID}}</span>{{end}}</p>

<h2>Stocks</h2>
<table>
<tr><th>Symbol</th><th>Name</th><th>Sector</th><th>Price</th></tr>
{{range .Quotes}}
<tr{{if .CrashAffected}} class="crash"{{end}}>
<td>{{.Symbol}}</td><td>{{.Name}}</td><td>{{.Sector}}</td><td>{{printf "%.2f" .Price}}</td>
</tr>
{{end}}
</table>

<h2>Crypto</h2>
<table>
<tr><th>Symbol</th><th>Name</th><th>Price</th></tr>
{{range .Crypto}}
<tr><td>{{.Symbol}}</td><td>{{.Name}}</td><td>{{printf "%.4f" .Price}}</td></tr>
{{end}}
</table>
</body>
</html>
`))

type indexData struct {
	Now          time.Time
	EquityStatus models.MarketStatus
	CrashActive  bool
	CrashEventID string
	Quotes       []models.Quote
	Crypto       []models.CryptoQuote
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	now := s.clock.Now()
	eventID, _, active := s.market.Crash().Active()

	data := indexData{
		Now:          now,
		EquityStatus: market.EquityStatusAt(now),
		CrashActive:  active,
		CrashEventID: eventID,
		Quotes:       s.market.AllQuotes(now),
		Crypto:       s.market.Crypto().AllPrices(now),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Error().Err(err).Msg("rendering index page")
	}
}
