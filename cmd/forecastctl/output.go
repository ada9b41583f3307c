package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	forecastentity "forecast_backend/internal/feature/forecast/domain/entity"
	forecastdto "forecast_backend/internal/feature/forecast/transport/http/dto"
	matchentity "forecast_backend/internal/feature/match/domain/entity"
	matchdto "forecast_backend/internal/feature/match/transport/http/dto"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func checkFormat(format string) error {
	if format != formatTable && format != formatJSON {
		return fmt.Errorf("unknown format %q (want table or json)", format)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderReports は予測レポートを表またはJSONで出力します。
func renderReports(w io.Writer, reports []forecastentity.Report, format string, decimals int32) error {
	if format == formatJSON {
		out := make([]forecastdto.ForecastResponse, 0, len(reports))
		for _, r := range reports {
			out = append(out, forecastdto.NewForecastResponse(r))
		}
		return writeJSON(w, out)
	}

	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(w)
		}
		price := func(v float64) string { return strconv.FormatFloat(v, 'f', int(decimals), 64) }

		fmt.Fprintf(w, "%s (%s) open=%s", r.Pair, r.Interval, price(r.OpenNow))
		if r.AsOf != "" {
			fmt.Fprintf(w, " as_of=%s", r.AsOf)
		}
		fmt.Fprintln(w)

		table := tablewriter.NewTable(w,
			tablewriter.WithHeader([]string{"Horizon", "Predicted Max", "Predicted Min", "Range"}),
		)
		for _, p := range r.Predictions {
			table.Append([]string{
				fmt.Sprintf("+%d", p.Horizon),
				price(p.PredictedMax),
				price(p.PredictedMin),
				price(p.PredictedMax - p.PredictedMin),
			})
		}
		if err := table.Render(); err != nil {
			return err
		}

		if len(r.Alerts) == 0 {
			fmt.Fprintln(w, "alerts: none")
			continue
		}
		for _, a := range r.Alerts {
			fmt.Fprintf(w, "alert [%s] %s\n", a.Kind, a.Message)
		}
	}
	return nil
}

// renderEstimate は試合結果の推定を出力します。
func renderEstimate(w io.Writer, est matchentity.Estimate, format string) error {
	if format == formatJSON {
		return writeJSON(w, matchdto.NewEstimateResponse(est))
	}

	pct := est.Probabilities.Percent()
	fmt.Fprintf(w, "%s: %s\n", est.League, est.Match)

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Outcome", "Probability"}),
	)
	table.Append([]string{matchentity.HomeWin.String(), fmt.Sprintf("%.1f%%", pct.HomeWin)})
	table.Append([]string{matchentity.Draw.String(), fmt.Sprintf("%.1f%%", pct.Draw)})
	table.Append([]string{matchentity.AwayWin.String(), fmt.Sprintf("%.1f%%", pct.AwayWin)})
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "recommendation: %s\n", est.Recommendation)
	return nil
}

// renderLeagues はリーグ一覧を出力します。
func renderLeagues(w io.Writer, leagues []matchentity.League) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Code", "Name", "Fixtures"}),
	)
	for _, l := range leagues {
		fixtures := "-"
		if len(l.Fixtures) > 0 {
			fixtures = strings.Join(l.Fixtures, ", ")
		}
		table.Append([]string{l.Code, l.Name, fixtures})
	}
	return table.Render()
}
