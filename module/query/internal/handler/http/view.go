package http

import (
	"time"

	"github.com/TheFoister/kgm-checker/module/query/domain"
)

const queriedAtLayout = "02.01.2006 15:04:05"

// Turkey has stayed on UTC+3 all year since 2016.
var turkeyTime = time.FixedZone("TRT", 3*60*60)

type debtRow struct {
	Label   string
	Amount  string
	HasDebt bool
}

type summaryView struct {
	Plate      string
	QueriedAt  string
	GrandTotal string
	Rows       []debtRow
	PayableKGM string
	PayableYID string
	NoDebt     bool
}

type pageView struct {
	Plate    string
	Resolved bool
	Summary  *summaryView
	Error    string
	Script   scriptConfig
}

// scriptConfig is handed to the page script so both render paths share wording.
type scriptConfig struct {
	ZeroAmount      string `json:"zeroAmount"`
	MsgConnection   string `json:"msgConnection"`
	MsgDefaultError string `json:"msgDefaultError"`
	MsgNoDebt       string `json:"msgNoDebt"`
}

var defaultScriptConfig = scriptConfig{
	ZeroAmount:      domain.ZeroAmount,
	MsgConnection:   domain.MsgConnection,
	MsgDefaultError: domain.MsgDefaultError,
	MsgNoDebt:       domain.MsgNoDebt,
}

func idleView() pageView {
	return pageView{Script: defaultScriptConfig}
}

func failureView(plate, msg string) pageView {
	if msg == "" {
		msg = domain.MsgDefaultError
	}
	return pageView{
		Plate:    plate,
		Resolved: true,
		Error:    msg,
		Script:   defaultScriptConfig,
	}
}

func resultView(plate string, res domain.Result) pageView {
	switch r := res.(type) {
	case domain.Success:
		return pageView{
			Plate:    plate,
			Resolved: true,
			Summary:  newSummaryView(r.Data),
			Script:   defaultScriptConfig,
		}
	case domain.Failure:
		return failureView(plate, r.Message)
	default:
		return failureView(plate, "")
	}
}

func newSummaryView(d domain.DebtSummary) *summaryView {
	o := d.Overview
	return &summaryView{
		Plate:      d.Plate,
		QueriedAt:  formatQueriedAt(d.QueriedAt),
		GrandTotal: o.GrandTotal,
		Rows: []debtRow{
			newDebtRow("KGM Borç", o.KGMDebt),
			newDebtRow("Avrasya Borç", o.EurasiaDebt),
			newDebtRow("Otoyol Borç", o.MotorwayDebt),
			newDebtRow("İCA Borç", o.ICADebt),
			newDebtRow("Çanakkale Borç", o.CanakkaleDebt),
			newDebtRow("ERG Borç", o.ERGDebt),
		},
		PayableKGM: o.PayableKGM,
		PayableYID: o.PayableYID,
		NoDebt:     d.HasNoDebt(),
	}
}

func newDebtRow(label, amount string) debtRow {
	if amount == "" {
		amount = domain.ZeroAmount
	}
	return debtRow{Label: label, Amount: amount, HasDebt: amount != domain.ZeroAmount}
}

func formatQueriedAt(v string) string {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return v
	}
	return t.In(turkeyTime).Format(queriedAtLayout)
}
