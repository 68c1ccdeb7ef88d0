package reports

import (
	"fmt"
	"time"

	"github.com/mmdatafocus/farm_backend/models"
	"github.com/mmdatafocus/farm_backend/utils"
)

// DateRange is the optional inclusive [start, end] window over
// order_date. It is threaded explicitly into every report call; no
// process-wide filter state exists. An inverted range is legal and just
// matches nothing.
type DateRange struct {
	Start *models.DateString `json:"start" form:"from"`
	End   *models.DateString `json:"end" form:"to"`
}

// orderDateFilter is the one fragment through which the range reaches
// SQL. Reports splice it after "WHERE 1=1" or after a LEFT JOIN's ON
// condition (so customers with zero in-range orders still appear with
// empty aggregates). Every query over orders uses this same fragment, so
// all aggregates reflect the same notional time window.
const orderDateFilter = `
{{- if .hasFromDate }} AND o.order_date >= @fromDate{{- end }}
{{- if .hasToDate }} AND o.order_date <= @toDate{{- end }}`

func (r DateRange) templateData() map[string]interface{} {
	return map[string]interface{}{
		"hasFromDate": r.Start != nil,
		"hasToDate":   r.End != nil,
	}
}

func (r DateRange) bindParams(params map[string]interface{}) map[string]interface{} {
	if params == nil {
		params = map[string]interface{}{}
	}
	if r.Start != nil {
		params["fromDate"] = time.Time(*r.Start)
	}
	if r.End != nil {
		params["toDate"] = time.Time(*r.End)
	}
	return params
}

// rawArgs shapes bound params for db.Raw. An unbounded range yields an
// empty map, and passing that through would hand database/sql a
// positional map argument it cannot convert; no argument at all is the
// correct form when the rendered SQL has no placeholders.
func rawArgs(params map[string]interface{}) []interface{} {
	if len(params) == 0 {
		return nil
	}
	return []interface{}{params}
}

func (r DateRange) cacheKey() string {
	from, to := "-", "-"
	if r.Start != nil {
		from = time.Time(*r.Start).UTC().Format("20060102T150405")
	}
	if r.End != nil {
		to = time.Time(*r.End).UTC().Format("20060102T150405")
	}
	return from + ".." + to
}

// ParseDateRange builds a range from raw from/to strings (empty means
// unbounded on that side), widening bounds to day boundaries in the given
// timezone. Malformed input is a validation error; an inverted range is
// not.
func ParseDateRange(from, to, timezone string) (DateRange, error) {
	var r DateRange
	if from != "" {
		d, err := models.ParseDateString(from)
		if err != nil {
			return r, utils.ValidationError(fmt.Sprintf("invalid from date %q, expected YYYY-MM-DD", from))
		}
		if err := d.StartOfDayUTCTime(timezone); err != nil {
			return r, err
		}
		r.Start = d
	}
	if to != "" {
		d, err := models.ParseDateString(to)
		if err != nil {
			return r, utils.ValidationError(fmt.Sprintf("invalid to date %q, expected YYYY-MM-DD", to))
		}
		if err := d.EndOfDayUTCTime(timezone); err != nil {
			return r, err
		}
		r.End = d
	}
	return r, nil
}
