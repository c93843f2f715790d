package handler

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// dateLayout is the wire format for plain calendar dates (no time-of-day,
// no zone) used throughout the ledger and budget surfaces.
const dateLayout = "2006-01-02"

func parseInt64Param(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func parseInt64FromString(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func parseIntFromString(s string) (int, error) {
	return strconv.Atoi(s)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func parseOptionalDateQuery(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	d, err := parseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
