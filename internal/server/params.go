package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/selivandex/finpulse/internal/apperrors"
	"github.com/selivandex/finpulse/internal/filter"
	"github.com/selivandex/finpulse/pkg/models"
)

const (
	defaultPageLimit = 50
	defaultTrendDays = 7
)

// parseFilterSpec reads the shared filter criteria from the query string.
// Dates must be ISO-8601; a bare date is accepted and treated as midnight UTC.
func parseFilterSpec(c *gin.Context) (filter.Spec, error) {
	spec := filter.Spec{
		Ticker:    c.Query("ticker"),
		Industry:  c.Query("industry"),
		Sector:    c.Query("sector"),
		Sentiment: c.Query("sentiment"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}

	if spec.Sentiment != "" && !models.ValidLabel(spec.Sentiment) {
		return filter.Spec{}, apperrors.Validation("invalid sentiment label: %q", spec.Sentiment)
	}

	if err := validateDate("start_date", spec.StartDate); err != nil {
		return filter.Spec{}, err
	}
	if err := validateDate("end_date", spec.EndDate); err != nil {
		return filter.Spec{}, err
	}

	return spec, nil
}

func validateDate(name, value string) error {
	if value == "" {
		return nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if _, err := time.Parse(layout, value); err == nil {
			return nil
		}
	}

	return apperrors.Validation("invalid %s: %q is not an ISO-8601 date", name, value)
}

// parsePagination reads limit/offset with bounds checking
func parsePagination(c *gin.Context, maxPageSize int) (limit, offset int, err error) {
	limit, err = parseIntParam(c, "limit", defaultPageLimit)
	if err != nil {
		return 0, 0, err
	}
	offset, err = parseIntParam(c, "offset", 0)
	if err != nil {
		return 0, 0, err
	}

	if limit <= 0 {
		return 0, 0, apperrors.Validation("limit must be positive")
	}
	if limit > maxPageSize {
		return 0, 0, apperrors.Validation("limit must not exceed %d", maxPageSize)
	}
	if offset < 0 {
		return 0, 0, apperrors.Validation("offset must not be negative")
	}

	return limit, offset, nil
}

// parseTrendParams reads the granularity and default window for trend queries
func parseTrendParams(c *gin.Context) (granularity string, days int, err error) {
	granularity = c.DefaultQuery("granularity", "day")
	if granularity != "day" && granularity != "week" {
		return "", 0, apperrors.Validation("granularity must be day or week, got %q", granularity)
	}

	days, err = parseIntParam(c, "days", defaultTrendDays)
	if err != nil {
		return "", 0, err
	}
	if days <= 0 {
		return "", 0, apperrors.Validation("days must be positive")
	}

	return granularity, days, nil
}

func parseIntParam(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.Validation("%s must be an integer, got %q", name, raw)
	}

	return v, nil
}
