package entity

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// StartDateLayout is the provider's start_date format for monthly availability.
const StartDateLayout = "2006-01-02T15:04:05.000Z"

type MonthSpec struct {
	Year  int
	Month time.Month
}

// StartDate is the first day of the month at midnight UTC.
func (m MonthSpec) StartDate() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (m MonthSpec) StartDateParam() string {
	return m.StartDate().Format(StartDateLayout)
}

func (m MonthSpec) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

type AvailabilityQuery struct {
	CampgroundID     string       `validate:"required"`
	Year             int          `validate:"min=1000,max=9999"`
	Months           []time.Month `validate:"required,min=1,dive,min=1,max=12"`
	IncludeCampsites bool
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (q AvailabilityQuery) Validate() error {
	if strings.TrimSpace(q.CampgroundID) == "" {
		return fmt.Errorf("%w: empty campground id", ErrInvalidQuery)
	}
	if err := validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s fails %s=%s (got %v)", ErrInvalidQuery, fe.Namespace(), fe.Tag(), fe.Param(), fe.Value())
		}
		return fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	return nil
}

// MonthSpecs returns one spec per distinct month, ascending.
func (q AvailabilityQuery) MonthSpecs() []MonthSpec {
	seen := make(map[time.Month]struct{}, len(q.Months))
	specs := make([]MonthSpec, 0, len(q.Months))
	for _, m := range q.Months {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		specs = append(specs, MonthSpec{Year: q.Year, Month: m})
	}
	sort.Slice(specs, func(i, j int) bool {
		return specs[i].Month < specs[j].Month
	})
	return specs
}
