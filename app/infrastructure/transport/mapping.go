package transport

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mark47B/campground-availability/app/domain/entity"
)

const dateLayout = "2006-01-02"

type QueryRequestDTO struct {
	CampgroundID     string `json:"campground_id"`
	Year             int    `json:"year"`
	Months           []int  `json:"months"`
	IncludeCampsites bool   `json:"include_campsites,omitempty"`
}

type SiteDTO struct {
	Site  string   `json:"site"`
	Dates []string `json:"dates"`
}

type ReportDTO struct {
	QueryID       string                      `json:"query_id"`
	CampgroundID  string                      `json:"campground_id"`
	Year          int                         `json:"year"`
	Months        []int                       `json:"months"`
	Campground    *entity.Campground          `json:"campground,omitempty"`
	CampsiteCount int                         `json:"campsite_count"`
	Sites         []SiteDTO                   `json:"sites"`
	Campsites     map[string]*entity.Campsite `json:"campsites,omitempty"`
	FetchedAt     time.Time                   `json:"fetched_at"`
}

type IDRequestDTO struct {
	ID string `json:"id"`
}

func toAvailabilityQuery(dto QueryRequestDTO) entity.AvailabilityQuery {
	months := make([]time.Month, len(dto.Months))
	for i, m := range dto.Months {
		months[i] = time.Month(m)
	}
	return entity.AvailabilityQuery{
		CampgroundID:     dto.CampgroundID,
		Year:             dto.Year,
		Months:           months,
		IncludeCampsites: dto.IncludeCampsites,
	}
}

func toReportDTO(r *entity.AvailabilityReport) ReportDTO {
	months := make([]int, 0, len(r.Query.Months))
	for _, m := range r.Query.MonthSpecs() {
		months = append(months, int(m.Month))
	}

	sites := make([]SiteDTO, 0, len(r.Sites))
	for _, s := range r.Sites {
		dates := make([]string, len(s.Dates))
		for i, d := range s.Dates {
			dates[i] = d.Format(dateLayout)
		}
		sites = append(sites, SiteDTO{Site: s.Site, Dates: dates})
	}

	var campsiteCount int
	if r.Availability != nil {
		campsiteCount = len(r.Availability.Campsites)
	}

	return ReportDTO{
		QueryID:       r.QueryID,
		CampgroundID:  r.Query.CampgroundID,
		Year:          r.Query.Year,
		Months:        months,
		Campground:    r.Campground,
		CampsiteCount: campsiteCount,
		Sites:         sites,
		Campsites:     r.Campsites,
		FetchedAt:     r.FetchedAt,
	}
}

// SiteAvailabilities converts the wire view back into dates.
func (r *ReportDTO) SiteAvailabilities() ([]entity.SiteAvailability, error) {
	out := make([]entity.SiteAvailability, 0, len(r.Sites))
	for _, s := range r.Sites {
		dates := make([]time.Time, 0, len(s.Dates))
		for _, raw := range s.Dates {
			d, err := time.Parse(dateLayout, raw)
			if err != nil {
				return nil, fmt.Errorf("site %s: bad date %q: %w", s.Site, raw, err)
			}
			dates = append(dates, d)
		}
		out = append(out, entity.SiteAvailability{Site: s.Site, Dates: dates})
	}
	return out, nil
}

func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", v, err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("struct from %T: %w", v, err)
	}
	return out, nil
}

func fromStruct(s *structpb.Struct, v any) error {
	if s == nil {
		s = &structpb.Struct{}
	}
	data, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal struct: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	return nil
}
