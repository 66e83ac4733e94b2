package transport

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mark47B/campground-availability/app/domain/entity"
)

const icsProductID = "-//campground-availability//Availability//EN"

// GenerateICS writes one all-day event per available site night.
func GenerateICS(w http.ResponseWriter, campgroundID string, sites []entity.SiteAvailability) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=availability_%s.ics", campgroundID))
	writeICS(w, campgroundID, sites, time.Now().UTC())
}

func writeICS(w io.Writer, campgroundID string, sites []entity.SiteAvailability, stamp time.Time) {
	writeICSLine(w, "BEGIN:VCALENDAR")
	writeICSLine(w, "VERSION:2.0")
	writeICSLine(w, "PRODID:"+icsProductID)
	writeICSLine(w, "X-WR-CALNAME:"+icsEscape(fmt.Sprintf("Campground %s availability", campgroundID)))
	writeICSLine(w, "CALSCALE:GREGORIAN")

	for _, site := range sites {
		for _, d := range site.Dates {
			writeICSLine(w, "BEGIN:VEVENT")
			writeICSLine(w, "UID:"+icsEscape(fmt.Sprintf("%s-%s-%s@campground-availability", campgroundID, site.Site, d.Format("20060102"))))
			writeICSLine(w, "DTSTAMP:"+stamp.Format("20060102T150405Z"))
			writeICSLine(w, "DTSTART;VALUE=DATE:"+d.Format("20060102"))
			writeICSLine(w, "DTEND;VALUE=DATE:"+d.AddDate(0, 0, 1).Format("20060102"))
			writeICSLine(w, "SUMMARY:"+icsEscape(fmt.Sprintf("Site %s available", site.Site)))
			writeICSLine(w, "LOCATION:"+icsEscape("Campground "+campgroundID))
			writeICSLine(w, "END:VEVENT")
		}
	}

	writeICSLine(w, "END:VCALENDAR")
}

var icsReplacer = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\n`,
)

// icsEscape escapes a TEXT value per RFC 5545 section 3.3.11.
func icsEscape(s string) string {
	return icsReplacer.Replace(s)
}

const icsMaxLineOctets = 75

// writeICSLine writes one content line, folded at 75 octets without
// splitting a UTF-8 sequence.
func writeICSLine(w io.Writer, line string) {
	limit := icsMaxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		fmt.Fprint(w, line[:cut], "\r\n ")
		line = line[cut:]
		// continuation lines start with a space, which counts toward the limit
		limit = icsMaxLineOctets - 1
	}
	fmt.Fprint(w, line, "\r\n")
}

// GenerateCSV writes a site,date row per available night.
func GenerateCSV(w http.ResponseWriter, campgroundID string, sites []entity.SiteAvailability) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=availability_%s.csv", campgroundID))
	if err := writeCSV(w, sites); err != nil {
		log.Printf("[HTTP] error writing csv: %v", err)
	}
}

func writeCSV(w io.Writer, sites []entity.SiteAvailability) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"site", "date"}); err != nil {
		return err
	}
	for _, site := range sites {
		for _, d := range site.Dates {
			if err := cw.Write([]string{site.Site, d.Format(dateLayout)}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// GenerateJSON writes the full report DTO.
func GenerateJSON(w http.ResponseWriter, report ReportDTO) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=availability_%s.json", report.CampgroundID))
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Printf("[HTTP] error encoding json: %v", err)
	}
}
