package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/mark47B/campground-availability/app/infrastructure/transport"
)

func main() {
	addr := flag.String("addr", "localhost:1234", "availability server address")
	campground := flag.String("campground", "232487", "campground (facility) id")
	year := flag.Int("year", 2020, "year to query")
	months := flag.String("months", "7,8,9", "comma-separated months")
	campsites := flag.Bool("campsites", false, "also fetch campsite metadata")
	timeout := flag.Duration("timeout", 2*time.Minute, "request timeout")
	flag.Parse()

	monthList, err := parseMonths(*months)
	if err != nil {
		log.Fatalf("bad -months: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, err := grpc.NewClient(*addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	)
	if err != nil {
		log.Fatalf("did not connect: %v", err)
	}
	defer conn.Close()
	client := transport.NewAvailabilityClient(conn)

	report, err := client.QueryAvailability(ctx, transport.QueryRequestDTO{
		CampgroundID:     *campground,
		Year:             *year,
		Months:           monthList,
		IncludeCampsites: *campsites,
	})
	if err != nil {
		log.Fatalf("QueryAvailability failed: %v", err)
	}

	if report.Campground != nil {
		fmt.Printf("%s (%s)\n\n", report.Campground.Name, report.CampgroundID)
	}

	sites, err := report.SiteAvailabilities()
	if err != nil {
		log.Fatalf("bad response: %v", err)
	}
	if len(sites) == 0 {
		fmt.Println("No availability")
		return
	}

	for _, site := range sites {
		fmt.Printf("Site %s:\n", site.Site)
		for _, d := range site.Dates {
			fmt.Printf("  %s\n", d.Format("1/2/2006"))
		}
	}
	if *campsites {
		fmt.Printf("\nCampsite metadata fetched for %d of %d campsites\n", len(report.Campsites), report.CampsiteCount)
	}
}

func parseMonths(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
