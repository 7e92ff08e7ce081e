// Command seed populates the catalog with a demo data set: two
// venues with halls and seat grids, a handful of movies, and upcoming
// shows.  It is a development tool; running it twice creates
// duplicate catalog entries.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/config"
	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/database"
	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/model"
	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/repository"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	venues := repository.NewVenueRepo(db)
	halls := repository.NewHallRepo(db)
	seats := repository.NewSeatRepo(db)
	movies := repository.NewMovieRepo(db)
	shows := repository.NewShowRepo(db)

	venueSpecs := []model.Venue{
		{Name: "PVR Phoenix Mall", Address: "462 Senapati Bapat Road", City: "Pune"},
		{Name: "Galaxy Multiplex", Address: "12 MG Road", City: "Bengaluru"},
	}
	hallSpecs := []model.Hall{
		{Name: "Screen 1", HallType: model.HallTypeRegular, TotalRows: 10, SeatsPerRow: 15},
		{Name: "IMAX Hall", HallType: model.HallTypeIMAX, TotalRows: 12, SeatsPerRow: 20},
	}

	var createdHalls []model.Hall
	for i := range venueSpecs {
		if err := venues.Create(ctx, &venueSpecs[i]); err != nil {
			log.Fatalf("create venue %q: %v", venueSpecs[i].Name, err)
		}
		for _, hs := range hallSpecs {
			h := hs
			h.VenueID = venueSpecs[i].ID
			if err := halls.Create(ctx, &h); err != nil {
				log.Fatalf("create hall %q: %v", h.Name, err)
			}
			if err := seats.CreateBulk(ctx, seatGrid(&h)); err != nil {
				log.Fatalf("create seats for hall %q: %v", h.Name, err)
			}
			createdHalls = append(createdHalls, h)
		}
	}

	movieSpecs := []model.Movie{
		{Title: "Interstellar", Description: "A voyage beyond the stars.", DurationMinutes: 169, Genre: "Sci-Fi", Rating: model.RatingParental, ReleaseDate: time.Date(2014, 11, 7, 0, 0, 0, 0, time.UTC), IsActive: true},
		{Title: "The Grand Heist", Description: "A caper in three acts.", DurationMinutes: 128, Genre: "Thriller", Rating: model.RatingParental, ReleaseDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), IsActive: true},
		{Title: "Monsoon Song", Description: "A musical about first rain.", DurationMinutes: 142, Genre: "Drama", Rating: model.RatingUniversal, ReleaseDate: time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC), IsActive: true},
	}
	for i := range movieSpecs {
		if err := movies.Create(ctx, &movieSpecs[i]); err != nil {
			log.Fatalf("create movie %q: %v", movieSpecs[i].Title, err)
		}
	}

	// One show per hall per movie, staggered across the coming days.
	base := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	count := 0
	for hi, h := range createdHalls {
		for mi, m := range movieSpecs {
			s := model.Show{
				MovieID:    m.ID,
				HallID:     h.ID,
				StartTime:  base.Add(time.Duration(hi*6+mi*2) * time.Hour),
				PriceCents: 35000,
				IsActive:   true,
			}
			if err := shows.Create(ctx, &s); err != nil {
				log.Fatalf("create show: %v", err)
			}
			count++
		}
	}

	log.Printf("seeded %d venues, %d halls, %d movies, %d shows",
		len(venueSpecs), len(createdHalls), len(movieSpecs), count)
}

// seatGrid builds the hall's seat set: rows labelled A.. with
// SeatsPerRow numbered seats each.  The last row is recliners in
// premium and IMAX halls.
func seatGrid(h *model.Hall) []model.Seat {
	out := make([]model.Seat, 0, h.TotalRows*h.SeatsPerRow)
	for r := uint32(0); r < h.TotalRows; r++ {
		rowLabel := rowLabelFor(r)
		seatType := model.SeatTypeRegular
		if r == h.TotalRows-1 && h.HallType != model.HallTypeRegular {
			seatType = model.SeatTypeRecliner
		}
		for n := uint32(1); n <= h.SeatsPerRow; n++ {
			out = append(out, model.Seat{
				HallID:     h.ID,
				RowLabel:   rowLabel,
				SeatNumber: n,
				SeatType:   seatType,
				IsActive:   true,
			})
		}
	}
	return out
}

// rowLabelFor converts a zero-based row index to its letter label:
// A..Z, then AA, AB, and so on.
func rowLabelFor(idx uint32) string {
	if idx < 26 {
		return string(rune('A' + idx))
	}
	return fmt.Sprintf("%c%c", 'A'+idx/26-1, 'A'+idx%26)
}
