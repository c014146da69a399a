package memory

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/sieve/internal/db"
)

// Demo dataset: Norwegian street addresses, used for local runs and tests.
const (
	DemoIndex  = "locations"
	DemoPrefix = "loc:"
)

// DemoIndexDefinition describes the demo index.
func DemoIndexDefinition() *db.IndexDefinition {
	return db.NewIndex(DemoIndex).
		Prefix(DemoPrefix).
		Text("text").
		Text("address").
		Tag("city").
		Tag("zip_code").
		TextNoStem("autocomplete").
		Geo("coordinates").
		MustBuild()
}

type demoLocation struct {
	zip, address, city string
	lat, lon           float64
}

var demoLocations = []demoLocation{
	{"0289", "Andersenhagen 8", "Oslo", 59.9240, 10.7400},
	{"0289", "Gundersenholtet 68", "Oslo", 59.9250, 10.7350},
	{"0289", "Fredriksenskogen 12", "Oslo", 59.9500, 10.8000},
	{"0204", "Fredriksenskogen 04", "Oslo", 59.9200, 10.7420},
	{"0204", "Waldemar Thranes gate 1", "Oslo", 59.9280, 10.7450},
	{"0150", "Waldemar Thranes gate 20", "Oslo", 59.9300, 10.7600},
	{"0150", "Pilestredet 5", "Oslo", 59.9150, 10.7200},
	{"5003", "Bryggen 3", "Bergen", 60.3970, 5.3240},
	{"5003", "Markeveien 2", "Bergen", 60.3930, 5.3280},
	{"7010", "Kongens gate 9", "Trondheim", 63.4300, 10.3950},
	{"9008", "Storgata 1", "Tromso", 69.6490, 18.9560},
	{"0160", "Dronningens tverrgate 3", "Oslo", 59.9120, 10.7450},
}

// DemoDocuments returns the demo dataset as hash documents.
func DemoDocuments() []db.Document {
	docs := make([]db.Document, len(demoLocations))
	for i, l := range demoLocations {
		docs[i] = db.Document{
			Key: fmt.Sprintf("%s%02d", DemoPrefix, i+1),
			Fields: map[string]string{
				"text":         fmt.Sprintf("%s %s %s", l.address, l.zip, l.city),
				"address":      l.address,
				"city":         l.city,
				"zip_code":     l.zip,
				"autocomplete": l.address + " " + l.city,
				"coordinates":  fmt.Sprintf("%g,%g", l.lon, l.lat),
			},
		}
	}
	return docs
}

// SeedDemo creates the demo index (if missing) and loads the demo documents into s.
func SeedDemo(ctx context.Context, s db.Store) error {
	if err := s.CreateIndex(ctx, DemoIndexDefinition()); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create demo index: %w", err)
	}
	if err := s.PutDocuments(ctx, DemoDocuments()); err != nil {
		return fmt.Errorf("load demo documents: %w", err)
	}
	return nil
}
