// Command genpois generates a request fixture for the /v1/recommend
// endpoint from a built-in set of Lebanese POIs. Useful for smoke testing
// a running instance and for regenerating the test fixtures.
//
// Usage:
//
//	go run ./cmd/genpois \
//	  -out data/mock/recommend_request.json \
//	  -profile "I love Roman history and quiet coastal towns"
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

type poi struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Region      string  `json:"region"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	CheckIns    int     `json:"check_ins"`
}

type request struct {
	UserID              int64  `json:"user_id"`
	UserInterestProfile string `json:"user_interest_profile"`
	Candidates          []poi  `json:"candidates"`
}

// lebanonPOIs covers every region profile the simulation knows, so a
// generated fixture exercises the full friction range from coastal Clear
// to mountain Snow.
var lebanonPOIs = []poi{
	{1, "Byblos Citadel", "Ancient Phoenician port and castle.", "Historical", "Jbeil", 34.119, 35.646, 12},
	{2, "Batroun Old Souks", "Coastal town famous for lemonade and nightlife.", "Urban", "Batroun", 34.255, 35.658, 7},
	{3, "Cedars of God", "Ancient forest and UNESCO world heritage site.", "Nature", "Bcharre", 34.243, 36.048, 4},
	{4, "Qadisha Valley", "Sacred valley with ancient monasteries.", "Nature", "Bcharre", 34.248, 35.932, 2},
	{5, "Raouche Rocks", "Iconic rock formations in the sea.", "Nature", "Beirut", 33.891, 35.472, 25},
	{6, "Jeita Grotto", "Massive karst caves with underground river.", "Nature", "Keserwan", 33.944, 35.643, 18},
	{7, "National Museum", "The principal museum of archaeology.", "Historical", "Beirut", 33.878, 35.514, 9},
	{8, "Sidon Sea Castle", "Crusader castle built on a small island.", "Historical", "Saida", 33.567, 35.371, 5},
	{9, "Tyre Hippodrome", "Massive Roman ruins and beautiful beaches.", "Historical", "Tyr", 33.269, 35.209, 6},
	{10, "Baalbek Temples", "The most magnificent Roman ruins in the world.", "Historical", "Baalbek", 34.006, 36.204, 14},
	{11, "Chateau Ksara", "Lebanon's oldest winery and caves.", "Food", "Zahle", 33.827, 35.891, 3},
	{12, "Anjar Ruins", "Umayyad city ruins.", "Historical", "Anjar", 33.728, 35.933, 1},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the request fixture")
	profile := flag.String("profile", "I love ancient history, Roman ruins and archaeology", "user interest profile text")
	userID := flag.Int64("user-id", 42, "user id embedded in the request")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	req := request{
		UserID:              *userID,
		UserInterestProfile: *profile,
		Candidates:          lebanonPOIs,
	}

	if err := writeJSON(*out, req); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote %d candidates: %s", len(req.Candidates), *out)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
